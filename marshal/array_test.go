package marshal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madeye/jbind/domain/errors"
	"github.com/madeye/jbind/domain/ports"
	"github.com/madeye/jbind/infrastructure/memruntime"
	"github.com/madeye/jbind/marshal"
)

func TestPrimitiveArrayRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	t.Run("int", func(t *testing.T) {
		for _, n := range []int{0, 1, 100} {
			in := make([]int32, n)
			want := make([]any, n)
			for i := range in {
				in[i] = int32(i - 50)
				want[i] = int32(i - 50)
			}

			slot, err := marshal.In(ctx, env, typ("[I"), in)
			require.NoError(t, err)

			got, err := marshal.Out(ctx, env, typ("[I"), slot)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("double", func(t *testing.T) {
		slot, err := marshal.In(ctx, env, typ("[D"), []float64{0.5, -1.25, 1e300})
		require.NoError(t, err)

		got, err := marshal.Out(ctx, env, typ("[D"), slot)
		require.NoError(t, err)
		assert.Equal(t, []any{0.5, -1.25, 1e300}, got)
	})

	t.Run("boolean", func(t *testing.T) {
		slot, err := marshal.In(ctx, env, typ("[Z"), []bool{true, false, true})
		require.NoError(t, err)

		got, err := marshal.Out(ctx, env, typ("[Z"), slot)
		require.NoError(t, err)
		assert.Equal(t, []any{true, false, true}, got)
	})

	t.Run("byte", func(t *testing.T) {
		slot, err := marshal.In(ctx, env, typ("[B"), []int8{-1, 0, 127})
		require.NoError(t, err)

		got, err := marshal.Out(ctx, env, typ("[B"), slot)
		require.NoError(t, err)
		assert.Equal(t, []any{int8(-1), int8(0), int8(127)}, got)
	})
}

func TestStringArrayRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()
	env.MustRegister(memruntime.NewClass("java/lang/String"))

	slot, err := marshal.In(ctx, env, typ("[Ljava/lang/String;"), []any{"a", nil, "c"})
	require.NoError(t, err)

	got, err := marshal.Out(ctx, env, typ("[Ljava/lang/String;"), slot)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", nil, "c"}, got)
}

func TestObjectArray_UnresolvableElementClass(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	_, err := marshal.In(ctx, env, typ("[Lorg/test/Widget;"), []any{nil})
	var re *errors.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "class", re.Kind)
	assert.Equal(t, "org/test/Widget", re.Class)
}

func TestObjectArray_ElementMismatch(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()
	env.MustRegister(memruntime.NewClass("org/test/Widget"))

	ref := ports.NewObject(&struct{}{})
	elems := []any{
		fakeBound{class: "org/test/Widget", ref: ref},
		fakeBound{class: "org/test/Gadget", ref: ref},
	}

	_, err := marshal.In(ctx, env, typ("[Lorg/test/Widget;"), elems)
	var tme *errors.TypeMismatchError
	require.ErrorAs(t, err, &tme)
}

func TestInArray_NotASequence(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	_, err := marshal.In(ctx, env, typ("[I"), 42)
	var tme *errors.TypeMismatchError
	require.ErrorAs(t, err, &tme)
}

func TestNullArray(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	slot, err := marshal.In(ctx, env, typ("[I"), nil)
	require.NoError(t, err)
	assert.True(t, slot.Ref.IsNil())

	got, err := marshal.Out(ctx, env, typ("[I"), ports.Value{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestArrayRelease_CopiedBuffers(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	slot, err := marshal.In(ctx, env, typ("[I"), []int32{1, 2, 3})
	require.NoError(t, err)

	_, err = marshal.Out(ctx, env, typ("[I"), slot)
	require.NoError(t, err)
	_, err = marshal.Out(ctx, env, typ("[I"), slot)
	require.NoError(t, err)

	st := env.Stats()
	assert.Equal(t, int64(2), st.ArrayFetches)
	assert.Equal(t, int64(2), st.ArrayReleases)
}

func TestArrayRelease_DirectViews(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New(memruntime.WithArrayViews())

	slot, err := marshal.In(ctx, env, typ("[I"), []int32{1, 2, 3})
	require.NoError(t, err)

	_, err = marshal.Out(ctx, env, typ("[I"), slot)
	require.NoError(t, err)

	// A direct view carries no release obligation.
	st := env.Stats()
	assert.Equal(t, int64(1), st.ArrayFetches)
	assert.Equal(t, int64(0), st.ArrayReleases)
}
