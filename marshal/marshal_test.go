package marshal_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/entities"
	"github.com/madeye/jbind/domain/errors"
	"github.com/madeye/jbind/domain/ports"
	"github.com/madeye/jbind/infrastructure/memruntime"
	"github.com/madeye/jbind/marshal"
)

func typ(s string) descriptor.Type {
	d, err := descriptor.Parse(s)
	if err != nil {
		panic(err)
	}
	return d.Return
}

type fakeBound struct {
	class string
	ref   ports.Object
}

func (f fakeBound) ClassName() string        { return f.class }
func (f fakeBound) ForeignRef() ports.Object { return f.ref }

func TestPrimitiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	tests := []struct {
		desc string
		in   any
		out  any
	}{
		{"Z", true, true},
		{"Z", false, false},
		{"B", int8(-128), int8(-128)},
		{"B", int8(127), int8(127)},
		{"S", int16(-32768), int16(-32768)},
		{"S", int16(32767), int16(32767)},
		{"I", int32(-2147483648), int32(-2147483648)},
		{"I", int32(2147483647), int32(2147483647)},
		{"J", int64(math.MinInt64), int64(math.MinInt64)},
		{"J", int64(math.MaxInt64), int64(math.MaxInt64)},
		{"F", float32(1.5), float32(1.5)},
		{"F", float32(math.Inf(-1)), float32(math.Inf(-1))},
		{"D", 2.625, 2.625},
		{"D", math.Inf(1), math.Inf(1)},
		{"C", "A", "A"},
		{"C", "é", "é"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			slot, err := marshal.In(ctx, env, typ(tt.desc), tt.in)
			require.NoError(t, err)

			got, err := marshal.Out(ctx, env, typ(tt.desc), slot)
			require.NoError(t, err)
			assert.Equal(t, tt.out, got)
		})
	}
}

func TestIn_IntWidening(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	// A dynamic host hands over plain ints; the descriptor decides the width.
	slot, err := marshal.In(ctx, env, typ("I"), 42)
	require.NoError(t, err)
	assert.Equal(t, int32(42), slot.Int32())

	slot, err = marshal.In(ctx, env, typ("J"), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), slot.Int64())

	slot, err = marshal.In(ctx, env, typ("D"), 42)
	require.NoError(t, err)
	assert.Equal(t, float64(42), slot.Float64())

	slot, err = marshal.In(ctx, env, typ("C"), 0x41)
	require.NoError(t, err)
	assert.Equal(t, uint16('A'), slot.Char())
}

func TestIn_ScalarMismatch(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	tests := []struct {
		name string
		desc string
		v    any
	}{
		{"bool from int", "Z", 1},
		{"int from bool", "I", true},
		{"int from string", "I", "42"},
		{"float from string", "D", "1.5"},
		{"char from multi-rune string", "C", "ab"},
		{"char from empty string", "C", ""},
		{"char out of range", "C", 0x10000},
		{"char from astral code point", "C", "😀"},
		{"char from high surrogate", "C", 0xD800},
		{"char from low surrogate", "C", 0xDFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := marshal.In(ctx, env, typ(tt.desc), tt.v)
			var tme *errors.TypeMismatchError
			require.ErrorAs(t, err, &tme)
		})
	}
}

func TestOut_SurrogateCharRejected(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	// A lone surrogate unit in a foreign char slot does not decode to host
	// text; it must surface as an error, never as U+FFFD.
	for _, c := range []uint16{0xD800, 0xDBFF, 0xDC00, 0xDFFF} {
		_, err := marshal.Out(ctx, env, typ("C"), ports.CharValue(c))
		var tme *errors.TypeMismatchError
		require.ErrorAs(t, err, &tme, "0x%04X", c)
	}

	// The boundary neighbors stay valid.
	got, err := marshal.Out(ctx, env, typ("C"), ports.CharValue(0xD7FF))
	require.NoError(t, err)
	assert.Equal(t, "퟿", got)

	got, err = marshal.Out(ctx, env, typ("C"), ports.CharValue(0xE000))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestStringRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	for _, s := range []string{"", "hello", "héllo wörld", "日本語"} {
		slot, err := marshal.In(ctx, env, typ("Ljava/lang/String;"), s)
		require.NoError(t, err)

		got, err := marshal.Out(ctx, env, typ("Ljava/lang/String;"), slot)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	// Every string read copies into a scratch buffer; each must be released.
	st := env.Stats()
	assert.Equal(t, st.StringReads, st.StringReleases)
	assert.Equal(t, int64(4), st.StringReads)
}

func TestIn_NullReference(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	slot, err := marshal.In(ctx, env, typ("Ljava/lang/String;"), nil)
	require.NoError(t, err)
	assert.True(t, slot.Ref.IsNil())

	slot, err = marshal.In(ctx, env, typ("Lorg/test/Widget;"), nil)
	require.NoError(t, err)
	assert.True(t, slot.Ref.IsNil())
}

func TestOut_NullReference(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	got, err := marshal.Out(ctx, env, typ("Ljava/lang/String;"), ports.Value{})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = marshal.Out(ctx, env, typ("Lorg/test/Widget;"), ports.Value{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIn_BoundObject(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	ref := ports.NewObject(&struct{}{})

	slot, err := marshal.In(ctx, env, typ("Lorg/test/Widget;"), fakeBound{class: "org/test/Widget", ref: ref})
	require.NoError(t, err)
	assert.Equal(t, ref, slot.Ref)

	_, err = marshal.In(ctx, env, typ("Lorg/test/Widget;"), fakeBound{class: "org/test/Gadget", ref: ref})
	var tme *errors.TypeMismatchError
	require.ErrorAs(t, err, &tme)
	assert.Equal(t, "org/test/Widget", tme.Want)
	assert.Equal(t, "org/test/Gadget", tme.Got)
}

func TestIn_OpaqueRefPassthrough(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	obj := ports.NewObject(&struct{}{})
	ref := entities.NewObjectRef(obj)

	// Opaque wrappers flow back in unchanged regardless of the class token.
	slot, err := marshal.In(ctx, env, typ("Lorg/test/Widget;"), ref)
	require.NoError(t, err)
	assert.Equal(t, obj, slot.Ref)
}

func TestOut_OpaqueObject(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	obj := ports.NewObject(&struct{}{})
	got, err := marshal.Out(ctx, env, typ("Lorg/test/Widget;"), ports.RefValue(obj))
	require.NoError(t, err)

	ref, ok := got.(*entities.ObjectRef)
	require.True(t, ok)
	assert.Equal(t, obj, ref.ForeignRef())
}

func TestIn_ObjectFromWrongHostType(t *testing.T) {
	ctx := context.Background()
	env := memruntime.New()

	_, err := marshal.In(ctx, env, typ("Lorg/test/Widget;"), 42)
	var tme *errors.TypeMismatchError
	require.ErrorAs(t, err, &tme)
}
