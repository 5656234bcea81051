package memruntime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/ports"
)

func TestRegister_Duplicate(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Register(NewClass("a/B")))
	require.Error(t, rt.Register(NewClass("a/B")))

	assert.Panics(t, func() { rt.MustRegister(NewClass("a/B")) })
}

func TestLookupMiss_IsNotAnError(t *testing.T) {
	ctx := context.Background()
	rt := New().MustRegister(NewClass("a/B"))

	cls, err := rt.FindClass(ctx, "a/Missing")
	require.NoError(t, err)
	assert.True(t, cls.IsNil())

	cls, err = rt.FindClass(ctx, "a/B")
	require.NoError(t, err)
	require.False(t, cls.IsNil())

	m, err := rt.GetMethod(ctx, cls, "missing", "()V", false)
	require.NoError(t, err)
	assert.True(t, m.IsNil())

	f, err := rt.GetField(ctx, cls, "missing", "I", false)
	require.NoError(t, err)
	assert.True(t, f.IsNil())
}

func TestMemberLookup_IsExact(t *testing.T) {
	ctx := context.Background()
	rt := New().MustRegister(
		NewClass("a/B").Static("m", "(I)I", nil),
	)
	cls, err := rt.FindClass(ctx, "a/B")
	require.NoError(t, err)

	// Same name, different descriptor or staticness, does not resolve.
	m, err := rt.GetMethod(ctx, cls, "m", "(J)I", true)
	require.NoError(t, err)
	assert.True(t, m.IsNil())

	m, err = rt.GetMethod(ctx, cls, "m", "(I)I", false)
	require.NoError(t, err)
	assert.True(t, m.IsNil())

	m, err = rt.GetMethod(ctx, cls, "m", "(I)I", true)
	require.NoError(t, err)
	assert.False(t, m.IsNil())
}

func TestStringScratchBuffers(t *testing.T) {
	ctx := context.Background()
	rt := New()

	s, err := rt.NewString(ctx, []byte("héllo"))
	require.NoError(t, err)

	data, copied, err := rt.StringBytes(ctx, s)
	require.NoError(t, err)
	assert.True(t, copied)
	assert.Equal(t, "héllo", string(data))

	// The scratch buffer is a copy of the stored content.
	data[0] = 'X'
	again, _, err := rt.StringBytes(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "héllo", string(again))

	rt.ReleaseStringBytes(ctx, s, data)
	rt.ReleaseStringBytes(ctx, s, again)

	st := rt.Stats()
	assert.Equal(t, int64(2), st.StringReads)
	assert.Equal(t, int64(2), st.StringReleases)
}

func TestArrayBounds(t *testing.T) {
	ctx := context.Background()
	rt := New()

	arr, err := rt.NewPrimitiveArray(ctx, descriptor.Int, 2)
	require.NoError(t, err)

	n, err := rt.ArrayLength(ctx, arr)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	it := descriptor.Type{Kind: descriptor.Int}
	require.NoError(t, rt.SetArrayElement(ctx, arr, 0, it, ports.Int32Value(7)))
	require.Error(t, rt.SetArrayElement(ctx, arr, 2, it, ports.Int32Value(7)))
	require.Error(t, rt.SetArrayElement(ctx, arr, -1, it, ports.Int32Value(7)))

	_, err = rt.NewPrimitiveArray(ctx, descriptor.Int, -1)
	require.Error(t, err)
}

func TestHandleTypeConfusion(t *testing.T) {
	ctx := context.Background()
	rt := New()

	s, err := rt.NewString(ctx, []byte("x"))
	require.NoError(t, err)

	_, err = rt.ArrayLength(ctx, s)
	require.Error(t, err)

	_, _, err = rt.StringBytes(ctx, ports.NewObject(&arrayObj{}))
	require.Error(t, err)
}
