package wazero

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdapter(t *testing.T) {
	ctx := context.Background()

	a, err := NewAdapter(ctx)
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.Empty(t, a.modules)
	assert.Nil(t, a.alloc)
}

func TestLoadModule_InvalidBytes(t *testing.T) {
	ctx := context.Background()

	a, err := NewAdapter(ctx, WithoutWASI())
	require.NoError(t, err)
	defer a.Close(ctx)

	err = a.LoadModule(ctx, "org/test/Broken", []byte("not wasm"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "org/test/Broken")

	// A failed load leaves no class behind.
	cls, err := a.FindClass(ctx, "org/test/Broken")
	require.NoError(t, err)
	assert.True(t, cls.IsNil())
}

func TestSetAllocator_UnknownModule(t *testing.T) {
	ctx := context.Background()

	a, err := NewAdapter(ctx, WithoutWASI())
	require.NoError(t, err)
	defer a.Close(ctx)

	require.Error(t, a.SetAllocator("org/test/Missing"))
}

func TestFindClass_Miss(t *testing.T) {
	ctx := context.Background()

	a, err := NewAdapter(ctx, WithoutWASI())
	require.NoError(t, err)
	defer a.Close(ctx)

	cls, err := a.FindClass(ctx, "org/test/Missing")
	require.NoError(t, err)
	assert.True(t, cls.IsNil())
}
