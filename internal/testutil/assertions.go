// Package testutil provides common assertions for the engine's tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madeye/jbind/domain/errors"
)

// RequireDetail asserts that err converts to a structured detail with the
// given type and code.
func RequireDetail(t *testing.T, err error, errType, code string) {
	t.Helper()
	require.Error(t, err)
	d := errors.ToDetail(err)
	require.NotNil(t, d)
	assert.Equal(t, errType, d.Type, "detail type for %v", err)
	assert.Equal(t, code, d.Code, "detail code for %v", err)
}

// RequireForeign asserts that err is foreign-originated.
func RequireForeign(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	d := errors.ToDetail(err)
	require.NotNil(t, d)
	assert.True(t, d.Foreign, "expected foreign origin for %v", err)
}

// RequireWrapperOriginated asserts that err originated in the engine, not in
// the foreign runtime.
func RequireWrapperOriginated(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	d := errors.ToDetail(err)
	require.NotNil(t, d)
	assert.False(t, d.Foreign, "expected wrapper origin for %v", err)
}
