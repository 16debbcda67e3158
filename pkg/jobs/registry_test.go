package jobs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func double(args ...any) (any, error) {
	return args[0].(int) * 2, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	require.NoError(t, Register("test.double", double))

	fn, err := Get("test.double")
	require.NoError(t, err)

	value, err := fn(21)
	require.NoError(t, err)
	require.Equal(t, 42, value)
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	require.NoError(t, Register("test.dup", double))
	require.Error(t, Register("test.dup", double))
}

func TestRegistry_NilJobRejected(t *testing.T) {
	require.Error(t, Register("test.nil", nil))
}

func TestRegistry_UnknownJob(t *testing.T) {
	_, err := Get("test.missing")
	require.Error(t, err)
}

func TestRegistry_ListIsSorted(t *testing.T) {
	require.NoError(t, Register("test.zeta", double))
	require.NoError(t, Register("test.alpha", double))

	names := List()
	require.Contains(t, names, "test.alpha")
	require.Contains(t, names, "test.zeta")
	require.IsIncreasing(t, names)
}

func TestRegistry_NameOfRegisteredFunc(t *testing.T) {
	require.NoError(t, Register("test.nameof", double))

	name, ok := NameOf(double)
	require.True(t, ok)
	// double is registered under several names in this file; reverse lookup
	// returns the last one written for its pointer.
	require.NotEmpty(t, name)
}

func TestRegistry_NameOfUnregisteredFunc(t *testing.T) {
	anon := func(args ...any) (any, error) { return nil, nil }

	_, ok := NameOf(anon)
	require.False(t, ok)
}

func TestRegistry_FuncNameFallsBackToSymbol(t *testing.T) {
	anon := func(args ...any) (any, error) { return nil, nil }

	name := FuncName(anon)
	require.NotEmpty(t, name)
	require.NotEqual(t, "anonymous", name)
	require.Contains(t, name, "jobs")
}
