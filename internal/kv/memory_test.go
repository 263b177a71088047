package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Put(ctx, "k", []byte("v")))
	v, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", string(v))
	assert.Equal(t, 1, m.Puts())
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", in))
	in[0] = 'X'

	out, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(out))

	out[0] = 'Y'
	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemory_InjectedFailure(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.SetFailPuts(true)
	assert.ErrorIs(t, m.Put(ctx, "k", []byte("v")), ErrInjected)
	assert.Equal(t, 0, m.Puts())

	m.SetFailPuts(false)
	assert.NoError(t, m.Put(ctx, "k", []byte("v")))
}

func TestMemory_KeysSorted(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "z", nil))
	require.NoError(t, m.Put(ctx, "a", nil))

	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, keys)
}
