package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemo_GetOrBuild(t *testing.T) {
	m, err := NewMemo[string, int](4)
	require.NoError(t, err)

	calls := 0
	build := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := m.GetOrBuild("a", build)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = m.GetOrBuild("a", build)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.Len())
}

func TestMemo_FailedBuildNotCached(t *testing.T) {
	m, err := NewMemo[string, int](4)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.GetOrBuild("a", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemo_Evicts(t *testing.T) {
	m, err := NewMemo[int, string](2)
	require.NoError(t, err)

	m.Put(1, "one")
	m.Put(2, "two")
	m.Put(3, "three")

	_, ok := m.Get(1)
	assert.False(t, ok)
	v, ok := m.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "three", v)
}

func TestNewMemo_InvalidSize(t *testing.T) {
	_, err := NewMemo[string, int](0)
	assert.Error(t, err)
}
