package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateAndGet(t *testing.T) {
	assert := assert.New(t)

	m := NewManager(Deps{})

	room, err := m.Create("host_1", 25)
	require.NoError(t, err)
	defer room.Close()

	assert.Len(room.Code, 6)
	assert.Equal("host_1", room.HostID)
	assert.Same(room, m.Get(room.Code))
	assert.Equal(1, m.Count())
}

func TestManager_GetUnknownReturnsNil(t *testing.T) {
	m := NewManager(Deps{})
	assert.Nil(t, m.Get("NOPE99"))
}

func TestManager_Close(t *testing.T) {
	assert := assert.New(t)

	m := NewManager(Deps{})
	room, err := m.Create("host_1", 0)
	require.NoError(t, err)

	assert.NoError(m.Close(room.Code))
	assert.Nil(m.Get(room.Code))
	assert.Equal(0, m.Count())

	assert.ErrorIs(m.Close(room.Code), ErrRoomNotFound)
}

func TestManager_CodesAreUnique(t *testing.T) {
	m := NewManager(Deps{})
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		room, err := m.Create("host_1", 0)
		require.NoError(t, err)
		defer room.Close()
		assert.False(t, seen[room.Code])
		seen[room.Code] = true
	}
}
