package broker

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchQueueComplement(t *testing.T) {
	q := newMatchQueue("seeker", "responder")

	comp, ok := q.complement("seeker")
	require.True(t, ok)
	assert.Equal(t, "responder", comp)

	comp, ok = q.complement("responder")
	require.True(t, ok)
	assert.Equal(t, "seeker", comp)

	_, ok = q.complement("listener")
	assert.False(t, ok)

	_, ok = q.complement("")
	assert.False(t, ok)
}

func TestMatchQueueFIFO(t *testing.T) {
	q := newMatchQueue("seeker", "responder")

	first := uuid.New()
	second := uuid.New()
	third := uuid.New()

	q.push("seeker", "loneliness", first)
	q.push("seeker", "loneliness", second)
	q.push("seeker", "loneliness", third)

	id, ok := q.pop("seeker", "loneliness")
	require.True(t, ok)
	assert.Equal(t, first, id)

	id, ok = q.pop("seeker", "loneliness")
	require.True(t, ok)
	assert.Equal(t, second, id)

	id, ok = q.pop("seeker", "loneliness")
	require.True(t, ok)
	assert.Equal(t, third, id)

	_, ok = q.pop("seeker", "loneliness")
	assert.False(t, ok)
	assert.Equal(t, 0, q.size())
}

func TestMatchQueueTagsAreIsolated(t *testing.T) {
	q := newMatchQueue("seeker", "responder")

	id := uuid.New()
	q.push("seeker", "anxiety", id)

	_, ok := q.pop("seeker", "loneliness")
	assert.False(t, ok)

	// Та же роль с другим тегом не задевает чужой список
	popped, ok := q.pop("seeker", "anxiety")
	require.True(t, ok)
	assert.Equal(t, id, popped)
}

func TestMatchQueueRemove(t *testing.T) {
	q := newMatchQueue("seeker", "responder")

	first := uuid.New()
	second := uuid.New()

	key := q.push("seeker", "grief", first)
	q.push("seeker", "grief", second)

	q.remove(key, first)

	id, ok := q.pop("seeker", "grief")
	require.True(t, ok)
	assert.Equal(t, second, id)

	// Повторное удаление — no-op
	q.remove(key, first)
	assert.Equal(t, 0, q.size())
}
