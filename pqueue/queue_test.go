package pqueue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopReturnsMinimum(t *testing.T) {
	q := New()
	q.PushOrUpdate("a", 5)
	q.PushOrUpdate("b", 1)
	q.PushOrUpdate("c", 3)

	key, priority, ok := q.PopMin()
	require.True(t, ok)
	assert.Equal(t, "b", key)
	assert.Equal(t, 1.0, priority)
}

func TestPushOrUpdateNeverIncreasesPriority(t *testing.T) {
	q := New()
	q.PushOrUpdate("a", 5)
	q.PushOrUpdate("a", 10) // higher priority: no-op
	_, priority, _ := q.PopMin()
	assert.Equal(t, 5.0, priority)

	q.PushOrUpdate("b", 5)
	q.PushOrUpdate("b", 1) // lower priority: updates in place
	_, priority, _ = q.PopMin()
	assert.Equal(t, 1.0, priority)
}

func TestContainsAndIsEmpty(t *testing.T) {
	q := New()
	assert.True(t, q.IsEmpty())
	assert.False(t, q.Contains("x"))

	q.PushOrUpdate("x", 1)
	assert.True(t, q.Contains("x"))
	assert.False(t, q.IsEmpty())

	q.PopMin()
	assert.False(t, q.Contains("x"))
	assert.True(t, q.IsEmpty())
}

func TestPopOrderMatchesSortedPriorities(t *testing.T) {
	q := New()
	r := rand.New(rand.NewSource(99))
	const n = 200
	priorities := make([]float64, n)
	for i := 0; i < n; i++ {
		p := r.Float64() * 1000
		priorities[i] = p
		q.PushOrUpdate(stringKey(i), p)
	}

	var popped []float64
	for !q.IsEmpty() {
		_, p, ok := q.PopMin()
		require.True(t, ok)
		popped = append(popped, p)
	}

	for i := 1; i < len(popped); i++ {
		assert.LessOrEqual(t, popped[i-1], popped[i])
	}
}

func TestPopEmptyQueue(t *testing.T) {
	q := New()
	_, _, ok := q.PopMin()
	assert.False(t, ok)
}

func stringKey(i int) string {
	const letters = "0123456789abcdef"
	b := make([]byte, 0, 8)
	if i == 0 {
		return "0"
	}
	for i > 0 {
		b = append(b, letters[i%16])
		i /= 16
	}
	return string(b)
}
