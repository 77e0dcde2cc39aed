package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_GetOrCreateIsIdempotent(t *testing.T) {
	store := NewSessionStore(20)

	first := store.GetOrCreate("s1")
	second := store.GetOrCreate("s1")

	assert.Equal(t, "s1", first.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Empty(t, first.History)
	assert.Len(t, store.List(), 1)
}

func TestSessionStore_GetOrCreateReturnsSnapshot(t *testing.T) {
	store := NewSessionStore(20)
	store.AppendTurn("s1", "hi", "hello")

	session := store.GetOrCreate("s1")
	session.History[0].Content = "mutated"

	fresh := store.GetOrCreate("s1")
	assert.Equal(t, "hi", fresh.History[0].Content)
}

func TestSessionStore_AppendTurnKeepsPairs(t *testing.T) {
	store := NewSessionStore(20)

	store.AppendTurn("s1", "question", "answer")
	session := store.GetOrCreate("s1")

	require.Len(t, session.History, 2)
	assert.Equal(t, "user", session.History[0].Role)
	assert.Equal(t, "question", session.History[0].Content)
	assert.Equal(t, "model", session.History[1].Role)
	assert.Equal(t, "answer", session.History[1].Content)
}

func TestSessionStore_TruncatesOldestPairsFirst(t *testing.T) {
	store := NewSessionStore(3)

	for i := 0; i < 5; i++ {
		store.AppendTurn("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	session := store.GetOrCreate("s1")

	// History stays even and capped at 3 pairs.
	require.Len(t, session.History, 6)
	assert.Zero(t, len(session.History)%2)

	// Oldest pairs dropped, most recent pair always present.
	assert.Equal(t, "q2", session.History[0].Content)
	assert.Equal(t, "q4", session.History[4].Content)
	assert.Equal(t, "a4", session.History[5].Content)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(20)
	store.AppendTurn("s1", "hi", "hello")

	store.Delete("s1")
	assert.Empty(t, store.List())

	fresh := store.GetOrCreate("s1")
	assert.Empty(t, fresh.History)
}

func TestSessionStore_List(t *testing.T) {
	store := NewSessionStore(20)
	store.AppendTurn("s1", "hi", "hello")
	store.AppendTurn("s2", "hey", "hi there")
	store.AppendTurn("s2", "menu?", "here it is")

	infos := store.List()
	require.Len(t, infos, 2)

	counts := map[string]int{}
	for _, info := range infos {
		counts[info.ID] = info.MessageCount
		assert.NotEmpty(t, info.CreatedAt)
	}
	assert.Equal(t, 2, counts["s1"])
	assert.Equal(t, 4, counts["s2"])
}

func TestSessionStore_ConcurrentDistinctSessions(t *testing.T) {
	store := NewSessionStore(20)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			for j := 0; j < 10; j++ {
				store.GetOrCreate(id)
				store.AppendTurn(id, "q", "a")
			}
		}(i)
	}
	wg.Wait()

	infos := store.List()
	require.Len(t, infos, 8)
	for _, info := range infos {
		assert.Equal(t, 20, info.MessageCount)
	}
}

func TestSession_Clone(t *testing.T) {
	store := NewSessionStore(20)
	store.AppendTurn("s1", "hi", "hello")

	session := store.GetOrCreate("s1")
	clone := session.Clone()

	clone.History[0].Content = "changed"
	assert.Equal(t, "hi", session.History[0].Content)
}
