package service

import (
	"sort"
	"sync"
)

// teamLocks hands out one mutex per team id. Callers that need several
// teams lock them in id order so two trades sharing a team cannot
// deadlock.
type teamLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTeamLocks() *teamLocks {
	return &teamLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the locks for ids (deduplicated, sorted) and returns the
// function that releases them.
func (l *teamLocks) lock(ids ...string) func() {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (l *teamLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
