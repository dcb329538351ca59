package engine

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Due returns exactly the entries at or before now, in expiry order.
func TestProperty_DueIsSortedPrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := NewExpiryIndex(time.Second, testCalendar(2019), nil)

		n := rapid.IntRange(0, 30).Draw(t, "n")
		offsets := make(map[string]time.Duration, n)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("e%02d", i)
			off := time.Duration(rapid.IntRange(-48, 48).Draw(t, "offset_"+id)) * time.Hour
			offsets[id] = off
			x.Add(newTestException(id, "LAL", testNow.Add(off)))
		}

		due := x.Due(testNow)

		wantCount := 0
		for _, off := range offsets {
			if off <= 0 {
				wantCount++
			}
		}
		if len(due) != wantCount {
			t.Fatalf("due = %d, want %d", len(due), wantCount)
		}
		for i, e := range due {
			if e.ExpiresAt.After(testNow) {
				t.Fatalf("due[%d] %s expires after now", i, e.ExceptionID)
			}
			if i > 0 && expiryLess(e, due[i-1]) {
				t.Fatalf("due out of order at %d: %s before %s", i, due[i-1].ExceptionID, e.ExceptionID)
			}
		}
	})
}

// Removing every id empties the index regardless of insertion order.
func TestProperty_RemoveEmptiesIndex(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := NewExpiryIndex(time.Second, testCalendar(2019), nil)
		ids := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{1,6}`), func(s string) string { return s }).Draw(t, "ids")
		for i, id := range ids {
			x.Add(newTestException(id, "BOS", testNow.Add(time.Duration(i%5)*time.Hour)))
		}
		if x.Len() != len(ids) {
			t.Fatalf("Len = %d, want %d", x.Len(), len(ids))
		}
		for _, id := range rapid.Permutation(ids).Draw(t, "order") {
			x.Remove(id)
		}
		if x.Len() != 0 {
			t.Fatalf("Len = %d after removing all, want 0", x.Len())
		}
	})
}
