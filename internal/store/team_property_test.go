package store

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// Each successful write bumps the version by exactly one, and a write from
// an older read always conflicts.
func TestProperty_VersionAdvancesOncePerWrite(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newTestTeamStore()
		ctx := context.Background()
		_ = s.Create(ctx, newTestTeam("LAL"))

		var reads []*domain.Team
		want := int64(1)
		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(reads) == 0 || rapid.Bool().Draw(t, "read") {
				team, err := s.Get(ctx, "LAL")
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				reads = append(reads, team)
				continue
			}
			idx := rapid.IntRange(0, len(reads)-1).Draw(t, "write")
			team := reads[idx]
			before := team.Version
			err := s.Save(ctx, team)
			if before == want {
				if err != nil {
					t.Fatalf("save from current version %d: %v", before, err)
				}
				want++
				if team.Version != want {
					t.Fatalf("version = %d, want %d", team.Version, want)
				}
				continue
			}
			if !errors.Is(err, domain.ErrVersionConflict) {
				t.Fatalf("save from stale version %d: got %v, want ErrVersionConflict", before, err)
			}
			if team.Version != before {
				t.Fatalf("failed save changed version to %d", team.Version)
			}
		}

		got, _ := s.Get(ctx, "LAL")
		if got.Version != want {
			t.Fatalf("stored version = %d, want %d", got.Version, want)
		}
	})
}
