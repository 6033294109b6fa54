package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/chaincollector/internal/game"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scores.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRecordAndTop(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, s := range []Score{
		{Player: "ana", Score: 12},
		{Player: "bo", Score: 40},
		{Player: "cy", Score: 12},
		{Player: "di", Score: 3},
	} {
		s.Event = game.EventGameComplete
		s.RecordedAt = base.Add(time.Duration(i) * time.Minute)
		got, err := store.Record(ctx, s)
		if err != nil {
			t.Fatalf("Record(%s): %v", s.Player, err)
		}
		if got.ID == "" {
			t.Fatalf("Record(%s) left ID empty", s.Player)
		}
	}

	top, err := store.Top(ctx, 3)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	var players []string
	for _, s := range top {
		players = append(players, s.Player)
	}
	if got, want := strings.Join(players, ","), "bo,ana,cy"; got != want {
		t.Fatalf("Top players = %s, want %s", got, want)
	}
	if !top[0].RecordedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("RecordedAt = %v, want %v", top[0].RecordedAt, base.Add(time.Minute))
	}
}

func TestRecordValidates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	tests := []struct {
		name  string
		score Score
	}{
		{"missing player", Score{Event: game.EventGameComplete, Score: 1}},
		{"missing event", Score{Player: "ana", Score: 1}},
		{"negative score", Score{Player: "ana", Event: game.EventGameComplete, Score: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Record(ctx, tt.score); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats on empty store: %v", err)
	}
	if st != (Stats{}) {
		t.Fatalf("empty Stats = %+v, want zero", st)
	}

	for _, v := range []int{10, 20, 30} {
		if _, err := store.Record(ctx, Score{Player: "ana", Event: game.EventGameComplete, Score: v}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	st, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Games != 3 || st.Best != 30 || st.Average != 20 {
		t.Fatalf("Stats = %+v, want {3 30 20}", st)
	}
}

func TestNilStore(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.Top(context.Background(), 5); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Top on nil store = %v, want ErrNotConfigured", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close on nil store = %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Record(ctx, Score{Player: "ana", Event: game.EventGameComplete}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Record = %v, want context.Canceled", err)
	}
}

func TestPlayerSinkRecordsCompletedSessions(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	sink := &PlayerSink{Store: store, Player: "ana", Now: func() time.Time { return at }}

	if err := sink.Track(context.Background(), game.EventGameComplete, 17); err != nil {
		t.Fatalf("Track: %v", err)
	}
	top, err := store.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("len(Top) = %d, want 1", len(top))
	}
	got := top[0]
	if got.Player != "ana" || got.Score != 17 || got.Event != game.EventGameComplete || !got.RecordedAt.Equal(at) {
		t.Fatalf("stored %+v", got)
	}
}
