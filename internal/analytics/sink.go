package analytics

import (
	"context"
	"time"

	"github.com/tomz197/chaincollector/internal/game"
)

// PlayerSink stores every completed session under one player name.
type PlayerSink struct {
	Store  *Store
	Player string
	Now    func() time.Time
}

var _ game.Sink = (*PlayerSink)(nil)

// Track implements game.Sink.
func (p *PlayerSink) Track(ctx context.Context, event string, score int) error {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	_, err := p.Store.Record(ctx, Score{
		Player:     p.Player,
		Event:      event,
		Score:      score,
		RecordedAt: now(),
	})
	return err
}
