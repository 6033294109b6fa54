package game

import "github.com/tomz197/chaincollector/internal/physics"

// resolveCollisions scores and removes every block overlapping the player.
// Blocks are visited in spawn order so chain completion is deterministic.
func (s *Session) resolveCollisions() {
	player := s.playerBounds()

	kept := s.blocks[:0] // reuse backing array
	for _, b := range s.blocks {
		if !physics.Overlaps(player, b.Bounds()) {
			kept = append(kept, b)
			continue
		}
		if b.Collectible {
			s.collect(b)
		} else {
			s.score += s.tuning.PlainScore
			s.summary.PlainCollected++
			s.publish(Event{Type: EventPlainCollected, Block: b})
		}
	}
	s.blocks = kept
}

// collect applies the chain rules for a caught collectible block.
func (s *Session) collect(b Block) {
	s.combo++
	s.score += s.tuning.ItemScore
	s.summary.Collected++
	s.publish(Event{Type: EventCollected, Block: b})

	if s.combo >= s.tuning.ComboThreshold {
		s.score += s.tuning.ComboBonus
		s.combo = 0
		s.summary.Chains++
		s.publish(Event{Type: EventChainComplete, Block: b})
	}
}

// removeFallen drops blocks below the field. A missed collectible breaks the chain.
func (s *Session) removeFallen() {
	bottom := s.tuning.FieldHeight

	kept := s.blocks[:0]
	for _, b := range s.blocks {
		if b.Y <= bottom {
			kept = append(kept, b)
			continue
		}
		if b.Collectible {
			if s.combo > 0 {
				s.summary.Broken++
				s.combo = 0
				s.publish(Event{Type: EventChainBroken, Block: b})
			}
		}
	}
	s.blocks = kept
}
