package game

// Spawn drops one block into the field, and with a second roll another one.
// Does nothing unless the session is running.
func (s *Session) Spawn() {
	if s.phase != PhaseRunning {
		return
	}
	s.spawnBlock()
	if s.rng.Float64() > s.tuning.DoubleSpawnThreshold {
		s.spawnBlock()
	}
}

// spawnBlock rolls kind, position and speed, in that order.
func (s *Session) spawnBlock() {
	t := s.tuning

	collectible := s.rng.Float64() > t.CollectibleThreshold
	x := s.rng.Float64() * (t.FieldWidth - t.BlockSize)
	speed := t.MinFallSpeed + s.rng.Float64()*(t.MaxFallSpeed-t.MinFallSpeed)

	s.nextID++
	b := Block{
		ID:          s.nextID,
		X:           x,
		Y:           0,
		Size:        t.BlockSize,
		Speed:       speed,
		Collectible: collectible,
	}
	s.blocks = append(s.blocks, b)
	s.publish(Event{Type: EventSpawned, Block: b})
}
