package game

import "time"

// TaskID identifies a periodic task registered with a Scheduler.
type TaskID int

// task is a periodic callback. due is the next firing time on the scheduler clock.
type task struct {
	id       TaskID
	interval time.Duration
	due      time.Duration
	fn       func()
}

// Scheduler runs periodic callbacks on a virtual clock.
// Time only moves when Advance is called, so tests can drive it synchronously
// and frontends feed it wall-clock deltas. Not safe for concurrent use.
type Scheduler struct {
	now    time.Duration
	nextID TaskID
	tasks  []*task
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time elapsed since creation.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Every registers fn to run each interval, first at Now()+interval.
func (s *Scheduler) Every(interval time.Duration, fn func()) TaskID {
	if interval <= 0 {
		interval = 1
	}
	s.nextID++
	s.tasks = append(s.tasks, &task{
		id:       s.nextID,
		interval: interval,
		due:      s.now + interval,
		fn:       fn,
	})
	return s.nextID
}

// Cancel stops a task. Unknown IDs are ignored.
func (s *Scheduler) Cancel(id TaskID) {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// CancelAll stops every task.
func (s *Scheduler) CancelAll() {
	clear(s.tasks)
	s.tasks = s.tasks[:0]
}

// Pending returns the number of registered tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves the clock forward by dt, firing due tasks in chronological order.
// Tasks due at the same instant fire in registration order. A callback may
// register or cancel tasks; cancelled tasks never fire again.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		return
	}
	target := s.now + dt

	for {
		next := s.earliest()
		if next == nil || next.due > target {
			break
		}
		s.now = next.due
		next.due += next.interval
		next.fn()
	}

	s.now = target
}

// earliest returns the task due soonest, lowest ID first on ties.
func (s *Scheduler) earliest() *task {
	var best *task
	for _, t := range s.tasks {
		if best == nil || t.due < best.due || (t.due == best.due && t.id < best.id) {
			best = t
		}
	}
	return best
}
