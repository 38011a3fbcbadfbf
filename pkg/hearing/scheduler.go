// ABOUTME: Timer scheduler for hearing test continuations
// ABOUTME: Delivers due timers from a priority queue on a ticker loop
package hearing

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// schedulerTick is the timer resolution
const schedulerTick = 5 * time.Millisecond

// Scheduler holds pending timers ordered by due time
type Scheduler struct {
	mu    sync.Mutex
	queue *TimerQueue
	now   func() time.Time
	seq   uint64

	stats SchedulerStats
}

// SchedulerStats tracks scheduler metrics
type SchedulerStats struct {
	Scheduled int64
	Fired     int64
	Cancelled int64
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: NewTimerQueue(),
		now:   time.Now,
	}
}

// Schedule queues t to fire after d
func (s *Scheduler) Schedule(d time.Duration, t Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	heap.Push(s.queue, pendingTimer{at: s.now().Add(d), seq: s.seq, timer: t})
	s.stats.Scheduled++
}

// CancelAll drops every pending timer
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Cancelled += int64(s.queue.Len())
	s.queue = NewTimerQueue()
}

// Pending returns the number of queued timers
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.queue.Len()
}

// Stats returns scheduler statistics
func (s *Scheduler) Stats() SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// Run delivers due timers to fire until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context, fire func(Timer)) {
	ticker := time.NewTicker(schedulerTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, t := range s.Due() {
				fire(t)
			}
		}
	}
}

// Due pops every timer whose time has come, earliest first
func (s *Scheduler) Due() []Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var due []Timer
	for s.queue.Len() > 0 && !s.queue.Peek().at.After(now) {
		p := heap.Pop(s.queue).(pendingTimer)
		due = append(due, p.timer)
		s.stats.Fired++
	}
	return due
}

type pendingTimer struct {
	at    time.Time
	seq   uint64
	timer Timer
}

// TimerQueue is a priority queue of pending timers
type TimerQueue struct {
	items []pendingTimer
}

func NewTimerQueue() *TimerQueue {
	q := &TimerQueue{}
	heap.Init(q)
	return q
}

// Implement heap.Interface
func (q *TimerQueue) Len() int { return len(q.items) }

func (q *TimerQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.at.Equal(b.at) {
		return a.seq < b.seq
	}
	return a.at.Before(b.at)
}

func (q *TimerQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *TimerQueue) Push(x any) {
	q.items = append(q.items, x.(pendingTimer))
}

func (q *TimerQueue) Pop() any {
	n := len(q.items)
	item := q.items[n-1]
	q.items = q.items[:n-1]
	return item
}

func (q *TimerQueue) Peek() pendingTimer {
	return q.items[0]
}
