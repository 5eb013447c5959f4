// Package deferred runs actions once the wall clock reaches their time. The
// queue is drained from the tick loop, nothing runs in the background.
package deferred

import (
	"container/heap"
	"time"
)

type Entry struct {
	at        time.Duration
	seq       uint64
	action    func()
	index     int
	cancelled bool
}

// At is when the entry fires.
func (e *Entry) At() time.Duration {
	return e.at
}

type entries []*Entry

func (h entries) Len() int { return len(h) }

func (h entries) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h entries) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entries) Push(x interface{}) {
	e := x.(*Entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entries) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

type Queue struct {
	h   entries
	seq uint64
}

func New() *Queue {
	return &Queue{}
}

// Schedule runs action on the first drain at or after at. Entries due at
// the same time run in the order they were scheduled.
func (q *Queue) Schedule(at time.Duration, action func()) *Entry {
	q.seq++
	e := &Entry{at: at, seq: q.seq, action: action}
	heap.Push(&q.h, e)
	return e
}

// Cancel removes an entry. Cancelling an entry that already ran or was
// cancelled does nothing.
func (q *Queue) Cancel(e *Entry) {
	if nil == e || e.cancelled || e.index < 0 {
		return
	}
	e.cancelled = true
	heap.Remove(&q.h, e.index)
}

// Drain runs every entry due at now and reports how many ran. Entries
// scheduled by an action are run too if they are due.
func (q *Queue) Drain(now time.Duration) int {
	ran := 0
	for len(q.h) > 0 && q.h[0].at <= now {
		e := heap.Pop(&q.h).(*Entry)
		e.action()
		ran++
	}
	return ran
}

// Clear cancels everything.
func (q *Queue) Clear() {
	for _, e := range q.h {
		e.cancelled = true
		e.index = -1
	}
	q.h = q.h[:0]
}

func (q *Queue) Len() int {
	return len(q.h)
}
