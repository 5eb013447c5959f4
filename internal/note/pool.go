package note

import "log"

// DefaultWarmup is how many instances a pool creates up front.
const DefaultWarmup = 20

// Pool owns every instance ever created. Callers borrow instances between
// Acquire and Release.
type Pool struct {
	all    []*Instance
	free   []*Instance
	Logger *log.Logger
}

func NewPool(warmup int, logger *log.Logger) *Pool {
	if warmup < 0 {
		warmup = 0
	}
	p := &Pool{
		all:    make([]*Instance, 0, warmup),
		free:   make([]*Instance, 0, warmup),
		Logger: logger,
	}
	for i := 0; i < warmup; i++ {
		p.free = append(p.free, p.create())
	}
	return p
}

func (p *Pool) create() *Instance {
	n := &Instance{slot: len(p.all)}
	p.all = append(p.all, n)
	return n
}

// Acquire never fails, the pool grows when it runs dry.
func (p *Pool) Acquire() *Instance {
	var n *Instance
	if last := len(p.free) - 1; last >= 0 {
		n = p.free[last]
		p.free[last] = nil
		p.free = p.free[:last]
	} else {
		n = p.create()
		if nil != p.Logger {
			p.Logger.Printf("note pool exhausted, grown to %v instances\n", len(p.all))
		}
	}
	n.inUse = true
	return n
}

// Release returns an instance to the pool. Releasing a free instance, or
// one from another pool, does nothing and reports false.
func (p *Pool) Release(n *Instance) bool {
	if nil == n || !n.inUse || n.slot >= len(p.all) || p.all[n.slot] != n {
		return false
	}
	n.reset()
	p.free = append(p.free, n)
	return true
}

// Free is the number of instances ready to be acquired.
func (p *Pool) Free() int {
	return len(p.free)
}

// Active is the number of borrowed instances.
func (p *Pool) Active() int {
	return len(p.all) - len(p.free)
}

// Total is the number of instances ever created.
func (p *Pool) Total() int {
	return len(p.all)
}
