package note

import (
	"testing"
)

func conserved(t *testing.T, p *Pool) {
	t.Helper()
	if p.Free()+p.Active() != p.Total() {
		t.Fatalf("free %d + active %d != total %d", p.Free(), p.Active(), p.Total())
	}
}

func TestPoolWarmup(t *testing.T) {
	p := NewPool(DefaultWarmup, nil)
	if p.Total() != DefaultWarmup || p.Free() != DefaultWarmup || p.Active() != 0 {
		t.Fatalf("unexpected warm pool %d/%d/%d", p.Total(), p.Free(), p.Active())
	}
}

func TestPoolGrows(t *testing.T) {
	p := NewPool(2, nil)
	borrowed := []*Instance{}
	for i := 0; i < 5; i++ {
		borrowed = append(borrowed, p.Acquire())
		conserved(t, p)
	}
	if p.Total() != 5 || p.Active() != 5 || p.Free() != 0 {
		t.Fatalf("unexpected pool %d/%d/%d", p.Total(), p.Free(), p.Active())
	}
	seen := map[*Instance]bool{}
	for _, n := range borrowed {
		if seen[n] {
			t.Fatal("an instance was handed out twice")
		}
		seen[n] = true
	}
	for _, n := range borrowed {
		p.Release(n)
		conserved(t, p)
	}
	if p.Free() != 5 {
		t.Fatalf("expected 5 free instances, got %d", p.Free())
	}
}

func TestPoolDoubleRelease(t *testing.T) {
	p := NewPool(1, nil)
	n := p.Acquire()
	if !p.Release(n) {
		t.Fatal("first release should succeed")
	}
	if p.Release(n) {
		t.Fatal("second release should be a no-op")
	}
	if p.Free() != 1 || p.Total() != 1 {
		t.Fatalf("double release changed the pool %d/%d", p.Free(), p.Total())
	}
	conserved(t, p)

	// A fresh acquire must hand out the same instance exactly once
	a := p.Acquire()
	b := p.Acquire()
	if a == b {
		t.Fatal("double release leaked an instance into the free list twice")
	}
}

func TestPoolForeignRelease(t *testing.T) {
	p, q := NewPool(1, nil), NewPool(1, nil)
	n := q.Acquire()
	if p.Release(n) {
		t.Fatal("release of a foreign instance should be a no-op")
	}
	if p.Release(nil) {
		t.Fatal("release of nil should be a no-op")
	}
	conserved(t, p)
	conserved(t, q)
}

func BenchmarkAcquireRelease(b *testing.B) {
	p := NewPool(DefaultWarmup, nil)
	for n := 0; n < b.N; n++ {
		p.Release(p.Acquire())
	}
}
