package toggle

import (
	"sync"
	"testing"
)

func TestMirrorStartsNotReady(t *testing.T) {
	var m Mirror[bool]
	if m.Ready() {
		t.Fatal("fresh mirror reports ready")
	}
	if m.Read() {
		t.Fatal("fresh mirror should read zero value")
	}
}

func TestMirrorAcceptsRevisionZeroFirst(t *testing.T) {
	var m Mirror[bool]
	if !m.Apply(0, true) {
		t.Fatal("first apply rejected")
	}
	if !m.Ready() || !m.Read() {
		t.Fatalf("ready=%v value=%v", m.Ready(), m.Read())
	}
}

func TestMirrorIgnoresStaleRevisions(t *testing.T) {
	var m Mirror[bool]

	steps := []struct {
		rev    uint64
		value  bool
		accept bool
		want   bool
	}{
		{rev: 3, value: true, accept: true, want: true},
		{rev: 2, value: false, accept: false, want: true},
		{rev: 3, value: false, accept: false, want: true},
		{rev: 4, value: false, accept: true, want: false},
		{rev: 1, value: true, accept: false, want: false},
	}
	for i, s := range steps {
		if got := m.Apply(s.rev, s.value); got != s.accept {
			t.Fatalf("step %d: apply = %v, want %v", i, got, s.accept)
		}
		if m.Read() != s.want {
			t.Fatalf("step %d: value = %v, want %v", i, m.Read(), s.want)
		}
	}
	if m.Revision() != 4 {
		t.Fatalf("revision = %d, want 4", m.Revision())
	}
}

func TestMirrorRevisionNeverGoesBackwardsUnderConcurrentApply(t *testing.T) {
	var m Mirror[bool]

	const (
		writers = 4
		maxRev  = 4000
	)

	done := make(chan struct{})
	var readers sync.WaitGroup
	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			var last uint64
			for {
				select {
				case <-done:
					return
				default:
				}
				rev := m.Revision()
				if rev < last {
					t.Errorf("revision went backwards: %d after %d", rev, last)
					return
				}
				last = rev
			}
		}()
	}

	// Writer w delivers revisions w, w+writers, ... so deliveries from
	// different writers interleave and many arrive stale.
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			for rev := start; rev <= maxRev; rev += writers {
				m.Apply(rev, rev%2 == 1)
			}
		}(uint64(w))
	}
	wg.Wait()
	close(done)
	readers.Wait()

	if m.Revision() != maxRev {
		t.Fatalf("revision = %d, want %d", m.Revision(), maxRev)
	}
	if m.Read() != (maxRev%2 == 1) {
		t.Fatalf("value = %v does not belong to revision %d", m.Read(), maxRev)
	}
}
