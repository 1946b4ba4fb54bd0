package events

import (
	"sync"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	b := NewBus[string]()
	var got []string
	b.Subscribe(func(s string) { got = append(got, "first:"+s) })
	b.Subscribe(func(s string) { got = append(got, "second:"+s) })

	if n := b.Publish("x"); n != 2 {
		t.Errorf("Publish delivered to %d, want 2", n)
	}
	want := []string{"first:x", "second:x"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCancel(t *testing.T) {
	b := NewBus[int]()
	count := 0
	cancel := b.Subscribe(func(int) { count++ })
	b.Publish(1)
	cancel()
	cancel()
	b.Publish(2)

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestCancelFromSubscriber(t *testing.T) {
	b := NewBus[int]()
	calls := 0
	var cancel func()
	cancel = b.Subscribe(func(int) {
		calls++
		cancel()
	})
	b.Publish(1)
	b.Publish(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestClose(t *testing.T) {
	b := NewBus[int]()
	called := false
	b.Subscribe(func(int) { called = true })
	b.Close()

	if n := b.Publish(1); n != 0 || called {
		t.Error("publish after Close delivered")
	}
	b.Subscribe(func(int) { called = true })()
	if b.Len() != 0 {
		t.Errorf("Len() = %d after Close, want 0", b.Len())
	}
}

func TestNilSubscriber(t *testing.T) {
	b := NewBus[int]()
	b.Subscribe(nil)
	if b.Len() != 0 {
		t.Error("nil subscriber registered")
	}
}

func TestConcurrentPublish(t *testing.T) {
	b := NewBus[int]()
	var mu sync.Mutex
	total := 0
	b.Subscribe(func(v int) {
		mu.Lock()
		total += v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(1)
		}()
	}
	wg.Wait()
	if total != 50 {
		t.Errorf("total = %d, want 50", total)
	}
}
