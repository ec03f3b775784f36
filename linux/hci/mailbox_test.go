package hci

import (
	"testing"
	"time"
)

func TestMailboxOrder(t *testing.T) {
	m := newMailbox()
	defer m.dispose()

	for i := 0; i < 10; i++ {
		if err := m.put(i); err != nil {
			t.Fatal(err)
		}
	}
	if m.len() != 10 {
		t.Fatalf("len %d", m.len())
	}

	// pull 7 out of the middle, the rest keep their order
	v, ok := m.take(func(v interface{}) bool { return v.(int) == 7 }, 0, time.Millisecond)
	if !ok || v.(int) != 7 {
		t.Fatalf("take: %v %v", v, ok)
	}
	if m.len() != 9 {
		t.Fatalf("len after take %d", m.len())
	}

	m.put(10)
	want := []int{0, 1, 2, 3, 4, 5, 6, 8, 9, 10}
	for _, w := range want {
		v, ok := m.pop()
		if !ok || v.(int) != w {
			t.Fatalf("pop: got %v %v, want %d", v, ok, w)
		}
	}
	if v, ok := m.pop(); ok {
		t.Fatalf("pop from empty mailbox: %v", v)
	}
}

func TestMailboxTakeWaits(t *testing.T) {
	m := newMailbox()
	defer m.dispose()

	go func() {
		time.Sleep(20 * time.Millisecond)
		m.put("late")
	}()

	start := time.Now()
	v, ok := m.take(anyItem, time.Second, time.Millisecond)
	if !ok || v.(string) != "late" {
		t.Fatalf("take: %v %v", v, ok)
	}
	if el := time.Since(start); el < 20*time.Millisecond {
		t.Fatalf("returned after %v", el)
	}

	start = time.Now()
	if v, ok := m.take(anyItem, 30*time.Millisecond, 5*time.Millisecond); ok {
		t.Fatalf("unexpected %v", v)
	}
	if el := time.Since(start); el < 30*time.Millisecond {
		t.Fatalf("gave up after %v", el)
	}
}
