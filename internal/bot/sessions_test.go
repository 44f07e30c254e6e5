package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lifeapp/lifebot/internal/telegram"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSessionTurnsRunInOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []int64
	m := newSessionManager(func(_ context.Context, conv *Conversation, upd telegram.Update) {
		mu.Lock()
		seen = append(seen, upd.UpdateID)
		mu.Unlock()
		conv.State = StateAwaitingDescription // keep the worker alive
	})
	defer m.Close()

	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		m.Dispatch(ctx, 42, telegram.Update{UpdateID: i})
	}

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 5
	})

	mu.Lock()
	defer mu.Unlock()
	for i, id := range seen {
		if id != int64(i+1) {
			t.Fatalf("turns out of order: %v", seen)
		}
	}
}

func TestWorkerRetiresWhenIdle(t *testing.T) {
	m := newSessionManager(func(_ context.Context, conv *Conversation, _ telegram.Update) {
		conv.State = StateIdle
	})
	defer m.Close()

	m.Dispatch(context.Background(), 42, telegram.Update{UpdateID: 1})

	waitFor(t, time.Second, func() bool { return m.active() == 0 })
}

func TestWorkerStaysWhileDialogInProgress(t *testing.T) {
	processed := make(chan struct{}, 1)
	m := newSessionManager(func(_ context.Context, conv *Conversation, _ telegram.Update) {
		conv.State = StateAwaitingDescription
		processed <- struct{}{}
	})
	defer m.Close()

	m.Dispatch(context.Background(), 42, telegram.Update{UpdateID: 1})
	<-processed

	if m.active() != 1 {
		t.Errorf("expected 1 active conversation, got %d", m.active())
	}
}

func TestConversationsAreIndependent(t *testing.T) {
	var mu sync.Mutex
	states := make(map[int64]State)
	m := newSessionManager(func(_ context.Context, conv *Conversation, upd telegram.Update) {
		if upd.UpdateID == 1 {
			conv.State = StateAwaitingDescription
		}
		mu.Lock()
		states[conv.ChatID] = conv.State
		mu.Unlock()
	})
	defer m.Close()

	ctx := context.Background()
	m.Dispatch(ctx, 1, telegram.Update{UpdateID: 1})
	m.Dispatch(ctx, 2, telegram.Update{UpdateID: 2})

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 2
	})

	mu.Lock()
	defer mu.Unlock()
	if states[1] != StateAwaitingDescription {
		t.Errorf("chat 1: expected awaiting_description, got %s", states[1])
	}
	if states[2] != StateIdle {
		t.Errorf("chat 2: expected idle, got %s", states[2])
	}
}
