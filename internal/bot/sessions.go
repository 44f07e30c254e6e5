package bot

import (
	"context"
	"log"
	"sync"

	"github.com/lifeapp/lifebot/internal/telegram"
)

// Conversation is the scratch record for one chat: its dialog state and
// in-flight memory. It is owned by exactly one worker goroutine, so no
// locking is needed on the fields themselves.
type Conversation struct {
	ChatID  int64
	State   State
	Scratch Scratch
}

// turnFunc processes one inbound update for a conversation.
type turnFunc func(ctx context.Context, conv *Conversation, upd telegram.Update)

// chatWorker serializes the turns of a single conversation.
type chatWorker struct {
	jobs   chan telegram.Update
	conv   *Conversation
	closed bool
}

// sessionManager routes updates to per-conversation workers. Turns within a
// conversation run in order; distinct conversations run concurrently and
// share no mutable state. Workers are removed, not merely reset, once a
// conversation returns to idle, so abandoned dialogs do not accumulate.
type sessionManager struct {
	mu      sync.Mutex
	workers map[int64]*chatWorker
	handle  turnFunc
	wg      sync.WaitGroup
}

func newSessionManager(handle turnFunc) *sessionManager {
	return &sessionManager{
		workers: make(map[int64]*chatWorker),
		handle:  handle,
	}
}

// Dispatch queues one update onto its conversation's worker, creating the
// worker on first contact.
func (m *sessionManager) Dispatch(ctx context.Context, chatID int64, upd telegram.Update) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workers[chatID]
	if !ok {
		w = &chatWorker{
			jobs: make(chan telegram.Update, 16),
			conv: &Conversation{ChatID: chatID, State: StateIdle},
		}
		m.workers[chatID] = w
		m.wg.Add(1)
		go m.run(ctx, chatID, w)
	}

	select {
	case w.jobs <- upd:
	default:
		// A conversation this far behind is being flooded; shedding the
		// update keeps the rest of the bot responsive.
		log.Printf("chat %d: dropping update %d, queue full", chatID, upd.UpdateID)
	}
}

func (m *sessionManager) run(ctx context.Context, chatID int64, w *chatWorker) {
	defer m.wg.Done()
	for upd := range w.jobs {
		m.handle(ctx, w.conv, upd)
		if m.retireIfIdle(chatID, w) {
			return
		}
	}
}

// retireIfIdle removes the worker once its conversation is back to idle
// with nothing queued. Dispatch holds the same lock while sending, so a
// retired channel can never receive another update.
func (m *sessionManager) retireIfIdle(chatID int64, w *chatWorker) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w.closed {
		return true
	}
	if w.conv.State == StateIdle && len(w.jobs) == 0 {
		delete(m.workers, chatID)
		w.closed = true
		close(w.jobs)
		return true
	}
	return false
}

// Close stops all workers and waits for in-flight turns to finish. Queued
// but unprocessed updates are dropped.
func (m *sessionManager) Close() {
	m.mu.Lock()
	for chatID, w := range m.workers {
		if !w.closed {
			w.closed = true
			close(w.jobs)
		}
		delete(m.workers, chatID)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// active reports the number of live conversations (used by tests).
func (m *sessionManager) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workers)
}
