// Package bot drives the lifecycle event dialog: it consumes Telegram
// updates, runs the per-conversation state machine, and forwards completed
// event reports to the Life app backend.
package bot

import (
	"context"
	"log"
	"time"

	"github.com/lifeapp/lifebot/internal/journal"
	"github.com/lifeapp/lifebot/internal/lifeapp"
	"github.com/lifeapp/lifebot/internal/telegram"
)

// Transport sends outbound responses. *telegram.Client satisfies it.
type Transport interface {
	SendMessage(ctx context.Context, req telegram.SendMessageRequest) (*telegram.Message, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text, parseMode string) error
}

// UpdateSource delivers inbound updates. *telegram.Client satisfies it.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]telegram.Update, error)
}

// LifeAPI is the backend surface the bot needs. *lifeapp.Client satisfies it.
type LifeAPI interface {
	SubmitEvent(ctx context.Context, telegramID, text, imageBase64 string) *lifeapp.EventOutcome
	Status(ctx context.Context, telegramID string) (*lifeapp.StatusInfo, error)
	Products(ctx context.Context, telegramID string) (*lifeapp.ProductsInfo, error)
}

// MediaFetcher turns a stored media reference into an inline image.
// *media.Fetcher satisfies it.
type MediaFetcher interface {
	Fetch(ctx context.Context, fileID string) (string, error)
}

// Bot wires the transport, the backend client, and the dialog state machine
// together.
type Bot struct {
	tg          Transport
	source      UpdateSource
	api         LifeAPI
	fetcher     MediaFetcher
	journal     *journal.Store // optional
	sessions    *sessionManager
	pollTimeout int
	verbose     bool
}

// Options configures a Bot beyond its required collaborators.
type Options struct {
	Journal     *journal.Store
	PollTimeout int // long-poll seconds, defaults to 50
	Verbose     bool
}

// New creates a Bot. The journal may be nil; the bot runs fine without it.
func New(tg Transport, source UpdateSource, api LifeAPI, fetcher MediaFetcher, opts Options) *Bot {
	b := &Bot{
		tg:          tg,
		source:      source,
		api:         api,
		fetcher:     fetcher,
		journal:     opts.Journal,
		pollTimeout: opts.PollTimeout,
		verbose:     opts.Verbose,
	}
	if b.pollTimeout <= 0 {
		b.pollTimeout = 50
	}
	b.sessions = newSessionManager(b.handleTurn)
	return b
}

// Run long-polls for updates until the context is cancelled, dispatching
// each update to its conversation. It returns the context's error.
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("lifebot started, long-polling for updates (timeout %ds)", b.pollTimeout)
	defer b.sessions.Close()

	var offset int64
	for {
		if ctx.Err() != nil {
			log.Printf("lifebot stopping: %v", ctx.Err())
			return ctx.Err()
		}

		updates, err := b.source.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("lifebot stopping: %v", ctx.Err())
				return ctx.Err()
			}
			log.Printf("polling updates: %v", err)
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			if upd.Message == nil || upd.Message.From == nil {
				continue
			}
			b.sessions.Dispatch(ctx, upd.Message.Chat.ID, upd)
		}
	}
}
