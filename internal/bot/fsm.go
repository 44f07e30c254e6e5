package bot

import "github.com/lifeapp/lifebot/internal/event"

// State is the dialog position of one conversation.
type State int

const (
	// StateIdle is the initial and terminal state: no dialog in progress.
	StateIdle State = iota
	// StateAwaitingDescription follows a photo (or a custom-text request);
	// the next text input is treated as the event description.
	StateAwaitingDescription
	// StateAwaitingClarification follows text-only input; the user chooses
	// between sending a photo and continuing text-only.
	StateAwaitingClarification
	// StateAwaitingPhoto means the user opted to send a photo after
	// initially going text-only.
	StateAwaitingPhoto
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDescription:
		return "awaiting_description"
	case StateAwaitingClarification:
		return "awaiting_clarification"
	case StateAwaitingPhoto:
		return "awaiting_photo"
	}
	return "unknown"
}

// Scratch is the transient per-conversation memory held while a dialog is
// in progress. It is consumed and cleared atomically with every terminal
// transition so a new cycle always starts fresh.
type Scratch struct {
	PhotoFileID string
	PhotoSize   int64
	Text        string
}

// Photo is an inbound photo attachment reduced to its chosen variant.
type Photo struct {
	FileID   string
	FileSize int64
}

// Input is one inbound turn, already stripped of transport framing.
type Input struct {
	Text   string
	Photo  *Photo
	Cancel bool
}

// EffectKind enumerates the side effects a transition can request.
type EffectKind int

const (
	// EffectShowEventKeyboard prompts for what happened, offering the eight
	// quick replies plus custom description.
	EffectShowEventKeyboard EffectKind = iota
	// EffectShowClarifyKeyboard offers the photo / text-only choice.
	EffectShowClarifyKeyboard
	// EffectPromptCustomText asks for a free-text description.
	EffectPromptCustomText
	// EffectPromptSendPhoto asks the user to send a photo.
	EffectPromptSendPhoto
	// EffectRemindSendPhoto nudges when text arrives while a photo is due.
	EffectRemindSendPhoto
	// EffectSubmit runs the submission path with the resolved description
	// and the stored media reference, if any.
	EffectSubmit
	// EffectAckCancel acknowledges an explicit cancellation.
	EffectAckCancel
)

// Effect is one side effect requested by a transition. Description and
// PhotoFileID are populated for EffectSubmit only.
type Effect struct {
	Kind        EffectKind
	Description string
	PhotoFileID string
}

// Result is the outcome of one transition.
type Result struct {
	Next    State
	Scratch Scratch
	Effects []Effect
}

// Transition is the pure dialog transition function: no I/O, no clock. The
// executor applies the returned effects in order.
func Transition(state State, scratch Scratch, in Input) Result {
	if in.Cancel {
		return Result{
			Next:    StateIdle,
			Effects: []Effect{{Kind: EffectAckCancel}},
		}
	}

	if in.Photo != nil {
		// A new photo replaces any stored media reference, from any state,
		// and the event keyboard is (re)presented.
		scratch.PhotoFileID = in.Photo.FileID
		scratch.PhotoSize = in.Photo.FileSize
		return Result{
			Next:    StateAwaitingDescription,
			Scratch: scratch,
			Effects: []Effect{{Kind: EffectShowEventKeyboard}},
		}
	}

	if in.Text == "" {
		return Result{Next: state, Scratch: scratch}
	}

	switch state {
	case StateIdle:
		scratch.Text = in.Text
		return Result{
			Next:    StateAwaitingClarification,
			Scratch: scratch,
			Effects: []Effect{{Kind: EffectShowClarifyKeyboard}},
		}

	case StateAwaitingDescription, StateAwaitingClarification:
		normalized := event.Normalize(in.Text)
		switch normalized.Kind {
		case event.KindRequestCustomText:
			return Result{
				Next:    StateAwaitingDescription,
				Scratch: scratch,
				Effects: []Effect{{Kind: EffectPromptCustomText}},
			}
		case event.KindRequestPhoto:
			return Result{
				Next:    StateAwaitingPhoto,
				Scratch: scratch,
				Effects: []Effect{{Kind: EffectPromptSendPhoto}},
			}
		case event.KindUseStoredText:
			// Fall back to the raw label when no free text was stored.
			description := scratch.Text
			if description == "" {
				description = in.Text
			}
			return submitResult(description, scratch)
		default:
			return submitResult(normalized.Description, scratch)
		}

	case StateAwaitingPhoto:
		return Result{
			Next:    StateAwaitingPhoto,
			Scratch: scratch,
			Effects: []Effect{{Kind: EffectRemindSendPhoto}},
		}
	}

	return Result{Next: state, Scratch: scratch}
}

// submitResult builds the terminal submission transition: scratch is
// consumed into the effect and cleared together with the state reset, so
// exactly one submission happens per completed dialog.
func submitResult(description string, scratch Scratch) Result {
	return Result{
		Next: StateIdle,
		Effects: []Effect{{
			Kind:        EffectSubmit,
			Description: description,
			PhotoFileID: scratch.PhotoFileID,
		}},
	}
}
