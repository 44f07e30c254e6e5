package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/lifeapp/lifebot/internal/event"
	"github.com/lifeapp/lifebot/internal/journal"
	"github.com/lifeapp/lifebot/internal/lifeapp"
	"github.com/lifeapp/lifebot/internal/telegram"
)

const (
	photoReceivedPrompt = "📸 Great! I see you've sent a photo. Now tell me what happened with this product:"

	clarifyPrompt = "📝 I see you've described something. For better product identification, could you also send a photo?\n\n" +
		"Or if you want to proceed with text only, I'll try to match based on your description:"

	customTextPrompt = "Please describe what happened with your product:"

	sendPhotoPrompt = "Perfect! Please send a photo of your product:"

	remindPhotoPrompt = "Waiting for your photo. Send one now, or use /cancel to stop."

	processingText = "🔄 Processing your lifecycle event...\n" +
		"• Analyzing content\n" +
		"• Matching products\n" +
		"• Creating lifecycle step"

	cancelledText = "❌ Operation cancelled. Send me a photo anytime to track a lifecycle event!"

	apologyText = "❌ Sorry, something went wrong processing your event. Please try again later."
)

// eventKeyboard offers the eight quick replies plus custom description,
// laid out as the original four pairs.
func eventKeyboard() *telegram.ReplyKeyboardMarkup {
	labels := event.EventLabels
	return telegram.NewReplyKeyboard(
		[]string{labels[0], labels[1]},
		[]string{labels[2], labels[3]},
		[]string{labels[4], labels[5]},
		[]string{labels[6], labels[7]},
		[]string{event.LabelCustom},
	)
}

func clarifyKeyboard() *telegram.ReplyKeyboardMarkup {
	return telegram.NewReplyKeyboard(
		[]string{event.LabelSendPhoto, event.LabelTextOnly},
	)
}

// handleTurn processes one inbound update for its conversation. It is the
// single entry point of the dialog layer, so the recover here is the
// top-level catch: whatever goes wrong, the conversation ends up idle and
// the user gets an apology rather than silence.
func (b *Bot) handleTurn(ctx context.Context, conv *Conversation, upd telegram.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("chat %d: panic handling update %d: %v", conv.ChatID, upd.UpdateID, r)
			conv.State = StateIdle
			conv.Scratch = Scratch{}
			b.send(ctx, conv.ChatID, apologyText, "", telegram.RemoveKeyboard)
		}
	}()

	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}

	if name, ok := parseCommand(msg.Text); ok {
		b.handleCommand(ctx, conv, msg, name)
		return
	}

	b.step(ctx, conv, msg, inputFromMessage(msg))
}

// step advances the state machine by one input and applies the effects.
func (b *Bot) step(ctx context.Context, conv *Conversation, msg *telegram.Message, in Input) {
	res := Transition(conv.State, conv.Scratch, in)
	if b.verbose {
		log.Printf("chat %d: %s -> %s (%d effects)", conv.ChatID, conv.State, res.Next, len(res.Effects))
	}
	conv.State = res.Next
	conv.Scratch = res.Scratch

	for _, eff := range res.Effects {
		b.applyEffect(ctx, conv, msg, eff)
	}
}

// inputFromMessage reduces an inbound message to an FSM input. When a photo
// carries multiple resolution variants, the last one is the highest
// resolution and is the one stored.
func inputFromMessage(msg *telegram.Message) Input {
	if len(msg.Photo) > 0 {
		best := msg.Photo[len(msg.Photo)-1]
		return Input{Photo: &Photo{FileID: best.FileID, FileSize: best.FileSize}}
	}
	return Input{Text: msg.Text}
}

func (b *Bot) applyEffect(ctx context.Context, conv *Conversation, msg *telegram.Message, eff Effect) {
	switch eff.Kind {
	case EffectShowEventKeyboard:
		b.send(ctx, conv.ChatID, photoReceivedPrompt, "", eventKeyboard())
	case EffectShowClarifyKeyboard:
		b.send(ctx, conv.ChatID, clarifyPrompt, "", clarifyKeyboard())
	case EffectPromptCustomText:
		b.send(ctx, conv.ChatID, customTextPrompt, "", telegram.RemoveKeyboard)
	case EffectPromptSendPhoto:
		b.send(ctx, conv.ChatID, sendPhotoPrompt, "", telegram.RemoveKeyboard)
	case EffectRemindSendPhoto:
		b.send(ctx, conv.ChatID, remindPhotoPrompt, "", nil)
	case EffectAckCancel:
		b.send(ctx, conv.ChatID, cancelledText, "", telegram.RemoveKeyboard)
	case EffectSubmit:
		b.submit(ctx, conv.ChatID, telegram.FormatUserID(msg.From.ID), eff)
	}
}

// submit runs the submission path: processing placeholder, optional media
// fetch, one backend call, rendered outcome, journal record.
func (b *Bot) submit(ctx context.Context, chatID int64, telegramID string, eff Effect) {
	attemptID := uuid.New().String()

	processing, err := b.tg.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:      chatID,
		Text:        processingText,
		ReplyMarkup: telegram.RemoveKeyboard,
	})
	if err != nil {
		log.Printf("chat %d: sending processing message: %v", chatID, err)
		processing = nil
	}

	imageBase64 := ""
	if eff.PhotoFileID != "" {
		data, err := b.fetcher.Fetch(ctx, eff.PhotoFileID)
		if err != nil {
			// Degrade to a text-only submission.
			log.Printf("chat %d: attempt %s: fetching photo: %v", chatID, attemptID, err)
		} else {
			imageBase64 = data
		}
	}

	outcome := b.api.SubmitEvent(ctx, telegramID, eff.Description, imageBase64)
	log.Printf("chat %d: attempt %s: success=%t", chatID, attemptID, outcome.Success)

	var text, parseMode string
	if outcome.Success {
		text = renderSuccess(outcome)
		parseMode = "Markdown"
	} else {
		text = "❌ " + outcome.FailureText()
	}
	b.deliver(ctx, chatID, processing, text, parseMode)

	if b.journal != nil {
		entry := journal.Entry{
			ID:          attemptID,
			TelegramID:  telegramID,
			Description: eff.Description,
			HasImage:    imageBase64 != "",
			Success:     outcome.Success,
		}
		if outcome.MatchedProduct != nil {
			entry.ProductName = outcome.MatchedProduct.Name
		}
		if outcome.LifecycleStep != nil {
			entry.StepTitle = outcome.LifecycleStep.Title
		}
		if outcome.MatchInfo != nil {
			entry.Confidence = outcome.MatchInfo.Confidence
			entry.Message = outcome.MatchInfo.Message
		} else {
			entry.Message = outcome.FailureText()
		}
		if err := b.journal.Record(ctx, entry); err != nil {
			log.Printf("chat %d: recording attempt %s: %v", chatID, attemptID, err)
		}
	}
}

// deliver edits the processing placeholder with the final text, falling
// back to a fresh message when editing is not possible.
func (b *Bot) deliver(ctx context.Context, chatID int64, processing *telegram.Message, text, parseMode string) {
	if processing != nil {
		err := b.tg.EditMessageText(ctx, chatID, processing.MessageID, text, parseMode)
		if err == nil {
			return
		}
		log.Printf("chat %d: could not edit message %d: %v", chatID, processing.MessageID, err)
	}
	b.send(ctx, chatID, text, parseMode, nil)
}

// send is the plain outbound path; failures are logged, never fatal to the
// conversation.
func (b *Bot) send(ctx context.Context, chatID int64, text, parseMode string, markup any) {
	_, err := b.tg.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   parseMode,
		ReplyMarkup: markup,
	})
	if err != nil {
		log.Printf("chat %d: sending message: %v", chatID, err)
	}
}

func renderSuccess(outcome *lifeapp.EventOutcome) string {
	product := "Unknown product"
	if outcome.MatchedProduct != nil && outcome.MatchedProduct.Name != "" {
		product = outcome.MatchedProduct.Name
	}
	stepTitle, stepDescription := "", ""
	if outcome.LifecycleStep != nil {
		stepTitle = outcome.LifecycleStep.Title
		stepDescription = outcome.LifecycleStep.Description
	}
	confidence, matchMessage := 0, ""
	if outcome.MatchInfo != nil {
		confidence = outcome.MatchInfo.Confidence
		matchMessage = outcome.MatchInfo.Message
	}

	var sb strings.Builder
	sb.WriteString("✅ *Lifecycle Event Recorded!*\n\n")
	fmt.Fprintf(&sb, "*Product:* %s\n", product)
	fmt.Fprintf(&sb, "*Event:* %s\n", stepTitle)
	fmt.Fprintf(&sb, "*Match Confidence:* %d%%\n\n", confidence)
	if matchMessage != "" {
		sb.WriteString(matchMessage + "\n\n")
	}
	fmt.Fprintf(&sb, "*Description:* %s\n\n", stepDescription)
	sb.WriteString("🌱 Check your Life app dashboard to see the full timeline!")
	return sb.String()
}
