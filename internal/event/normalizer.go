// Package event normalizes raw dialog turns into lifecycle event descriptions.
package event

// Kind classifies a normalized turn input.
type Kind int

const (
	// KindDescription means the input is (or was rewritten to) a free-text
	// event description, ready for submission.
	KindDescription Kind = iota
	// KindRequestCustomText means the user wants to type their own description.
	KindRequestCustomText
	// KindRequestPhoto means the user wants to send a photo first.
	KindRequestPhoto
	// KindUseStoredText means the user wants to proceed with the free text
	// they already sent, without a photo.
	KindUseStoredText
)

// NormalizedEvent is the result of normalizing one raw text input.
// Description is populated only for KindDescription.
type NormalizedEvent struct {
	Kind        Kind
	Description string
}

// Quick-reply labels offered after a photo arrives. Matching is exact,
// including the emoji prefix.
const (
	LabelBroken    = "🔴 Broken/Not Working"
	LabelFixed     = "🔧 Fixed/Repaired"
	LabelBought    = "🛒 Just Bought"
	LabelRecycled  = "♻️ Recycled/Disposed"
	LabelSold      = "🎁 Sold/Gifted"
	LabelUpgraded  = "⬆️ Upgraded/Modified"
	LabelCleaned   = "🧽 Cleaned/Maintained"
	LabelWorking   = "✅ Working Great"
	LabelCustom    = "📝 Custom Description"
	LabelSendPhoto = "📸 I'll send a photo"
	LabelTextOnly  = "📝 Continue with text only"
)

// descriptionMapping rewrites each quick-reply label to its canonical
// descriptive sentence.
var descriptionMapping = map[string]string{
	LabelBroken:   "This product is broken and not working properly",
	LabelFixed:    "I fixed and repaired this product, it's working now",
	LabelBought:   "I just purchased this product",
	LabelRecycled: "I recycled or disposed of this product",
	LabelSold:     "I sold or gave away this product",
	LabelUpgraded: "I upgraded or modified this product",
	LabelCleaned:  "I cleaned and maintained this product",
	LabelWorking:  "This product is working great with no issues",
}

// EventLabels are the eight quick-reply labels in keyboard order.
var EventLabels = []string{
	LabelBroken, LabelFixed,
	LabelBought, LabelRecycled,
	LabelSold, LabelUpgraded,
	LabelCleaned, LabelWorking,
}

// Normalize maps one raw text input to a NormalizedEvent. The eight event
// labels are rewritten to their canonical sentences; the three control
// labels select a control action; everything else is free text and passes
// through unchanged. There is no fuzzy matching and no invalid-input case.
func Normalize(raw string) NormalizedEvent {
	if canonical, ok := descriptionMapping[raw]; ok {
		return NormalizedEvent{Kind: KindDescription, Description: canonical}
	}

	switch raw {
	case LabelCustom:
		return NormalizedEvent{Kind: KindRequestCustomText}
	case LabelSendPhoto:
		return NormalizedEvent{Kind: KindRequestPhoto}
	case LabelTextOnly:
		return NormalizedEvent{Kind: KindUseStoredText}
	}

	return NormalizedEvent{Kind: KindDescription, Description: raw}
}
