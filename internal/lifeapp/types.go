package lifeapp

// eventRequest is the submission payload for one lifecycle event report.
type eventRequest struct {
	TelegramID  string `json:"telegramId"`
	Text        string `json:"text"`
	BotToken    string `json:"botToken"`
	Timestamp   int64  `json:"timestamp"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// MatchedProduct identifies the product the backend matched the event to.
type MatchedProduct struct {
	Name string `json:"name"`
}

// LifecycleStep is the step the backend created from the report.
type LifecycleStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MatchInfo carries the backend's matching confidence, 0-100.
type MatchInfo struct {
	Confidence int    `json:"confidence"`
	Message    string `json:"message"`
}

// EventOutcome is the decoded result of one submission. Exactly one of the
// success fields (MatchedProduct/LifecycleStep/MatchInfo) or the failure
// fields (Message/Error) is meaningful, gated by Success.
type EventOutcome struct {
	Success        bool            `json:"success"`
	MatchedProduct *MatchedProduct `json:"matchedProduct,omitempty"`
	LifecycleStep  *LifecycleStep  `json:"lifecycleStep,omitempty"`
	MatchInfo      *MatchInfo      `json:"matchInfo,omitempty"`
	Message        string          `json:"message,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// FailureText picks the most specific failure message available.
func (o *EventOutcome) FailureText() string {
	if o.Message != "" {
		return o.Message
	}
	if o.Error != "" {
		return o.Error
	}
	return "Failed to process event"
}

// StatusInfo is the account-linking status for one Telegram user.
type StatusInfo struct {
	Linked         bool       `json:"linked"`
	User           StatusUser `json:"user"`
	Stats          UserStats  `json:"stats"`
	RecentActivity []Activity `json:"recentActivity"`
}

// StatusUser describes the linked Life app account.
type StatusUser struct {
	Name     string `json:"name"`
	LinkedAt string `json:"linkedAt"`
}

// UserStats are aggregate counters for a linked account.
type UserStats struct {
	TrackedProducts int     `json:"trackedProducts"`
	AvgEcoScore     float64 `json:"avgEcoScore"`
}

// Activity is one recent lifecycle step for the status display.
type Activity struct {
	StepIcon    string `json:"stepIcon"`
	StepLabel   string `json:"stepLabel"`
	ProductName string `json:"productName"`
}

// ProductsInfo is the tracked-product listing for one Telegram user.
type ProductsInfo struct {
	Linked   bool      `json:"linked"`
	Products []Product `json:"products"`
	Stats    UserStats `json:"stats"`
}

// Product is one tracked product with its eco score.
type Product struct {
	Name     string  `json:"name"`
	EcoScore float64 `json:"ecoScore"`
}
