package domain

// Frequency is how often a subscriber receives a task report.
type Frequency string

// Report frequencies.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Frequencies lists every valid Frequency.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// ParseFrequency converts a wire value into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return f, nil
	default:
		return "", ErrInvalidFrequency
	}
}

// Subscription registers a user for periodic reports.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Frequency Frequency `json:"frequency"`
}

// NewSubscription validates and builds a Subscription.
func NewSubscription(userID int64, frequency string) (*Subscription, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	f, err := ParseFrequency(frequency)
	if err != nil {
		return nil, err
	}
	return &Subscription{UserID: userID, Frequency: f}, nil
}
