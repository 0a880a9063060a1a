package quiz

// Tier is the feedback bracket a final percentage falls into.
type Tier int

const (
	TierLow Tier = iota
	TierMid
	TierHigh
)

const (
	midThreshold  = 50
	highThreshold = 80
)

// TierFor returns the tier for a percentage: below 50 is low, below 80 is
// mid, anything else is high.
func TierFor(percentage int) Tier {
	switch {
	case percentage >= highThreshold:
		return TierHigh
	case percentage >= midThreshold:
		return TierMid
	default:
		return TierLow
	}
}

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Color returns the accent color of the results readout.
func (t Tier) Color() string {
	switch t {
	case TierHigh:
		return "#2ecc71"
	case TierMid:
		return "#f1c40f"
	default:
		return "#e74c3c"
	}
}

// MessageKey returns the localization key of the tier's message.
func (t Tier) MessageKey() string {
	switch t {
	case TierHigh:
		return "ui_outstanding"
	case TierMid:
		return "ui_good_job"
	default:
		return "ui_keep_practicing"
	}
}

// ParseTier is the inverse of Tier.String. Unknown names map to TierLow.
func ParseTier(s string) Tier {
	switch s {
	case "high":
		return TierHigh
	case "mid":
		return TierMid
	default:
		return TierLow
	}
}

// Result is the outcome of a finished quiz.
type Result struct {
	Score      int
	Total      int
	Percentage int
	Tier       Tier
}

// NewResult computes the percentage and tier for score out of total.
func NewResult(score, total int) Result {
	pct := Percentage(score, total)
	return Result{
		Score:      score,
		Total:      total,
		Percentage: pct,
		Tier:       TierFor(pct),
	}
}

// Percentage returns round(100*score/total), rounding halves up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	*t = ParseTier(string(b))
	return nil
}
