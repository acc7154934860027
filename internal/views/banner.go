package views

import "time"

// BannerLevel is the severity of a status banner.
type BannerLevel string

const (
	BannerSuccess BannerLevel = "success"
	BannerInfo    BannerLevel = "info"
	BannerWarning BannerLevel = "warning"
	BannerError   BannerLevel = "error"
)

// Banner is a transient, dismissible status message.
type Banner struct {
	Level     BannerLevel `json:"level"`
	Message   string      `json:"message"`
	Class     string      `json:"class"`
	DismissMS int64       `json:"dismiss_ms"`
}

// NewBanner builds a banner. Success and info dismiss after 3s, warnings and
// errors after 5s.
func NewBanner(level BannerLevel, message string) *Banner {
	b := &Banner{Level: level, Message: message}
	switch level {
	case BannerWarning:
		b.Class = "text-yellow-800 bg-yellow-50 border-yellow-300"
	case BannerError:
		b.Class = "text-red-800 bg-red-50 border-red-300"
	case BannerSuccess:
		b.Class = "text-green-800 bg-green-50 border-green-300"
	default:
		b.Level = BannerInfo
		b.Class = "text-blue-800 bg-blue-50 border-blue-300"
	}
	b.DismissMS = b.DismissAfter().Milliseconds()
	return b
}

// DismissAfter is how long the banner stays visible.
func (b *Banner) DismissAfter() time.Duration {
	switch b.Level {
	case BannerWarning, BannerError:
		return 5 * time.Second
	default:
		return 3 * time.Second
	}
}
