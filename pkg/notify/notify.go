package notify

import (
	"context"
	"regexp"

	"github.com/robinjoseph08/golib/logger"
)

var (
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRE = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// Sender delivers a one-time code to an identifier over the channel the
// identifier's format implies (email address or phone number).
type Sender interface {
	SendOTP(ctx context.Context, identifier, code string) error
}

// LogSender writes the code to the application log instead of delivering
// it. Real email/SMS delivery is wired in deployment, not here.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendOTP(ctx context.Context, identifier, code string) error {
	channel := "sms"
	if emailRE.MatchString(identifier) {
		channel = "email"
	}

	log := logger.FromContext(ctx)
	log.Info("otp dispatched", logger.Data{
		"channel":    channel,
		"identifier": identifier,
		"code":       code,
	})

	return nil
}

// IsEmail reports whether the identifier looks like an email address.
func IsEmail(identifier string) bool {
	return emailRE.MatchString(identifier)
}

// IsPhone reports whether the identifier looks like a phone number.
func IsPhone(identifier string) bool {
	return phoneRE.MatchString(identifier)
}
