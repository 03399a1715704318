package services

import "log"

// NotificationService delivers verification codes. Delivery is a log
// line until a real mail/SMS provider is wired in.
type NotificationService struct{}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// SendResetCode sends a password reset code over the given channel
func (s *NotificationService) SendResetCode(channel, target, code string) {
	switch channel {
	case "email":
		log.Printf("📧 Password reset code for %s: %s", target, code)
	case "phone":
		log.Printf("📱 Password reset code for %s: %s", target, code)
	default:
		log.Printf("⚠️ Unknown notification channel %q for %s", channel, target)
	}
}
