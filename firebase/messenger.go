package firebase

import "errors"

// ErrTokenNotRegistered marks a device token FCM no longer accepts.
var ErrTokenNotRegistered = errors.New("push token not registered")

// Messenger abstracts push delivery for dependency injection and testing.
type Messenger interface {
	SendPush(token, title, body string, data map[string]string) error
}

// FCMMessenger is the real implementation that delegates to package-level functions.
type FCMMessenger struct{}

func NewMessenger() Messenger {
	return &FCMMessenger{}
}

func (f *FCMMessenger) SendPush(token, title, body string, data map[string]string) error {
	return SendPush(token, title, body, data)
}
