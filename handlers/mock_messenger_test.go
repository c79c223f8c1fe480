package handlers

import "sync"

// mockMessenger records push deliveries instead of calling FCM.
type mockMessenger struct {
	mu         sync.Mutex
	SendPushFn func(token, title, body string, data map[string]string) error
	Calls      []pushCall
}

type pushCall struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{Calls: []pushCall{}}
}

func (m *mockMessenger) SendPush(token, title, body string, data map[string]string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, pushCall{Token: token, Title: title, Body: body, Data: data})
	m.mu.Unlock()
	if m.SendPushFn != nil {
		return m.SendPushFn(token, title, body, data)
	}
	return nil
}

func (m *mockMessenger) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
