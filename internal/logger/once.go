package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Once is a warning stream that reports each key a single time.
type Once struct {
	mu       sync.Mutex
	seen     map[string]bool
	messages []string
}

// NewOnce creates an empty stream.
func NewOnce() *Once {
	return &Once{seen: make(map[string]bool)}
}

// Warn logs msg at warn level unless key was already reported. It returns
// true when the message was logged.
func (o *Once) Warn(key, msg string, fields ...zap.Field) bool {
	o.mu.Lock()
	if o.seen[key] {
		o.mu.Unlock()
		return false
	}
	o.seen[key] = true
	o.messages = append(o.messages, msg)
	o.mu.Unlock()

	Log.Warn(msg, fields...)
	return true
}

// Messages returns the reported messages in first-seen order.
func (o *Once) Messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.messages...)
}

// Reset forgets every key.
func (o *Once) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = make(map[string]bool)
	o.messages = nil
}
