package presence

import "time"

// Notifier is the display sink for user-facing status text. The core only
// ever calls these two methods and does not own display lifetime beyond them.
type Notifier interface {
	ShowPersistent(text string)
	ShowTemporary(text string, d time.Duration)
}

// Clearer is implemented by sinks that can drop the current message outright.
type Clearer interface {
	Clear()
}

// ClearNotifier removes whatever the sink is showing. Sinks without Clear get
// an empty message that expires immediately.
func ClearNotifier(n Notifier) {
	if n == nil {
		return
	}
	if c, ok := n.(Clearer); ok {
		c.Clear()
		return
	}
	n.ShowTemporary("", 0)
}

type nopNotifier struct{}

func (nopNotifier) ShowPersistent(string)               {}
func (nopNotifier) ShowTemporary(string, time.Duration) {}

// NopNotifier discards every message.
func NopNotifier() Notifier { return nopNotifier{} }
