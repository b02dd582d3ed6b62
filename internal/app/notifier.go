package app

import "github.com/duongtapcode03/lmobile-flashsale/internal/domain"

// Notifier receives flash sale transition events. Implementations must not
// block: transitions are already committed when Notify runs and the caller
// never waits on delivery.
type Notifier interface {
	Notify(ev domain.TransitionEvent)
}

type NopNotifier struct{}

func (NopNotifier) Notify(domain.TransitionEvent) {}

// ChanNotifier buffers events on a channel and drops them when the buffer
// is full, keeping emitters non-blocking.
type ChanNotifier struct {
	ch chan domain.TransitionEvent
}

func NewChanNotifier(size int) *ChanNotifier {
	if size <= 0 {
		size = 64
	}
	return &ChanNotifier{ch: make(chan domain.TransitionEvent, size)}
}

func (n *ChanNotifier) Notify(ev domain.TransitionEvent) {
	select {
	case n.ch <- ev:
	default:
	}
}

// Events exposes the buffered stream for a consumer goroutine.
func (n *ChanNotifier) Events() <-chan domain.TransitionEvent {
	return n.ch
}
