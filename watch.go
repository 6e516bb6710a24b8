package zkcli

import (
	"sync"

	"github.com/go-zookeeper/zk"
)

// projectEvents converts a native one-shot watch channel into the
// wrapper's vocabulary. The native channel delivers at most one event.
func projectEvents(events <-chan zk.Event) <-chan Event {
	out := make(chan Event, 1)
	go func() {
		defer close(out)
		for ev := range events {
			out <- eventOf(ev)
		}
	}()
	return out
}

// Watcher is a persistent subscription built by re-arming one-shot
// watches. It stays active until Stop is called or the session closes.
type Watcher struct {
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// Events delivers notifications until the watcher stops. The channel is
// closed afterwards.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop terminates the subscription. Safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
	})
}

func newWatcher() *Watcher {
	return &Watcher{
		events: make(chan Event, 1),
		done:   make(chan struct{}),
	}
}

func (w *Watcher) forward(ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-w.done:
		return false
	}
}

// WatchData delivers data-change and deletion events for a node until
// stopped. A missing node is waited on through an existence watch, so
// creation is observed as well.
func (c *Client) WatchData(path string) *Watcher {
	w := newWatcher()
	go func() {
		defer close(w.events)
		for {
			_, _, events, err := c.GetW(path)
			if IsNoNode(err) {
				_, _, events, err = c.ExistsW(path)
			}
			if err != nil {
				c.logger.Warnf("Data watch on %q failed: %v", path, err)
				return
			}
			if !c.waitAndForward(w, events) {
				return
			}
		}
	}()
	return w
}

// WatchChildren delivers child-change events for a node until stopped.
func (c *Client) WatchChildren(path string) *Watcher {
	w := newWatcher()
	go func() {
		defer close(w.events)
		for {
			_, _, events, err := c.ChildrenW(path)
			if err != nil {
				c.logger.Warnf("Child watch on %q failed: %v", path, err)
				return
			}
			if !c.waitAndForward(w, events) {
				return
			}
		}
	}()
	return w
}

func (c *Client) waitAndForward(w *Watcher, events <-chan Event) bool {
	select {
	case <-w.done:
		return false
	case ev, ok := <-events:
		if !ok {
			// native watch channel closed without an event: session gone
			return false
		}
		if ev.State == StateExpired || ev.State == StateClosed {
			return false
		}
		return w.forward(ev)
	}
}
