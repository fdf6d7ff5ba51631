package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrFeedClosed is returned when pushing to a closed feed.
var ErrFeedClosed = errors.New("feed closed")

// Feed delivers a player's live encounter lines to one consumer, in order
// and without loss.
type Feed struct {
	playerID string
	lines    chan string
	done     chan struct{}
	once     sync.Once
	// mu is held for reading by in-flight pushes; Close takes it for writing
	// before closing lines.
	mu     sync.RWMutex
	closed bool
}

// NewFeed creates a Feed for playerID. A non-positive bufferSize means 64.
func NewFeed(playerID string, bufferSize int) *Feed {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Feed{playerID: playerID, lines: make(chan string, bufferSize), done: make(chan struct{})}
}

// PlayerID returns the owning player.
func (f *Feed) PlayerID() string { return f.playerID }

// Push enqueues line, waiting for buffer space while the consumer catches up.
//
// Postcondition: returns nil once line is queued, an error wrapping
// ErrFeedClosed if the feed is or becomes closed, or ctx's error.
func (f *Feed) Push(ctx context.Context, line string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return fmt.Errorf("feed %s: %w", f.playerID, ErrFeedClosed)
	}
	select {
	case f.lines <- line:
		return nil
	case <-f.done:
		return fmt.Errorf("feed %s: %w", f.playerID, ErrFeedClosed)
	case <-ctx.Done():
		return fmt.Errorf("feed %s: %w", f.playerID, ctx.Err())
	}
}

// Lines returns the receive side of the feed.
func (f *Feed) Lines() <-chan string { return f.lines }

// Close wakes blocked pushes and closes the channel. It is idempotent.
func (f *Feed) Close() error {
	f.once.Do(func() {
		close(f.done)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.closed = true
		close(f.lines)
	})
	return nil
}

// IsClosed reports whether Close has completed.
func (f *Feed) IsClosed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

// Hub tracks one Feed per subscribed player. All methods are safe for
// concurrent use.
type Hub struct {
	mu    sync.RWMutex
	feeds map[string]*Feed
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{feeds: make(map[string]*Feed)}
}

// Subscribe opens a feed for playerID.
//
// Postcondition: returns an error if playerID is already subscribed.
func (h *Hub) Subscribe(playerID string, bufferSize int) (*Feed, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.feeds[playerID]; exists {
		return nil, fmt.Errorf("player %q already subscribed", playerID)
	}
	f := NewFeed(playerID, bufferSize)
	h.feeds[playerID] = f
	return f, nil
}

// Unsubscribe closes and removes playerID's feed.
func (h *Hub) Unsubscribe(playerID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, exists := h.feeds[playerID]
	if !exists {
		return fmt.Errorf("player %q not subscribed", playerID)
	}
	_ = f.Close()
	delete(h.feeds, playerID)
	return nil
}

// Publish pushes line to playerID's feed, blocking like Feed.Push. Players
// without a feed are skipped silently.
func (h *Hub) Publish(ctx context.Context, playerID, line string) error {
	h.mu.RLock()
	f, ok := h.feeds[playerID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	return f.Push(ctx, line)
}

// Subscribers returns the number of open feeds.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.feeds)
}
