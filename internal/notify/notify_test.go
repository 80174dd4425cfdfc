// ABOUTME: Tests for notification fan-out and duplicate suppression

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func collector(n *Notifier) *[]Notification {
	var got []Notification
	n.AddSink(func(note Notification) { got = append(got, note) })
	return &got
}

func TestDuplicateSuppressedWithinWindow(t *testing.T) {
	n := New()
	clock := time.Now()
	n.now = func() time.Time { return clock }
	got := collector(n)

	// The same failing request retried three times surfaces once.
	n.Error("network", "GET /api/tournaments", "Cannot reach the server.")
	n.Error("network", "GET /api/tournaments", "Cannot reach the server.")
	clock = clock.Add(time.Second)
	n.Error("network", "GET /api/tournaments", "Cannot reach the server.")

	assert.Len(t, *got, 1)
}

func TestReEmittedAfterWindow(t *testing.T) {
	n := New()
	clock := time.Now()
	n.now = func() time.Time { return clock }
	got := collector(n)

	n.Error("network", "GET /api/tournaments", "Cannot reach the server.")
	clock = clock.Add(DefaultWindow)
	n.Error("network", "GET /api/tournaments", "Cannot reach the server.")

	assert.Len(t, *got, 2)
}

func TestDistinctIdentitiesAllDelivered(t *testing.T) {
	n := New()
	got := collector(n)

	n.Error("network", "GET /api/tournaments", "Cannot reach the server.")
	n.Error("network", "GET /api/v1/news", "Cannot reach the server.")
	n.Error("server", "GET /api/tournaments", "The server encountered an error.")
	n.Success("mutation", "news.create", "Article published")

	assert.Len(t, *got, 4)
}

func TestAllSinksReceive(t *testing.T) {
	n := New()
	var a, b int
	n.AddSink(func(Notification) { a++ })
	n.AddSink(func(Notification) { b++ })

	n.Info("hint", "startup", "Session restored")

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
