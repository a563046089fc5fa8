package services

import "github.com/brackethq/competition-core/brackets"

// Notifier pushes competition events to live subscribers. The websocket hub
// implements it; tests plug in a recorder.
type Notifier interface {
	BroadcastToRoom(roomID string, event brackets.Event)
}

// NopNotifier drops all events.
type NopNotifier struct{}

func (NopNotifier) BroadcastToRoom(string, brackets.Event) {}
