package events

import "context"

// Broadcaster is satisfied by the admin live feed hub.
type Broadcaster interface {
	Broadcast(v interface{}) error
}

// HubPublisher forwards events to connected admin sessions.
type HubPublisher struct {
	hub Broadcaster
}

func NewHubPublisher(hub Broadcaster) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, event Event) error {
	return p.hub.Broadcast(event)
}
