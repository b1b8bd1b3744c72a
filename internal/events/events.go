package events

import (
	"context"
	"time"
)

// RoutingKeyUserRegistered is published after a successful registration.
const RoutingKeyUserRegistered = "user.registered"

// Publisher sends domain events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// UserRegistered is the payload of RoutingKeyUserRegistered.
type UserRegistered struct {
	UserID       int64     `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                               { return nil }
