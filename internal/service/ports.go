//go:generate go run go.uber.org/mock/mockgen -source=ports.go -destination=../mocks/mock_ports.go -package=mocks

// Package service implements the back-office operations: the movie and room
// catalogs and the screening scheduler.  Every mutation runs behind the
// privilege Gate and returns a result.Result.
package service

import (
	"context"

	"github.com/iliyamo/cinema-backoffice/internal/model"
	"github.com/iliyamo/cinema-backoffice/internal/queue"
	"github.com/iliyamo/cinema-backoffice/internal/result"
)

// Gate is the privilege check in front of every mutation.  *auth.Authorizer
// satisfies it.
type Gate interface {
	RequirePrivileged() result.Result[model.User]
}

// EventPublisher receives schedule changes.  *queue.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ScreeningEvent) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ScreeningEvent) error { return nil }
