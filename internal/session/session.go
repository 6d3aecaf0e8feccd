package session

import (
	"context"
	"errors"

	"mathclass-bot/internal/registration"
)

// ErrNoSession means the user has no live conversation: either none was ever
// started or it timed out and was discarded.
var ErrNoSession = errors.New("no active session")

// Store keeps in-flight registration contexts keyed by chat id. Contexts are
// transient by contract: every implementation drops them after the configured
// TTL, which is the conversation timeout.
type Store interface {
	Get(ctx context.Context, chatID int64) (*registration.Context, error)
	Save(ctx context.Context, chatID int64, rc *registration.Context) error
	Clear(ctx context.Context, chatID int64) error
}
