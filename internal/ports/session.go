package ports

import (
	"context"

	"github.com/bnema/spo-contact-sync/internal/domain"
)

// CommandRunner executes one framed command and waits for its sentinel.
type CommandRunner interface {
	Execute(ctx context.Context, command string) (domain.CommandResult, error)
}

// Session is a live interpreter process owned by the sync orchestrator.
type Session interface {
	CommandRunner
	Send(command string) error
	ReadAvailable() ([]string, error)
	Close() error
}

type SessionOpener func(ctx context.Context) (Session, error)
