package domain

import (
	"fmt"
	"log/slog"
	"strings"
)

type SystemID string

const (
	SystemExchange   SystemID = "exchange"
	SystemSharePoint SystemID = "sharepoint"
)

func (s SystemID) Validate() error {
	switch s {
	case SystemExchange, SystemSharePoint:
		return nil
	default:
		return fmt.Errorf("unsupported system %q", s)
	}
}

type CommandResult struct {
	Command   string
	Lines     []string
	Succeeded bool
}

func (r CommandResult) Output() string {
	return strings.Join(r.Lines, "\n")
}

type Credentials struct {
	Username string
	Password string
}

// LogValue keeps the password out of structured logs.
func (c Credentials) LogValue() slog.Value {
	password := ""
	if c.Password != "" {
		password = "[redacted]"
	}

	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("password", password),
	)
}
