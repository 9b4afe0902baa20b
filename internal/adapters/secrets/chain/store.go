// Package chain layers secret backends: reads and writes go to the first
// backend that answers, deletes go to all of them.
package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	filestore "github.com/bnema/spo-contact-sync/internal/adapters/secrets/file"
	passstore "github.com/bnema/spo-contact-sync/internal/adapters/secrets/pass"
	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

// Backend is one named link of the chain. The name only shows up in errors
// and logs.
type Backend struct {
	Name  string
	Store ports.SecretStore
}

type Store struct {
	backends []Backend
	logger   *slog.Logger
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret chain needs at least one backend")

func NewStore(logger *slog.Logger, backends ...Backend) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend.Store == nil {
			return nil, fmt.Errorf("secret backend %d (%q) is nil", i, backend.Name)
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{
		backends: append([]Backend(nil), backends...),
		logger:   logger.With("component", "secrets"),
	}, nil
}

// NewPassFirstWithFileFallback keeps passwords in pass and falls back to
// plain files under fileRoot on hosts without a usable pass setup. An empty
// passDir uses the pass default store.
func NewPassFirstWithFileFallback(fileRoot string, passDir string, logger *slog.Logger) (*Store, error) {
	return NewStore(logger,
		Backend{Name: "pass", Store: passstore.NewStore(passstore.WithStoreDir(passDir))},
		Backend{Name: "file", Store: filestore.NewStore(fileRoot)},
	)
}

// Get returns the first value found. A backend without the key is skipped
// silently; a failing one is logged and skipped. ErrSecretNotFound is returned
// only when every backend answered that it has no such key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var failures []error
	for _, backend := range s.backends {
		value, err := backend.Store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if isContextErr(err) {
			return "", err
		}
		if errors.Is(err, domain.ErrSecretNotFound) {
			continue
		}

		s.logger.Warn("secret backend unavailable", "backend", backend.Name, "op", "get", "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", backend.Name, err))
	}

	if len(failures) == 0 {
		return "", fmt.Errorf("get secret %q: %w", key, domain.ErrSecretNotFound)
	}

	return "", fmt.Errorf("get secret %q from %s: %w", key, s.names(), errors.Join(failures...))
}

// Put writes to the first backend that accepts the value.
func (s *Store) Put(ctx context.Context, key string, value string) error {
	var failures []error
	for _, backend := range s.backends {
		err := backend.Store.Put(ctx, key, value)
		if err == nil {
			if len(failures) > 0 {
				s.logger.Warn("secret stored in fallback backend", "backend", backend.Name)
			}
			return nil
		}
		if isContextErr(err) {
			return err
		}

		failures = append(failures, fmt.Errorf("%s: %w", backend.Name, err))
	}

	return fmt.Errorf("put secret %q into %s: %w", key, s.names(), errors.Join(failures...))
}

// Delete removes key from every backend, since a secret written while an
// earlier backend was down lives further down the chain. It fails only when
// no backend managed to delete.
func (s *Store) Delete(ctx context.Context, key string) error {
	var failures []error
	for _, backend := range s.backends {
		err := backend.Store.Delete(ctx, key)
		if err == nil {
			continue
		}
		if isContextErr(err) {
			return err
		}

		s.logger.Debug("secret backend delete failed", "backend", backend.Name, "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", backend.Name, err))
	}

	if len(failures) == len(s.backends) {
		return fmt.Errorf("delete secret %q from %s: %w", key, s.names(), errors.Join(failures...))
	}

	return nil
}

func (s *Store) names() string {
	names := make([]string, 0, len(s.backends))
	for _, backend := range s.backends {
		names = append(names, backend.Name)
	}
	return strings.Join(names, ", ")
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
