// Package pass keeps profile passwords in the standard unix password manager.
package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

var (
	ErrUnavailable = errors.New("pass command unavailable")
	errEmptySecret = errors.New("empty secret")
)

const notInStore = "is not in the password store"

// invocation is one run of the pass binary.
type invocation struct {
	args  []string
	stdin string
	env   []string
}

type runFunc func(ctx context.Context, inv invocation) (stdout string, stderr string, err error)

type Store struct {
	run      runFunc
	storeDir string
}

var _ ports.SecretStore = (*Store)(nil)

type Option func(*Store)

// WithStoreDir points pass at a password store other than ~/.password-store.
func WithStoreDir(dir string) Option {
	return func(s *Store) {
		s.storeDir = strings.TrimSpace(dir)
	}
}

func NewStore(opts ...Option) *Store {
	store := &Store{run: runPassCommand}
	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Put stores value as the first line of the entry, replacing whatever was
// there before.
func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("pass put %q: %w", key, errEmptySecret)
	}

	_, stderr, err := s.run(ctx, s.invocation(value+"\n", "insert", "--multiline", "--force", key))
	if err != nil {
		return commandError("put", key, err, stderr)
	}

	return nil
}

// Get returns the first line of the entry. pass users keep a login or URL on
// the following lines; those are not part of the password.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, s.invocation("", "show", key))
	if err != nil {
		if strings.Contains(stderr, notInStore) {
			return "", fmt.Errorf("pass get %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", commandError("get", key, err, stderr)
	}

	password, _, _ := strings.Cut(stdout, "\n")
	password = strings.TrimSuffix(password, "\r")
	if password == "" {
		return "", fmt.Errorf("pass get %q: %w", key, errEmptySecret)
	}

	return password, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, s.invocation("", "rm", "--force", key))
	if err != nil && !strings.Contains(stderr, notInStore) {
		return commandError("delete", key, err, stderr)
	}

	return nil
}

func (s *Store) invocation(stdin string, args ...string) invocation {
	inv := invocation{args: args, stdin: stdin}
	if s.storeDir != "" {
		inv.env = append(inv.env, "PASSWORD_STORE_DIR="+s.storeDir)
	}
	return inv
}

func runPassCommand(ctx context.Context, inv invocation) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, inv.args...)
	if inv.stdin != "" {
		cmd.Stdin = strings.NewReader(inv.stdin)
	}
	if len(inv.env) > 0 {
		cmd.Env = append(os.Environ(), inv.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func commandError(op string, key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}

	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
