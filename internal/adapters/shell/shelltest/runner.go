// Package shelltest provides a scripted ports.CommandRunner for tests.
package shelltest

import (
	"context"
	"sync"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

type reply struct {
	lines     []string
	succeeded bool
	err       error
}

// Runner records every executed command and answers from a queue of scripted
// replies. With an empty queue it answers success with no output.
type Runner struct {
	mu       sync.Mutex
	replies  []reply
	commands []string
}

var _ ports.CommandRunner = (*Runner)(nil)

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Reply(succeeded bool, lines ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.replies = append(r.replies, reply{lines: lines, succeeded: succeeded})
}

func (r *Runner) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.replies = append(r.replies, reply{err: err})
}

func (r *Runner) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.commands...)
}

func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.replies = nil
	r.commands = nil
}

func (r *Runner) Execute(ctx context.Context, command string) (domain.CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.CommandResult{Command: command}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, command)
	if len(r.replies) == 0 {
		return domain.CommandResult{Command: command, Succeeded: true}, nil
	}

	next := r.replies[0]
	r.replies = r.replies[1:]
	if next.err != nil {
		return domain.CommandResult{Command: command}, next.err
	}

	return domain.CommandResult{Command: command, Lines: next.lines, Succeeded: next.succeeded}, nil
}
