// Package shell owns one long-lived command interpreter and exchanges framed
// commands with it over its standard streams.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

const (
	markerPrefix = "__csync_end_"
	maxLineSize  = 1024 * 1024
)

// Channel is a session with one interpreter process. Its output (stdout and
// stderr share one pipe) is drained into a spool by a background goroutine,
// so reads never wait on the process itself.
type Channel struct {
	opts   Options
	logger *slog.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	output *os.File
	spool  *spool
	group  *errgroup.Group
	exited chan struct{}

	busy    atomic.Bool
	writeMu sync.Mutex

	mu     sync.Mutex
	closed bool
	broken error
	// sent tracks a command written by Send until ReadAvailable has handed
	// out its end marker.
	sent *collector
}

var _ ports.Session = (*Channel)(nil)

// Open starts the interpreter and waits for it to answer the dialect's
// prelude within the startup timeout.
func Open(ctx context.Context, opts ...Option) (*Channel, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	args, err := shellwords.Parse(options.Command)
	if err != nil {
		return nil, fmt.Errorf("parse shell command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("shell command is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, writer, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create output pipe: %w", err)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = append(os.Environ(), options.Env...)
	cmd.Stdout = writer
	cmd.Stderr = writer

	stdin, err := cmd.StdinPipe()
	if err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("open interpreter input: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("start interpreter %s: %w", args[0], err)
	}
	// The child holds its own copy; ours must go so EOF is seen on exit.
	_ = writer.Close()

	c := &Channel{
		opts:   options,
		logger: options.Logger.With("component", "shell", "pid", cmd.Process.Pid),
		cmd:    cmd,
		stdin:  stdin,
		output: reader,
		spool:  newSpool(),
		group:  new(errgroup.Group),
		exited: make(chan struct{}),
	}
	c.group.Go(c.drain)
	c.group.Go(c.wait)

	c.logger.Debug("interpreter started", "path", args[0], "dialect", options.Dialect.Name())

	result, err := c.execute(ctx, options.Dialect.Prelude(), options.StartupTimeout)
	if err == nil && !result.Succeeded {
		err = fmt.Errorf("%w: %s", domain.ErrCommandFailed, result.Output())
	}
	if err != nil {
		return nil, errors.Join(fmt.Errorf("shell handshake: %w", err), c.Close())
	}

	return c, nil
}

// Send writes one framed command without waiting for any output. The command
// stays outstanding until ReadAvailable has returned all of its output; until
// then Send and Execute fail with ErrChannelBusy.
func (c *Channel) Send(command string) error {
	if err := validateCommand(command); err != nil {
		return err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return domain.ErrChannelBusy
	}
	defer c.busy.Store(false)

	c.mu.Lock()
	err := c.activeLocked()
	pending := c.sent != nil
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if pending {
		return domain.ErrChannelBusy
	}

	marker := markerPrefix + uuid.NewString()
	framed := c.opts.Dialect.Frame(command, marker)
	if err := c.write(framed); err != nil {
		return err
	}

	c.mu.Lock()
	c.sent = newCollector(framed, marker, c.opts.Dialect)
	c.mu.Unlock()

	return nil
}

// ReadAvailable returns the lines spooled since the previous call. It never
// waits: an empty slice means nothing is pending right now. Output of a
// command written by Send is returned without its end marker.
func (c *Channel) ReadAvailable() ([]string, error) {
	if c.busy.Load() {
		return nil, domain.ErrChannelBusy
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, domain.ErrChannelClosed
	}

	lines, drained := c.spool.take()
	if drained {
		return nil, fmt.Errorf("%w: interpreter output ended", domain.ErrChannelClosed)
	}
	if c.sent != nil {
		done, rest := c.sent.feed(lines)
		lines = c.sent.lines
		c.sent.lines = nil
		if done {
			lines = append(lines, rest...)
			c.sent = nil
		}
	}
	if lines == nil {
		lines = []string{}
	}

	return lines, nil
}

// Execute sends command and polls the spool until the command's end marker
// arrives. A command that is not acknowledged within the command timeout
// leaves the session desynchronized: every later command fails with
// ErrChannelClosed. ctx is only consulted before the command is written.
func (c *Channel) Execute(ctx context.Context, command string) (domain.CommandResult, error) {
	if err := validateCommand(command); err != nil {
		return domain.CommandResult{Command: command}, err
	}

	return c.execute(ctx, command, c.opts.CommandTimeout)
}

// Close closes the interpreter's input, kills it if it has not exited after
// the close grace period and releases the spool. Later calls return nil.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	var errs []error
	if err := c.stdin.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		errs = append(errs, fmt.Errorf("close interpreter input: %w", err))
	}

	select {
	case <-c.exited:
	case <-time.After(c.opts.CloseGrace):
		c.logger.Warn("interpreter still running after close grace, killing it", "grace", c.opts.CloseGrace)
		if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			errs = append(errs, fmt.Errorf("kill interpreter: %w", err))
		}
		<-c.exited
	}

	// Descendants may still hold the pipe open; closing our end stops the drain.
	if err := c.output.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		errs = append(errs, fmt.Errorf("close interpreter output: %w", err))
	}
	if err := c.group.Wait(); err != nil {
		errs = append(errs, err)
	}
	c.spool.release()

	c.logger.Debug("interpreter closed")
	return errors.Join(errs...)
}

func (c *Channel) execute(ctx context.Context, command string, timeout time.Duration) (domain.CommandResult, error) {
	result := domain.CommandResult{Command: command}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return result, domain.ErrChannelBusy
	}
	defer c.busy.Store(false)

	if c.awaitingSent() {
		return result, domain.ErrChannelBusy
	}

	if stale, _ := c.spool.take(); len(stale) > 0 {
		c.logger.Debug("discarding unread interpreter output", "lines", len(stale))
	}

	marker := markerPrefix + uuid.NewString()
	framed := c.opts.Dialect.Frame(command, marker)
	if err := c.write(framed); err != nil {
		return result, err
	}

	started := time.Now()
	collect := newCollector(framed, marker, c.opts.Dialect)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	complete := func() (domain.CommandResult, error) {
		result.Lines = collect.lines
		result.Succeeded = collect.succeeded
		c.logger.Debug("command completed",
			"succeeded", result.Succeeded,
			"lines", len(result.Lines),
			"elapsed", time.Since(started),
		)
		return result, nil
	}

	for {
		lines, drained := c.spool.take()
		if done, _ := collect.feed(lines); done {
			return complete()
		}
		if drained {
			result.Lines = collect.lines
			return result, c.poison(fmt.Errorf("%w: interpreter output ended before the command completed", domain.ErrChannelClosed))
		}

		select {
		case <-c.spool.ready:
		case <-ticker.C:
		case <-c.exited:
			select {
			case <-c.spool.done:
			case <-time.After(c.opts.PollInterval):
			}
			lines, _ := c.spool.take()
			if done, _ := collect.feed(lines); done {
				return complete()
			}
			result.Lines = collect.lines
			return result, c.poison(fmt.Errorf("%w: interpreter exited before the command completed", domain.ErrChannelClosed))
		case <-timer.C:
			result.Lines = collect.lines
			return result, c.poison(fmt.Errorf("%w after %s", domain.ErrCommandTimeout, timeout))
		}
	}
}

func (c *Channel) write(text string) error {
	c.mu.Lock()
	err := c.activeLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := io.WriteString(c.stdin, text+"\n"); err != nil {
		return fmt.Errorf("%w: write command: %v", domain.ErrChannelClosed, err)
	}

	return nil
}

func (c *Channel) awaitingSent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sent != nil
}

func (c *Channel) activeLocked() error {
	if c.closed {
		return domain.ErrChannelClosed
	}
	if c.broken != nil {
		return fmt.Errorf("%w: %v", domain.ErrChannelClosed, c.broken)
	}

	select {
	case <-c.exited:
		return fmt.Errorf("%w: interpreter exited", domain.ErrChannelClosed)
	default:
		return nil
	}
}

func (c *Channel) poison(err error) error {
	c.mu.Lock()
	if c.broken == nil {
		c.broken = err
	}
	c.mu.Unlock()

	c.logger.Warn("session channel unusable", "error", err)
	return err
}

func (c *Channel) drain() error {
	scanner := bufio.NewScanner(c.output)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		c.spool.push(strings.TrimSuffix(scanner.Text(), "\r"))
	}

	err := scanner.Err()
	if errors.Is(err, os.ErrClosed) {
		err = nil
	}
	c.spool.finish(err)
	if err != nil {
		return fmt.Errorf("read interpreter output: %w", err)
	}

	return nil
}

func (c *Channel) wait() error {
	err := c.cmd.Wait()
	close(c.exited)

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed {
		c.logger.Warn("interpreter exited unexpectedly", "error", err)
	}

	return nil
}

func validateCommand(command string) error {
	if strings.ContainsAny(command, "\r\n") {
		return fmt.Errorf("%w: command must be a single line", domain.ErrInvalidCommand)
	}

	return nil
}

// collector gathers the output of one framed command.
type collector struct {
	marker  string
	echoes  []string
	dialect Dialect

	lines     []string
	succeeded bool
}

func newCollector(framed string, marker string, dialect Dialect) *collector {
	var echoes []string
	if dialect.EchoesInput() {
		for _, line := range strings.Split(framed, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				echoes = append(echoes, line)
			}
		}
	}

	return &collector{marker: marker, echoes: echoes, dialect: dialect}
}

// feed consumes lines until the end marker is found and reports whether it
// was, along with the lines that followed the marker.
func (c *collector) feed(lines []string) (bool, []string) {
	for i, line := range lines {
		if c.isEcho(line) {
			continue
		}

		idx := strings.Index(line, c.marker+":")
		if idx < 0 {
			c.lines = append(c.lines, line)
			continue
		}

		succeeded, ok := c.dialect.ParseStatus(strings.TrimSpace(line[idx+len(c.marker)+1:]))
		if !ok {
			c.lines = append(c.lines, line)
			continue
		}
		if prefix := line[:idx]; strings.TrimSpace(prefix) != "" {
			c.lines = append(c.lines, prefix)
		}
		c.succeeded = succeeded
		return true, lines[i+1:]
	}

	return false, nil
}

// isEcho reports whether line is the interpreter echoing a framed line back:
// the line itself, or the line behind a prompt ending in '>'.
func (c *collector) isEcho(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, echo := range c.echoes {
		if trimmed == echo {
			return true
		}
		if prompt, ok := strings.CutSuffix(trimmed, echo); ok && strings.HasSuffix(strings.TrimSpace(prompt), ">") {
			return true
		}
	}

	return false
}
