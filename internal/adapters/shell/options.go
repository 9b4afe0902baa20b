package shell

import (
	"log/slog"
	"time"
)

const (
	DefaultCommand        = "pwsh -NoLogo -NoProfile -NonInteractive -Command -"
	DefaultCommandTimeout = 2 * time.Minute
	DefaultStartupTimeout = time.Minute
	DefaultPollInterval   = 100 * time.Millisecond
	DefaultCloseGrace     = 5 * time.Second
)

type Options struct {
	// Command is the interpreter command line, split with shell quoting rules.
	Command        string
	Dialect        Dialect
	CommandTimeout time.Duration
	StartupTimeout time.Duration
	PollInterval   time.Duration
	CloseGrace     time.Duration
	Env            []string
	Logger         *slog.Logger
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		Command:        DefaultCommand,
		Dialect:        PowerShell{},
		CommandTimeout: DefaultCommandTimeout,
		StartupTimeout: DefaultStartupTimeout,
		PollInterval:   DefaultPollInterval,
		CloseGrace:     DefaultCloseGrace,
		Logger:         slog.New(slog.DiscardHandler),
	}
}

func WithCommand(command string) Option {
	return func(o *Options) {
		o.Command = command
	}
}

func WithDialect(dialect Dialect) Option {
	return func(o *Options) {
		if dialect != nil {
			o.Dialect = dialect
		}
	}
}

func WithCommandTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.CommandTimeout = timeout
		}
	}
}

func WithStartupTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.StartupTimeout = timeout
		}
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(o *Options) {
		if interval > 0 {
			o.PollInterval = interval
		}
	}
}

func WithCloseGrace(grace time.Duration) Option {
	return func(o *Options) {
		if grace >= 0 {
			o.CloseGrace = grace
		}
	}
}

// WithEnv appends variables to the interpreter's inherited environment.
func WithEnv(env ...string) Option {
	return func(o *Options) {
		o.Env = append(o.Env, env...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
