package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bnema/spo-contact-sync/internal/adapters/powershell"
	"github.com/bnema/spo-contact-sync/internal/adapters/render/report"
	tomlrepo "github.com/bnema/spo-contact-sync/internal/adapters/repo/toml"
	"github.com/bnema/spo-contact-sync/internal/adapters/secrets/awssm"
	chainstore "github.com/bnema/spo-contact-sync/internal/adapters/secrets/chain"
	filestore "github.com/bnema/spo-contact-sync/internal/adapters/secrets/file"
	"github.com/bnema/spo-contact-sync/internal/adapters/shell"
	"github.com/bnema/spo-contact-sync/internal/application"
	"github.com/bnema/spo-contact-sync/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	config         *viper.Viper
	logger         *slog.Logger
	service        *application.Service
	syncService    *application.SyncService
	syncRenderer   func(application.SyncResult, report.RenderOptions) (string, error)
	statusRenderer func([]application.ProfileStatus, report.RenderOptions) (string, error)
	prompt         credentialPrompt
	spinner        spinnerRunner
	now            func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(os.Stderr, cfg.GetString(keyLogLevel), cfg.GetString(keyLogFormat))
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	secretStore, err := newSecretStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	openSession, err := newSessionOpener(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wire shell session: %w", err)
	}

	return &app{
		config:         cfg,
		logger:         logger,
		service:        application.NewService(repo, secretStore),
		syncService:    application.NewSyncService(openSession, powershell.NewFactory(logger), ports.SystemClock{}, logger),
		syncRenderer:   report.RenderSync,
		statusRenderer: report.RenderStatus,
		prompt:         promptCredentials,
		spinner:        runSyncSpinnerOnTerminal,
		now:            time.Now,
	}, nil
}

func newSecretStore(cfg *viper.Viper, logger *slog.Logger) (ports.SecretStore, error) {
	fileRoot := cfg.GetString(keySecretsFileRoot)

	switch backend := strings.ToLower(strings.TrimSpace(cfg.GetString(keySecretsBackend))); backend {
	case "", "pass":
		return chainstore.NewPassFirstWithFileFallback(fileRoot, cfg.GetString(keySecretsPassDir), logger)
	case "file":
		return filestore.NewStore(fileRoot), nil
	case "aws":
		return awssm.NewStore(context.Background(), cfg.GetString(keySecretsAWSRegion))
	default:
		return nil, fmt.Errorf("unsupported secrets backend %q", backend)
	}
}

func newSessionOpener(cfg *viper.Viper, logger *slog.Logger) (ports.SessionOpener, error) {
	dialect, err := shell.DialectByName(cfg.GetString(keyShellDialect))
	if err != nil {
		return nil, err
	}

	opts := []shell.Option{
		shell.WithCommand(cfg.GetString(keyShellCommand)),
		shell.WithDialect(dialect),
		shell.WithCommandTimeout(cfg.GetDuration(keyShellCommandTimeout)),
		shell.WithStartupTimeout(cfg.GetDuration(keyShellStartupTimeout)),
		shell.WithPollInterval(cfg.GetDuration(keyShellPollInterval)),
		shell.WithCloseGrace(cfg.GetDuration(keyShellCloseGrace)),
		shell.WithLogger(logger),
	}

	return func(ctx context.Context) (ports.Session, error) {
		channel, err := shell.Open(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return channel, nil
	}, nil
}
