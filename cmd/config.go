package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tomlrepo "github.com/bnema/spo-contact-sync/internal/adapters/repo/toml"
	"github.com/bnema/spo-contact-sync/internal/adapters/shell"
	"github.com/spf13/viper"
)

const (
	configDirName = ".csync"
	envPrefix     = "CSYNC"

	keyShellCommand        = "shell.command"
	keyShellDialect        = "shell.dialect"
	keyShellCommandTimeout = "shell.command_timeout"
	keyShellStartupTimeout = "shell.startup_timeout"
	keyShellPollInterval   = "shell.poll_interval"
	keyShellCloseGrace     = "shell.close_grace"
	keySecretsBackend      = "secrets.backend"
	keySecretsFileRoot     = "secrets.file_root"
	keySecretsAWSRegion    = "secrets.aws_region"
	keySecretsPassDir      = "secrets.pass_dir"
	keyLogLevel            = "log.level"
	keyLogFormat           = "log.format"
	keySyncTimeout         = "sync.timeout"
)

// loadConfig reads ~/.csync/config.toml when present. Every key can be
// overridden from the environment, e.g. CSYNC_SHELL_DIALECT=posix.
func loadConfig() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, configDirName)

	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(configDir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(tomlrepo.ProfilesPathKey, filepath.Join(configDir, "profiles.toml"))
	cfg.SetDefault(keyShellCommand, shell.DefaultCommand)
	cfg.SetDefault(keyShellDialect, "powershell")
	cfg.SetDefault(keyShellCommandTimeout, shell.DefaultCommandTimeout)
	cfg.SetDefault(keyShellStartupTimeout, shell.DefaultStartupTimeout)
	cfg.SetDefault(keyShellPollInterval, shell.DefaultPollInterval)
	cfg.SetDefault(keyShellCloseGrace, shell.DefaultCloseGrace)
	cfg.SetDefault(keySecretsBackend, "pass")
	cfg.SetDefault(keySecretsFileRoot, filepath.Join(configDir, "secrets"))
	cfg.SetDefault(keySecretsAWSRegion, "")
	cfg.SetDefault(keySecretsPassDir, "")
	cfg.SetDefault(keyLogLevel, "warn")
	cfg.SetDefault(keyLogFormat, "text")
	cfg.SetDefault(keySyncTimeout, 30*time.Minute)

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}
