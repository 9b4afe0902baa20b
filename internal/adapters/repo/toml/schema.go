package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Profiles []profileSchema `toml:"profiles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profiles schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type profileSchema struct {
	Name       string           `toml:"name"`
	Username   string           `toml:"username,omitempty"`
	SecretRef  string           `toml:"secret_ref,omitempty"`
	SharePoint sharePointSchema `toml:"sharepoint"`
	LastRun    *runSchema       `toml:"last_run,omitempty"`
}

type sharePointSchema struct {
	SiteURL    string            `toml:"site_url"`
	ListName   string            `toml:"list_name"`
	ModulePath string            `toml:"module_path,omitempty"`
	FieldMap   map[string]string `toml:"field_map,omitempty"`
}

type runSchema struct {
	RunID      string `toml:"run_id"`
	StartedAt  string `toml:"started_at"`
	FinishedAt string `toml:"finished_at"`
	Outcome    string `toml:"outcome"`
	Added      int    `toml:"added"`
	Removed    int    `toml:"removed"`
	Updated    int    `toml:"updated"`
	Failed     int    `toml:"failed"`
	Error      string `toml:"error,omitempty"`
}
