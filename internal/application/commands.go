package application

import "github.com/bnema/spo-contact-sync/internal/domain"

// SaveProfileCommand creates a profile or updates the non-empty fields of an
// existing one.
type SaveProfileCommand struct {
	Name       domain.ProfileName
	SiteURL    string
	ListName   string
	ModulePath string
	Username   string
	FieldMap   map[string]string
}

type SetAuthCommand struct {
	Profile     domain.ProfileName
	Username    string
	SecretKey   string
	SecretValue string
}

type RemoveAuthCommand struct {
	Profile domain.ProfileName
}

type SyncOptions struct {
	DryRun bool
}
