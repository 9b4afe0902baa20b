package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

// Service manages sync profiles and the credentials stored for them.
type Service struct {
	repo  ports.ProfileRepository
	store ports.SecretStore
}

func NewService(repo ports.ProfileRepository, store ports.SecretStore) *Service {
	return &Service{
		repo:  repo,
		store: store,
	}
}

func DefaultSecretKey(name domain.ProfileName) string {
	return "csync/profiles/" + string(name) + "/password"
}

func (s *Service) SaveProfile(ctx context.Context, cmd SaveProfileCommand) (domain.Profile, error) {
	name := domain.ProfileName(strings.TrimSpace(string(cmd.Name)))
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return domain.Profile{}, fmt.Errorf("get profile by name: %w", err)
		}
		profile = domain.Profile{Name: name}
	}

	if cmd.SiteURL != "" {
		profile.SharePoint.SiteURL = cmd.SiteURL
	}
	if cmd.ListName != "" {
		profile.SharePoint.ListName = cmd.ListName
	}
	if cmd.ModulePath != "" {
		profile.SharePoint.ModulePath = cmd.ModulePath
	}
	if cmd.Username != "" {
		profile.Username = cmd.Username
	}
	if len(cmd.FieldMap) > 0 {
		profile.SharePoint.FieldMap = cmd.FieldMap
	}

	profile.ApplyDefaults()
	if err := profile.Validate(); err != nil {
		return domain.Profile{}, fmt.Errorf("validate profile %q: %w", profile.Name, err)
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return domain.Profile{}, fmt.Errorf("save profile: %w", err)
	}

	return profile, nil
}

func (s *Service) RemoveProfile(ctx context.Context, name domain.ProfileName) error {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("get profile by name: %w", err)
	}

	if profile.SecretRef != "" {
		if err := s.store.Delete(ctx, profile.SecretRef); err != nil {
			return fmt.Errorf("delete profile secret: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	return nil
}

func (s *Service) SetAuth(ctx context.Context, cmd SetAuthCommand) error {
	profile, err := s.repo.GetByName(ctx, cmd.Profile)
	if err != nil {
		return fmt.Errorf("get profile by name: %w", err)
	}
	originalProfile := profile

	secretKey := cmd.SecretKey
	if secretKey == "" {
		secretKey = DefaultSecretKey(profile.Name)
	}
	previousSecretRef := profile.SecretRef

	if err := s.store.Put(ctx, secretKey, cmd.SecretValue); err != nil {
		return fmt.Errorf("store profile secret: %w", err)
	}

	profile.SecretRef = secretKey
	if cmd.Username != "" {
		profile.Username = cmd.Username
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		if rollbackErr := s.store.Delete(ctx, secretKey); rollbackErr != nil {
			return fmt.Errorf("save profile auth and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}

		return fmt.Errorf("save profile auth: %w", err)
	}

	if previousSecretRef == "" || previousSecretRef == secretKey {
		return nil
	}

	if err := s.store.Delete(ctx, previousSecretRef); err != nil {
		var rollbackErr error
		if restoreErr := s.repo.Save(ctx, originalProfile); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newSecretDeleteErr := s.store.Delete(ctx, secretKey); newSecretDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous profile secret and rollback auth update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous profile secret: %w", err)
	}

	return nil
}

func (s *Service) RemoveAuth(ctx context.Context, cmd RemoveAuthCommand) error {
	profile, err := s.repo.GetByName(ctx, cmd.Profile)
	if err != nil {
		return fmt.Errorf("get profile by name: %w", err)
	}
	originalProfile := profile

	if profile.SecretRef == "" {
		return nil
	}

	profile.SecretRef = ""
	if err := s.repo.Save(ctx, profile); err != nil {
		return fmt.Errorf("save profile auth: %w", err)
	}

	if err := s.store.Delete(ctx, originalProfile.SecretRef); err != nil {
		if restoreErr := s.repo.Save(ctx, originalProfile); restoreErr != nil {
			return fmt.Errorf("delete profile secret and restore secret ref: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete profile secret: %w", err)
	}

	return nil
}

// ResolveCredentials returns the stored credentials of a profile. When no
// secret is stored the returned error wraps domain.ErrSecretNotFound and the
// credentials still carry the username, so the caller can prompt for the rest.
func (s *Service) ResolveCredentials(ctx context.Context, name domain.ProfileName) (domain.Credentials, error) {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("get profile by name: %w", err)
	}

	credentials := domain.Credentials{Username: profile.Username}
	if profile.SecretRef == "" {
		return credentials, fmt.Errorf("profile %q: %w", name, domain.ErrSecretNotFound)
	}

	password, err := s.store.Get(ctx, profile.SecretRef)
	if err != nil {
		return credentials, fmt.Errorf("read profile secret: %w", err)
	}
	credentials.Password = password

	return credentials, nil
}

func (s *Service) RecordRun(ctx context.Context, name domain.ProfileName, summary domain.RunSummary) error {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("get profile by name: %w", err)
	}

	profile.LastRun = &summary

	if err := s.repo.Save(ctx, profile); err != nil {
		return fmt.Errorf("save profile run summary: %w", err)
	}

	return nil
}

func (s *Service) GetProfile(ctx context.Context, name domain.ProfileName) (domain.Profile, error) {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile by name: %w", err)
	}

	return profile, nil
}

func (s *Service) GetStatus(ctx context.Context, name domain.ProfileName) (ProfileStatus, error) {
	profile, err := s.GetProfile(ctx, name)
	if err != nil {
		return ProfileStatus{}, err
	}

	return statusFromProfile(profile), nil
}

func (s *Service) GetStatusAll(ctx context.Context) ([]ProfileStatus, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	statuses := make([]ProfileStatus, 0, len(profiles))
	for _, profile := range profiles {
		statuses = append(statuses, statusFromProfile(profile))
	}

	return statuses, nil
}
