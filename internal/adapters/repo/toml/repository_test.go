package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, profilesPath string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set(ProfilesPathKey, profilesPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func sampleProfile(name string) domain.Profile {
	return domain.Profile{
		Name:      domain.ProfileName(name),
		Username:  "admin@" + name + ".onmicrosoft.com",
		SecretRef: "csync/profiles/" + name + "/password",
		SharePoint: domain.SharePointList{
			SiteURL:    "https://" + name + ".sharepoint.com/sites/hr",
			ListName:   "Contacten",
			ModulePath: "/opt/csync/SPOMod.psm1",
			FieldMap: map[string]string{
				"E-mailadres":    domain.FieldEmail,
				"Volledige naam": domain.FieldName,
				"Telefoon":       domain.FieldPhone,
			},
		},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	first := sampleProfile("contoso")
	second := sampleProfile("fabrikam")

	require.NoError(t, repo.Save(context.Background(), second))
	require.NoError(t, repo.Save(context.Background(), first))

	got, err := repo.GetByName(context.Background(), first.Name)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Profile{first, second}, profiles)
}

func TestRepositorySaveUpsertsByName(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	profile := sampleProfile("contoso")
	require.NoError(t, repo.Save(context.Background(), profile))

	profile.SharePoint.ListName = "Leveranciers"
	require.NoError(t, repo.Save(context.Background(), profile))

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Leveranciers", profiles[0].SharePoint.ListName)
}

func TestRepositoryRoundTripPersistsLastRun(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	startedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	profile := sampleProfile("contoso")
	profile.LastRun = &domain.RunSummary{
		RunID:      "01JNKX8W4V7F3Y0S5D0B2QH6ZP",
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(42 * time.Second),
		Outcome:    domain.RunOutcomePartial,
		Added:      3,
		Removed:    1,
		Updated:    2,
		Failed:     1,
	}

	require.NoError(t, repo.Save(context.Background(), profile))

	got, err := repo.GetByName(context.Background(), profile.Name)
	require.NoError(t, err)
	require.NotNil(t, got.LastRun)
	assert.Equal(t, *profile.LastRun, *got.LastRun)
}

func TestRepositoryMissingFieldMapFallsBackToDefault(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(profilesPath, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[profiles]]",
		"name = \"contoso\"",
		"",
		"[profiles.sharepoint]",
		"site_url = \"https://contoso.sharepoint.com/sites/hr\"",
		"list_name = \"Contacten\"",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, profilesPath)

	profile, err := repo.GetByName(context.Background(), "contoso")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSharePointFieldMap(), profile.SharePoint.FieldMap)
	assert.Nil(t, profile.LastRun)
	require.NoError(t, profile.Validate())
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), sampleProfile("contoso")))

	profilesPath := filepath.Join(homeDir, ".csync", "profiles.toml")
	assert.Equal(t, profilesPath, repo.Path())
	info, err := os.Stat(profilesPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "profiles.toml"))

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = repo.GetByName(context.Background(), "contoso")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)

	err = repo.Delete(context.Background(), "contoso")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))
	require.NoError(t, repo.Save(context.Background(), sampleProfile("contoso")))
	require.NoError(t, repo.Save(context.Background(), sampleProfile("fabrikam")))

	require.NoError(t, repo.Delete(context.Background(), "contoso"))

	_, err := repo.GetByName(context.Background(), "contoso")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, domain.ProfileName("fabrikam"), profiles[0].Name)
}

func TestRepositoryListMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(profilesPath, []byte("profiles = ["), 0o600))

	repo := newTestRepository(t, profilesPath)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode profiles file")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "profiles.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, sampleProfile("contoso"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveBothProfiles(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	repoA := newTestRepository(t, profilesPath)
	repoB := newTestRepository(t, profilesPath)

	const perRepoWrites = 100
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	save := func(repo *Repository, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repo.Save(context.Background(), sampleProfile(prefix+strconv.Itoa(i)))
		}
	}
	go save(repoA, "a-")
	go save(repoB, "b-")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	profiles, err := repoA.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, perRepoWrites*2)
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	repo := newTestRepository(t, profilesPath)

	require.NoError(t, repo.Save(context.Background(), sampleProfile("contoso")))

	data, err := os.ReadFile(profilesPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "Volledige naam")
	assert.NotContains(t, string(data), "last_run")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(profilesPath, []byte(strings.Join([]string{
		"version = 999",
		"",
		"profiles = []",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, profilesPath)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported profiles schema version")
}
