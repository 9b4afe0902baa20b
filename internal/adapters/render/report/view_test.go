package report

import (
	"errors"
	"testing"
	"time"

	"github.com/bnema/spo-contact-sync/internal/application"
	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullPath = []application.SyncState{
	application.StateIdle,
	application.StateAuthenticating,
	application.StateFetching,
	application.StateDiffing,
	application.StateApplying,
	application.StateClosed,
}

func samplePlan() domain.DiffPlan {
	return domain.DiffPlan{
		ToAdd:    []domain.Contact{domain.NewContact("alice@contoso.com", "Alice", nil)},
		ToRemove: []string{"carol@contoso.com"},
		ToUpdate: []domain.ContactUpdate{{
			Key:   "dave@contoso.com",
			Delta: domain.FieldDelta{domain.FieldPhone: "2", domain.FieldCity: "Gent"},
		}},
	}
}

func TestRenderSyncSuccess(t *testing.T) {
	report := domain.ApplyReport{System: domain.SystemExchange}
	report.Record(domain.ActionRemove, "carol@contoso.com", nil, nil)
	report.Record(domain.ActionAdd, "alice@contoso.com", []string{domain.FieldEmail}, nil)
	report.Record(domain.ActionUpdate, "dave@contoso.com", []string{domain.FieldCity, domain.FieldPhone}, nil)

	output, err := RenderSync(application.SyncResult{
		RunID:          "01JNKX8W4V7F3Y0S5D0B2QH6ZP",
		Profile:        "contoso",
		States:         fullPath,
		SourceCount:    2,
		TargetCount:    2,
		ProjectedCount: 2,
		Plan:           samplePlan(),
		Report:         &report,
		Summary:        domain.RunSummary{Outcome: domain.RunOutcomeSuccess, Added: 1, Removed: 1, Updated: 1},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Contact sync: contoso")
	assert.Contains(t, output, "idle > authenticating > fetching > diffing > applying > closed")
	assert.Contains(t, output, "contacts: source 2, target 2, after sync 2")
	assert.Contains(t, output, "plan: 1 add, 1 remove, 1 update")
	assert.Contains(t, output, "+ alice@contoso.com (Alice)")
	assert.Contains(t, output, "- carol@contoso.com")
	assert.Contains(t, output, "~ dave@contoso.com: city, phone")
	assert.Contains(t, output, "applied to exchange: 1 added, 1 removed, 1 updated")
	assert.Contains(t, output, "outcome: success")
	assert.NotContains(t, output, "failed:")
}

func TestRenderSyncPartialListsFailures(t *testing.T) {
	report := domain.ApplyReport{System: domain.SystemExchange}
	report.Record(domain.ActionAdd, "alice@contoso.com", nil, errors.New("The proxy address is already being used"))

	output, err := RenderSync(application.SyncResult{
		Profile: "contoso",
		States:  fullPath,
		Plan:    domain.DiffPlan{ToAdd: []domain.Contact{domain.NewContact("alice@contoso.com", "", nil)}},
		Report:  &report,
		Summary: domain.RunSummary{Outcome: domain.RunOutcomePartial, Failed: 1},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "failed: 1")
	assert.Contains(t, output, "add alice@contoso.com: The proxy address is already being used")
	assert.Contains(t, output, "outcome: partial")
}

func TestRenderSyncFailureShowsError(t *testing.T) {
	output, err := RenderSync(application.SyncResult{
		Profile: "contoso",
		States: []application.SyncState{
			application.StateIdle,
			application.StateAuthenticating,
			application.StateFailed,
			application.StateClosed,
		},
		Summary: domain.RunSummary{Outcome: domain.RunOutcomeFailed, Error: "authenticate: command failed"},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "authenticating > failed > closed")
	assert.Contains(t, output, "outcome: failed")
	assert.Contains(t, output, "error: authenticate: command failed")
	assert.NotContains(t, output, "contacts: source")
}

func TestRenderSyncDryRunWithEmptyPlan(t *testing.T) {
	output, err := RenderSync(application.SyncResult{
		Profile: "contoso",
		DryRun:  true,
		States:  []application.SyncState{application.StateIdle, application.StateAuthenticating, application.StateFetching, application.StateDiffing, application.StateClosed},
		Summary: domain.RunSummary{Outcome: domain.RunOutcomeDryRun},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Contact sync: contoso (dry run)")
	assert.Contains(t, output, "Exchange already matches SharePoint.")
	assert.Contains(t, output, "outcome: dry_run")
	assert.NotContains(t, output, "applied to")
}

func TestRenderSyncTruncatesLongPlans(t *testing.T) {
	plan := domain.DiffPlan{ToRemove: []string{"a@x", "b@x", "c@x", "d@x"}}

	output, err := RenderSync(application.SyncResult{
		Profile: "contoso",
		DryRun:  true,
		Plan:    plan,
		Summary: domain.RunSummary{Outcome: domain.RunOutcomeDryRun},
	}, RenderOptions{MaxPlanItems: 2})

	require.NoError(t, err)
	assert.Contains(t, output, "- b@x")
	assert.NotContains(t, output, "- c@x")
	assert.Contains(t, output, "... 2 more")
}

func TestRenderStatus(t *testing.T) {
	now := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	profile := domain.Profile{
		Name:     "contoso",
		Username: "admin@contoso.onmicrosoft.com",
		SharePoint: domain.SharePointList{
			SiteURL:  "https://contoso.sharepoint.com/sites/hr",
			ListName: "Contacten",
		},
	}

	output, err := RenderStatus([]application.ProfileStatus{
		{
			Profile:   profile,
			HasSecret: true,
			LastRun: &domain.RunSummary{
				Outcome:    domain.RunOutcomePartial,
				FinishedAt: now.Add(-2 * time.Hour),
				Added:      3,
				Removed:    1,
				Updated:    2,
				Failed:     1,
			},
		},
		{Profile: domain.Profile{Name: "fabrikam"}},
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "profiles: 2")
	assert.Contains(t, output, "list: Contacten @ https://contoso.sharepoint.com/sites/hr")
	assert.Contains(t, output, "user: admin@contoso.onmicrosoft.com (password stored)")
	assert.Contains(t, output, "partial")
	assert.Contains(t, output, "2 hours ago (+3 -1 ~2, 1 failed)")
	assert.Contains(t, output, "user: not set (password prompt)")
	assert.Contains(t, output, "last run: never")
}

func TestRenderStatusEmpty(t *testing.T) {
	output, err := RenderStatus(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "profiles: 0")
	assert.Contains(t, output, "No profiles configured.")
}

func TestFormatWhen(t *testing.T) {
	now := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		now  time.Time
		want string
	}{
		{name: "zero", want: "at unknown time"},
		{name: "no clock", at: now, want: "2026-03-02 11:00"},
		{name: "seconds", at: now.Add(-10 * time.Second), now: now, want: "just now"},
		{name: "one minute", at: now.Add(-time.Minute), now: now, want: "1 minute ago"},
		{name: "hours", at: now.Add(-5 * time.Hour), now: now, want: "5 hours ago"},
		{name: "days", at: now.Add(-72 * time.Hour), now: now, want: "3 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatWhen(tt.at, tt.now))
		})
	}
}
