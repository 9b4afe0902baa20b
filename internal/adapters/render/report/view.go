package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/spo-contact-sync/internal/application"
	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
	// MaxPlanItems caps each plan section; zero lists everything.
	MaxPlanItems int
}

// RenderSync renders the outcome of one sync run.
func RenderSync(result application.SyncResult, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return syncView(result, opts, s)
	})
}

// RenderStatus renders every profile with its last recorded run.
func RenderStatus(statuses []application.ProfileStatus, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return statusView(statuses, opts, s)
	})
}

func syncView(result application.SyncResult, opts RenderOptions, s styles) string {
	title := fmt.Sprintf("Contact sync: %s", result.Profile)
	if result.DryRun {
		title += " (dry run)"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("run: %s", result.RunID)),
		s.header.Render("states: " + statePath(result.States)),
	}

	if result.FinalState() == application.StateClosed && !result.Failed() {
		lines = append(lines, s.detail.Render(fmt.Sprintf(
			"contacts: source %d, target %d, after sync %d",
			result.SourceCount, result.TargetCount, result.ProjectedCount,
		)))
	}

	lines = append(lines, s.section.Render(planView(result.Plan, opts, s)))

	if result.Report != nil {
		lines = append(lines, s.section.Render(reportView(*result.Report, s)))
	}

	outcome := string(result.Summary.Outcome)
	lines = append(lines, s.section.Render(s.outcome(outcome).Render("outcome: "+outcome)))
	if result.Summary.Error != "" {
		lines = append(lines, s.failure.Render("error: "+result.Summary.Error))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statePath(states []application.SyncState) string {
	names := make([]string, 0, len(states))
	for _, state := range states {
		names = append(names, string(state))
	}
	return strings.Join(names, " > ")
}

func planView(plan domain.DiffPlan, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("plan: %d add, %d remove, %d update",
			len(plan.ToAdd), len(plan.ToRemove), len(plan.ToUpdate))),
	}
	if plan.Empty() {
		lines = append(lines, s.empty.Render("Exchange already matches SharePoint."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	adds := make([]string, 0, len(plan.ToAdd))
	for _, contact := range plan.ToAdd {
		entry := "+ " + contact.Key
		if contact.Name != "" {
			entry += " (" + contact.Name + ")"
		}
		adds = append(adds, s.add.Render(entry))
	}
	removes := make([]string, 0, len(plan.ToRemove))
	for _, key := range plan.ToRemove {
		removes = append(removes, s.remove.Render("- "+key))
	}
	updates := make([]string, 0, len(plan.ToUpdate))
	for _, update := range plan.ToUpdate {
		updates = append(updates, s.update.Render(fmt.Sprintf("~ %s: %s", update.Key, strings.Join(update.Delta.Fields(), ", "))))
	}

	for _, section := range [][]string{removes, adds, updates} {
		lines = append(lines, truncate(section, opts.MaxPlanItems, s)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(entries []string, limit int, s styles) []string {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}

	kept := append([]string{}, entries[:limit]...)
	return append(kept, s.empty.Render(fmt.Sprintf("  ... %d more", len(entries)-limit)))
}

func reportView(report domain.ApplyReport, s styles) string {
	added, addFailed := report.Count(domain.ActionAdd)
	removed, removeFailed := report.Count(domain.ActionRemove)
	updated, updateFailed := report.Count(domain.ActionUpdate)

	lines := []string{
		s.title.Render(fmt.Sprintf("applied to %s: %d added, %d removed, %d updated",
			report.System, added, removed, updated)),
	}

	failed := addFailed + removeFailed + updateFailed
	if failed == 0 && !report.Aborted {
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.failure.Render(fmt.Sprintf("failed: %d", failed)))
	for _, item := range report.Failures() {
		lines = append(lines, s.detail.Render(fmt.Sprintf("  %s %s: %s", item.Action, item.Key, item.Error)))
	}
	if report.Aborted {
		lines = append(lines, s.failure.Render("apply aborted: remaining changes were not attempted"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusView(statuses []application.ProfileStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Contact sync profiles"),
		s.header.Render(fmt.Sprintf("profiles: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No profiles configured. Add one with `csync profile set`."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(profileView(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func profileView(status application.ProfileStatus, opts RenderOptions, s styles) string {
	profile := status.Profile
	credential := "prompt"
	if status.HasSecret {
		credential = "stored"
	}
	user := profile.Username
	if user == "" {
		user = "not set"
	}

	parts := []string{
		s.profile.Render(string(profile.Name)),
		s.detail.Render(fmt.Sprintf("list: %s @ %s", profile.SharePoint.ListName, profile.SharePoint.SiteURL)),
		s.detail.Render(fmt.Sprintf("user: %s (password %s)", user, credential)),
	}

	run := status.LastRun
	if run == nil {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("last run: never"))...)
	}

	outcome := string(run.Outcome)
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.detail.Render("last run: "),
		s.outcome(outcome).Render(outcome),
		s.detail.Render(fmt.Sprintf(" %s (+%d -%d ~%d, %d failed)",
			formatWhen(run.FinishedAt, opts.Now), run.Added, run.Removed, run.Updated, run.Failed)),
	)
	parts = append(parts, line)
	if run.Error != "" {
		parts = append(parts, s.failure.Render("error: "+run.Error))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func formatWhen(at, now time.Time) string {
	if at.IsZero() {
		return "at unknown time"
	}
	if now.IsZero() || at.After(now) {
		return at.Format("2006-01-02 15:04")
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute") + " ago"
	case elapsed < 48*time.Hour:
		return plural(int(elapsed.Hours()), "hour") + " ago"
	default:
		return plural(int(elapsed.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
