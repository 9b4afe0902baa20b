package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

type SyncState string

const (
	StateIdle           SyncState = "idle"
	StateAuthenticating SyncState = "authenticating"
	StateFetching       SyncState = "fetching"
	StateDiffing        SyncState = "diffing"
	StateApplying       SyncState = "applying"
	StateClosed         SyncState = "closed"
	StateFailed         SyncState = "failed"
)

type SyncResult struct {
	RunID   string
	Profile domain.ProfileName
	States  []SyncState
	DryRun  bool

	SourceCount int
	TargetCount int
	// ProjectedCount is the size of the target once the plan is applied.
	ProjectedCount int

	Plan    domain.DiffPlan
	Report  *domain.ApplyReport `json:",omitempty"`
	Summary domain.RunSummary
}

func (r SyncResult) FinalState() SyncState {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}

func (r SyncResult) Failed() bool {
	for _, state := range r.States {
		if state == StateFailed {
			return true
		}
	}
	return false
}

// SyncService makes the Exchange contact list match the SharePoint list of a
// profile. It is the only component that talks to both systems.
type SyncService struct {
	open        ports.SessionOpener
	directories ports.DirectoryFactory
	clock       ports.Clock
	logger      *slog.Logger
}

func NewSyncService(open ports.SessionOpener, directories ports.DirectoryFactory, clock ports.Clock, logger *slog.Logger) *SyncService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &SyncService{
		open:        open,
		directories: directories,
		clock:       clock,
		logger:      logger,
	}
}

type syncRun struct {
	states []SyncState
	logger *slog.Logger
}

func (r *syncRun) enter(state SyncState) {
	r.states = append(r.states, state)
	r.logger.Debug("sync state", "state", state)
}

func (r *syncRun) fail(err error) error {
	r.enter(StateFailed)
	r.logger.Error("sync failed", "error", err)
	return err
}

// Run executes one sync. Item failures while applying are reported in the
// result and do not make Run return an error; session, authentication, fetch
// and parse failures do. The session is always closed before Run returns.
func (s *SyncService) Run(ctx context.Context, profile domain.Profile, credentials domain.Credentials, opts SyncOptions) (result SyncResult, err error) {
	result = SyncResult{
		RunID:   ulid.Make().String(),
		Profile: profile.Name,
		DryRun:  opts.DryRun,
	}
	run := &syncRun{logger: s.logger.With("run_id", result.RunID, "profile", string(profile.Name))}
	run.enter(StateIdle)
	startedAt := s.clock.Now()

	var (
		session   ports.Session
		directory ports.ContactDirectory
		connected []domain.SystemID
	)

	defer func() {
		s.teardown(ctx, run.logger, session, directory, connected)
		run.enter(StateClosed)
		result.States = run.states
		result.Summary = summarize(result, startedAt, s.clock.Now(), err)
		run.logger.Info("sync finished", "outcome", result.Summary.Outcome)
	}()

	run.enter(StateAuthenticating)
	session, err = s.open(ctx)
	if err != nil {
		return result, run.fail(fmt.Errorf("open session: %w", err))
	}
	directory = s.directories(session, profile)

	for _, system := range []domain.SystemID{domain.SystemExchange, domain.SystemSharePoint} {
		if err = directory.Connect(ctx, system, credentials); err != nil {
			return result, run.fail(fmt.Errorf("authenticate: %w", err))
		}
		connected = append(connected, system)
	}

	run.enter(StateFetching)
	source, err := directory.FetchContacts(ctx, domain.SystemSharePoint)
	if err != nil {
		return result, run.fail(err)
	}
	target, err := directory.FetchContacts(ctx, domain.SystemExchange)
	if err != nil {
		return result, run.fail(err)
	}
	result.SourceCount = len(source)
	result.TargetCount = len(target)

	run.enter(StateDiffing)
	result.Plan = domain.ComputeDiff(source, target)
	result.ProjectedCount = len(result.Plan.ApplyTo(target))
	run.logger.Info("computed plan",
		"add", len(result.Plan.ToAdd),
		"remove", len(result.Plan.ToRemove),
		"update", len(result.Plan.ToUpdate),
	)

	if opts.DryRun {
		return result, nil
	}

	run.enter(StateApplying)
	report, err := ApplyPlan(ctx, directory, domain.SystemExchange, result.Plan)
	result.Report = &report
	if err != nil {
		return result, run.fail(err)
	}
	if report.HasFailures() {
		run.logger.Warn("some changes failed", "failed", len(report.Failures()))
	}

	return result, nil
}

// teardown disconnects the connected systems in reverse order on a
// best-effort basis and closes the session.
func (s *SyncService) teardown(ctx context.Context, logger *slog.Logger, session ports.Session, directory ports.ContactDirectory, connected []domain.SystemID) {
	if session == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	if directory != nil {
		for i := len(connected) - 1; i >= 0; i-- {
			if err := directory.Disconnect(ctx, connected[i]); err != nil {
				logger.Warn("disconnect", "system", connected[i], "error", err)
			}
		}
	}

	if err := session.Close(); err != nil {
		logger.Warn("close session", "error", err)
	}
}

func summarize(result SyncResult, startedAt, finishedAt time.Time, err error) domain.RunSummary {
	summary := domain.RunSummary{
		RunID:      result.RunID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}

	if result.Report != nil {
		added, addFailed := result.Report.Count(domain.ActionAdd)
		removed, removeFailed := result.Report.Count(domain.ActionRemove)
		updated, updateFailed := result.Report.Count(domain.ActionUpdate)
		summary.Added = added
		summary.Removed = removed
		summary.Updated = updated
		summary.Failed = addFailed + removeFailed + updateFailed
	}

	switch {
	case err != nil:
		summary.Outcome = domain.RunOutcomeFailed
		summary.Error = err.Error()
	case result.DryRun:
		summary.Outcome = domain.RunOutcomeDryRun
	case result.Report != nil && result.Report.HasFailures():
		summary.Outcome = domain.RunOutcomePartial
	default:
		summary.Outcome = domain.RunOutcomeSuccess
	}

	return summary
}
