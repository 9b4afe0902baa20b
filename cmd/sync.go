package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/spo-contact-sync/internal/adapters/render/report"
	"github.com/bnema/spo-contact-sync/internal/application"
	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/spf13/cobra"
)

var errSyncIncomplete = errors.New("sync finished with failed changes")

type syncFlags struct {
	profile      string
	dryRun       bool
	asJSON       bool
	timeout      time.Duration
	maxPlanItems int
}

func newSyncCmd(app *app) *cobra.Command {
	var flags syncFlags

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Make the Exchange contacts match the SharePoint list of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("timeout") {
				flags.timeout = app.config.GetDuration(keySyncTimeout)
			}
			return runSync(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.profile, "profile", "", "Profile name")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Compute and show the plan without changing Exchange")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Render JSON output")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 30*time.Minute, "Upper bound for the whole run (0 disables it)")
	cmd.Flags().IntVar(&flags.maxPlanItems, "max-items", 50, "Plan entries listed per section (0 lists all)")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func runSync(cmd *cobra.Command, app *app, flags syncFlags) error {
	name := domain.ProfileName(flags.profile)
	profile, err := app.service.GetProfile(cmd.Context(), name)
	if err != nil {
		return err
	}

	credentials, err := app.service.ResolveCredentials(cmd.Context(), name)
	switch {
	case errors.Is(err, domain.ErrSecretNotFound):
		credentials, err = app.prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), credentials.Username)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	case credentials.Username == "":
		credentials, err = app.prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "")
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	var result application.SyncResult
	label := fmt.Sprintf("Syncing %s...", profile.Name)
	runErr := app.spinner(ctx, cmd.ErrOrStderr(), label, func(ctx context.Context) error {
		var err error
		result, err = app.syncService.Run(ctx, profile, credentials, application.SyncOptions{DryRun: flags.dryRun})
		return err
	})
	if result.RunID == "" {
		return fmt.Errorf("sync profile %q: %w", profile.Name, runErr)
	}

	if err := app.service.RecordRun(context.WithoutCancel(ctx), profile.Name, result.Summary); err != nil {
		app.logger.Warn("record sync run", "profile", string(profile.Name), "error", err)
	}

	if err := writeSyncOutput(cmd, app, result, flags); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("sync profile %q: %w", profile.Name, runErr)
	}
	if result.Summary.Outcome == domain.RunOutcomePartial {
		return fmt.Errorf("sync profile %q: %w (%d failed)", profile.Name, errSyncIncomplete, result.Summary.Failed)
	}

	return nil
}

func writeSyncOutput(cmd *cobra.Command, app *app, result application.SyncResult, flags syncFlags) error {
	if flags.asJSON {
		return writeJSON(cmd, result)
	}

	rendered, err := app.syncRenderer(result, report.RenderOptions{Now: app.now(), MaxPlanItems: flags.maxPlanItems})
	if err != nil {
		return fmt.Errorf("render sync result: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
