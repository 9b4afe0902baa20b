package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/spo-contact-sync/internal/adapters/render/report"
	"github.com/bnema/spo-contact-sync/internal/application"
	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var profileName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show profiles and the outcome of their last sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := loadStatuses(cmd, app.service, profileName)
			if err != nil {
				return err
			}

			return writeStatusesOutput(cmd, app, statuses, asJSON)
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Profile name (default: all profiles)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func writeStatusesOutput(cmd *cobra.Command, app *app, statuses []application.ProfileStatus, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, statuses)
	}

	rendered, err := app.statusRenderer(statuses, report.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func loadStatuses(cmd *cobra.Command, svc *application.Service, profileName string) ([]application.ProfileStatus, error) {
	if profileName == "" {
		return svc.GetStatusAll(cmd.Context())
	}

	status, err := svc.GetStatus(cmd.Context(), domain.ProfileName(profileName))
	if err != nil {
		return nil, err
	}

	return []application.ProfileStatus{status}, nil
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
