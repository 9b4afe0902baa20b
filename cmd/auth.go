package cmd

import (
	"github.com/bnema/spo-contact-sync/internal/application"
	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored credentials of a profile",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var input application.SetAuthCommand
	var profileName string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the password of a profile in the secret store",
		Long:  "Store the password of a profile in the secret store. Without --secret-value the password is read from the terminal.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input.Profile = domain.ProfileName(profileName)

			if input.SecretValue == "" {
				username := input.Username
				if username == "" {
					profile, err := app.service.GetProfile(cmd.Context(), input.Profile)
					if err != nil {
						return err
					}
					username = profile.Username
				}

				credentials, err := app.prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), username)
				if err != nil {
					return err
				}
				input.Username = credentials.Username
				input.SecretValue = credentials.Password
			}

			return app.service.SetAuth(cmd.Context(), input)
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Profile name")
	cmd.Flags().StringVar(&input.Username, "user", "", "Account name (default: the profile's user)")
	cmd.Flags().StringVar(&input.SecretKey, "secret-key", "", "Secret-store key (default: csync/profiles/<profile>/password)")
	cmd.Flags().StringVar(&input.SecretValue, "secret-value", "", "Password (default: prompt)")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete the stored password of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.service.RemoveAuth(cmd.Context(), application.RemoveAuthCommand{Profile: domain.ProfileName(profileName)})
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Profile name")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}
