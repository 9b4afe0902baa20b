package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/spo-contact-sync/internal/application"
	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage sync profiles",
	}

	cmd.AddCommand(
		newProfileSetCmd(app),
		newProfileListCmd(app),
		newProfileRemoveCmd(app),
	)

	return cmd
}

func newProfileSetCmd(app *app) *cobra.Command {
	var input application.SaveProfileCommand
	var name string
	var fields []string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create a profile or update its non-empty settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fieldMap, err := parseFieldMap(fields)
			if err != nil {
				return err
			}
			input.Name = domain.ProfileName(name)
			input.FieldMap = fieldMap

			profile, err := app.service.SaveProfile(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved profile %s\n", profile.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	cmd.Flags().StringVar(&input.SiteURL, "site-url", "", "SharePoint site URL, e.g. https://contoso.sharepoint.com/sites/hr")
	cmd.Flags().StringVar(&input.ListName, "list", "", "SharePoint list title")
	cmd.Flags().StringVar(&input.Username, "user", "", "Account used for both Exchange Online and SharePoint")
	cmd.Flags().StringVar(&input.ModulePath, "module-path", "", "Path of the PowerShell module providing Get-SPOObject")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Column mapping as Column=field (repeatable; fields: "+strings.Join(domain.KnownFields, ", ")+")")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func parseFieldMap(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	fieldMap := make(map[string]string, len(entries))
	for _, entry := range entries {
		column, field, ok := strings.Cut(entry, "=")
		column = strings.TrimSpace(column)
		field = strings.ToLower(strings.TrimSpace(field))
		if !ok || column == "" || field == "" {
			return nil, fmt.Errorf("invalid --field %q: expected Column=field", entry)
		}
		fieldMap[column] = field
	}

	return fieldMap, nil
}

func newProfileListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.service.GetStatusAll(cmd.Context())
			if err != nil {
				return err
			}

			for _, status := range statuses {
				sp := status.Profile.SharePoint
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", status.Profile.Name, sp.SiteURL, sp.ListName)
			}

			return nil
		},
	}
}

func newProfileRemoveCmd(app *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a profile and its stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.service.RemoveProfile(cmd.Context(), domain.ProfileName(name))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
