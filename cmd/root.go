package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "csync",
		Short:         "Contact sync (csync): mirror a SharePoint list into Exchange Online contacts",
		Long:          "csync keeps the mail contacts of an Exchange Online tenant in line with a SharePoint Online list, driving one PowerShell session per run.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newProfileCmd(app),
		newAuthCmd(app),
		newSyncCmd(app),
		newStatusCmd(app),
	)

	return rootCmd
}
