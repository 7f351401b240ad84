package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "pagebuilder" command and registers all
// subcommands against the provided App. When app has no editor yet it is
// opened from --config before any subcommand runs; the caller closes it.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "pagebuilder",
		Short:         "Build landing pages from a tree of components",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Editor != nil {
				return nil
			}
			return app.Open(cmd.Context(), configPath, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $PAGEBUILDER_CONFIG or ~/.config/pagebuilder/config.yaml)")

	root.AddCommand(
		newAddCmd(app),
		newAddChildCmd(app),
		newUpdateCmd(app),
		newStyleCmd(app),
		newRemoveCmd(app),
		newRemoveChildCmd(app),
		newMoveCmd(app),
		newShowCmd(app),
		newTreeCmd(app),
		newClearCmd(app),
		newUndoCmd(app),
		newRedoCmd(app),
		newHistoryCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newTemplateCmd(app),
		newPropertiesCmd(app),
		newServeCmd(app),
		newMCPCmd(app),
		newWatchCmd(app),
	)

	return root
}
