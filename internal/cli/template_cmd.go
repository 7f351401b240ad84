package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage saved templates",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateSaveCmd(app),
		newTemplateLoadCmd(app),
		newTemplateDeleteCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := app.Templates.List()
			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates found.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOMPONENTS")
			for _, t := range templates {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", t.ID, t.Name, t.Components.Count())
			}
			return tw.Flush()
		},
	}
}

func newTemplateSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME",
		Short: "Save the current document as a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Templates.Save(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
}

func newTemplateLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load ID",
		Short: "Replace the document with a template (undoable)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Templates.Load(cmd.Context(), args[0])
		},
	}
}

func newTemplateDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Templates.Delete(cmd.Context(), args[0])
		},
	}
}
