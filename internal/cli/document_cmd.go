package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/render"
)

func newShowCmd(app *App) *cobra.Command {
	var css bool
	cmd := &cobra.Command{
		Use:   "show [ID]",
		Short: "Print the document, or one component, as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if css {
					return fmt.Errorf("--css needs a component id")
				}
				text, err := app.Editor.ExportJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			c := app.Editor.FindComponentByID(args[0])
			if c == nil {
				return fmt.Errorf("component not found: %s", args[0])
			}
			if css {
				fmt.Fprint(cmd.OutOrStdout(), domain.CSSFromProperties(c.CustomStyles))
				return nil
			}
			data, err := domain.EncodeJSON(c, "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&css, "css", false, "print the component's known custom styles as CSS declarations")
	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the component tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), render.Tree(app.Editor.Document()))
			return nil
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every component (undoable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Editor.ClearCanvas(cmd.Context())
		},
	}
}

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Editor.Undo(cmd.Context())
		},
	}
}

func newRedoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Editor.Redo(cmd.Context())
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List undoable operations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			labels := app.Editor.HistoryLabels()
			out := cmd.OutOrStdout()
			if len(labels) == 0 {
				fmt.Fprintln(out, "Nothing to undo.")
				return nil
			}
			for i := len(labels) - 1; i >= 0; i-- {
				fmt.Fprintf(out, "%3d  %s\n", len(labels)-i, labels[i])
			}
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize the document",
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	var mode string
	htmlCmd := &cobra.Command{
		Use:   "html",
		Short: "Render a standalone HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			html := app.Editor.ExportHTML()
			if mode != "" {
				var err error
				if html, err = app.Editor.ExportHTMLAs(domain.OutputMode(mode)); err != nil {
					return err
				}
			}
			return writeOutput(cmd, output, html)
		},
	}
	htmlCmd.Flags().StringVarP(&mode, "mode", "m", "", "output mode: tailwind, inline-styles or css-classes")

	jsonCmd := &cobra.Command{
		Use:   "json",
		Short: "Write the document as indented JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := app.Editor.ExportJSON()
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, text)
		},
	}

	cmd.AddCommand(htmlCmd, jsonCmd)
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: `Replace the document with a JSON array from FILE ("-" for stdin)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(app.stdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			return app.Editor.ImportJSON(cmd.Context(), string(data))
		},
	}
}

func newPropertiesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List the stylable CSS properties by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, g := range domain.PropertyGroups {
				fmt.Fprintf(tw, "%s\n", g.Name)
				for _, name := range g.Properties {
					p, ok := domain.LookupStyleProperty(name)
					if !ok {
						continue
					}
					fmt.Fprintf(tw, "  %s\t%s\t%d options\n", p.Name, p.Label, len(p.Options))
				}
			}
			return tw.Flush()
		},
	}
}

func writeOutput(cmd *cobra.Command, path, body string) error {
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}
