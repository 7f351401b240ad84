package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pagebuilder/internal/domain"
)

func (f *componentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "component id (generated when omitted)")
	cmd.Flags().StringVar(&f.raw, "json", "", "component as a JSON object")
	cmd.Flags().StringArrayVarP(&f.fields, "field", "f", nil, "field as key=value (repeatable, JSON values allowed)")
	cmd.Flags().StringArrayVarP(&f.styles, "style", "s", nil, "custom style as property=value (repeatable)")
}

func newAddCmd(app *App) *cobra.Command {
	var flags componentFlags
	cmd := &cobra.Command{
		Use:   "add [TYPE]",
		Short: "Append a component to the document",
		Example: `  pagebuilder add header -f content="Welcome" -s color=#fff
  pagebuilder add --json '{"type":"button","content":"Go"}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build(optionalArg(args, 0))
			if err != nil {
				return err
			}
			id, err := app.Editor.AddComponent(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newAddChildCmd(app *App) *cobra.Command {
	var flags componentFlags
	cmd := &cobra.Command{
		Use:   "add-child PARENT_ID [TYPE]",
		Short: "Append a component to the children of another",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build(optionalArg(args, 1))
			if err != nil {
				return err
			}
			id, err := app.Editor.AddChildToContainer(cmd.Context(), args[0], c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	var (
		raw    string
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Merge fields into a component",
		Example: `  pagebuilder update hero-1 -f heading="New heading" -f level=2
  pagebuilder update box --json '{"children":[]}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := map[string]any{}
			if raw != "" {
				if err := json.Unmarshal([]byte(raw), &patch); err != nil {
					return fmt.Errorf("--json must be an object: %w", err)
				}
			}
			pairs, err := parseFieldPairs(fields)
			if err != nil {
				return err
			}
			for k, v := range pairs {
				patch[k] = v
			}
			if len(patch) == 0 {
				return fmt.Errorf("nothing to update: pass --field or --json")
			}
			return app.Editor.UpdateComponent(cmd.Context(), args[0], patch)
		},
	}
	cmd.Flags().StringVar(&raw, "json", "", "patch as a JSON object")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "field as key=value (repeatable)")
	return cmd
}

func newStyleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "style ID PROPERTY=VALUE...",
		Short:   "Merge CSS properties into a component's custom styles",
		Example: `  pagebuilder style h1 color=red fontSize=24px`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			styles, err := parseStylePairs(args[1:])
			if err != nil {
				return err
			}
			for prop := range styles {
				if _, known := domain.LookupStyleProperty(prop); !known {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not in the property table\n", prop)
				}
			}
			return app.Editor.UpdateComponentStyles(cmd.Context(), args[0], styles)
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a component and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Editor.RemoveComponent(cmd.Context(), args[0])
		},
	}
}

func newRemoveChildCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-child PARENT_ID CHILD_ID",
		Short: "Remove an immediate child of a component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Editor.RemoveChildFromContainer(cmd.Context(), args[0], args[1])
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move OLD_INDEX NEW_INDEX",
		Short: "Reorder a root component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("old index: %w", err)
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("new index: %w", err)
			}
			return app.Editor.MoveComponent(cmd.Context(), from, to)
		},
	}
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
