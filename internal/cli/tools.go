package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitbridge/internal/tools"
)

// AddToolsCommand adds the tools command to the root command.
func AddToolsCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the operation catalog",
		Long: `Tools prints every operation the server exposes, with its arguments.
With --output json the full catalog is emitted as JSON, matching what
the tools/list protocol method returns.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTools(cmd, flags)
		},
	}

	root.AddCommand(cmd)
}

func runTools(cmd *cobra.Command, flags *GlobalFlags) error {
	catalog := tools.Catalog()
	out := outputFor(cmd, flags)

	if flags.Output == OutputJSON {
		return out.JSON(map[string]any{"tools": catalog})
	}

	for _, op := range catalog {
		out.Info(op.Name)
		out.Info(fmt.Sprintf("  %s", op.Description))
		for _, arg := range op.Args {
			out.Info(fmt.Sprintf("    %s", formatArg(arg)))
		}
	}
	out.Success(fmt.Sprintf("%d operations available", len(catalog)))
	return nil
}

// formatArg renders one argument spec as a single line.
func formatArg(arg tools.ArgSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s", arg.Name, arg.Type)
	if arg.Required {
		b.WriteString(", required")
	}
	if len(arg.Enum) > 0 {
		fmt.Fprintf(&b, ", one of %s", strings.Join(arg.Enum, "|"))
	}
	if arg.Default != nil {
		fmt.Fprintf(&b, ", default %v", arg.Default)
	}
	b.WriteString(")")
	if arg.Description != "" {
		fmt.Fprintf(&b, " %s", arg.Description)
	}
	return b.String()
}
