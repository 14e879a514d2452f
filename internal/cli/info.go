package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbmap/nbmap/pkg/areal"
)

// newInfoCmd creates the info command. It prints a summary of the
// collection and, when a 'nb' column is present, the relation's
// cardinality statistics.
func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Summarize an areal dataset and its neighbour relation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), args[0])
		},
	}
}

func runInfo(ctx context.Context, input string) error {
	col, err := areal.ReadFile(input)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(input))
	printNewline()
	printKeyValue("areas", fmt.Sprintf("%d", col.Len()))
	printKeyValue("crs", col.CRS())

	bound := col.Bound()
	printKeyValue("extent", fmt.Sprintf("[%.4f, %.4f] x [%.4f, %.4f]",
		bound.Min[0], bound.Max[0], bound.Min[1], bound.Max[1]))

	rel, err := col.Neighbours()
	if err != nil {
		printNewline()
		printWarning("No usable neighbour relation: %v", err)
		printNextStep("Build one", fmt.Sprintf("nbmap neighbours %s --method queen", input))
		return nil
	}

	stats := rel.Stats()
	printNewline()
	fmt.Println(StyleHighlight.Render("Neighbour relation"))
	printKeyValue("links", fmt.Sprintf("%d", stats.Links))
	printKeyValue("cardinality", fmt.Sprintf("min %d / mean %.2f / max %d",
		stats.MinCard, stats.MeanCard, stats.MaxCard))
	printKeyValue("symmetric", fmt.Sprintf("%t", stats.Symmetric))
	printKeyValue("components", fmt.Sprintf("%d", stats.Components))
	if stats.Isolated > 0 {
		printWarning("%d areas have no neighbours", stats.Isolated)
	}

	printNewline()
	printNextStep("Render the map", fmt.Sprintf("nbmap render %s", input))
	return nil
}
