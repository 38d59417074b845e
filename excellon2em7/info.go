package excellon2em7

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/VasiliyTurchenko/excellon2em7/configurator"
	"github.com/VasiliyTurchenko/excellon2em7/excellondatamodel"
)

func (a *app) newInfoCmd() *cobra.Command {
	var overlaps bool
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the tool table and the hit summary of a drill file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.parse(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSummary(out, doc)
			if a.viperConfig.GetBool(configurator.CfgCommonPrintToolsInfo) {
				printTools(out, doc)
			}
			if overlaps {
				printOverlaps(out, doc, a.viperConfig.GetInt(configurator.CfgRendererHoleSegments))
			}
			if a.viperConfig.GetBool(configurator.CfgCommonPrintStatistic) {
				fmt.Fprintln(out, "elapsed:", a.elapsed())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&overlaps, "overlaps", false, "report overlapping holes")
	return cmd
}

func printSummary(out io.Writer, doc *excellondatamodel.DrillDocument) {
	fmt.Fprint(out, headerFmt("%s", returnAppInfo()))
	fmt.Fprintln(out, "input file:", doc.Filename())
	fmt.Fprintln(out, "settings:", doc.Settings())
	fmt.Fprintln(out, "tools:", len(doc.Tools()), "hits:", doc.NumHits())
	if bb, ok := doc.Bounds(); ok {
		u := doc.Units().Abbrev()
		fmt.Fprintf(out, "extent: (%.4f,%.4f) - (%.4f,%.4f) %s\n", bb.Min.X, bb.Min.Y, bb.Max.X, bb.Max.Y, u)
	}
}

func printTools(out io.Writer, doc *excellondatamodel.DrillDocument) {
	fmt.Fprintln(out, headerFmt("%-6s %12s %8s", "tool", "diameter", "hits"))
	for _, tool := range doc.Tools() {
		dia := warnFmt("%12s", "none")
		if tool.Diameter != nil {
			// units of the definition, the file may switch them later
			dia = fmt.Sprintf("%8.4f %3s", *tool.Diameter, tool.Units.Abbrev())
		}
		fmt.Fprintf(out, "%-6s %s %8d\n", "T"+fmt.Sprintf("%02d", tool.Number), dia, tool.HitCount())
	}
}

func printOverlaps(out io.Writer, doc *excellondatamodel.DrillDocument, segments int) {
	pairs := doc.Overlaps(segments)
	if len(pairs) == 0 {
		fmt.Fprintln(out, okFmt("no overlapping holes"))
		return
	}
	hits := doc.Hits()
	fmt.Fprintln(out, warnFmt("%s overlapping holes:", strconv.Itoa(len(pairs))))
	for _, p := range pairs {
		fmt.Fprintf(out, "  #%d %s  #%d %s\n", p.A, hits[p.A], p.B, hits[p.B])
	}
}
