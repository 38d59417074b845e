package excellon2em7

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/VasiliyTurchenko/excellon2em7/configurator"
	"github.com/VasiliyTurchenko/excellon2em7/excellonparser"
	"github.com/VasiliyTurchenko/excellon2em7/plotter"
	"github.com/VasiliyTurchenko/excellon2em7/render"
)

func (a *app) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Plot the holes to a PNG drill map and an EM-7052 command file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.viperConfig
			var sinks []excellonparser.DrillSink
			var png *render.PNGSink
			var plt *plotter.DrillSink
			var err error
			if v.GetBool(configurator.CfgRendererGeneratePNG) {
				png, err = render.NewPNGSink(
					v.GetFloat64(configurator.CfgRendererPixelsPerMM),
					v.GetFloat64(configurator.CfgRendererMargin),
					v.GetString(configurator.CfgRendererOutFile))
				if err != nil {
					return err
				}
				sinks = append(sinks, png)
			}
			if v.GetBool(configurator.CfgPlotterGenerateCmds) {
				plt, err = plotter.NewDrillSink(plotter.SinkConfig{
					XRes:      v.GetFloat64(configurator.CfgPlotterXRes),
					YRes:      v.GetFloat64(configurator.CfgPlotterYRes),
					PenNumber: v.GetInt(configurator.CfgPlotterPenNumber),
					MarkCross: v.GetBool(configurator.CfgPlotterMarkCross),
					OutFile:   v.GetString(configurator.CfgPlotterOutFile),
				})
				if err != nil {
					return err
				}
				sinks = append(sinks, plt)
			}
			doc, err := a.parse(args[0], sinks...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSummary(out, doc)
			if png != nil {
				fmt.Fprintln(out, okFmt("drill map:"), v.GetString(configurator.CfgRendererOutFile))
			}
			if plt != nil {
				fmt.Fprintln(out, okFmt("plotter commands:"), v.GetString(configurator.CfgPlotterOutFile))
			}
			if v.GetBool(configurator.CfgCommonPrintStatistic) {
				if plt != nil {
					fmt.Fprintln(out, "plotter:", plt.Statistic())
				}
				fmt.Fprintln(out, "elapsed:", a.elapsed())
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("png", "", "drill map output file")
	flags.String("em7", "", "plotter command output file")
	flags.Bool("no-png", false, "do not generate the drill map")
	flags.Bool("no-plot", false, "do not generate the plotter commands")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		overrideFromFlags(a.viperConfig, flags)
	}
	return cmd
}

// the flags override the configuration only when given
func overrideFromFlags(v *viper.Viper, flags *pflag.FlagSet) {
	if f := flags.Lookup("png"); f != nil && f.Changed {
		v.Set(configurator.CfgRendererOutFile, f.Value.String())
	}
	if f := flags.Lookup("em7"); f != nil && f.Changed {
		v.Set(configurator.CfgPlotterOutFile, f.Value.String())
	}
	if off, err := flags.GetBool("no-png"); err == nil && off {
		v.Set(configurator.CfgRendererGeneratePNG, false)
	}
	if off, err := flags.GetBool("no-plot"); err == nil && off {
		v.Set(configurator.CfgPlotterGenerateCmds, false)
	}
}
