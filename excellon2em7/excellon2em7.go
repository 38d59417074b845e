package excellon2em7

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/VasiliyTurchenko/excellon2em7/configurator"
	"github.com/VasiliyTurchenko/excellon2em7/excellondatamodel"
	"github.com/VasiliyTurchenko/excellon2em7/excellonparser"
)

const (
	appName    = "Excellon to EM-7052 translation tool"
	appVersion = "0.2.0"
)

var (
	headerFmt = color.New(color.FgBlue, color.Bold).SprintfFunc()
	okFmt     = color.New(color.FgGreen).SprintfFunc()
	warnFmt   = color.New(color.FgYellow).SprintfFunc()
)

// app keeps what the subcommands share
type app struct {
	viperConfig *viper.Viper
	cfgFile     string
	started     time.Time
}

func Main() {
	root := NewRootCmd()
	err := root.Execute()
	checkError(err, 1)
	glog.Flush()
}

func NewRootCmd() *cobra.Command {
	a := &app{viperConfig: viper.New()}
	configurator.SetDefaults(a.viperConfig)

	rootCmd := &cobra.Command{
		Use:   "excellon2em7",
		Short: appName,
		Long: appName + `: reads Excellon NC drill files, prints the tool table
and plots the holes to a PNG drill map and an EM-7052 command file.

Examples:
  excellon2em7 info board.drl                 # tool table and hit summary
  excellon2em7 render board.drl --png out.png # drill map and plotter commands`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd.ErrOrStderr())
		},
	}
	// glog flags: -v, -logtostderr, ...
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "configuration file (default ./config.toml)")

	rootCmd.AddCommand(a.newInfoCmd(), a.newRenderCmd())
	return rootCmd
}

func (a *app) loadConfig(stderr io.Writer) error {
	// glog wants the go flags to be parsed
	if !flag.Parsed() {
		_ = flag.CommandLine.Parse(nil)
	}
	a.started = time.Now()
	if a.cfgFile != "" {
		a.viperConfig.SetConfigFile(a.cfgFile)
		return configurator.ProcessConfigFile(a.viperConfig)
	}
	if err := configurator.ProcessConfigFile(a.viperConfig); err != nil {
		glog.V(1).Infoln(err)
		fmt.Fprintln(stderr, warnFmt("no configuration file, using built-in defaults"))
	}
	if glog.V(2) {
		configurator.DiagnosticAllCfgPrint(a.viperConfig)
	}
	return nil
}

func (a *app) parse(filename string, sinks ...excellonparser.DrillSink) (*excellondatamodel.DrillDocument, error) {
	opts, err := configurator.ParserOptions(a.viperConfig)
	if err != nil {
		return nil, err
	}
	p := excellonparser.NewParser(opts)
	if len(sinks) > 0 {
		p.WithSink(excellonparser.NewMultiSink(sinks...), "")
	}
	doc, err := p.ParseFile(filename)
	if err != nil {
		glog.Errorln(filename, err)
		return nil, err
	}
	return doc, nil
}

func (a *app) elapsed() string {
	return time.Since(a.started).Round(time.Millisecond).String()
}

// this function returns application info
func returnAppInfo() string {
	return appName + "\nVersion " + appVersion + "\n"
}

func checkError(err error, exitCode int) {
	if err != nil {
		glog.Errorln(err)
		glog.Flush()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode)
	}
}
