package configurator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/viper"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
	"github.com/VasiliyTurchenko/excellon2em7/excellonparser"
	"github.com/VasiliyTurchenko/excellon2em7/excellonstates"
)

const (
	CfgCommonPrintStatistic string = "common.PrintStatistic"
	CfgCommonPrintToolsInfo string = "common.PrintToolsInfo"

	CfgParserIntegerDigits   string = "parser.IntegerDigits"
	CfgParserDecimalDigits   string = "parser.DecimalDigits"
	CfgParserZeroSuppression string = "parser.ZeroSuppression"
	CfgParserUnits           string = "parser.Units"
	CfgParserNotation        string = "parser.Notation"
	CfgParserDuplicateTools  string = "parser.DuplicateTools"
	CfgParserLegacyICIOff    string = "parser.LegacyICIOff"

	CfgRendererGeneratePNG  string = "renderer.GeneratePNG"
	CfgRendererOutFile      string = "renderer.OutFile"
	CfgRendererMargin       string = "renderer.Margin"
	CfgRendererHoleSegments string = "renderer.HoleSegments"
	CfgRendererPixelsPerMM  string = "renderer.PixelsPerMM"
	CfgPlotterGenerateCmds  string = "plotter.GenerateCommands"
	CfgPlotterOutFile       string = "plotter.OutFile"
	CfgPlotterXRes          string = "plotter.xRes"
	CfgPlotterYRes          string = "plotter.yRes"
	CfgPlotterPenNumber     string = "plotter.PenNumber"
	CfgPlotterMarkCross     string = "plotter.MarkCross"
)

var ErrConfig = errors.New("configuration error")

func SetDefaults(v *viper.Viper) {
	v.SetConfigName("config") // no need to include file extension
	v.AddConfigPath(".")      // set the path of your config file
	v.SetConfigType("toml")

	// diagnostic messages
	v.SetDefault(CfgCommonPrintStatistic, true)
	v.SetDefault(CfgCommonPrintToolsInfo, true)

	// initial file settings, the file directives override them
	ds := DefaultSettings()
	v.SetDefault(CfgParserIntegerDigits, ds.Format.IntDigits)
	v.SetDefault(CfgParserDecimalDigits, ds.Format.DecDigits)
	v.SetDefault(CfgParserZeroSuppression, ds.ZeroSuppression.String())
	v.SetDefault(CfgParserUnits, ds.Units.String())
	v.SetDefault(CfgParserNotation, ds.Notation.String())
	v.SetDefault(CfgParserDuplicateTools, excellonstates.DuplicateToolsOverwrite.String())
	v.SetDefault(CfgParserLegacyICIOff, false)

	//
	v.SetDefault(CfgRendererGeneratePNG, true)
	v.SetDefault(CfgRendererOutFile, "drill.png")
	v.SetDefault(CfgRendererMargin, 2.0)
	v.SetDefault(CfgRendererHoleSegments, 32)
	v.SetDefault(CfgRendererPixelsPerMM, 20.0)

	//
	v.SetDefault(CfgPlotterGenerateCmds, true)
	v.SetDefault(CfgPlotterOutFile, "drill.em7")
	v.SetDefault(CfgPlotterXRes, 0.025)
	v.SetDefault(CfgPlotterYRes, 0.025)
	v.SetDefault(CfgPlotterPenNumber, 1)
	v.SetDefault(CfgPlotterMarkCross, false)
}

func ProcessConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}

// ParserOptions builds the parser options out of the parser.* keys
func ParserOptions(v *viper.Viper) (excellonparser.Options, error) {
	opts := excellonparser.DefaultOptions()
	var errs []error

	cf := CoordFormat{
		IntDigits: v.GetInt(CfgParserIntegerDigits),
		DecDigits: v.GetInt(CfgParserDecimalDigits),
	}
	if !cf.Valid() {
		errs = append(errs, fmt.Errorf("%w: format %s", ErrBadSetting, cf))
	}
	units, err := ParseUnits(v.GetString(CfgParserUnits))
	errs = append(errs, err)
	zs, err := ParseZeroSuppression(v.GetString(CfgParserZeroSuppression))
	errs = append(errs, err)
	notation, err := ParseNotation(v.GetString(CfgParserNotation))
	errs = append(errs, err)
	dup, err := excellonstates.ParseDuplicateToolPolicy(v.GetString(CfgParserDuplicateTools))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return opts, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	opts.Settings = FileSettings{
		Units:           units,
		Format:          cf,
		ZeroSuppression: zs,
		Notation:        notation,
	}
	opts.DuplicateTools = dup
	opts.LegacyICIOff = v.GetBool(CfgParserLegacyICIOff)
	return opts, nil
}

func DiagnosticAllCfgPrint(v *viper.Viper) {
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key, ":", v.Get(key))
	}
	fmt.Println()
}
