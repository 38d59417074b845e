package configurator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
	"github.com/VasiliyTurchenko/excellon2em7/excellonstates"
)

func TestParserOptions_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	opts, err := ParserOptions(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), opts.Settings)
	assert.Equal(t, excellonstates.DuplicateToolsOverwrite, opts.DuplicateTools)
	assert.False(t, opts.LegacyICIOff)
}

func TestParserOptions_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(CfgParserUnits, "metric")
	v.Set(CfgParserIntegerDigits, 3)
	v.Set(CfgParserDecimalDigits, 3)
	v.Set(CfgParserZeroSuppression, "leading")
	v.Set(CfgParserNotation, "incremental")
	v.Set(CfgParserDuplicateTools, "reject")
	v.Set(CfgParserLegacyICIOff, true)

	opts, err := ParserOptions(v)
	require.NoError(t, err)
	assert.Equal(t, FileSettings{
		Units:           UnitsMetric,
		Format:          CoordFormat{IntDigits: 3, DecDigits: 3},
		ZeroSuppression: ZeroSuppressionLeading,
		Notation:        NotationIncremental,
	}, opts.Settings)
	assert.Equal(t, excellonstates.DuplicateToolsReject, opts.DuplicateTools)
	assert.True(t, opts.LegacyICIOff)
}

func TestParserOptions_BadValues(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(CfgParserUnits, "furlongs")
	v.Set(CfgParserDecimalDigits, -1)
	v.Set(CfgParserDuplicateTools, "merge")

	_, err := ParserOptions(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, ErrBadSetting)
	assert.Contains(t, err.Error(), "furlongs")
	assert.Contains(t, err.Error(), "merge")
}

func TestParserOptions_FormatTooWide(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(CfgParserDecimalDigits, 2000000)

	_, err := ParserOptions(v)
	assert.ErrorIs(t, err, ErrBadSetting)
}

func TestProcessConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := "[parser]\nUnits = \"metric\"\nDecimalDigits = 3\n\n[plotter]\nPenNumber = 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0600))

	v := viper.New()
	SetDefaults(v)
	v.AddConfigPath(dir)
	require.NoError(t, ProcessConfigFile(v))

	assert.Equal(t, "metric", v.GetString(CfgParserUnits))
	assert.Equal(t, 2, v.GetInt(CfgPlotterPenNumber))
	// untouched keys keep the defaults
	assert.Equal(t, "drill.png", v.GetString(CfgRendererOutFile))

	opts, err := ParserOptions(v)
	require.NoError(t, err)
	assert.Equal(t, CoordFormat{IntDigits: 2, DecDigits: 3}, opts.Settings.Format)
}

func TestProcessConfigFile_Missing(t *testing.T) {
	v := viper.New()
	v.SetConfigName("no_such_config")
	v.SetConfigType("toml")
	v.AddConfigPath(t.TempDir())
	err := ProcessConfigFile(v)
	assert.ErrorIs(t, err, ErrConfig)
}
