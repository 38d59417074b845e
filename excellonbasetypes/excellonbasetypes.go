// Base types for Excellon parsing and processing
package excellonbasetypes

import (
	"errors"
	"strconv"
	"strings"
)

const InchesToMM float64 = 25.4

// Excellon markers
const (
	ExcellonHeaderStart  = "M48"
	ExcellonRoutMode     = "G00"
	ExcellonDrillMode    = "G05"
	ExcellonHeaderEnd    = "%"
	ExcellonRewindStop   = "M95"
	ExcellonEndOfProgram = "M30"
	ExcellonProgramStop  = "M00"
	ExcellonInch         = "INCH"
	ExcellonMetric       = "METRIC"
	ExcellonInchCode     = "M72"
	ExcellonMetricCode   = "M71"
	ExcellonLeadingZeros = "LZ"
	ExcellonTrailZeros   = "TZ"
	ExcellonIncremental  = "ICI"
	ExcellonAbsoluteCode = "G90"
	ExcellonIncrCode     = "G91"
	ExcellonComment      = ";"
	ExcellonFileFormat   = ";FILE_FORMAT="
)

type Units int

const (
	UnitsInch Units = iota + 1
	UnitsMetric
)

func (u Units) String() string {
	switch u {
	case UnitsInch:
		return "inch"
	case UnitsMetric:
		return "metric"
	default:

	}
	return "Unknown units"
}

// short form for reports
func (u Units) Abbrev() string {
	if u == UnitsMetric {
		return "mm"
	}
	return "in."
}

type ZeroSuppression int

const (
	ZeroSuppressionTrailing ZeroSuppression = iota + 1
	ZeroSuppressionLeading
	ZeroSuppressionNone
)

func (zs ZeroSuppression) String() string {
	switch zs {
	case ZeroSuppressionTrailing:
		return "trailing"
	case ZeroSuppressionLeading:
		return "leading"
	case ZeroSuppressionNone:
		return "none"
	default:

	}
	return "Unknown zero suppression"
}

type Notation int

const (
	NotationAbsolute Notation = iota + 1
	NotationIncremental
)

func (n Notation) String() string {
	switch n {
	case NotationAbsolute:
		return "absolute"
	case NotationIncremental:
		return "incremental"
	default:

	}
	return "Unknown notation"
}

// Phase is the coarse document region the parser is in
type Phase int

const (
	PhaseInit Phase = iota + 1
	PhaseHeader
	PhaseDrill
	PhaseRout
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseHeader:
		return "HEADER"
	case PhaseDrill:
		return "DRILL"
	case PhaseRout:
		return "ROUT"
	default:

	}
	return "Unknown phase"
}

var ErrBadSetting = errors.New("bad setting value")

func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inch", "in", "imperial":
		return UnitsInch, nil
	case "metric", "mm":
		return UnitsMetric, nil
	}
	return 0, errors.Join(ErrBadSetting, errors.New("units: "+strconv.Quote(s)))
}

func ParseZeroSuppression(s string) (ZeroSuppression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trailing", "t":
		return ZeroSuppressionTrailing, nil
	case "leading", "l":
		return ZeroSuppressionLeading, nil
	case "none", "":
		return ZeroSuppressionNone, nil
	}
	return 0, errors.Join(ErrBadSetting, errors.New("zero suppression: "+strconv.Quote(s)))
}

func ParseNotation(s string) (Notation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absolute", "abs":
		return NotationAbsolute, nil
	case "incremental", "inc":
		return NotationIncremental, nil
	}
	return 0, errors.Join(ErrBadSetting, errors.New("notation: "+strconv.Quote(s)))
}

/*
############################ format specification #####################
*/

// CoordFormat is the number of implied integer and decimal digits of
// a coordinate token
type CoordFormat struct {
	IntDigits int // digits in the integer part
	DecDigits int // digits in the fractional part
}

func (cf CoordFormat) Width() int {
	return cf.IntDigits + cf.DecDigits
}

// widest format accepted, 6:7
const (
	MaxIntDigits = 6
	MaxDecDigits = 7
)

func (cf CoordFormat) Valid() bool {
	return cf.IntDigits >= 0 && cf.IntDigits <= MaxIntDigits &&
		cf.DecDigits >= 0 && cf.DecDigits <= MaxDecDigits
}

func (cf CoordFormat) String() string {
	return strconv.Itoa(cf.IntDigits) + ":" + strconv.Itoa(cf.DecDigits)
}

/*
############################ file settings #####################
*/

// FileSettings is an immutable snapshot of the active coordinate interpretation.
// Derive a new one with the With* methods.
type FileSettings struct {
	Units           Units
	Format          CoordFormat
	ZeroSuppression ZeroSuppression
	Notation        Notation
}

func DefaultSettings() FileSettings {
	return FileSettings{
		Units:           UnitsInch,
		Format:          CoordFormat{IntDigits: 2, DecDigits: 5},
		ZeroSuppression: ZeroSuppressionTrailing,
		Notation:        NotationAbsolute,
	}
}

func (fs FileSettings) WithUnits(u Units) FileSettings {
	fs.Units = u
	return fs
}

func (fs FileSettings) WithFormat(f CoordFormat) FileSettings {
	fs.Format = f
	return fs
}

func (fs FileSettings) WithZeroSuppression(zs ZeroSuppression) FileSettings {
	fs.ZeroSuppression = zs
	return fs
}

func (fs FileSettings) WithNotation(n Notation) FileSettings {
	fs.Notation = n
	return fs
}

// converts a value expressed in the settings units to millimeters
func (fs FileSettings) ToMM(v float64) float64 {
	if fs.Units == UnitsInch {
		return v * InchesToMM
	}
	return v
}

func (fs FileSettings) String() string {
	return "units=" + fs.Units.String() +
		" format=" + fs.Format.String() +
		" zeros=" + fs.ZeroSuppression.String() +
		" notation=" + fs.Notation.String()
}
