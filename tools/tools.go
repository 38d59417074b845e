// functions related to parsing excellon files
// Drill tools support
package tools

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
	"github.com/VasiliyTurchenko/excellon2em7/excellonlexer"
	"github.com/VasiliyTurchenko/excellon2em7/xy"
)

// spindle speed is given in thousands of RPM
const RPMMultiplier float64 = 1000.0

// ErrBadToolNumber is returned when a tool number is missing or not a positive integer
var ErrBadToolNumber = errors.New("bad tool number")

// Tool is a drill tool definition. Absent parameters are nil.
type Tool struct {
	Number       int
	SourceString string
	Diameter     *float64
	FeedRate     *float64
	RetractRate  *float64
	RPM          *float64
	MaxHitCount  *float64
	DepthOffset  *float64
	Units        Units
	hitCount     int
}

func (tool *Tool) HitCount() int {
	return tool.hitCount
}

// Hit registers one drill operation made by the tool
func (tool *Tool) Hit() {
	tool.hitCount++
}

// DiameterOrZero is the tool diameter, 0 when the definition had no C field
func (tool *Tool) DiameterOrZero() float64 {
	if tool.Diameter == nil {
		return 0
	}
	return *tool.Diameter
}

// SameDefinition compares all the fields except the hit counter
func (tool *Tool) SameDefinition(another *Tool) bool {
	return tool.Number == another.Number &&
		tool.Units == another.Units &&
		equalOpt(tool.Diameter, another.Diameter) &&
		equalOpt(tool.FeedRate, another.FeedRate) &&
		equalOpt(tool.RetractRate, another.RetractRate) &&
		equalOpt(tool.RPM, another.RPM) &&
		equalOpt(tool.MaxHitCount, another.MaxHitCount) &&
		equalOpt(tool.DepthOffset, another.DepthOffset)
}

func equalOpt(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (tool *Tool) String() string {
	code := excellonlexer.FormatCode("T", strconv.Itoa(tool.Number))
	if tool.Diameter == nil {
		return "<Tool " + code + ": no dia.>"
	}
	return fmt.Sprintf("<Tool %s: %0.3f%s dia.>", code, *tool.Diameter, tool.Units.Abbrev())
}

// ParseNumber reads a tool number, "01" -> 1
func ParseNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w %q", ErrBadToolNumber, s)
	}
	return n, nil
}

// FieldError tells which field of the line has failed
type FieldError struct {
	Token string
	Err   error
}

func (fe *FieldError) Error() string {
	return fe.Err.Error()
}

func (fe *FieldError) Unwrap() error {
	return fe.Err
}

// FromLine creates a Tool from an excellon tool definition line
// like "T01C0.0100F200S65". The values are decoded with the settings.
func FromLine(line string, settings FileSettings) (*Tool, error) {
	fields, err := excellonlexer.Fields(line)
	if err != nil {
		return nil, err
	}
	tool := &Tool{SourceString: line, Units: settings.Units}
	decode := func(f excellonlexer.Field) (*float64, error) {
		v, err := xy.Decode(f.Value, settings.Format, settings.ZeroSuppression)
		if err != nil {
			return nil, &FieldError{string(f.Code) + f.Value, err}
		}
		return &v, nil
	}
	for _, f := range fields {
		switch f.Code {
		case 'T':
			if tool.Number, err = ParseNumber(f.Value); err != nil {
				return nil, &FieldError{string(f.Code) + f.Value, err}
			}
		case 'B':
			tool.RetractRate, err = decode(f)
		case 'C':
			tool.Diameter, err = decode(f)
		case 'F':
			tool.FeedRate, err = decode(f)
		case 'H':
			tool.MaxHitCount, err = decode(f)
		case 'S':
			if tool.RPM, err = decode(f); err == nil {
				*tool.RPM *= RPMMultiplier
			}
		case 'Z':
			tool.DepthOffset, err = decode(f)
		default:
			err = &FieldError{string(f.Code) + f.Value,
				&excellonlexer.LexError{Token: string(f.Code), Column: f.Column, Reason: "unknown tool field"}}
		}
		if err != nil {
			return nil, err
		}
	}
	if tool.Number == 0 {
		return nil, &FieldError{line, fmt.Errorf("%w: no T field", ErrBadToolNumber)}
	}
	return tool, nil
}
