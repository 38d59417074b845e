/*
################################## State machine ######################################
*/
package excellonstates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
	"github.com/VasiliyTurchenko/excellon2em7/excellondatamodel"
	"github.com/VasiliyTurchenko/excellon2em7/excellonlexer"
	"github.com/VasiliyTurchenko/excellon2em7/tools"
	"github.com/VasiliyTurchenko/excellon2em7/xy"
)

type DuplicateToolPolicy int

const (
	DuplicateToolsOverwrite DuplicateToolPolicy = iota + 1
	DuplicateToolsReject
)

func (p DuplicateToolPolicy) String() string {
	switch p {
	case DuplicateToolsOverwrite:
		return "overwrite"
	case DuplicateToolsReject:
		return "reject"
	default:

	}
	return "Unknown duplicate tools policy"
}

func ParseDuplicateToolPolicy(s string) (DuplicateToolPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite", "":
		return DuplicateToolsOverwrite, nil
	case "reject":
		return DuplicateToolsReject, nil
	}
	return 0, fmt.Errorf("%w: duplicate tools policy %q", ErrBadSetting, s)
}

// Options are fixed for the whole parse
type Options struct {
	// initial settings, changed by the file directives
	Settings       FileSettings
	DuplicateTools DuplicateToolPolicy
	// ICI,OFF and G90 select incremental notation as the early pcb-tools did
	LegacyICIOff bool
}

func DefaultOptions() Options {
	return Options{
		Settings:       DefaultSettings(),
		DuplicateTools: DuplicateToolsOverwrite,
	}
}

/*
The State object represents the state of the machine after LineNum lines.
Step never changes the fields or the tool table of the State it gets, the
table is copied on write. The *tools.Tool values are shared between states
and the driver increments their hit counters.
*/
type State struct {
	Phase      Phase
	Settings   FileSettings
	Tools      map[int]*tools.Tool
	ActiveTool *tools.Tool
	Position   xy.XY
	LineNum    int
	Options    Options
}

// creates and initializes state object with default values
func NewState(opts Options) State {
	if opts.DuplicateTools == 0 {
		opts.DuplicateTools = DuplicateToolsOverwrite
	}
	return State{
		Phase:    PhaseInit,
		Settings: opts.Settings,
		Tools:    make(map[int]*tools.Tool),
		Options:  opts,
	}
}

// diagnostic print
func (st State) String() string {
	active := "<nil>"
	if st.ActiveTool != nil {
		active = st.ActiveTool.String()
	}
	return fmt.Sprintf("line %d phase %s %s tools %d active %s position %s",
		st.LineNum, st.Phase, st.Settings, len(st.Tools), active, st.Position)
}

func (st *State) setPhase(p Phase, line string) {
	if st.Phase != p {
		glog.V(1).Infof("line %d %q: phase %s -> %s", st.LineNum, line, st.Phase, p)
		st.Phase = p
	}
}

func (st *State) setSettings(s FileSettings) {
	if st.Settings != s {
		glog.V(1).Infof("line %d: settings %s", st.LineNum, s)
		st.Settings = s
	}
}

func (st *State) lineError(raw, token string, err error) error {
	return &ParseError{Line: st.LineNum, Text: raw, Token: token, Err: err}
}

/*
Rules are evaluated in the table order. Every matching rule is applied,
a final rule stops the evaluation of the line.
*/
type rule struct {
	name  string
	final bool
	match func(st *State, line string) bool
	apply func(st *State, line, raw string) (*excellondatamodel.Hit, error)
}

var rules = []rule{
	{
		name:  "blank",
		final: true,
		match: func(st *State, line string) bool { return excellonlexer.Classify(line) == excellonlexer.KindBlank },
		apply: skipLine,
	},
	{
		name:  "comment",
		final: true,
		match: func(st *State, line string) bool { return excellonlexer.Classify(line) == excellonlexer.KindComment },
		apply: applyComment,
	},
	{
		name:  "header start",
		match: func(st *State, line string) bool { return strings.Contains(line, ExcellonHeaderStart) },
		apply: phaseTo(PhaseHeader),
	},
	{
		name:  "rout mode",
		match: func(st *State, line string) bool { return strings.Contains(line, ExcellonRoutMode) },
		apply: phaseTo(PhaseRout),
	},
	{
		name:  "drill mode",
		match: func(st *State, line string) bool { return strings.Contains(line, ExcellonDrillMode) },
		apply: phaseTo(PhaseDrill),
	},
	{
		name: "header end",
		match: func(st *State, line string) bool {
			return st.Phase == PhaseHeader && !strings.Contains(line, ExcellonDrillMode) &&
				(strings.HasPrefix(line, ExcellonHeaderEnd) || line == ExcellonRewindStop)
		},
		apply: phaseTo(PhaseDrill),
	},
	{
		name:  "inch",
		match: isInch,
		apply: unitsTo(UnitsInch),
	},
	{
		name: "metric",
		match: func(st *State, line string) bool {
			return !isInch(st, line) && (strings.Contains(line, ExcellonMetric) || line == ExcellonMetricCode)
		},
		apply: unitsTo(UnitsMetric),
	},
	{
		// LZ: leading zeros are kept, so the trailing ones are suppressed
		name:  "leading zeros",
		match: func(st *State, line string) bool { return strings.Contains(line, ExcellonLeadingZeros) },
		apply: zerosTo(ZeroSuppressionTrailing),
	},
	{
		name: "trailing zeros",
		match: func(st *State, line string) bool {
			return !strings.Contains(line, ExcellonLeadingZeros) && strings.Contains(line, ExcellonTrailZeros)
		},
		apply: zerosTo(ZeroSuppressionLeading),
	},
	{
		name: "incremental on",
		match: func(st *State, line string) bool {
			return (strings.Contains(line, ExcellonIncremental) && strings.Contains(line, "ON")) || line == ExcellonIncrCode
		},
		apply: notationTo(NotationIncremental),
	},
	{
		name: "incremental off",
		match: func(st *State, line string) bool {
			return (strings.Contains(line, ExcellonIncremental) && strings.Contains(line, "OFF")) || line == ExcellonAbsoluteCode
		},
		apply: func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
			if st.Options.LegacyICIOff {
				return notationTo(NotationIncremental)(st, line, raw)
			}
			return notationTo(NotationAbsolute)(st, line, raw)
		},
	},
	{
		name:  "end of program",
		match: func(st *State, line string) bool { return line == ExcellonEndOfProgram || line == ExcellonProgramStop },
		apply: func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
			glog.V(1).Infof("line %d: end of program %s", st.LineNum, line)
			return nil, nil
		},
	},
	{
		name:  "tool",
		match: func(st *State, line string) bool { return excellonlexer.Classify(line) == excellonlexer.KindTool },
		apply: applyTool,
	},
	{
		name:  "coordinate",
		match: func(st *State, line string) bool { return excellonlexer.Classify(line) == excellonlexer.KindCoordinate },
		apply: applyCoordinate,
	},
}

func isInch(st *State, line string) bool {
	return strings.Contains(line, ExcellonInch) || line == ExcellonInchCode
}

func skipLine(st *State, line, raw string) (*excellondatamodel.Hit, error) {
	return nil, nil
}

func phaseTo(p Phase) func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
	return func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
		st.setPhase(p, line)
		return nil, nil
	}
}

// also reads an optional format hint, "METRIC,TZ,000.000"
func unitsTo(u Units) func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
	return func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
		s := st.Settings.WithUnits(u)
		for _, part := range strings.Split(line, ",") {
			if cf, ok := formatHint(part); ok {
				if !cf.Valid() {
					return nil, st.lineError(raw, part,
						fmt.Errorf("%w: format hint %s is out of range", ErrMalformedNumber, cf))
				}
				s = s.WithFormat(cf)
			}
		}
		st.setSettings(s)
		return nil, nil
	}
}

func formatHint(part string) (CoordFormat, bool) {
	ip, dp, found := strings.Cut(strings.TrimSpace(part), ".")
	if !found || ip == "" || dp == "" || strings.Trim(ip, "0") != "" || strings.Trim(dp, "0") != "" {
		return CoordFormat{}, false
	}
	return CoordFormat{IntDigits: len(ip), DecDigits: len(dp)}, true
}

func zerosTo(zs ZeroSuppression) func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
	return func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
		st.setSettings(st.Settings.WithZeroSuppression(zs))
		return nil, nil
	}
}

func notationTo(n Notation) func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
	return func(st *State, line, raw string) (*excellondatamodel.Hit, error) {
		st.setSettings(st.Settings.WithNotation(n))
		return nil, nil
	}
}

func applyComment(st *State, line, raw string) (*excellondatamodel.Hit, error) {
	if !strings.HasPrefix(line, ExcellonFileFormat) {
		return nil, nil
	}
	value := strings.TrimPrefix(line, ExcellonFileFormat)
	cf, err := xy.ParseFormat(value)
	if err != nil {
		return nil, st.lineError(raw, value, err)
	}
	st.setSettings(st.Settings.WithFormat(cf))
	return nil, nil
}

func malformedLine(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedLine, err)
}

func applyTool(st *State, line, raw string) (*excellondatamodel.Hit, error) {
	if st.Phase == PhaseHeader {
		return nil, defineTool(st, line, raw)
	}
	return nil, selectTool(st, line, raw)
}

// tool definition, header only
func defineTool(st *State, line, raw string) error {
	tool, err := tools.FromLine(line, st.Settings)
	if err != nil {
		token := line
		if fe, ok := err.(*tools.FieldError); ok {
			token = fe.Token
			err = fe.Err
		}
		if le, ok := err.(*excellonlexer.LexError); ok {
			token = le.Token
		}
		if !errors.Is(err, ErrMalformedNumber) {
			err = malformedLine(err)
		}
		return st.lineError(raw, token, err)
	}
	if prev, ok := st.Tools[tool.Number]; ok {
		if st.Options.DuplicateTools == DuplicateToolsReject {
			return st.lineError(raw, "T"+fmt.Sprint(tool.Number), fmt.Errorf("%w: %s already defined", ErrDuplicateTool, prev))
		}
		glog.Warningln("line", st.LineNum, ": tool", tool.Number, "redefined, the previous definition is overwritten")
	}
	if tool.Diameter == nil {
		glog.Warningln("line", st.LineNum, ": tool", tool.Number, "has no diameter")
	}
	table := make(map[int]*tools.Tool, len(st.Tools)+1)
	for k, v := range st.Tools {
		table[k] = v
	}
	table[tool.Number] = tool
	st.Tools = table
	glog.V(2).Infof("line %d: tool defined %s", st.LineNum, tool)
	return nil
}

// tool selection, T0 unloads the tool
func selectTool(st *State, line, raw string) error {
	fields, err := excellonlexer.Fields(line)
	if err != nil {
		return st.lineError(raw, lexToken(err, line), malformedLine(err))
	}
	if len(fields) != 1 {
		return st.lineError(raw, line, fmt.Errorf("%w: tool selection expects a single T field", ErrMalformedLine))
	}
	value := fields[0].Value
	if value != "" && isDigits(value) && strings.Trim(value, "0") == "" {
		glog.V(1).Infof("line %d: tool unloaded", st.LineNum)
		st.ActiveTool = nil
		return nil
	}
	number, err := tools.ParseNumber(value)
	if err != nil {
		return st.lineError(raw, line, malformedLine(err))
	}
	tool, ok := st.Tools[number]
	if !ok {
		return st.lineError(raw, line, fmt.Errorf("%w T%d", ErrUnknownTool, number))
	}
	st.ActiveTool = tool
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func applyCoordinate(st *State, line, raw string) (*excellondatamodel.Hit, error) {
	fields, err := excellonlexer.Fields(line)
	if err != nil {
		return nil, st.lineError(raw, lexToken(err, line), malformedLine(err))
	}
	var x, y *float64
	for _, f := range fields {
		var dst **float64
		switch f.Code {
		case 'X':
			dst = &x
		case 'Y':
			dst = &y
		default:
			return nil, st.lineError(raw, string(f.Code)+f.Value,
				fmt.Errorf("%w: unsupported field %c in a coordinate line", ErrMalformedLine, f.Code))
		}
		if *dst != nil {
			return nil, st.lineError(raw, string(f.Code)+f.Value,
				fmt.Errorf("%w: repeated axis %c", ErrMalformedLine, f.Code))
		}
		v, err := xy.Decode(f.Value, st.Settings.Format, st.Settings.ZeroSuppression)
		if err != nil {
			return nil, st.lineError(raw, string(f.Code)+f.Value, err)
		}
		*dst = &v
	}
	st.Position = st.Position.Move(x, y, st.Settings.Notation)
	if st.Phase != PhaseDrill {
		return nil, nil
	}
	if st.ActiveTool == nil {
		return nil, st.lineError(raw, line, ErrNoActiveTool)
	}
	return &excellondatamodel.Hit{Tool: st.ActiveTool, Position: st.Position}, nil
}

func lexToken(err error, line string) string {
	if le, ok := err.(*excellonlexer.LexError); ok {
		return le.Token
	}
	return line
}

/*
Step consumes one raw line. It returns the next state and the hit
made by the line, if any. The input state's fields and tool table are left
untouched. Hit counters are not incremented here.
*/
func Step(st State, raw string) (State, *excellondatamodel.Hit, error) {
	st.LineNum++
	line := excellonlexer.Normalize(raw)
	var hit *excellondatamodel.Hit
	for i := range rules {
		r := &rules[i]
		if !r.match(&st, line) {
			continue
		}
		h, err := r.apply(&st, line, raw)
		if err != nil {
			return st, nil, err
		}
		if h != nil {
			hit = h
		}
		if r.final {
			break
		}
	}
	return st, hit, nil
}
