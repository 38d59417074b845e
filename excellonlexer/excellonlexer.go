package excellonlexer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

/*
M48 Beginning of a part program header.
M95 End of the header (also M95 -> %).
%   Rewind stop. In the header it ends the header.
G00 Route mode.
G05 Drill mode.
G90 Absolute mode.
G91 Incremental input mode.
M71 Metric measuring mode.
M72 Inch measuring mode.
ICI Incremental input of part program coordinates (ICI,ON / ICI,OFF).
INCH, METRIC Units with optional LZ / TZ zeros specification.
Tn  Tool definition (header) or tool selection (body).
    C diameter, F feed rate, S spindle speed, B retract rate,
    H max hit count, Z depth offset.
X Y Coordinates. A hit in drill mode.
M30 End of program.
;   Comment.
*/

// ExcellonLexer splits tool and coordinate lines into field codes and values.
// Numbers are lexed permissively and validated by the coordinate codec.
var ExcellonLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Field", Pattern: `[A-Z]`},
	{Name: "Number", Pattern: `[-+.0-9]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var (
	fieldType      = ExcellonLexer.Symbols()["Field"]
	numberType     = ExcellonLexer.Symbols()["Number"]
	whitespaceType = ExcellonLexer.Symbols()["Whitespace"]
)

// ErrUnexpectedToken is wrapped by every LexError
var ErrUnexpectedToken = errors.New("unexpected token")

// LexError points to the offending token of a line
type LexError struct {
	Token  string
	Column int // 1-based
	Reason string
}

func (le *LexError) Error() string {
	return ErrUnexpectedToken.Error() + " " + strconv.Quote(le.Token) +
		" at column " + strconv.Itoa(le.Column) + ": " + le.Reason
}

func (le *LexError) Unwrap() error {
	return ErrUnexpectedToken
}

// Field is a single letter code with its (possibly empty) value
type Field struct {
	Code   byte
	Value  string
	Column int
}

func (f Field) String() string {
	return "{code:\"" + string(f.Code) + "\",val:\"" + f.Value + "\"}"
}

// Fields tokenizes a line like "T01C0.0100F200S65" or "X010000Y-0025"
// into its code/value pairs
func Fields(line string) ([]Field, error) {
	lex, err := ExcellonLexer.LexString("", line)
	if err != nil {
		return nil, invalidText(line)
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, invalidText(line)
	}
	retVal := make([]Field, 0, len(tokens)/2)
	for _, tok := range tokens {
		switch {
		case tok.EOF():
		case tok.Type == whitespaceType:
		case tok.Type == fieldType:
			retVal = append(retVal, Field{Code: tok.Value[0], Column: tok.Pos.Column})
		case tok.Type == numberType:
			last := len(retVal) - 1
			if last < 0 || retVal[last].Value != "" {
				return nil, &LexError{tok.Value, tok.Pos.Column, "value without a field code"}
			}
			retVal[last].Value = tok.Value
		}
	}
	return retVal, nil
}

// finds the first character the lexer can not accept
func invalidText(line string) error {
	for i, c := range line {
		if strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+-. \t", c) {
			continue
		}
		return &LexError{string(c), i + 1, "invalid character"}
	}
	return &LexError{line, 1, "invalid input"}
}

/*
####################### line classification #########################
*/

type LineKind int

const (
	KindBlank LineKind = iota + 1
	KindComment
	KindTool
	KindCoordinate
	KindOther
)

func (lk LineKind) String() string {
	switch lk {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindTool:
		return "tool"
	case KindCoordinate:
		return "coordinate"
	case KindOther:
		return "other"
	default:
	}
	return "unknown"
}

// Classify looks at the leading character. A bare "TZ" zeros directive
// is not taken for a tool.
func Classify(line string) LineKind {
	if len(line) == 0 {
		return KindBlank
	}
	switch line[0] {
	case ';':
		return KindComment
	case 'T':
		if strings.HasPrefix(line, "TZ") {
			return KindOther
		}
		return KindTool
	case 'X', 'Y':
		return KindCoordinate
	}
	return KindOther
}

// Normalize upper-cases the line and removes surrounding blanks and CR
func Normalize(line string) string {
	return strings.ToUpper(strings.TrimSpace(line))
}

// deletes leading '0' of a code number, "T001" -> "T01"
func FormatCode(sym string, num string) string {
	if num == "" {
		return sym
	}
	num = strings.TrimLeft(num, "0")
	if len(num) == 1 {
		return sym + "0" + num
	}
	if len(num) == 0 {
		return sym + "00"
	}
	return sym + num
}
