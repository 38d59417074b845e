package excellonstates

import (
	"errors"
	"strconv"

	"github.com/VasiliyTurchenko/excellon2em7/xy"
)

var (
	// ErrMalformedNumber is the codec error, re-exported for the callers of this package
	ErrMalformedNumber = xy.ErrMalformedNumber
	ErrMalformedLine   = errors.New("malformed line")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrNoActiveTool    = errors.New("no active tool")
	ErrDuplicateTool   = errors.New("duplicate tool")
	ErrSink            = errors.New("drill sink failed")
)

// ParseError stops the parse. It identifies the line, the offending token and
// the kind of the failure.
type ParseError struct {
	Line  int // 1-based
	Text  string
	Token string
	Err   error
}

func (pe *ParseError) Error() string {
	retVal := "line " + strconv.Itoa(pe.Line) + " " + strconv.Quote(pe.Text) + ": " + pe.Kind()
	if pe.Token != "" {
		retVal += " at " + strconv.Quote(pe.Token)
	}
	if pe.Err != nil {
		retVal += ": " + pe.Err.Error()
	}
	return retVal
}

func (pe *ParseError) Unwrap() error {
	return pe.Err
}

// Kind is the name of the failure class
func (pe *ParseError) Kind() string {
	switch {
	case errors.Is(pe.Err, ErrMalformedNumber):
		return "MalformedNumberError"
	case errors.Is(pe.Err, ErrUnknownTool):
		return "UnknownToolError"
	case errors.Is(pe.Err, ErrNoActiveTool):
		return "NoActiveToolError"
	case errors.Is(pe.Err, ErrDuplicateTool):
		return "DuplicateToolError"
	case errors.Is(pe.Err, ErrSink):
		return "SinkError"
	case errors.Is(pe.Err, ErrMalformedLine):
		return "MalformedLineError"
	default:
	}
	return "Error"
}
