package excellonlexer

import (
	"errors"
	"strconv"
	"testing"
)

type testdata struct {
	input  string
	answer []string
}

var td = []testdata{
	{"T01C0.0100", []string{`{code:"T",val:"01"}`, `{code:"C",val:"0.0100"}`}},
	{"T1C0.035F200S65", []string{`{code:"T",val:"1"}`, `{code:"C",val:"0.035"}`, `{code:"F",val:"200"}`, `{code:"S",val:"65"}`}},
	{"X010000Y010000", []string{`{code:"X",val:"010000"}`, `{code:"Y",val:"010000"}`}},
	{"Y-0025", []string{`{code:"Y",val:"-0025"}`}},
	{"X+1 Y2", []string{`{code:"X",val:"+1"}`, `{code:"Y",val:"2"}`}},
	{"T", []string{`{code:"T",val:""}`}},
	{"X1.2.3", []string{`{code:"X",val:"1.2.3"}`}},
}

func TestFields(t *testing.T) {
	for _, d := range td {
		fields, err := Fields(d.input)
		if err != nil {
			t.Error(d.input + ": " + err.Error())
			continue
		}
		if len(fields) != len(d.answer) {
			t.Error(d.input + ": expected " + strconv.Itoa(len(d.answer)) + " fields, got " + strconv.Itoa(len(fields)))
			continue
		}
		for i := range fields {
			if fields[i].String() != d.answer[i] {
				t.Error("\ninput: " + d.input + "\ncorr: " + d.answer[i] + "\nres: " + fields[i].String())
			}
		}
	}
}

func TestFieldsErrors(t *testing.T) {
	bad := map[string]string{
		"X12#4":   "#",
		"010000":  "010000",
		"X12 34":  "34",
		"T1C0,01": ",",
	}
	for in, token := range bad {
		_, err := Fields(in)
		var le *LexError
		if !errors.As(err, &le) {
			t.Error(in + ": LexError expected")
			continue
		}
		if !errors.Is(err, ErrUnexpectedToken) {
			t.Error(in + ": must wrap ErrUnexpectedToken")
		}
		if le.Token != token {
			t.Error(in + ": offending token " + strconv.Quote(le.Token) + ", expected " + strconv.Quote(token))
		}
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]LineKind{
		"":           KindBlank,
		";comment":   KindComment,
		"T01":        KindTool,
		"X1Y1":       KindCoordinate,
		"Y1":         KindCoordinate,
		"M48":        KindOther,
		"%":          KindOther,
		"INCH,TZ":    KindOther,
		"TZ":         KindOther,
		"T":          KindTool,
		"METRIC,000": KindOther,
	}
	for in, kind := range cases {
		if Classify(in) != kind {
			t.Error(strconv.Quote(in) + " classified as " + Classify(in).String() + ", expected " + kind.String())
		}
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("  t01c0.01\r\n") != "T01C0.01" {
		t.Error("Normalize error")
	}
}

func TestFormatCode(t *testing.T) {
	var testarray = []string{
		"T", "00", "T00",
		"T", "001", "T01",
		"T", "12", "T12",
		"T", "", "T",
		"T", "0100", "T100",
	}
	for i := 0; i < len(testarray); i = i + 3 {
		if r := FormatCode(testarray[i], testarray[i+1]); r != testarray[i+2] {
			t.Error(testarray[i] + testarray[i+1] + "->" + r + ", expected " + testarray[i+2])
		}
	}
}
