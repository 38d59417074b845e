package tools

import (
	"errors"
	"math"
	"testing"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
	"github.com/VasiliyTurchenko/excellon2em7/excellonlexer"
	"github.com/VasiliyTurchenko/excellon2em7/xy"
)

func TestFromLine(t *testing.T) {
	settings := DefaultSettings()
	tool, err := FromLine("T01C0.0100F200S65B300H1000Z-0.5", settings)
	if err != nil {
		t.Fatal(err)
	}
	if tool.Number != 1 {
		t.Error("tool number error")
	}
	if tool.Diameter == nil || *tool.Diameter != 0.01 {
		t.Error("diameter error")
	}
	// 200 -> 2000000 -> 20.0 with the default 2:5 trailing format
	if tool.FeedRate == nil || math.Abs(*tool.FeedRate-20.0) > 1e-9 {
		t.Error("feed rate error")
	}
	if tool.RPM == nil || math.Abs(*tool.RPM-65.0*RPMMultiplier) > 1e-6 {
		t.Error("rpm error")
	}
	if tool.RetractRate == nil || tool.MaxHitCount == nil {
		t.Error("retract rate and max hit count must be set")
	}
	if tool.DepthOffset == nil || *tool.DepthOffset != -0.5 {
		t.Error("depth offset error")
	}
	if tool.Units != UnitsInch {
		t.Error("units must be copied from settings")
	}
	if tool.HitCount() != 0 {
		t.Error("new tool must have no hits")
	}
}

func TestFromLineAbsentFields(t *testing.T) {
	tool, err := FromLine("T2C0.8", DefaultSettings().WithUnits(UnitsMetric))
	if err != nil {
		t.Fatal(err)
	}
	if tool.FeedRate != nil || tool.RPM != nil || tool.RetractRate != nil ||
		tool.MaxHitCount != nil || tool.DepthOffset != nil {
		t.Error("absent fields must stay undefined")
	}
	if tool.String() != "<Tool T02: 0.800mm dia.>" {
		t.Error("String error: " + tool.String())
	}
	bare, err := FromLine("T3", DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if bare.DiameterOrZero() != 0 || bare.String() != "<Tool T03: no dia.>" {
		t.Error("tool without diameter error")
	}
}

func TestFromLineIdempotence(t *testing.T) {
	s := DefaultSettings()
	a, err := FromLine("T05C0.035F200S65", s)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := FromLine("T05C0.035F200S65", s)
	a.Hit()
	a.Hit()
	if !a.SameDefinition(b) {
		t.Error("same line must give the same definition")
	}
	if a.HitCount() == b.HitCount() {
		t.Error("hit counters are independent")
	}
	c, _ := FromLine("T05C0.036F200S65", s)
	if a.SameDefinition(c) {
		t.Error("different diameter must not compare equal")
	}
}

func TestFromLineErrors(t *testing.T) {
	s := DefaultSettings()
	if _, err := FromLine("T01C0.0.1", s); !errors.Is(err, xy.ErrMalformedNumber) {
		t.Error("malformed diameter must give ErrMalformedNumber")
	}
	if _, err := FromLine("T0C0.01", s); !errors.Is(err, ErrBadToolNumber) {
		t.Error("tool number 0 must be rejected")
	}
	if _, err := FromLine("TC0.01", s); !errors.Is(err, ErrBadToolNumber) {
		t.Error("missing tool number must be rejected")
	}
	if _, err := FromLine("T1Q5", s); !errors.Is(err, excellonlexer.ErrUnexpectedToken) {
		t.Error("unknown field must be rejected")
	}
	_, err := FromLine("T1C0.01F2x", s)
	if !errors.Is(err, excellonlexer.ErrUnexpectedToken) {
		t.Error("lowercase garbage must be rejected")
	}
	var fe *FieldError
	_, err = FromLine("T01C1.2.3", s)
	if !errors.As(err, &fe) || fe.Token != "C1.2.3" {
		t.Error("FieldError must carry the offending token")
	}
}

func TestParseNumber(t *testing.T) {
	if n, err := ParseNumber("007"); err != nil || n != 7 {
		t.Error("ParseNumber(007) error")
	}
	for _, s := range []string{"", "0", "-1", "1.5", "x"} {
		if _, err := ParseNumber(s); err == nil {
			t.Error("ParseNumber accepted " + s)
		}
	}
}
