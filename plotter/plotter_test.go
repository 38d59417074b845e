package plotter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
)

func newSink(t *testing.T, markCross bool) *DrillSink {
	t.Helper()
	ds, err := NewDrillSink(SinkConfig{XRes: 0.025, YRes: 0.025, PenNumber: 1, MarkCross: markCross})
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestPlotter_Squeeze(t *testing.T) {
	plt := NewPlotter()
	plt.MoveTo(1, 1)
	plt.MoveTo(2, 2)
	plt.DrawLine(2, 2, 3, 3)
	out := plt.Stop()
	want := []string{"J\n", "MA 2 , 2\n", "DA 3 , 3\n", "P0\n", "MA 0 , 0\n"}
	if strings.Join(out, "") != strings.Join(want, "") {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestPlotter_TakePen(t *testing.T) {
	plt := NewPlotter()
	if _, err := plt.TakePen(5); !errors.Is(err, ErrBadPen) {
		t.Error("pen 5 must be rejected")
	}
	if s, err := plt.TakePen(2); err != nil || s != "P2\n" {
		t.Error("TakePen(2) error")
	}
}

func TestNewDrillSink_Validation(t *testing.T) {
	if _, err := NewDrillSink(SinkConfig{XRes: 0, YRes: 0.025, PenNumber: 1}); err == nil {
		t.Error("zero resolution must be rejected")
	}
	if _, err := NewDrillSink(SinkConfig{XRes: 0.025, YRes: 0.025, PenNumber: 0}); !errors.Is(err, ErrBadPen) {
		t.Error("pen 0 must be rejected")
	}
}

func TestDrillSink_DrillBeforeFormat(t *testing.T) {
	ds := newSink(t, false)
	if err := ds.Drill(1, 1, 0.1); err == nil {
		t.Error("drill without coordinate format must fail")
	}
}

func TestDrillSink_MetricCircle(t *testing.T) {
	ds := newSink(t, false)
	ds.SetCoordFormat(DefaultSettings().WithUnits(UnitsMetric))
	if err := ds.Drill(1.0, 2.0, 0.5); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "drill.em7")
	if err := ds.Finalize(out); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "J\nP1\nMA 50 , 80\nDC 10 , 0 , 360\nMA 40 , 80\nP0\nMA 0 , 0\n"
	if string(got) != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestDrillSink_InchCross(t *testing.T) {
	ds := newSink(t, false)
	ds.SetCoordFormat(DefaultSettings())
	// no diameter: a cross is plotted
	if err := ds.Drill(0.1, 0.1, 0); err != nil {
		t.Fatal(err)
	}
	cmds := strings.Join(ds.plotter.Stop(), "")
	for _, s := range []string{"MA 98 , 102\n", "DA 106 , 102\n", "MA 102 , 98\n", "DA 102 , 106\n"} {
		if !strings.Contains(cmds, s) {
			t.Errorf("%q is missing in\n%s", s, cmds)
		}
	}
	if strings.Contains(cmds, "DC") {
		t.Error("no circle expected")
	}
}

func TestDrillSink_OutsideWorkingArea(t *testing.T) {
	ds := newSink(t, false)
	ds.SetCoordFormat(DefaultSettings().WithUnits(UnitsMetric))
	if err := ds.Drill(-1, 1, 0.5); err == nil {
		t.Error("negative coordinates must fail")
	}
}

func TestDrillSink_DefaultDestination(t *testing.T) {
	out := filepath.Join(t.TempDir(), "default.em7")
	ds, err := NewDrillSink(SinkConfig{XRes: 0.025, YRes: 0.025, PenNumber: 1, OutFile: out})
	if err != nil {
		t.Fatal(err)
	}
	if err := ds.Finalize(""); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error("the default output file is not written")
	}
}
