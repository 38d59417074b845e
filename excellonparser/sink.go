package excellonparser

import (
	"errors"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
)

/*
DrillSink receives the drill hits while the file is parsed.
SetCoordFormat is called before the first Drill and again whenever the
effective settings change. Coordinates and diameters are in the file units.
Finalize is called once after the last line. An empty destination selects
the sink's own default.
*/
type DrillSink interface {
	SetCoordFormat(settings FileSettings)
	Drill(x, y, diameter float64) error
	Finalize(destination string) error
}

// MultiSink fans the events out to every sink in order
type MultiSink []DrillSink

func NewMultiSink(sinks ...DrillSink) MultiSink {
	return MultiSink(sinks)
}

func (ms MultiSink) SetCoordFormat(settings FileSettings) {
	for _, s := range ms {
		s.SetCoordFormat(settings)
	}
}

// Drill stops at the first failing sink
func (ms MultiSink) Drill(x, y, diameter float64) error {
	for _, s := range ms {
		if err := s.Drill(x, y, diameter); err != nil {
			return err
		}
	}
	return nil
}

// Finalize finalizes all the sinks, even after a failure
func (ms MultiSink) Finalize(destination string) error {
	var errs []error
	for _, s := range ms {
		errs = append(errs, s.Finalize(destination))
	}
	return errors.Join(errs...)
}
