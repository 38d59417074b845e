/*
Generates a stream of EM-7052 commands
*/
package plotter

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
)

const MaxPenNumber = 4

var ErrBadPen = errors.New("bad pen number")

/*
Plotter current status and statistic
*/
type PlotterParams struct {
	selectPenCmds   int
	moveCmds        int
	circleCmds      int
	currentPosX     int
	currentPosY     int
	outStringBuffer []string
}

func NewPlotter() *PlotterParams {
	retVal := new(PlotterParams)
	retVal.Init()
	return retVal
}

type Plotter interface {
	// moves the tool to position
	MoveTo(x, y int) string

	// draws a line
	DrawLine(x0, y0, x1, y1 int) string

	// draws a circle
	Circle(xc, yc, r int) string

	// takes a pen
	TakePen(penNumber int) (string, error)
}

/*
Initializes Plotter object and generates plotter reset command
*/
func (plotter *PlotterParams) Init() string {
	plotter.currentPosX = 0
	plotter.currentPosY = 0
	plotter.selectPenCmds = 0
	plotter.moveCmds = 0
	plotter.circleCmds = 0
	plotter.outStringBuffer = make([]string, 0)
	retVal := "J\n"
	plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	return retVal
}

/*
Deletes unnecessary MA commands
*/
func (plotter *PlotterParams) squeeze() {
	tmpString := make([]string, 0)
	var lastMA string
	for a := range plotter.outStringBuffer {
		if strings.HasPrefix(plotter.outStringBuffer[a], "MA ") {
			lastMA = plotter.outStringBuffer[a]
		} else {
			if len(lastMA) > 0 {
				tmpString = append(tmpString, lastMA)
			}
			tmpString = append(tmpString, plotter.outStringBuffer[a])
			lastMA = ""
		}
	}
	if len(lastMA) > 0 {
		tmpString = append(tmpString, lastMA)
	}
	plotter.outStringBuffer = tmpString
}

/*
Finalizes command stream and returns it
*/
func (plotter *PlotterParams) Stop() []string {
	_, _ = plotter.TakePen(0)
	_ = plotter.MoveTo(0, 0)
	plotter.squeeze()
	retVal := plotter.outStringBuffer
	plotter.outStringBuffer = nil
	return retVal
}

// writes the finalized command stream to disk
func (plotter *PlotterParams) WriteTo(outFileName string) error {
	outputFile, err := os.OpenFile(outFileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer outputFile.Close()
	for _, s := range plotter.Stop() {
		if _, err = outputFile.WriteString(s); err != nil {
			return err
		}
	}
	if err = outputFile.Sync(); err != nil {
		return err
	}
	return outputFile.Close()
}

func (plotter *PlotterParams) MoveTo(x, y int) string {
	retVal := plotter.moveTo(x, y)
	plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	return retVal
}

func (plotter *PlotterParams) moveTo(x, y int) string {
	var retVal string
	plotter.moveCmds++
	plotter.currentPosX = x
	plotter.currentPosY = y
	retVal = "MA " + strconv.Itoa(x) + " , " + strconv.Itoa(y) + "\n"
	return retVal
}

func (plotter *PlotterParams) DrawLine(x0, y0, x1, y1 int) string {
	var retVal string
	if (plotter.currentPosX != x0) || (plotter.currentPosY != y0) {
		retVal = plotter.moveTo(x0, y0)
		plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	}
	retVal = "DA " + strconv.Itoa(x1) + " , " + strconv.Itoa(y1) + "\n"
	plotter.currentPosX = x1
	plotter.currentPosY = y1
	plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	return retVal
}

func (plotter *PlotterParams) Circle(xc, yc, r int) string {
	plotter.circleCmds++
	retVal := plotter.moveTo(xc+r, yc) // move to the rightmost circle point
	plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	retVal = "DC " + strconv.Itoa(r) + " , 0 , 360\n"
	plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	retVal = plotter.moveTo(xc, yc)
	plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	return retVal
}

func (plotter *PlotterParams) TakePen(penNumber int) (string, error) {
	if penNumber < 0 || penNumber > MaxPenNumber {
		return "", fmt.Errorf("%w %d", ErrBadPen, penNumber)
	}
	plotter.selectPenCmds++
	retVal := "P" + strconv.Itoa(penNumber) + "\n"
	plotter.outStringBuffer = append(plotter.outStringBuffer, retVal)
	return retVal, nil
}

func (plotter *PlotterParams) Statistic() string {
	return "pen selections: " + strconv.Itoa(plotter.selectPenCmds) +
		", moves: " + strconv.Itoa(plotter.moveCmds) +
		", circles: " + strconv.Itoa(plotter.circleCmds)
}

/*
 ************************** drill sink ****************************
 */

// DrillSink plots every hole as a circle, the holes without a diameter as crosses
type DrillSink struct {
	plotter     *PlotterParams
	settings    FileSettings
	configured  bool
	xRes        float64
	yRes        float64
	penNumber   int
	penTaken    bool
	markCross   bool
	outFileName string
}

type SinkConfig struct {
	XRes      float64 // mm per plotter step
	YRes      float64
	PenNumber int
	MarkCross bool // a cross in the center of every hole
	OutFile   string
}

func NewDrillSink(cfg SinkConfig) (*DrillSink, error) {
	if cfg.XRes <= 0 || cfg.YRes <= 0 {
		return nil, fmt.Errorf("plotter resolution must be positive, got %v x %v", cfg.XRes, cfg.YRes)
	}
	if cfg.PenNumber < 1 || cfg.PenNumber > MaxPenNumber {
		return nil, fmt.Errorf("%w %d", ErrBadPen, cfg.PenNumber)
	}
	return &DrillSink{
		plotter:     NewPlotter(),
		xRes:        cfg.XRes,
		yRes:        cfg.YRes,
		penNumber:   cfg.PenNumber,
		markCross:   cfg.MarkCross,
		outFileName: cfg.OutFile,
	}, nil
}

func (ds *DrillSink) SetCoordFormat(settings FileSettings) {
	ds.settings = settings
	ds.configured = true
	glog.V(2).Infof("plotter: %s", settings)
}

func (ds *DrillSink) Drill(x, y, diameter float64) error {
	if !ds.configured {
		return errors.New("plotter: drill before the coordinate format is set")
	}
	if !ds.penTaken {
		if _, err := ds.plotter.TakePen(ds.penNumber); err != nil {
			return err
		}
		ds.penTaken = true
	}
	xc := transformCoord(ds.settings.ToMM(x), ds.xRes)
	yc := transformCoord(ds.settings.ToMM(y), ds.yRes)
	if xc < 0 || yc < 0 {
		return fmt.Errorf("plotter: hole at (%v,%v) is outside of the working area", x, y)
	}
	r := transformCoord(ds.settings.ToMM(diameter)/2, ds.xRes)
	ds.plotter.MoveTo(xc, yc)
	if r > 0 {
		ds.plotter.Circle(xc, yc, r)
	}
	if r <= 0 || ds.markCross {
		ds.cross(xc, yc, r)
	}
	return nil
}

// draws a cross with arms of size r, at least 4 steps
func (ds *DrillSink) cross(xc, yc, r int) {
	arm := int(math.Max(float64(r), 4))
	ds.plotter.DrawLine(xc-arm, yc, xc+arm, yc)
	ds.plotter.DrawLine(xc, yc-arm, xc, yc+arm)
	ds.plotter.MoveTo(xc, yc)
}

func (ds *DrillSink) Finalize(destination string) error {
	if destination == "" {
		destination = ds.outFileName
	}
	if destination == "" {
		return errors.New("plotter: no output file")
	}
	glog.V(1).Infof("plotter: %s -> %s", ds.plotter.Statistic(), destination)
	return ds.plotter.WriteTo(destination)
}

func (ds *DrillSink) Statistic() string {
	return ds.plotter.Statistic()
}

func transformCoord(inc float64, res float64) int {
	return int(math.Round(inc / res))
}
