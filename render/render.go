package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/akavel/polyclip-go"
	"github.com/golang/glog"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
	"github.com/VasiliyTurchenko/excellon2em7/excellondatamodel"
)

// maximum image side, pixels
const MaxCanvasSide = 16384

var ErrCanvasTooBig = errors.New("drill map is bigger than the canvas limit")

/*
 ************************** Rendering context ****************************
 */

// PNGSink draws a drill map. The holes are collected in mm and drawn to scale
// when the sink is finalized.
type PNGSink struct {
	settings   FileSettings
	configured bool
	holes      []excellondatamodel.Hole

	// pixels per mm
	Scale float64
	// safety margin around the holes, mm
	Margin  float64
	OutFile string

	Img               *image.NRGBA
	BackgroundColor   color.RGBA
	HoleColor         color.RGBA
	EmptyHoleColor    color.RGBA
	CenterColor       color.RGBA
	minX, minY        float64
	height            int
	CircleBresCounter int
}

func NewPNGSink(scale, margin float64, outFile string) (*PNGSink, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("render: scale must be positive, got %v", scale)
	}
	if margin < 0 {
		return nil, fmt.Errorf("render: negative margin %v", margin)
	}
	retVal := new(PNGSink)
	retVal.Scale = scale
	retVal.Margin = margin
	retVal.OutFile = outFile
	retVal.BackgroundColor = color.RGBA{255, 255, 255, 255}
	retVal.HoleColor = color.RGBA{0, 0, 255, 255}
	retVal.EmptyHoleColor = color.RGBA{255, 0, 255, 255}
	retVal.CenterColor = color.RGBA{255, 0, 0, 255}
	return retVal, nil
}

func (rc *PNGSink) SetCoordFormat(settings FileSettings) {
	rc.settings = settings
	rc.configured = true
}

func (rc *PNGSink) Drill(x, y, diameter float64) error {
	if !rc.configured {
		return errors.New("render: drill before the coordinate format is set")
	}
	rc.holes = append(rc.holes, excellondatamodel.Hole{
		Center: polyclip.Point{X: rc.settings.ToMM(x), Y: rc.settings.ToMM(y)},
		Radius: rc.settings.ToMM(diameter) / 2,
	})
	return nil
}

func (rc *PNGSink) NumHoles() int {
	return len(rc.holes)
}

// Paint draws the collected holes into Img
func (rc *PNGSink) Paint() error {
	minX, minY, maxX, maxY := 0.0, 0.0, 0.0, 0.0
	for i, h := range rc.holes {
		bb := h.BoundingBox()
		if i == 0 {
			minX, minY, maxX, maxY = bb.Min.X, bb.Min.Y, bb.Max.X, bb.Max.Y
			continue
		}
		minX = math.Min(minX, bb.Min.X)
		minY = math.Min(minY, bb.Min.Y)
		maxX = math.Max(maxX, bb.Max.X)
		maxY = math.Max(maxY, bb.Max.Y)
	}
	rc.minX = minX - rc.Margin
	rc.minY = minY - rc.Margin
	width := transformCoord(maxX+rc.Margin-rc.minX, 1/rc.Scale) + 1
	height := transformCoord(maxY+rc.Margin-rc.minY, 1/rc.Scale) + 1
	if width > MaxCanvasSide || height > MaxCanvasSide {
		return fmt.Errorf("%w: %d x %d pixels", ErrCanvasTooBig, width, height)
	}
	rc.height = height
	rc.Img = image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rc.Img, rc.Img.Bounds(), &image.Uniform{C: rc.BackgroundColor}, image.Point{}, draw.Src)

	for _, h := range rc.holes {
		x, y := rc.toPixel(h.Center.X, h.Center.Y)
		r := transformCoord(h.Radius, 1/rc.Scale)
		if r > 0 {
			rc.drawCircle(x, y, r, rc.HoleColor)
			rc.Img.Set(x, y, rc.CenterColor)
		} else {
			rc.drawCross(x, y, 2, rc.EmptyHoleColor)
		}
	}
	return nil
}

// image Y axis goes down
func (rc *PNGSink) toPixel(x, y float64) (int, int) {
	px := transformCoord(x-rc.minX, 1/rc.Scale)
	py := rc.height - 1 - transformCoord(y-rc.minY, 1/rc.Scale)
	return px, py
}

func (rc *PNGSink) Finalize(destination string) error {
	if destination == "" {
		destination = rc.OutFile
	}
	if destination == "" {
		return errors.New("render: no output file")
	}
	if err := rc.Paint(); err != nil {
		return err
	}
	outFile, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer outFile.Close()
	if err = png.Encode(outFile, rc.Img); err != nil {
		return err
	}
	glog.V(1).Infof("render: %d holes, %d x %d pixels -> %s",
		len(rc.holes), rc.Img.Bounds().Dx(), rc.Img.Bounds().Dy(), destination)
	return outFile.Close()
}

func (rc *PNGSink) drawCircle(x, y, r int, col color.Color) {
	if r < 0 {
		return
	}
	// statistics
	rc.CircleBresCounter++

	// Draw By bresenham algorithm
	x1, y1, err := -r, 0, 2-2*r
	for {
		rc.Img.Set(x-x1, y+y1, col)
		rc.Img.Set(x-y1, y-x1, col)
		rc.Img.Set(x+x1, y-y1, col)
		rc.Img.Set(x+y1, y+x1, col)
		r = err
		if r > x1 {
			x1++
			err += x1*2 + 1
		}
		if r <= y1 {
			y1++
			err += y1*2 + 1
		}
		if x1 >= 0 {
			break
		}
	}
}

func (rc *PNGSink) drawCross(x, y, arm int, col color.Color) {
	for d := -arm; d <= arm; d++ {
		rc.Img.Set(x+d, y, col)
		rc.Img.Set(x, y+d, col)
	}
}

/* some draw helpers */

func transformCoord(inc float64, res float64) int {
	return int(math.Round(inc / res))
}
