package excellondatamodel

import (
	"math"
	"sort"
	"strconv"

	"github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/glog"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
	"github.com/VasiliyTurchenko/excellon2em7/tools"
	"github.com/VasiliyTurchenko/excellon2em7/xy"
)

// Hit is a drilling operation: the tool and a snapshot of the position
type Hit struct {
	Tool     *tools.Tool
	Position xy.XY
}

func (h Hit) String() string {
	return h.Tool.String() + " at " + h.Position.String()
}

// Hole is the drilled circle of a hit
func (h Hit) Hole() Hole {
	return Hole{
		Center: polyclip.Point{X: h.Position.GetX(), Y: h.Position.GetY()},
		Radius: h.Tool.DiameterOrZero() / 2,
	}
}

/*
 ************************** Drill document ****************************
 */

// DrillDocument is the result of an excellon file parsing. It is read-only.
type DrillDocument struct {
	filename string
	tools    map[int]*tools.Tool
	hits     []Hit
	settings FileSettings
}

// NewDrillDocument takes the ownership of the tool table and the hits
func NewDrillDocument(filename string, toolTable map[int]*tools.Tool, hits []Hit, settings FileSettings) *DrillDocument {
	if toolTable == nil {
		toolTable = make(map[int]*tools.Tool)
	}
	return &DrillDocument{
		filename: filename,
		tools:    toolTable,
		hits:     hits,
		settings: settings,
	}
}

func (doc *DrillDocument) Filename() string {
	return doc.filename
}

func (doc *DrillDocument) Settings() FileSettings {
	return doc.settings
}

func (doc *DrillDocument) Units() Units {
	return doc.settings.Units
}

func (doc *DrillDocument) Tool(number int) (*tools.Tool, bool) {
	t, ok := doc.tools[number]
	return t, ok
}

// Tools returns the tool table ordered by tool number
func (doc *DrillDocument) Tools() []*tools.Tool {
	retVal := make([]*tools.Tool, 0, len(doc.tools))
	for _, t := range doc.tools {
		retVal = append(retVal, t)
	}
	sort.Slice(retVal, func(i, j int) bool { return retVal[i].Number < retVal[j].Number })
	return retVal
}

// Hits returns a copy of the hits in manufacturing order
func (doc *DrillDocument) Hits() []Hit {
	retVal := make([]Hit, len(doc.hits))
	copy(retVal, doc.hits)
	return retVal
}

func (doc *DrillDocument) HitsFor(toolNumber int) []Hit {
	retVal := make([]Hit, 0)
	for _, h := range doc.hits {
		if h.Tool.Number == toolNumber {
			retVal = append(retVal, h)
		}
	}
	return retVal
}

func (doc *DrillDocument) NumHits() int {
	return len(doc.hits)
}

func (doc *DrillDocument) String() string {
	return "DrillDocument " + strconv.Quote(doc.filename) + ": " +
		strconv.Itoa(len(doc.tools)) + " tools, " +
		strconv.Itoa(len(doc.hits)) + " hits, " + doc.settings.String()
}

// Bounds is the bounding box of all the drilled holes in file units.
// ok is false for a document without hits.
func (doc *DrillDocument) Bounds() (polyclip.Rectangle, bool) {
	if len(doc.hits) == 0 {
		return polyclip.Rectangle{}, false
	}
	retVal := doc.hits[0].Hole().BoundingBox()
	for _, h := range doc.hits[1:] {
		bb := h.Hole().BoundingBox()
		retVal.Min.X = math.Min(retVal.Min.X, bb.Min.X)
		retVal.Min.Y = math.Min(retVal.Min.Y, bb.Min.Y)
		retVal.Max.X = math.Max(retVal.Max.X, bb.Max.X)
		retVal.Max.Y = math.Max(retVal.Max.Y, bb.Max.Y)
	}
	return retVal, true
}

// HitPair is a pair of hit indices
type HitPair struct {
	A int
	B int
}

// Overlaps finds the pairs of holes whose outlines intersect.
// segments is the number of polygon corners used to approximate a hole.
func (doc *DrillDocument) Overlaps(segments int) []HitPair {
	type entry struct {
		index int
		hole  Hole
		bb    polyclip.Rectangle
	}
	entries := make([]entry, 0, len(doc.hits))
	for i, h := range doc.hits {
		hole := h.Hole()
		if hole.Radius <= 0 {
			continue
		}
		entries = append(entries, entry{i, hole, hole.BoundingBox()})
	}
	// sweep along X
	sort.Slice(entries, func(i, j int) bool { return entries[i].bb.Min.X < entries[j].bb.Min.X })
	retVal := make([]HitPair, 0)
	for i := range entries {
		for j := i + 1; j < len(entries) && entries[j].bb.Min.X < entries[i].bb.Max.X; j++ {
			if entries[j].bb.Min.Y >= entries[i].bb.Max.Y || entries[j].bb.Max.Y <= entries[i].bb.Min.Y {
				continue
			}
			if entries[i].hole.Intersects(entries[j].hole, segments) {
				a, b := entries[i].index, entries[j].index
				if a > b {
					a, b = b, a
				}
				retVal = append(retVal, HitPair{a, b})
			}
		}
	}
	sort.Slice(retVal, func(i, j int) bool {
		if retVal[i].A != retVal[j].A {
			return retVal[i].A < retVal[j].A
		}
		return retVal[i].B < retVal[j].B
	})
	if len(retVal) > 0 {
		glog.V(1).Infof("%s: %d overlapping holes", doc.filename, len(retVal))
	}
	return retVal
}

/*
 ************************** Hole geometry ****************************
 */

type Hole struct {
	Center polyclip.Point
	Radius float64
}

func (hole Hole) BoundingBox() polyclip.Rectangle {
	return polyclip.Rectangle{
		Min: polyclip.Point{X: hole.Center.X - hole.Radius, Y: hole.Center.Y - hole.Radius},
		Max: polyclip.Point{X: hole.Center.X + hole.Radius, Y: hole.Center.Y + hole.Radius},
	}
}

// ToPoly approximates the hole by a regular polygon, clock-wise order of vertices
func (hole Hole) ToPoly(segments int) polyclip.Contour {
	if hole.Radius <= 0 {
		return nil
	}
	if segments < 3 {
		segments = 3
	}
	step := mgl64.DegToRad(360.0 / float64(segments))
	retVal := make(polyclip.Contour, 0, segments)
	for i := 0; i < segments; i++ {
		angle := -float64(i) * step
		retVal = append(retVal, polyclip.Point{
			X: hole.Center.X + hole.Radius*math.Cos(angle),
			Y: hole.Center.Y + hole.Radius*math.Sin(angle),
		})
	}
	return retVal
}

// Intersects checks if two holes share some area
func (hole Hole) Intersects(another Hole, segments int) bool {
	subj := polyclip.Polygon{hole.ToPoly(segments)}
	clip := polyclip.Polygon{another.ToPoly(segments)}
	if subj[0] == nil || clip[0] == nil {
		return false
	}
	res := subj.Construct(polyclip.INTERSECTION, clip)
	for _, c := range res {
		if len(c) >= 3 {
			return true
		}
	}
	return false
}
