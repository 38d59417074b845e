/*
Excellon drill file parser.

The Parser feeds the lines one by one to the state machine, counts the hits
of the tools, forwards the hits to the sinks and assembles the DrillDocument
at the end of the input. A Parser is not safe for concurrent use, parse
independent files with independent Parsers.
*/
package excellonparser

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
	"github.com/VasiliyTurchenko/excellon2em7/excellondatamodel"
	"github.com/VasiliyTurchenko/excellon2em7/excellonstates"
	stor "github.com/VasiliyTurchenko/excellon2em7/strings_storage"
)

type Options = excellonstates.Options

func DefaultOptions() Options {
	return excellonstates.DefaultOptions()
}

type boundSink struct {
	sink DrillSink
	dest string
}

type Parser struct {
	opts  Options
	sinks []boundSink

	// per parse
	state excellonstates.State
	hits  []excellondatamodel.Hit
	sent  *FileSettings
}

func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// WithSink registers a sink and its destination. Sinks are notified in the registration order.
func (p *Parser) WithSink(sink DrillSink, destination string) *Parser {
	p.sinks = append(p.sinks, boundSink{sink: sink, dest: destination})
	return p
}

// Read parses the file with the default options and no sinks
func Read(filename string) (*excellondatamodel.DrillDocument, error) {
	return NewParser(DefaultOptions()).ParseFile(filename)
}

// ParseFile opens, parses and closes the file
func (p *Parser) ParseFile(filename string) (*excellondatamodel.DrillDocument, error) {
	inFile, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer inFile.Close()
	return p.Parse(filename, inFile)
}

// Parse streams the lines of r
func (p *Parser) Parse(name string, r io.Reader) (*excellondatamodel.DrillDocument, error) {
	return p.ParseSupplier(name, stor.NewLineScanner(r))
}

func (p *Parser) ParseLines(name string, lines []string) (*excellondatamodel.DrillDocument, error) {
	return p.ParseSupplier(name, stor.NewStorageFrom(lines))
}

// ParseSupplier runs the whole parse. The first error stops it, the sinks are not finalized then.
func (p *Parser) ParseSupplier(name string, src stor.Supplier) (*excellondatamodel.DrillDocument, error) {
	p.reset()
	glog.V(1).Infof("parsing %s", name)
	for {
		line, ok := src.Next()
		if !ok {
			break
		}
		if err := p.step(line); err != nil {
			return nil, err
		}
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	for _, bs := range p.sinks {
		if err := bs.sink.Finalize(bs.dest); err != nil {
			return nil, fmt.Errorf("%w: finalize %q: %w", excellonstates.ErrSink, bs.dest, err)
		}
	}
	doc := excellondatamodel.NewDrillDocument(name, p.state.Tools, p.hits, p.state.Settings)
	glog.V(1).Infof("%s: %d tools, %d hits", name, len(p.state.Tools), len(p.hits))
	return doc, nil
}

func (p *Parser) reset() {
	p.state = excellonstates.NewState(p.opts)
	p.hits = make([]excellondatamodel.Hit, 0)
	p.sent = nil
}

func (p *Parser) step(raw string) error {
	next, hit, err := excellonstates.Step(p.state, raw)
	if err != nil {
		return err
	}
	p.state = next
	if hit == nil {
		return nil
	}
	hit.Tool.Hit()
	p.hits = append(p.hits, *hit)
	if len(p.sinks) == 0 {
		return nil
	}
	p.syncSinks()
	for _, bs := range p.sinks {
		err := bs.sink.Drill(hit.Position.GetX(), hit.Position.GetY(), hit.Tool.DiameterOrZero())
		if err != nil {
			return &excellonstates.ParseError{
				Line:  p.state.LineNum,
				Text:  raw,
				Token: raw,
				Err:   fmt.Errorf("%w: %w", excellonstates.ErrSink, err),
			}
		}
	}
	return nil
}

// the sinks are configured lazily, right before a drill with new settings
func (p *Parser) syncSinks() {
	if p.sent != nil && *p.sent == p.state.Settings {
		return
	}
	s := p.state.Settings
	for _, bs := range p.sinks {
		bs.sink.SetCoordFormat(s)
	}
	p.sent = &s
}
