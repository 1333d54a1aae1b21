// Package view turns a recommendation result into a render tree.
//
// Build is pure: it maps an advisor.Result and a catalog to a Page with
// four panels. Templates (internal/handler) and the terminal renderer
// (internal/termview) only walk the tree. Each panel is built in isolation;
// a panel that fails is logged and left nil so the others still show.
package view

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/i18n"
	"github.com/joestump/tool-advisor/internal/metrics"
)

// Panel names, as used in logs and metrics.
const (
	PanelExplanation = "explanation"
	PanelRaw         = "raw"
	PanelTable       = "table"
	PanelNarrative   = "narrative"
)

// Page is the render tree for one response.
type Page struct {
	Error       bool         `json:"error"`
	Explanation *Explanation `json:"explanation,omitempty"`
	RawJSON     string       `json:"raw_json"`
	Table       *Table       `json:"table,omitempty"`
	Narrative   *Narrative   `json:"narrative,omitempty"`
}

// Span is a run of text, optionally emphasized.
type Span struct {
	Text   string `json:"text"`
	Strong bool   `json:"strong,omitempty"`
}

// Line is a labeled line of text.
type Line struct {
	Label    string `json:"label,omitempty"`
	Text     string `json:"text,omitempty"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Explanation is the short header above the result.
type Explanation struct {
	Lines []Line `json:"lines"`
}

// Cell is a formatted table value. Pre cells hold multi-line JSON.
type Cell struct {
	Text string `json:"text"`
	Pre  bool   `json:"pre,omitempty"`
}

// Row is one key/value pair of the table panel.
type Row struct {
	Key  string `json:"key"`
	Cell Cell   `json:"cell"`
}

// Table is the key/value summary panel.
type Table struct {
	Summary []Span `json:"summary,omitempty"`
	Rows    []Row  `json:"rows"`
}

// Item is one entry of a narrative section.
type Item struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Pre   bool   `json:"pre,omitempty"`
}

// Section is a headed list in the narrative panel.
type Section struct {
	Heading string `json:"heading"`
	Items   []Item `json:"items"`
}

// Narrative is the human-readable composition of the result.
type Narrative struct {
	Intro    []Span    `json:"intro"`
	Sections []Section `json:"sections,omitempty"`
	Notes    *Line     `json:"notes,omitempty"`
}

// IntroText returns the intro sentence without emphasis.
func (n *Narrative) IntroText() string {
	return joinSpans(n.Intro)
}

// Builder builds pages for one catalog.
type Builder struct {
	cat    *i18n.Catalog
	logger *zap.Logger
}

// NewBuilder creates a Builder. A nil catalog means Indonesian.
func NewBuilder(cat *i18n.Catalog, logger *zap.Logger) *Builder {
	if cat == nil {
		cat = i18n.Indonesian
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{cat: cat, logger: logger}
}

// Catalog returns the catalog pages are built with.
func (b *Builder) Catalog() *i18n.Catalog { return b.cat }

var errNoResult = errors.New("no result")

// Build renders a successful result.
func (b *Builder) Build(res *advisor.Result) *Page {
	page := &Page{}
	page.Explanation = guard(b, PanelExplanation, func() (*Explanation, error) {
		return b.explanation(res)
	})
	if raw := guard(b, PanelRaw, func() (*string, error) {
		if res == nil {
			return nil, errNoResult
		}
		s := res.Value().Indent()
		return &s, nil
	}); raw != nil {
		page.RawJSON = *raw
	}
	page.Table = guard(b, PanelTable, func() (*Table, error) {
		return b.table(res)
	})
	page.Narrative = guard(b, PanelNarrative, func() (*Narrative, error) {
		return b.narrative(res)
	})
	return page
}

// BuildError renders a non-2xx response: a generic error marker and the
// server's payload. Table and narrative stay hidden.
func (b *Builder) BuildError(payload advisor.Value) *Page {
	return &Page{
		Error:       true,
		Explanation: &Explanation{Lines: []Line{{Label: b.cat.ErrorMarker}}},
		RawJSON:     payload.Indent(),
	}
}

// guard runs one panel builder, converting errors and panics into a logged
// failure and a nil panel.
func guard[T any](b *Builder, panel string, build func() (*T, error)) (out *T) {
	defer func() {
		if r := recover(); r != nil {
			b.failed(panel, fmt.Errorf("panic: %v", r))
			out = nil
		}
	}()
	v, err := build()
	if err != nil {
		b.failed(panel, err)
		return nil
	}
	return v
}

func (b *Builder) failed(panel string, err error) {
	metrics.RenderFailuresTotal.WithLabelValues(panel).Inc()
	b.logger.Warn("panel render failed", zap.String("panel", panel), zap.Error(err))
}

func (b *Builder) explanation(res *advisor.Result) (*Explanation, error) {
	if res == nil {
		return nil, errNoResult
	}
	lines := []Line{
		{Label: b.cat.LabelWorkpiece, Text: res.Workpiece()},
		{Label: b.cat.LabelOperation, Text: res.Operation()},
	}
	if tool, ok := res.ChosenTool().Get(); ok {
		lines = append(lines, Line{Label: b.cat.LabelChosenTool, Text: tool})
	}
	if notes, ok := res.GeneralNotes().Get(); ok {
		lines = append(lines, Line{Text: notes, Emphasis: true})
	}
	return &Explanation{Lines: lines}, nil
}
