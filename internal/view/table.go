package view

import (
	"github.com/joestump/tool-advisor/internal/advisor"
)

// preferredKeys lead the table in this order when present.
var preferredKeys = []string{
	advisor.KeyWorkpiece,
	advisor.KeyOperation,
	advisor.KeyChosenTool,
	advisor.KeyGeneralNotes,
}

func (b *Builder) table(res *advisor.Result) (*Table, error) {
	if res == nil {
		return nil, errNoResult
	}
	t := &Table{Rows: []Row{}}
	if tool, ok := res.ChosenTool().Get(); ok {
		t.Summary = []Span{{Text: b.cat.SummaryChosen, Strong: true}, {Text: " " + tool}}
	}

	preferred := make(map[string]bool, len(preferredKeys))
	for _, k := range preferredKeys {
		preferred[k] = true
		if v, ok := res.Lookup(k); ok {
			t.Rows = append(t.Rows, Row{Key: k, Cell: b.cell(v)})
		}
	}
	for _, f := range res.Fields() {
		if preferred[f.Key] {
			continue
		}
		t.Rows = append(t.Rows, Row{Key: f.Key, Cell: b.cell(f.Value)})
	}
	return t, nil
}

// cell formats a value for the table: a dash for null, a comma list for
// lists, indented JSON for objects, plain text otherwise.
func (b *Builder) cell(v advisor.Value) Cell {
	switch v.Kind {
	case advisor.KindNull:
		return Cell{Text: b.cat.EmptyCell}
	case advisor.KindList:
		return Cell{Text: v.Text()}
	case advisor.KindObject:
		return Cell{Text: v.Indent(), Pre: true}
	case advisor.KindString, advisor.KindNumber, advisor.KindBool:
		return Cell{Text: v.Text()}
	default:
		return Cell{Text: b.cat.EmptyCell}
	}
}
