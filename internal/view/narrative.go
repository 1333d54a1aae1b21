package view

import (
	"fmt"
	"strings"

	"github.com/joestump/tool-advisor/internal/advisor"
)

func (b *Builder) narrative(res *advisor.Result) (*Narrative, error) {
	if res == nil {
		return nil, errNoResult
	}
	op := b.cat.General
	if res.HasOperation() {
		op = res.Operation()
	}

	n := &Narrative{}
	if tool, ok := res.ChosenTool().Get(); ok {
		n.Intro = expand(b.cat.IntroChosen, map[string]string{
			"workpiece": res.Workpiece(),
			"operation": op,
			"tool":      tool,
		})
	} else {
		recs := res.Recommendations()
		names := make([]string, len(recs))
		for i, rec := range recs {
			names[i] = rec.Tool
		}
		options := strings.Join(names, ", ")
		if options == "" {
			options = b.cat.None
		}
		n.Intro = expand(b.cat.IntroOptions, map[string]string{
			"workpiece": res.Workpiece(),
			"operation": op,
			"options":   options,
		})
	}

	if details, ok := res.OperationDetails().Get(); ok {
		sec := Section{
			Heading: fmt.Sprintf(b.cat.OperationHeading, res.Operation()),
			Items:   make([]Item, 0, len(details)),
		}
		for _, f := range details {
			item := Item{Label: b.cat.OperationLabel(f.Key)}
			if f.Value.Kind == advisor.KindObject {
				item.Text, item.Pre = f.Value.Indent(), true
			} else {
				item.Text = b.plain(f.Value)
			}
			sec.Items = append(sec.Items, item)
		}
		n.Sections = append(n.Sections, sec)
	}

	for _, rec := range res.Recommendations() {
		sec := Section{
			Heading: fmt.Sprintf(b.cat.ToolHeading, rec.Tool),
			Items:   make([]Item, 0, len(rec.Fields)),
		}
		for _, f := range rec.Fields {
			val := b.plain(f.Value)
			if f.Value.Kind == advisor.KindObject {
				val = f.Value.Compact()
			}
			if phrase, ok := b.cat.Advisories[f.Key]; ok {
				val = fmt.Sprintf(phrase, val)
			}
			sec.Items = append(sec.Items, Item{Label: b.cat.ToolLabel(f.Key), Text: val})
		}
		n.Sections = append(n.Sections, sec)
	}

	if notes, ok := res.GeneralNotes().Get(); ok {
		n.Notes = &Line{Label: b.cat.NotesLabel, Text: notes}
	}
	return n, nil
}

func (b *Builder) plain(v advisor.Value) string {
	if v.Kind == advisor.KindNull {
		return b.cat.EmptyCell
	}
	return v.Text()
}

// expand fills a catalog pattern. {name} is substituted into the running
// text, {{name}} becomes its own emphasized span.
func expand(pattern string, args map[string]string) []Span {
	var spans []Span
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			spans = append(spans, Span{Text: text.String()})
			text.Reset()
		}
	}

	for pattern != "" {
		i := strings.IndexByte(pattern, '{')
		if i < 0 {
			text.WriteString(pattern)
			break
		}
		text.WriteString(pattern[:i])
		pattern = pattern[i:]

		open, closing := "{", "}"
		strong := strings.HasPrefix(pattern, "{{")
		if strong {
			open, closing = "{{", "}}"
		}
		end := strings.Index(pattern, closing)
		if end < 0 {
			text.WriteString(pattern)
			break
		}
		val := args[pattern[len(open):end]]
		pattern = pattern[end+len(closing):]

		if strong {
			flush()
			spans = append(spans, Span{Text: val, Strong: true})
			continue
		}
		text.WriteString(val)
	}
	flush()
	return spans
}

func joinSpans(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
