// Package termview prints a view.Page to a terminal with lipgloss.
package termview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joestump/tool-advisor/internal/i18n"
	"github.com/joestump/tool-advisor/internal/theme"
	"github.com/joestump/tool-advisor/internal/view"
)

// Styles are the lipgloss styles for one theme.
type Styles struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Strong  lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Pre     lipgloss.Style
	Box     lipgloss.Style
}

// NewStyles returns the styles for t.
func NewStyles(t theme.Theme) Styles {
	fg, accent, muted, border := lipgloss.Color("#1d2330"), lipgloss.Color("#2f6fde"), lipgloss.Color("#6b7280"), lipgloss.Color("#d8dce3")
	if t == theme.Dark {
		fg, accent, muted, border = lipgloss.Color("#e6e8ec"), lipgloss.Color("#7aa7ff"), lipgloss.Color("#9aa3b2"), lipgloss.Color("#343a46")
	}
	return Styles{
		Heading: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(fg),
		Strong:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Body:    lipgloss.NewStyle().Foreground(fg),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935")),
		Pre:     lipgloss.NewStyle().Foreground(muted).PaddingLeft(2),
		Box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
	}
}

// Renderer prints pages with one catalog and style set.
type Renderer struct {
	cat    *i18n.Catalog
	styles Styles
}

// New creates a Renderer.
func New(cat *i18n.Catalog, t theme.Theme) *Renderer {
	if cat == nil {
		cat = i18n.Indonesian
	}
	return &Renderer{cat: cat, styles: NewStyles(t)}
}

// Render returns the page as terminal text. Nil panels are skipped.
func (r *Renderer) Render(page *view.Page) string {
	if page == nil {
		return ""
	}
	var blocks []string
	if page.Explanation != nil {
		blocks = append(blocks, r.explanation(page))
	}
	if page.Table != nil {
		blocks = append(blocks, r.table(page.Table))
	}
	if page.Narrative != nil {
		blocks = append(blocks, r.narrative(page.Narrative))
	}
	if page.RawJSON != "" {
		blocks = append(blocks, r.styles.Heading.Render(r.cat.RawHeading)+"\n"+r.styles.Muted.Render(page.RawJSON))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func (r *Renderer) explanation(page *view.Page) string {
	lines := make([]string, 0, len(page.Explanation.Lines))
	for _, l := range page.Explanation.Lines {
		var sb strings.Builder
		if l.Label != "" {
			label := r.styles.Label
			if page.Error {
				label = r.styles.Error
			}
			sb.WriteString(label.Render(l.Label))
			if l.Text != "" {
				sb.WriteString(" ")
			}
		}
		if l.Emphasis {
			sb.WriteString(r.styles.Body.Italic(true).Render(l.Text))
		} else if l.Text != "" {
			sb.WriteString(r.styles.Body.Render(l.Text))
		}
		lines = append(lines, sb.String())
	}
	return r.styles.Box.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) table(t *view.Table) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Heading.Render(r.cat.TableHeading))
	sb.WriteString("\n")
	if len(t.Summary) > 0 {
		sb.WriteString(r.spans(t.Summary))
		sb.WriteString("\n")
	}

	width := lipgloss.Width(r.cat.KeyColumn)
	for _, row := range t.Rows {
		if w := lipgloss.Width(row.Key); w > width {
			width = w
		}
	}
	key := r.styles.Label.Width(width + 2)
	sb.WriteString(key.Render(r.cat.KeyColumn))
	sb.WriteString(r.styles.Label.Render(r.cat.ValueColumn))
	sb.WriteString("\n")
	for _, row := range t.Rows {
		cell := r.styles.Body.Render(row.Cell.Text)
		if row.Cell.Pre {
			cell = r.styles.Muted.Render(row.Cell.Text)
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, key.Render(row.Key), cell))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r *Renderer) narrative(n *view.Narrative) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Heading.Render(r.cat.NarrativeHeading))
	sb.WriteString("\n")
	sb.WriteString(r.spans(n.Intro))
	for _, sec := range n.Sections {
		sb.WriteString("\n\n")
		sb.WriteString(r.styles.Label.Render(sec.Heading))
		for _, it := range sec.Items {
			sb.WriteString("\n  • ")
			sb.WriteString(r.styles.Label.Render(it.Label + ":"))
			if it.Pre {
				sb.WriteString("\n")
				sb.WriteString(r.styles.Pre.Render(it.Text))
			} else {
				sb.WriteString(" ")
				sb.WriteString(r.styles.Body.Render(it.Text))
			}
		}
	}
	if n.Notes != nil {
		sb.WriteString("\n\n")
		sb.WriteString(r.styles.Label.Render(n.Notes.Label))
		sb.WriteString(" ")
		sb.WriteString(r.styles.Body.Render(n.Notes.Text))
	}
	return sb.String()
}

func (r *Renderer) spans(spans []view.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Strong {
			sb.WriteString(r.styles.Strong.Render(s.Text))
		} else {
			sb.WriteString(r.styles.Body.Render(s.Text))
		}
	}
	return sb.String()
}
