package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/energylog/internal/widget"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle       = lipgloss.NewStyle().Width(8).Foreground(lipgloss.Color("245"))
	focusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	literalStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	caretStyle       = lipgloss.NewStyle().Reverse(true)
	highlightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Energy readings"))
	b.WriteString("\n")
	b.WriteString(a.grid.View())
	b.WriteString("\n\n")

	title := "New reading"
	if a.draft.ID != "" {
		title = "Edit reading"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(row("Date", renderSegmented(a.form.date.Segmented)))
	b.WriteString(row("Meter", renderSelector(a.form.kind)))
	b.WriteString(row("Amount", renderSegmented(a.form.amount.Segmented)))
	b.WriteString(row("Info", renderText(a.form.info)))
	b.WriteString(row("", renderButton(a.form.save)))

	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(a.status))
	}
	b.WriteString("\n")
	help := a.keys.gridHelp()
	if a.form.active() {
		help = a.keys.formHelp()
	}
	b.WriteString(renderHelp(help))
	return b.String()
}

func row(label, body string) string {
	return labelStyle.Render(label) + " " + body + "\n"
}

func renderSegmented(s *widget.Segmented) string {
	if s.PlaceholderVisible() && !s.Focused() {
		return placeholderStyle.Render(s.Placeholder())
	}
	var b strings.Builder
	for _, v := range s.Segments() {
		if v.Literal != "" {
			b.WriteString(literalStyle.Render(v.Literal))
			continue
		}
		text := v.Text
		if text == "" && !v.Focused {
			width := v.MaxLength
			if width == 0 {
				width = 1
			}
			b.WriteString(literalStyle.Render(strings.Repeat("_", width)))
			continue
		}
		if v.Focused {
			b.WriteString(withCaret(text, v.Caret))
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

func renderSelector(s *widget.Selector) string {
	var b strings.Builder
	text := s.FilterText()
	switch {
	case s.Focused():
		b.WriteString(withCaret(text, len([]rune(text))))
	case text == "" && s.Placeholder() != "":
		b.WriteString(placeholderStyle.Render(s.Placeholder()))
	default:
		b.WriteString(text)
	}
	b.WriteString(literalStyle.Render(" v"))
	if !s.Open() {
		return b.String()
	}
	filtered := s.Filtered()
	if len(filtered) == 0 {
		b.WriteString("\n" + labelStyle.Render("") + " ")
		msg := "no options found"
		if hint := s.Suggestion(); hint != "" {
			msg += fmt.Sprintf(", did you mean %q?", hint)
		}
		b.WriteString(placeholderStyle.Render(msg))
		return b.String()
	}
	selected := s.SelectedIndex()
	for i, o := range filtered {
		b.WriteString("\n" + labelStyle.Render("") + " ")
		mark := "  "
		if i == selected {
			mark = "* "
		}
		if i == s.Highlight() {
			b.WriteString(highlightStyle.Render("> " + strings.TrimSpace(mark) + o.Label))
			continue
		}
		b.WriteString(mark + o.Label)
	}
	return b.String()
}

func renderText(t *widget.Text) string {
	if t.Focused() {
		return withCaret(t.Value(), t.Caret())
	}
	if t.PlaceholderVisible() {
		return placeholderStyle.Render(t.Placeholder())
	}
	return t.Value()
}

func renderButton(btn *widget.Button) string {
	label := "[ " + btn.Label() + " ]"
	if btn.Focused() {
		return focusStyle.Bold(true).Render(label)
	}
	return label
}

// withCaret draws the caret as a reversed cell at rune offset caret.
func withCaret(text string, caret int) string {
	r := []rune(text)
	caret = max(0, min(caret, len(r)))
	under := " "
	rest := ""
	if caret < len(r) {
		under = string(r[caret])
		rest = string(r[caret+1:])
	}
	return focusStyle.Render(string(r[:caret])) + caretStyle.Render(under) + focusStyle.Render(rest)
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

// formatDate renders t in the layout of spec, e.g. dd.mm.yyyy.
func formatDate(t time.Time, spec widget.FormatSpec) string {
	var b strings.Builder
	for _, tok := range spec {
		switch tok.Kind {
		case widget.SegmentDay:
			fmt.Fprintf(&b, "%02d", t.Day())
		case widget.SegmentMonth:
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case widget.SegmentYear:
			fmt.Fprintf(&b, "%04d", t.Year())
		default:
			b.WriteString(tok.Literal)
		}
	}
	return b.String()
}
