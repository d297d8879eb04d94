package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/park285/Cheese-TicTacToe/internal/session"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

// Formatter renders a View as a terminal screen.
type Formatter struct {
	title   lipgloss.Style
	label   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	dim     lipgloss.Style
	markX   lipgloss.Style
	markO   lipgloss.Style
	panel   lipgloss.Style
	cell    lipgloss.Style
	selCell lipgloss.Style
}

func NewFormatter() *Formatter {
	return &Formatter{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ECEFFF")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9AA0B8")),
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color("#08D678")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		dim:     lipgloss.NewStyle().Faint(true),
		markX:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4FC3F7")),
		markO:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF8A65")),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3A3F5C")).Padding(0, 1),
		cell:    lipgloss.NewStyle().Width(3).Align(lipgloss.Center),
		selCell: lipgloss.NewStyle().Width(3).Align(lipgloss.Center).Foreground(lipgloss.Color("#ECEFFF")),
	}
}

// Text lays out the whole screen. help is appended verbatim when non-empty.
func (f *Formatter) Text(v View, help string) string {
	board := f.panel.Render(f.board(v))
	side := lipgloss.JoinVertical(lipgloss.Left, f.header(v), "", f.tally(v))
	top := lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", f.panel.Render(side))

	parts := []string{top, f.outcome(v)}
	if v.Training != nil {
		parts = append(parts, f.panel.Render(f.training(v.Training)))
	}
	if v.Arena != nil {
		parts = append(parts, f.panel.Render(f.arena(v.Arena)))
	}
	if v.Notice.Text != "" {
		parts = append(parts, f.tone(v.Notice.Tone).Render(v.Notice.Text))
	}
	if v.Busy != "" {
		parts = append(parts, f.dim.Render("waiting for "+v.Busy+"..."))
	}
	if help != "" {
		parts = append(parts, "", f.dim.Render(help))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (f *Formatter) board(v View) string {
	rows := make([]string, 0, 5)
	for r := 0; r < 3; r++ {
		cells := make([]string, 0, 5)
		for c := 0; c < 3; c++ {
			if c > 0 {
				cells = append(cells, f.dim.Render("│"))
			}
			cells = append(cells, f.cellText(v.Cells[r*3+c]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, cells...))
		if r < 2 {
			rows = append(rows, f.dim.Render("───┼───┼───"))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (f *Formatter) cellText(c Cell) string {
	switch c.Mark {
	case tttdto.MarkX:
		return f.cell.Render(f.markX.Render("X"))
	case tttdto.MarkO:
		return f.cell.Render(f.markO.Render("O"))
	}
	if c.Interactive {
		return f.selCell.Render(strconv.Itoa(c.Index + 1))
	}
	return f.cell.Render(f.dim.Render("·"))
}

func (f *Formatter) header(v View) string {
	h := v.Header
	lines := []string{
		f.title.Render("vs " + h.BotName),
		f.kv("you", h.Human) + "  " + f.kv("bot", h.Bot) + "  " + f.kv("turn", h.Turn),
		f.kv("ε", h.Epsilon) + "  " + f.kv("ε min", h.EpsilonMin),
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) tally(v View) string {
	t := v.Tally
	if t == nil {
		return f.dim.Render("no global stats yet")
	}
	var sb strings.Builder
	sb.WriteString(f.kv("games", t.Games))
	sb.WriteString("  ")
	sb.WriteString(f.kv("bot", t.BotWins))
	sb.WriteString("  ")
	sb.WriteString(f.kv("human", t.HumanWins))
	sb.WriteString("  ")
	sb.WriteString(f.kv("draws", t.Draws))
	for i, s := range t.Training {
		if i%2 == 0 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("  ")
		}
		sb.WriteString(f.kv(s.Label, s.Value))
	}
	return sb.String()
}

func (f *Formatter) outcome(v View) string {
	if !v.HasGame || v.Outcome.Case == OutcomeNone {
		return ""
	}
	return f.tone(v.Outcome.Tone).Render(v.Outcome.Text)
}

func (f *Formatter) training(p *TrainingPanel) string {
	lines := []string{
		f.title.Render("Last training") + " " + f.label.Render("("+p.Mode+")"),
		fmt.Sprintf("%s  %s  %s", f.kv("episodes", p.Episodes), f.kv("ε", p.Epsilon), f.kv("draws", p.DrawRate)),
		fmt.Sprintf("%s  %s  %s  %s", f.kv(p.ScoreA.Label, p.ScoreA.Value), f.kv(p.ScoreB.Label, p.ScoreB.Value), f.kv("avg moves", p.AvgMoves), f.kv("q states", p.QTableStates)),
	}
	if p.Hint != "" {
		lines = append(lines, f.dim.Render(p.Hint))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) arena(p *ArenaPanel) string {
	lines := []string{
		f.title.Render("Arena"),
		fmt.Sprintf("%s  %s  %s  %s  %s", f.kv("X wins", p.XWins), f.kv("O wins", p.OWins), f.kv("draws", p.Draws), f.kv("avg moves", p.AvgMoves), f.kv("errors", p.Errors)),
	}
	if p.Hint != "" {
		st := f.dim
		if p.HintTone == session.ToneBad {
			st = f.bad
		}
		lines = append(lines, st.Render(p.Hint))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) kv(k, v string) string {
	return f.label.Render(k+":") + " " + v
}

func (f *Formatter) tone(t session.Tone) lipgloss.Style {
	switch t {
	case session.ToneGood:
		return f.good
	case session.ToneBad:
		return f.bad
	default:
		return lipgloss.NewStyle()
	}
}
