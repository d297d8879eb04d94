package render

import (
	"strconv"
	"strings"

	"github.com/park285/Cheese-TicTacToe/internal/msgcat"
	"github.com/park285/Cheese-TicTacToe/internal/session"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

// Unknown is shown for header marks before the first game.
const Unknown = "?"

type OutcomeCase string

const (
	OutcomeNone   OutcomeCase = ""
	OutcomeError  OutcomeCase = "error"
	OutcomeDraw   OutcomeCase = "draw"
	OutcomeWin    OutcomeCase = "win"
	OutcomePrompt OutcomeCase = "prompt"
)

type Header struct {
	GameID     string
	BotName    string
	Human      string
	Bot        string
	Turn       string
	Epsilon    string
	EpsilonMin string
}

type Cell struct {
	Index       int
	Mark        tttdto.Mark
	Interactive bool
}

type Outcome struct {
	Case OutcomeCase
	Text string
	Tone session.Tone
}

// Stat is a labelled display value.
type Stat struct {
	Label string
	Value string
}

type Tally struct {
	Games     string
	BotWins   string
	HumanWins string
	Draws     string
	Training  []Stat
}

type TrainingPanel struct {
	Mode         string
	Episodes     string
	Epsilon      string
	DrawRate     string
	AvgMoves     string
	QTableStates string
	ScoreA       Stat
	ScoreB       Stat
	Hint         string
}

type ArenaPanel struct {
	XWins    string
	OWins    string
	Draws    string
	AvgMoves string
	Errors   string
	Hint     string
	HintTone session.Tone
}

// View is everything the screen shows. Nil panels have not been produced yet.
type View struct {
	Header   Header
	HasGame  bool
	Cells    [tttdto.BoardSize]Cell
	Outcome  Outcome
	Tally    *Tally
	Training *TrainingPanel
	Arena    *ArenaPanel
	Notice   session.Notice
	Busy     string
}

// Projector turns session state into a View. It holds no state of its own,
// so projecting the same State twice yields the same View.
type Projector struct {
	cat *msgcat.Catalog
}

func NewProjector(cat *msgcat.Catalog) *Projector {
	return &Projector{cat: cat}
}

func (p *Projector) Project(st *session.State) View {
	var v View
	if st == nil {
		v.Header = Header{BotName: Unknown, Human: Unknown, Bot: Unknown, Turn: Unknown, Epsilon: session.Placeholder, EpsilonMin: session.Placeholder}
		return v
	}
	eps := st.Epsilon()
	game := st.Current()

	v.Header = Header{
		BotName:    Unknown,
		Human:      Unknown,
		Bot:        Unknown,
		Turn:       Unknown,
		Epsilon:    session.FormatFloat(eps.Value, 3),
		EpsilonMin: session.FormatFloat(eps.Min, 3),
	}
	for i := range v.Cells {
		v.Cells[i] = Cell{Index: i}
	}

	if game != nil {
		v.HasGame = true
		v.Header.GameID = game.ID
		v.Header.BotName = orUnknown(game.BotName)
		v.Header.Human = orUnknown(string(game.Human))
		v.Header.Bot = orUnknown(string(game.Bot))
		v.Header.Turn = orUnknown(string(game.Turn))
		for i := range v.Cells {
			mark := game.Cell(i)
			v.Cells[i] = Cell{
				Index:       i,
				Mark:        mark,
				Interactive: game.FullShaped() && !game.Done && mark == tttdto.MarkNone,
			}
		}
		v.Outcome = p.outcome(game)
	}

	v.Tally = projectTally(st.Global())
	v.Training = p.projectTraining(st.Training())
	v.Arena = p.projectArena(st.Arena())
	v.Notice = st.Notice()
	v.Busy = string(st.InFlight())
	return v
}

// outcome evaluates the mutually exclusive cases in priority order.
func (p *Projector) outcome(g *tttdto.GameSnapshot) Outcome {
	switch {
	case g.Error != "":
		return Outcome{Case: OutcomeError, Text: g.Error, Tone: session.ToneBad}
	case g.Done && g.Winner == tttdto.MarkNone:
		return Outcome{Case: OutcomeDraw, Text: p.cat.Text("game.draw", nil), Tone: session.ToneNeutral}
	case g.Done:
		tone := session.ToneGood
		if g.Winner == g.Bot {
			tone = session.ToneBad
		}
		return Outcome{Case: OutcomeWin, Text: p.cat.Text("game.win", map[string]any{"Winner": string(g.Winner)}), Tone: tone}
	default:
		return Outcome{Case: OutcomePrompt, Text: p.cat.Text("game.prompt", nil), Tone: session.ToneNeutral}
	}
}

func projectTally(g *tttdto.GlobalStats) *Tally {
	if g == nil {
		return nil
	}
	t := &Tally{
		Games:     session.FormatInt(g.GamesTotal),
		BotWins:   session.FormatInt(g.BotWins),
		HumanWins: session.FormatInt(g.HumanWins),
		Draws:     session.FormatInt(g.Draws),
	}
	extra := []struct {
		label string
		v     *int
	}{
		{"self-play episodes", g.SelfPlayEpisodesTotal},
		{"self-play X wins", g.SelfPlayXWins},
		{"self-play O wins", g.SelfPlayOWins},
		{"self-play draws", g.SelfPlayDraws},
		{"minimax episodes", g.MinimaxEpisodesTotal},
		{"minimax wins", g.MinimaxWins},
		{"minimax losses", g.MinimaxLosses},
		{"minimax draws", g.MinimaxDraws},
	}
	for _, e := range extra {
		if e.v != nil {
			t.Training = append(t.Training, Stat{Label: e.label, Value: strconv.Itoa(*e.v)})
		}
	}
	return t
}

func (p *Projector) projectTraining(s *session.TrainingSummary) *TrainingPanel {
	if s == nil {
		return nil
	}
	panel := &TrainingPanel{
		Mode:         string(s.Mode),
		Episodes:     session.FormatInt(s.Episodes),
		Epsilon:      session.FormatFloat(s.Epsilon, 3),
		DrawRate:     session.FormatRate(s.DrawRate),
		AvgMoves:     session.FormatFloat(s.AvgMoves, 2),
		QTableStates: session.FormatRounded(s.QTableStates),
	}
	switch r := s.Rates.(type) {
	case session.MinimaxRates:
		panel.ScoreA = Stat{Label: "agent win", Value: session.FormatRate(r.AgentWin)}
		panel.ScoreB = Stat{Label: "agent loss", Value: session.FormatRate(r.AgentLoss)}
		panel.Hint = p.cat.Text("train.hint_minimax", nil)
	case session.SelfPlayRates:
		panel.ScoreA = Stat{Label: "X win", Value: session.FormatRate(r.XWin)}
		panel.ScoreB = Stat{Label: "O win", Value: session.FormatRate(r.OWin)}
		panel.Hint = p.cat.Text("train.hint_selfplay", nil)
	default:
		panel.ScoreA = Stat{Label: "score A", Value: session.Placeholder}
		panel.ScoreB = Stat{Label: "score B", Value: session.Placeholder}
	}
	return panel
}

func (p *Projector) projectArena(r *tttdto.ArenaResult) *ArenaPanel {
	if r == nil {
		return nil
	}
	panel := &ArenaPanel{
		XWins:    session.FormatInt(r.XWins),
		OWins:    session.FormatInt(r.OWins),
		Draws:    session.FormatInt(r.Draws),
		AvgMoves: session.FormatFloat(r.AvgMoves, 2),
		Errors:   session.FormatInt(r.Errors),
	}
	if r.SoftFailed() {
		panel.Hint = p.cat.Text("arena.hint_error", map[string]any{"LastError": r.LastError})
		panel.HintTone = session.ToneBad
	} else {
		panel.Hint = p.cat.Text("arena.hint_ok", map[string]any{
			"Games": session.FormatInt(r.Games),
			"X":     orPlaceholder(string(r.X)),
			"O":     orPlaceholder(string(r.O)),
		})
	}
	return panel
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return session.Placeholder
	}
	return s
}
