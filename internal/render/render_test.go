package render

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/park285/Cheese-TicTacToe/internal/msgcat"
	"github.com/park285/Cheese-TicTacToe/internal/session"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

func newProjector(t *testing.T) (*Projector, *msgcat.Catalog) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewProjector(cat), cat
}

func board(marks string) []tttdto.Mark {
	b := make([]tttdto.Mark, tttdto.BoardSize)
	for i, r := range marks {
		switch r {
		case 'X':
			b[i] = tttdto.MarkX
		case 'O':
			b[i] = tttdto.MarkO
		}
	}
	return b
}

func snapshot(marks string) *tttdto.GameSnapshot {
	return &tttdto.GameSnapshot{
		Envelope: tttdto.Envelope{OK: true, HTTPStatus: 200},
		ID:       "g1",
		Board:    board(marks),
		Human:    tttdto.MarkX,
		Bot:      tttdto.MarkO,
		Turn:     tttdto.MarkX,
		BotName:  "Q-agent",
	}
}

func TestProjectBeforeFirstGame(t *testing.T) {
	p, _ := newProjector(t)
	v := p.Project(session.NewState())
	h := v.Header
	if h.BotName != "?" || h.Human != "?" || h.Bot != "?" || h.Turn != "?" {
		t.Fatalf("unexpected header %+v", h)
	}
	if h.Epsilon != "-" || h.EpsilonMin != "-" {
		t.Fatalf("absent epsilon should render placeholders, got %+v", h)
	}
	if v.HasGame || v.Tally != nil || v.Training != nil || v.Arena != nil {
		t.Fatalf("unexpected panels %+v", v)
	}
	for _, c := range v.Cells {
		if c.Interactive {
			t.Fatalf("cell %d interactive without a game", c.Index)
		}
	}
}

func TestCellsInteractiveOnlyWhenEmptyAndNotDone(t *testing.T) {
	p, _ := newProjector(t)
	st := session.NewState()
	st.Replace(snapshot("X...O...."))
	v := p.Project(st)
	for i, c := range v.Cells {
		want := i != 0 && i != 4
		if c.Interactive != want {
			t.Fatalf("cell %d interactive=%v, want %v", i, c.Interactive, want)
		}
	}

	done := snapshot("XXXOO....")
	done.Done = true
	done.Winner = tttdto.MarkX
	st.Replace(done)
	for _, c := range p.Project(st).Cells {
		if c.Interactive {
			t.Fatalf("cell %d interactive after game end", c.Index)
		}
	}
}

func TestOutcomePriority(t *testing.T) {
	p, cat := newProjector(t)

	withError := snapshot("XXXOO....")
	withError.Done = true
	withError.Winner = tttdto.MarkX
	withError.Error = "cell taken"

	draw := snapshot("XOXXOOOXX")
	draw.Done = true

	humanWin := snapshot("XXXOO....")
	humanWin.Done = true
	humanWin.Winner = tttdto.MarkX

	botWin := snapshot("OOOXX.X..")
	botWin.Done = true
	botWin.Winner = tttdto.MarkO

	cases := []struct {
		name string
		snap *tttdto.GameSnapshot
		want Outcome
	}{
		{"error first", withError, Outcome{Case: OutcomeError, Text: "cell taken", Tone: session.ToneBad}},
		{"draw", draw, Outcome{Case: OutcomeDraw, Text: cat.Text("game.draw", nil)}},
		{"human wins", humanWin, Outcome{Case: OutcomeWin, Text: "X wins.", Tone: session.ToneGood}},
		{"bot wins", botWin, Outcome{Case: OutcomeWin, Text: "O wins.", Tone: session.ToneBad}},
		{"in progress", snapshot("X........"), Outcome{Case: OutcomePrompt, Text: cat.Text("game.prompt", nil)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := session.NewState()
			st.Replace(tc.snap)
			if got := p.Project(st).Outcome; got != tc.want {
				t.Fatalf("outcome = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestTallyIsLiteral(t *testing.T) {
	p, _ := newProjector(t)
	st := session.NewState()
	st.ReplaceGlobal(&tttdto.GlobalStats{
		GamesTotal:  tttdto.Int(12),
		BotWins:     tttdto.Int(5),
		HumanWins:   tttdto.Int(4),
		Draws:       tttdto.Int(3),
		MinimaxWins: tttdto.Int(7),
	})
	tally := p.Project(st).Tally
	if tally.Games != "12" || tally.BotWins != "5" || tally.HumanWins != "4" || tally.Draws != "3" {
		t.Fatalf("tally = %+v", tally)
	}
	if len(tally.Training) != 1 || tally.Training[0] != (Stat{Label: "minimax wins", Value: "7"}) {
		t.Fatalf("training counters = %+v", tally.Training)
	}
}

func TestTrainingPanelFollowsRateVariant(t *testing.T) {
	p, cat := newProjector(t)
	st := session.NewState()
	st.ReplaceTraining(&session.TrainingSummary{
		Mode:         session.ModeMinimax,
		Episodes:     tttdto.Int(1000),
		Epsilon:      tttdto.Float(0.1),
		DrawRate:     tttdto.Float(0.625),
		QTableStates: tttdto.Float(4519.6),
		Rates:        session.MinimaxRates{AgentWin: tttdto.Float(0), AgentLoss: tttdto.Float(0.375)},
	})
	panel := p.Project(st).Training
	if panel.ScoreA != (Stat{Label: "agent win", Value: "0.0%"}) || panel.ScoreB != (Stat{Label: "agent loss", Value: "37.5%"}) {
		t.Fatalf("rates = %+v / %+v", panel.ScoreA, panel.ScoreB)
	}
	if panel.DrawRate != "62.5%" || panel.Epsilon != "0.100" || panel.AvgMoves != "-" || panel.QTableStates != "4520" {
		t.Fatalf("panel = %+v", panel)
	}
	if panel.Hint != cat.Text("train.hint_minimax", nil) {
		t.Fatalf("hint = %q", panel.Hint)
	}

	st.ReplaceTraining(&session.TrainingSummary{Mode: session.ModeSelfPlay, Rates: session.SelfPlayRates{XWin: tttdto.Float(0.5)}})
	panel = p.Project(st).Training
	if panel.ScoreA.Label != "X win" || panel.ScoreA.Value != "50.0%" || panel.ScoreB.Value != "-" {
		t.Fatalf("self-play rates = %+v / %+v", panel.ScoreA, panel.ScoreB)
	}
}

func TestArenaHint(t *testing.T) {
	p, _ := newProjector(t)
	st := session.NewState()

	st.ReplaceArena(&tttdto.ArenaResult{Games: tttdto.Int(200), X: tttdto.AgentRL, O: tttdto.AgentMinimax, Errors: tttdto.Int(0)})
	if got := p.Project(st).Arena.Hint; got != "Games: 200 | X=rl vs O=minimax" {
		t.Fatalf("hint = %q", got)
	}

	st.ReplaceArena(&tttdto.ArenaResult{Errors: tttdto.Int(3), LastError: "remote 503"})
	a := p.Project(st).Arena
	if a.Hint != "Last error: remote 503" || a.HintTone != session.ToneBad {
		t.Fatalf("arena = %+v", a)
	}

	st.ReplaceArena(&tttdto.ArenaResult{Errors: tttdto.Int(1)})
	if got := p.Project(st).Arena.Hint; got != "Last error: (unspecified)" {
		t.Fatalf("hint = %q", got)
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	p, _ := newProjector(t)
	st := session.NewState()
	st.Replace(snapshot("X...O...."))
	st.ReplaceEpsilon(tttdto.Float(0.3), tttdto.Float(0.01))
	st.Notify("hello", session.ToneGood)
	a, b := p.Project(st), p.Project(st)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("projection not idempotent:\n%+v\n%+v", a, b)
	}
	if a.Header.Epsilon != "0.300" {
		t.Fatalf("epsilon = %q", a.Header.Epsilon)
	}
}

func TestFormatterText(t *testing.T) {
	p, _ := newProjector(t)
	st := session.NewState()
	st.Replace(snapshot("X...O...."))
	st.ReplaceGlobal(&tttdto.GlobalStats{GamesTotal: tttdto.Int(12)})
	out := NewFormatter().Text(p.Project(st), "q quit")
	for _, want := range []string{"Q-agent", "games: 12", "q quit", "2", "9"} {
		if !strings.Contains(out, want) {
			t.Fatalf("screen missing %q:\n%s", want, out)
		}
	}
}

func TestBoardPNG(t *testing.T) {
	p, _ := newProjector(t)
	st := session.NewState()
	st.Replace(snapshot("X...O...X"))
	v := p.Project(st)

	data, err := BoardPNG(context.Background(), v)
	if err != nil {
		t.Fatalf("BoardPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != boardPx+sideMargin*2 || b.Dy() != boardPx+topMargin+bottomMargin {
		t.Fatalf("bounds = %v", b)
	}

	if _, err := BoardPNG(context.Background(), p.Project(session.NewState())); err == nil {
		t.Fatalf("expected error without a game")
	}
}

func TestSaveBoardPNG(t *testing.T) {
	p, _ := newProjector(t)
	st := session.NewState()
	st.Replace(snapshot("X........"))
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := SaveBoardPNG(context.Background(), dir, p.Project(st), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("SaveBoardPNG: %v", err)
	}
	if filepath.Base(path) != "g1-20260102-030405.png" {
		t.Fatalf("path = %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
