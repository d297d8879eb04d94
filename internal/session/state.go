package session

import (
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

// Tone classifies a message for display.
type Tone string

const (
	ToneNeutral Tone = ""
	ToneGood    Tone = "good"
	ToneBad     Tone = "bad"
)

// Notice is the last workflow message (validation, progress, server error).
type Notice struct {
	Text string
	Tone Tone
}

// EpsilonSlot mirrors the server's exploration rate.
type EpsilonSlot struct {
	Value *float64
	Min   *float64
}

// State is the single client-side state container. Each field is an
// independent slot, written only through its replace reducer.
type State struct {
	game     *tttdto.GameSnapshot
	training *TrainingSummary
	arena    *tttdto.ArenaResult
	epsilon  EpsilonSlot
	global   *tttdto.GlobalStats
	notice   Notice
	inflight Workflow
}

func NewState() *State { return &State{} }

// Current returns the last known game snapshot, nil before the first game.
func (s *State) Current() *tttdto.GameSnapshot { return s.game }

// Replace installs snap as the whole truth about the game. The snapshot's
// epsilon and global tally refresh their slots; the notice is cleared so
// the outcome line governs the display.
func (s *State) Replace(snap *tttdto.GameSnapshot) {
	if snap == nil {
		return
	}
	cp := *snap
	cp.Board = append([]tttdto.Mark(nil), snap.Board...)
	s.game = &cp
	if snap.Epsilon != nil {
		v := *snap.Epsilon
		s.epsilon.Value = &v
	}
	if snap.GlobalStats != nil {
		s.ReplaceGlobal(snap.GlobalStats)
	}
	s.notice = Notice{}
}

func (s *State) Training() *TrainingSummary { return s.training }

// ReplaceTraining swaps the training panel wholesale.
func (s *State) ReplaceTraining(t *TrainingSummary) { s.training = t }

func (s *State) Arena() *tttdto.ArenaResult { return s.arena }

// ReplaceArena swaps the arena panel wholesale.
func (s *State) ReplaceArena(r *tttdto.ArenaResult) {
	if r == nil {
		s.arena = nil
		return
	}
	cp := *r
	s.arena = &cp
}

func (s *State) Epsilon() EpsilonSlot { return s.epsilon }

// ReplaceEpsilon sets the rate display. A nil min keeps the previous min.
func (s *State) ReplaceEpsilon(value, min *float64) {
	if value != nil {
		v := *value
		s.epsilon.Value = &v
	}
	if min != nil {
		m := *min
		s.epsilon.Min = &m
	}
}

func (s *State) Global() *tttdto.GlobalStats { return s.global }

// ReplaceGlobal stores the tally exactly as received.
func (s *State) ReplaceGlobal(g *tttdto.GlobalStats) {
	if g == nil {
		return
	}
	cp := *g
	s.global = &cp
}

func (s *State) Notice() Notice { return s.notice }

func (s *State) Notify(text string, tone Tone) { s.notice = Notice{Text: text, Tone: tone} }

// InFlight names the workflow awaiting a reply, or "" when idle.
func (s *State) InFlight() Workflow { return s.inflight }

// CanMove reports whether a human move at pos may be sent.
func (s *State) CanMove(pos int) bool {
	g := s.game
	if g == nil || !g.FullShaped() || g.Error != "" || g.Done {
		return false
	}
	if s.inflight != "" {
		return false
	}
	if g.Turn != g.Human {
		return false
	}
	if pos < 0 || pos >= tttdto.BoardSize {
		return false
	}
	return g.Board[pos] == tttdto.MarkNone
}
