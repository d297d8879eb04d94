package session

import (
	"fmt"
	"strings"

	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

// TrainingMode selects the server training regime.
type TrainingMode string

const (
	ModeSelfPlay TrainingMode = "selfplay"
	ModeMinimax  TrainingMode = "minimax"
)

// Modes lists the known training modes in display order.
var Modes = []TrainingMode{ModeSelfPlay, ModeMinimax}

// ParseTrainingMode accepts only known modes.
func ParseTrainingMode(s string) (TrainingMode, error) {
	switch TrainingMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSelfPlay:
		return ModeSelfPlay, nil
	case ModeMinimax:
		return ModeMinimax, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// RatePair is the mode-specific pair of outcome rates.
type RatePair interface {
	Mode() TrainingMode
	Rates() (a, b *float64)
}

// SelfPlayRates are the X/O win rates of a self-play run.
type SelfPlayRates struct {
	XWin *float64
	OWin *float64
}

func (SelfPlayRates) Mode() TrainingMode       { return ModeSelfPlay }
func (r SelfPlayRates) Rates() (a, b *float64) { return r.XWin, r.OWin }

// MinimaxRates are the agent's win/loss rates against the minimax player.
type MinimaxRates struct {
	AgentWin  *float64
	AgentLoss *float64
}

func (MinimaxRates) Mode() TrainingMode       { return ModeMinimax }
func (r MinimaxRates) Rates() (a, b *float64) { return r.AgentWin, r.AgentLoss }

// TrainingSummary is the training panel, replaced wholesale per run.
type TrainingSummary struct {
	Mode         TrainingMode
	Episodes     *int
	Epsilon      *float64
	DrawRate     *float64
	AvgMoves     *float64
	QTableStates *float64
	Rates        RatePair
}

// SummaryFromReply builds the panel from the server-echoed mode, which may
// differ from the requested one. Unknown modes are an error.
func SummaryFromReply(reply *tttdto.TrainReply) (*TrainingSummary, error) {
	if reply == nil {
		return nil, fmt.Errorf("nil train reply")
	}
	mode, err := ParseTrainingMode(reply.Mode)
	if err != nil {
		return nil, err
	}
	st := reply.Stats
	if st == nil {
		st = &tttdto.TrainingStats{}
	}
	sum := &TrainingSummary{
		Mode:         mode,
		Episodes:     st.Episodes,
		Epsilon:      st.Epsilon,
		DrawRate:     st.DrawRate,
		AvgMoves:     st.AvgMoves,
		QTableStates: st.QTableStates,
	}
	switch mode {
	case ModeMinimax:
		sum.Rates = MinimaxRates{AgentWin: st.AgentWinRate, AgentLoss: st.AgentLossRate}
	default:
		sum.Rates = SelfPlayRates{XWin: st.XWinRate, OWin: st.OWinRate}
	}
	return sum, nil
}
