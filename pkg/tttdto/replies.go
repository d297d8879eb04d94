package tttdto

type EpsilonReply struct {
	Envelope
	Epsilon    *float64 `json:"epsilon,omitempty"`
	EpsilonMin *float64 `json:"epsilon_min,omitempty"`
}

// TrainingStats is the raw per-run summary. Only one rate pair is populated,
// depending on the training mode.
type TrainingStats struct {
	Episodes     *int     `json:"episodes,omitempty"`
	Epsilon      *float64 `json:"epsilon,omitempty"`
	DrawRate     *float64 `json:"draw_rate,omitempty"`
	AvgMoves     *float64 `json:"avg_moves,omitempty"`
	QTableStates *float64 `json:"qtable_states,omitempty"`

	AgentWinRate  *float64 `json:"agent_win_rate,omitempty"`
	AgentLossRate *float64 `json:"agent_loss_rate,omitempty"`

	XWinRate *float64 `json:"x_win_rate,omitempty"`
	OWinRate *float64 `json:"o_win_rate,omitempty"`
}

type TrainReply struct {
	Envelope
	Mode        string         `json:"mode,omitempty"`
	Epsilon     *float64       `json:"epsilon,omitempty"`
	Stats       *TrainingStats `json:"stats,omitempty"`
	GlobalStats *GlobalStats   `json:"global_stats,omitempty"`
}

type ArenaResult struct {
	Games     *int      `json:"games,omitempty"`
	X         AgentKind `json:"x,omitempty"`
	O         AgentKind `json:"o,omitempty"`
	XWins     *int      `json:"x_wins,omitempty"`
	OWins     *int      `json:"o_wins,omitempty"`
	Draws     *int      `json:"draws,omitempty"`
	AvgMoves  *float64  `json:"avg_moves,omitempty"`
	Errors    *int      `json:"errors,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// SoftFailed reports a batch that completed with per-game errors.
func (r *ArenaResult) SoftFailed() bool {
	return r != nil && r.Errors != nil && *r.Errors > 0
}

type ArenaReply struct {
	Envelope
	Result *ArenaResult `json:"result,omitempty"`
}
