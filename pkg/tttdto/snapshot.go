package tttdto

// Mark is a cell value or a player assignment.
type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
)

// BoardSize is the number of cells of the row-major 3x3 board.
const BoardSize = 9

// AgentKind identifies an opponent or arena contestant.
type AgentKind string

const (
	AgentRL      AgentKind = "rl"
	AgentMinimax AgentKind = "minimax"
	AgentRemote  AgentKind = "remote"
)

// Envelope carries the fields shared by every reply. HTTPStatus is filled
// by the gateway, never decoded.
type Envelope struct {
	OK         bool   `json:"ok,omitempty"`
	Error      string `json:"error,omitempty"`
	HTTPStatus int    `json:"-"`
}

// StatusOK reports whether the transport status was 2xx.
func (e Envelope) StatusOK() bool {
	return e.HTTPStatus >= 200 && e.HTTPStatus < 300
}

// Rejected reports a structured failure: error text or a non-2xx status.
func (e Envelope) Rejected() bool {
	return e.Error != "" || !e.StatusOK()
}

// Failed is Rejected for replies that also carry an ok flag.
func (e Envelope) Failed() bool {
	return !e.OK || e.Rejected()
}

// GlobalStats is the lifetime tally maintained by the server.
type GlobalStats struct {
	GamesTotal *int `json:"games_total,omitempty"`
	BotWins    *int `json:"bot_wins,omitempty"`
	HumanWins  *int `json:"human_wins,omitempty"`
	Draws      *int `json:"draws,omitempty"`

	SelfPlayEpisodesTotal *int `json:"selfplay_episodes_total,omitempty"`
	SelfPlayXWins         *int `json:"selfplay_x_wins,omitempty"`
	SelfPlayOWins         *int `json:"selfplay_o_wins,omitempty"`
	SelfPlayDraws         *int `json:"selfplay_draws,omitempty"`

	MinimaxEpisodesTotal *int `json:"minimax_episodes_total,omitempty"`
	MinimaxWins          *int `json:"minimax_wins,omitempty"`
	MinimaxLosses        *int `json:"minimax_losses,omitempty"`
	MinimaxDraws         *int `json:"minimax_draws,omitempty"`
}

// GameSnapshot is the complete server view of one game session.
type GameSnapshot struct {
	Envelope

	ID          string       `json:"id,omitempty"`
	Board       []Mark       `json:"board,omitempty"`
	Human       Mark         `json:"human,omitempty"`
	Bot         Mark         `json:"bot,omitempty"`
	Turn        Mark         `json:"turn,omitempty"`
	Done        bool         `json:"done"`
	Winner      Mark         `json:"winner"`
	Epsilon     *float64     `json:"epsilon,omitempty"`
	BotName     string       `json:"bot_name,omitempty"`
	BotKind     AgentKind    `json:"bot_kind,omitempty"`
	RemoteURL   string       `json:"remote_url,omitempty"`
	GlobalStats *GlobalStats `json:"global_stats,omitempty"`
}

// FullShaped reports whether the snapshot describes a whole game (an id and
// a complete board), as opposed to a bare {error} reply.
func (g *GameSnapshot) FullShaped() bool {
	return g != nil && g.ID != "" && len(g.Board) == BoardSize
}

// Cell returns the mark at pos, or MarkNone when out of range.
func (g *GameSnapshot) Cell(pos int) Mark {
	if g == nil || pos < 0 || pos >= len(g.Board) {
		return MarkNone
	}
	return g.Board[pos]
}
