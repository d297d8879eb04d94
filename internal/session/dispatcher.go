package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/park285/Cheese-TicTacToe/internal/msgcat"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
	"go.uber.org/zap"
)

var (
	ErrUnknownMode = errors.New("unknown training mode")
	ErrUnknownMark = errors.New("unknown mark")
)

// Workflow names a single request/response exchange.
type Workflow string

const (
	WorkflowGetEpsilon Workflow = "get_epsilon"
	WorkflowSetEpsilon Workflow = "set_epsilon"
	WorkflowNewGame    Workflow = "new_game"
	WorkflowMove       Workflow = "move"
	WorkflowTrain      Workflow = "train"
	WorkflowArena      Workflow = "arena"
)

// Gateway is the remote agent server.
type Gateway interface {
	GetEpsilon(ctx context.Context) (*tttdto.EpsilonReply, error)
	SetEpsilon(ctx context.Context, epsilon float64) (*tttdto.EpsilonReply, error)
	NewGame(ctx context.Context, req tttdto.NewGameRequest) (*tttdto.GameSnapshot, error)
	Move(ctx context.Context, req tttdto.MoveRequest) (*tttdto.GameSnapshot, error)
	Train(ctx context.Context, req tttdto.TrainRequest) (*tttdto.TrainReply, error)
	Arena(ctx context.Context, req tttdto.ArenaRequest) (*tttdto.ArenaReply, error)
}

type Options struct {
	DefaultOpponent tttdto.AgentKind
	RemoteURL       string
	Logger          *zap.Logger
}

// Dispatcher validates and issues workflows and applies their outcomes to
// the State. It admits one in-flight call at a time; outcomes whose
// sequence number is not the in-flight one are dropped.
type Dispatcher struct {
	gw     Gateway
	state  *State
	cat    *msgcat.Catalog
	logger *zap.Logger

	defaultOpponent tttdto.AgentKind
	remoteURL       string

	seq     uint64
	pending *Call
}

func NewDispatcher(gw Gateway, cat *msgcat.Catalog, opts Options) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultOpponent == "" {
		opts.DefaultOpponent = tttdto.AgentRL
	}
	return &Dispatcher{
		gw:              gw,
		state:           NewState(),
		cat:             cat,
		logger:          opts.Logger,
		defaultOpponent: opts.DefaultOpponent,
		remoteURL:       strings.TrimSpace(opts.RemoteURL),
	}
}

func (d *Dispatcher) State() *State { return d.state }

// RemoteURL is the endpoint used when an opponent or contestant is remote.
func (d *Dispatcher) RemoteURL() string { return d.remoteURL }

func (d *Dispatcher) SetRemoteURL(u string) { d.remoteURL = strings.TrimSpace(u) }

// Bootstrap queries the exploration rate, then starts a default game as X.
func (d *Dispatcher) Bootstrap() *Call {
	call := d.begin(WorkflowGetEpsilon)
	if call != nil {
		call.bootstrap = true
	}
	return call
}

func (d *Dispatcher) RefreshEpsilon() *Call {
	return d.begin(WorkflowGetEpsilon)
}

func (d *Dispatcher) SetEpsilon(epsilon float64) *Call {
	if !validEpsilon(epsilon) {
		d.reject("validation.epsilon", nil)
		return nil
	}
	call := d.begin(WorkflowSetEpsilon)
	if call != nil {
		call.epsilon = epsilon
	}
	return call
}

func (d *Dispatcher) NewGame(human tttdto.Mark, opponent tttdto.AgentKind, remoteURL string) *Call {
	mark, err := ParseMark(string(human))
	if err != nil {
		d.reject("validation.mark", map[string]any{"Mark": string(human)})
		return nil
	}
	remoteURL = strings.TrimSpace(remoteURL)
	if opponent == tttdto.AgentRemote && remoteURL == "" {
		d.reject("validation.remote_url_missing", nil)
		return nil
	}
	call := d.begin(WorkflowNewGame)
	if call != nil {
		call.newGame = tttdto.NewGameRequest{Bot: opponent, HumanAs: mark, RemoteURL: remoteURL}
	}
	return call
}

// Move sends the human move at pos. Any violated precondition is a silent
// no-op: no request and no notice.
func (d *Dispatcher) Move(pos int) *Call {
	if !d.state.CanMove(pos) {
		d.logger.Debug("move_ignored", zap.Int("pos", pos))
		return nil
	}
	call := d.begin(WorkflowMove)
	if call != nil {
		call.move = tttdto.MoveRequest{GameID: d.state.Current().ID, Pos: pos}
	}
	return call
}

func (d *Dispatcher) Train(episodes int, mode string, epsilon float64) *Call {
	m, err := ParseTrainingMode(mode)
	if err != nil {
		d.reject("validation.mode", map[string]any{"Mode": mode})
		return nil
	}
	if episodes < 1 {
		d.reject("validation.episodes", nil)
		return nil
	}
	if !validEpsilon(epsilon) {
		d.reject("validation.epsilon", nil)
		return nil
	}
	call := d.begin(WorkflowTrain)
	if call == nil {
		return nil
	}
	call.train = tttdto.TrainRequest{Episodes: episodes, Mode: string(m), Epsilon: epsilon}
	d.state.Notify(d.cat.Text("train.running", map[string]any{
		"Mode":     string(m),
		"Episodes": episodes,
		"Epsilon":  FormatFloat(&epsilon, 2),
	}), ToneNeutral)
	return call
}

func (d *Dispatcher) Arena(x, o tttdto.AgentKind, games int, remoteURL string) *Call {
	remoteURL = strings.TrimSpace(remoteURL)
	if (x == tttdto.AgentRemote || o == tttdto.AgentRemote) && remoteURL == "" {
		d.reject("validation.arena_remote_url_missing", nil)
		return nil
	}
	if games < 1 {
		d.reject("validation.games", nil)
		return nil
	}
	call := d.begin(WorkflowArena)
	if call == nil {
		return nil
	}
	call.arena = tttdto.ArenaRequest{X: x, O: o, Games: games, RemoteURL: remoteURL}
	d.state.Notify(d.cat.Text("arena.running", map[string]any{
		"X": string(x), "O": string(o), "Games": games,
	}), ToneNeutral)
	return call
}

// Complete applies an outcome and returns the follow-up call, if any.
func (d *Dispatcher) Complete(out Outcome) *Call {
	call := out.call
	if call == nil || d.pending == nil || call.Seq != d.pending.Seq {
		d.logger.Warn("workflow_stale",
			zap.String("workflow", string(out.Workflow())),
			zap.Uint64("seq", out.Seq()),
		)
		return nil
	}
	d.pending = nil
	d.state.inflight = ""

	if out.Err != nil {
		d.logger.Warn("workflow_transport_failed",
			zap.String("workflow", string(call.Workflow)),
			zap.Uint64("seq", call.Seq),
			zap.Error(out.Err),
		)
		d.state.Notify(d.cat.Text("transport.failed", map[string]any{"Workflow": string(call.Workflow)}), ToneBad)
		return nil
	}

	d.logger.Info("workflow_complete",
		zap.String("workflow", string(call.Workflow)),
		zap.Uint64("seq", call.Seq),
		zap.Int("status", out.status()),
	)

	switch call.Workflow {
	case WorkflowGetEpsilon:
		return d.completeGetEpsilon(call, out.epsilon)
	case WorkflowSetEpsilon:
		return d.completeSetEpsilon(out.epsilon)
	case WorkflowNewGame:
		d.completeSnapshot(out.game, "game.new_failed")
	case WorkflowMove:
		d.completeSnapshot(out.game, "game.move_failed")
	case WorkflowTrain:
		return d.completeTrain(out.train)
	case WorkflowArena:
		d.completeArena(out.arena)
	}
	return nil
}

// Run drives call and its follow-ups to completion.
func (d *Dispatcher) Run(ctx context.Context, call *Call) error {
	var lastErr error
	for call != nil {
		out := call.Do(ctx)
		if out.Err != nil {
			lastErr = out.Err
		}
		call = d.Complete(out)
	}
	return lastErr
}

func (d *Dispatcher) completeGetEpsilon(call *Call, reply *tttdto.EpsilonReply) *Call {
	if reply != nil && !reply.Failed() {
		d.state.ReplaceEpsilon(reply.Epsilon, reply.EpsilonMin)
	} else if reply != nil && reply.Error != "" {
		d.state.Notify(reply.Error, ToneBad)
	}
	if call.bootstrap {
		return d.NewGame(tttdto.MarkX, d.defaultOpponent, d.remoteURL)
	}
	return nil
}

func (d *Dispatcher) completeSetEpsilon(reply *tttdto.EpsilonReply) *Call {
	if reply == nil || reply.Failed() {
		errText := ""
		if reply != nil {
			errText = reply.Error
		}
		d.state.Notify(d.serverError(errText, "epsilon.failed"), ToneBad)
		return nil
	}
	d.state.Notify(d.cat.Text("epsilon.applied", map[string]any{"Epsilon": FormatFloat(reply.Epsilon, 3)}), ToneGood)
	// the server may clamp; re-read rather than trust the requested value
	return d.RefreshEpsilon()
}

func (d *Dispatcher) completeSnapshot(snap *tttdto.GameSnapshot, fallbackKey string) {
	if snap == nil {
		d.state.Notify(d.cat.Text(fallbackKey, nil), ToneBad)
		return
	}
	if !snap.FullShaped() {
		d.state.Notify(d.serverError(snap.Error, fallbackKey), ToneBad)
		return
	}
	d.state.Replace(snap)
}

func (d *Dispatcher) completeTrain(reply *tttdto.TrainReply) *Call {
	if reply == nil || reply.Failed() {
		errText := ""
		if reply != nil {
			errText = reply.Error
		}
		d.state.Notify(d.serverError(errText, "train.failed"), ToneBad)
		return nil
	}

	d.state.ReplaceEpsilon(reply.Epsilon, nil)
	d.state.ReplaceGlobal(reply.GlobalStats)

	summary, err := SummaryFromReply(reply)
	if err != nil {
		d.logger.Warn("train_unknown_mode", zap.String("mode", reply.Mode), zap.Error(err))
		d.state.Notify(d.cat.Text("train.unknown_mode", map[string]any{"Mode": reply.Mode}), ToneBad)
		return d.RefreshEpsilon()
	}
	d.state.ReplaceTraining(summary)
	d.state.Notify(d.cat.Text("train.done", map[string]any{
		"Mode":     string(summary.Mode),
		"Epsilon":  FormatFloat(reply.Epsilon, 3),
		"DrawRate": FormatPercent(orZero(summary.DrawRate)),
	}), ToneGood)
	return d.RefreshEpsilon()
}

func (d *Dispatcher) completeArena(reply *tttdto.ArenaReply) {
	if reply == nil || reply.Failed() || reply.Result == nil {
		errText := ""
		if reply != nil {
			errText = reply.Error
		}
		d.state.Notify(d.serverError(errText, "arena.failed"), ToneBad)
		return
	}
	r := reply.Result
	d.state.ReplaceArena(r)
	if r.SoftFailed() {
		d.logger.Warn("arena_soft_failure", zap.Int("errors", *r.Errors), zap.String("last_error", r.LastError))
	}
	d.state.Notify(d.cat.Text("arena.done", map[string]any{
		"XWins": FormatInt(r.XWins),
		"OWins": FormatInt(r.OWins),
		"Draws": FormatInt(r.Draws),
	}), ToneGood)
}

// begin reserves the single in-flight slot. When another call is pending
// a busy notice is shown and nil returned.
func (d *Dispatcher) begin(w Workflow) *Call {
	if d.pending != nil {
		d.logger.Debug("workflow_busy", zap.String("workflow", string(w)), zap.String("pending", string(d.pending.Workflow)))
		d.state.Notify(d.cat.Text("validation.busy", map[string]any{"Workflow": string(d.pending.Workflow)}), ToneBad)
		return nil
	}
	d.seq++
	call := &Call{Seq: d.seq, Workflow: w, gw: d.gw}
	d.pending = call
	d.state.inflight = w
	d.logger.Info("workflow_begin", zap.String("workflow", string(w)), zap.Uint64("seq", call.Seq))
	return call
}

func (d *Dispatcher) reject(key string, data map[string]any) {
	d.logger.Debug("workflow_rejected", zap.String("reason", key))
	d.state.Notify(d.cat.Text(key, data), ToneBad)
}

func (d *Dispatcher) serverError(text, fallbackKey string) string {
	if strings.TrimSpace(text) != "" {
		return text
	}
	return d.cat.Text(fallbackKey, nil)
}

// ParseMark accepts X or O, case-insensitively.
func ParseMark(s string) (tttdto.Mark, error) {
	switch tttdto.Mark(strings.ToUpper(strings.TrimSpace(s))) {
	case tttdto.MarkX:
		return tttdto.MarkX, nil
	case tttdto.MarkO:
		return tttdto.MarkO, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMark, s)
	}
}

func validEpsilon(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
