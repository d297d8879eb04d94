package session

import (
	"context"

	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

// Call is one issued request. Do performs the round-trip without touching
// the State, so it may run off the event loop.
type Call struct {
	Seq      uint64
	Workflow Workflow

	gw        Gateway
	bootstrap bool

	epsilon float64
	newGame tttdto.NewGameRequest
	move    tttdto.MoveRequest
	train   tttdto.TrainRequest
	arena   tttdto.ArenaRequest
}

// Outcome is the result of Call.Do, applied by Dispatcher.Complete.
type Outcome struct {
	Err error

	call    *Call
	epsilon *tttdto.EpsilonReply
	game    *tttdto.GameSnapshot
	train   *tttdto.TrainReply
	arena   *tttdto.ArenaReply
}

func (o Outcome) Seq() uint64 {
	if o.call == nil {
		return 0
	}
	return o.call.Seq
}

func (o Outcome) Workflow() Workflow {
	if o.call == nil {
		return ""
	}
	return o.call.Workflow
}

func (o Outcome) status() int {
	switch {
	case o.epsilon != nil:
		return o.epsilon.HTTPStatus
	case o.game != nil:
		return o.game.HTTPStatus
	case o.train != nil:
		return o.train.HTTPStatus
	case o.arena != nil:
		return o.arena.HTTPStatus
	}
	return 0
}

func (c *Call) Do(ctx context.Context) Outcome {
	out := Outcome{call: c}
	if c == nil || c.gw == nil {
		return out
	}
	switch c.Workflow {
	case WorkflowGetEpsilon:
		out.epsilon, out.Err = c.gw.GetEpsilon(ctx)
	case WorkflowSetEpsilon:
		out.epsilon, out.Err = c.gw.SetEpsilon(ctx, c.epsilon)
	case WorkflowNewGame:
		out.game, out.Err = c.gw.NewGame(ctx, c.newGame)
	case WorkflowMove:
		out.game, out.Err = c.gw.Move(ctx, c.move)
	case WorkflowTrain:
		out.train, out.Err = c.gw.Train(ctx, c.train)
	case WorkflowArena:
		out.arena, out.Err = c.gw.Arena(ctx, c.arena)
	}
	return out
}
