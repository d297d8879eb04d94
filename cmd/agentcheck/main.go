package main

import (
	"context"
	"flag"
	"log"
	"time"

	appcfg "github.com/park285/Cheese-TicTacToe/internal/config"
	"github.com/park285/Cheese-TicTacToe/internal/clientbuilder"
	"github.com/park285/Cheese-TicTacToe/internal/session"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
	"go.uber.org/zap"
)

func main() {
	newGame := flag.Bool("new-game", false, "Also create a throwaway game against the default opponent")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	client := clientbuilder.NewClient(cfg, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	eps, err := client.GetEpsilon(ctx)
	switch {
	case err != nil:
		log.Fatalf("/api/epsilon error: %v", err)
	case eps.Failed():
		log.Fatalf("/api/epsilon rejected: status=%d error=%q", eps.HTTPStatus, eps.Error)
	default:
		log.Printf("/api/epsilon ok: epsilon=%s min=%s", session.FormatFloat(eps.Epsilon, 3), session.FormatFloat(eps.EpsilonMin, 3))
	}

	if !*newGame {
		return
	}
	g, err := client.NewGame(ctx, tttdto.NewGameRequest{Bot: cfg.DefaultOpponent, HumanAs: tttdto.MarkX, RemoteURL: cfg.RemoteAgentURL})
	if err != nil {
		log.Fatalf("/api/new error: %v", err)
	}
	if !g.FullShaped() {
		log.Fatalf("/api/new rejected: status=%d error=%q", g.HTTPStatus, g.Error)
	}
	log.Printf("/api/new ok: id=%s bot=%s human=%s turn=%s", g.ID, g.BotName, g.Human, g.Turn)
}
