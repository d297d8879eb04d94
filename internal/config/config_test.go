package config

import (
	"testing"
	"time"

	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("AGENT_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without AGENT_BASE_URL")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("AGENT_BASE_URL", "http://127.0.0.1:5000/")
	t.Setenv("DEFAULT_OPPONENT", "Minimax")
	t.Setenv("DEFAULT_EPISODES", "250")
	t.Setenv("DEFAULT_ARENA_GAMES", "-3")
	t.Setenv("DEFAULT_EPSILON", "0.35")
	t.Setenv("TRAIN_TIMEOUT_SEC", "90")
	t.Setenv("X_USER_ID", "u1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AgentBaseURL != "http://127.0.0.1:5000" {
		t.Fatalf("base url not trimmed: %q", cfg.AgentBaseURL)
	}
	if cfg.DefaultOpponent != tttdto.AgentMinimax {
		t.Fatalf("opponent: %q", cfg.DefaultOpponent)
	}
	if cfg.DefaultEpisodes != 250 || cfg.DefaultArenaGames != 200 {
		t.Fatalf("episodes=%d games=%d", cfg.DefaultEpisodes, cfg.DefaultArenaGames)
	}
	if cfg.DefaultEpsilon != 0.35 {
		t.Fatalf("epsilon: %v", cfg.DefaultEpsilon)
	}
	if cfg.TrainTimeout != 90*time.Second || cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("timeouts: %v %v", cfg.TrainTimeout, cfg.HTTPTimeout)
	}
	if h := cfg.Headers(); h["X-User-Id"] != "u1" || len(h) != 1 {
		t.Fatalf("headers: %v", h)
	}
}

func TestLoadRemoteOpponentNeedsURL(t *testing.T) {
	t.Setenv("AGENT_BASE_URL", "http://localhost:5000")
	t.Setenv("DEFAULT_OPPONENT", "remote")
	t.Setenv("REMOTE_AGENT_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for remote opponent without url")
	}
}

func TestLoadUnknownOpponent(t *testing.T) {
	t.Setenv("AGENT_BASE_URL", "http://localhost:5000")
	t.Setenv("DEFAULT_OPPONENT", "alphazero")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown opponent")
	}
}
