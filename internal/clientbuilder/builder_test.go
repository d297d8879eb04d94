package clientbuilder

import (
	"testing"
	"time"

	"github.com/park285/Cheese-TicTacToe/internal/config"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

func TestNew(t *testing.T) {
	cfg := &config.AppConfig{
		AgentBaseURL:    "http://localhost:5000",
		RemoteAgentURL:  " http://peer:9000 ",
		DefaultOpponent: tttdto.AgentMinimax,
		HTTPTimeout:     time.Second,
		TrainTimeout:    time.Minute,
	}
	deps, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if deps.Client == nil || deps.Catalog == nil || deps.Dispatcher == nil {
		t.Fatalf("incomplete deps %+v", deps)
	}
	if got := deps.Dispatcher.RemoteURL(); got != "http://peer:9000" {
		t.Fatalf("remote url = %q", got)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(&config.AppConfig{}, nil); err == nil {
		t.Fatalf("expected error without base url")
	}
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewBadMessagesDir(t *testing.T) {
	cfg := &config.AppConfig{AgentBaseURL: "http://localhost:5000", MessagesDir: t.TempDir() + "/missing"}
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected error for missing messages dir")
	}
}
