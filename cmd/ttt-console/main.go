package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	appcfg "github.com/park285/Cheese-TicTacToe/internal/config"
	"github.com/park285/Cheese-TicTacToe/internal/clientbuilder"
	"github.com/park285/Cheese-TicTacToe/internal/obslog"
	"github.com/park285/Cheese-TicTacToe/internal/tui"
	"go.uber.org/zap"
)

func main() {
	baseURL := flag.String("base-url", "", "Agent server base URL (overrides AGENT_BASE_URL)")
	remoteURL := flag.String("remote-url", "", "Remote agent API URL (overrides REMOTE_AGENT_URL)")
	altScreen := flag.Bool("alt-screen", true, "Run in the terminal's alternate screen")
	flag.Parse()

	// flags win over the environment
	if v := strings.TrimSpace(*baseURL); v != "" {
		_ = os.Setenv("AGENT_BASE_URL", v)
	}
	if v := strings.TrimSpace(*remoteURL); v != "" {
		_ = os.Setenv("REMOTE_AGENT_URL", v)
	}

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	deps, err := clientbuilder.New(cfg, logger)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model := tui.New(ctx, deps.Dispatcher, deps.Catalog, tui.Options{
		Opponent:  cfg.DefaultOpponent,
		Episodes:  cfg.DefaultEpisodes,
		Games:     cfg.DefaultArenaGames,
		Epsilon:   cfg.DefaultEpsilon,
		ExportDir: cfg.BoardExportDir,
		Logger:    logger.Named("tui"),
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if *altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	logger.Info("console_start", zap.String("agent", cfg.AgentBaseURL), zap.String("opponent", string(cfg.DefaultOpponent)))
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && ctx.Err() == nil {
		log.Fatalf("console error: %v", err)
	}
	logger.Info("console_stop")
}
