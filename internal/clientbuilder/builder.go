package clientbuilder

import (
	"fmt"
	"strings"

	"github.com/park285/Cheese-TicTacToe/internal/agentapi"
	"github.com/park285/Cheese-TicTacToe/internal/config"
	"github.com/park285/Cheese-TicTacToe/internal/msgcat"
	"github.com/park285/Cheese-TicTacToe/internal/session"
	"go.uber.org/zap"
)

type Deps struct {
	Client     *agentapi.Client
	Catalog    *msgcat.Catalog
	Dispatcher *session.Dispatcher
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.AgentBaseURL) == "" {
		return nil, fmt.Errorf("AGENT_BASE_URL is required")
	}

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	client := NewClient(cfg, logger)

	d := session.NewDispatcher(client, cat, session.Options{
		DefaultOpponent: cfg.DefaultOpponent,
		RemoteURL:       cfg.RemoteAgentURL,
		Logger:          logger.Named("session"),
	})

	return &Deps{Client: client, Catalog: cat, Dispatcher: d}, nil
}

// NewClient builds the gateway alone, for one-shot tools.
func NewClient(cfg *config.AppConfig, logger *zap.Logger) *agentapi.Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	headers := cfg.Headers()
	return agentapi.NewClient(cfg.AgentBaseURL,
		agentapi.WithTimeout(cfg.HTTPTimeout),
		agentapi.WithTrainTimeout(cfg.TrainTimeout),
		agentapi.WithHeaderProvider(func() map[string]string { return headers }),
		agentapi.WithLogger(logger.Named("agentapi")),
	)
}
