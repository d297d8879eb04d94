package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

type AppConfig struct {
	AgentBaseURL   string
	RemoteAgentURL string

	XUserID    string
	XSessionID string

	DefaultOpponent   tttdto.AgentKind
	DefaultEpisodes   int
	DefaultArenaGames int
	DefaultEpsilon    float64

	HTTPTimeout  time.Duration
	TrainTimeout time.Duration

	MessagesDir    string
	BoardExportDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		DefaultOpponent:   tttdto.AgentRL,
		DefaultEpisodes:   1000,
		DefaultArenaGames: 200,
		DefaultEpsilon:    0.2,
		HTTPTimeout:       10 * time.Second,
		TrainTimeout:      10 * time.Minute,
		BoardExportDir:    "exports",
	}

	cfg.AgentBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("AGENT_BASE_URL")), "/")
	cfg.RemoteAgentURL = strings.TrimSpace(os.Getenv("REMOTE_AGENT_URL"))

	cfg.XUserID = strings.TrimSpace(os.Getenv("X_USER_ID"))
	cfg.XSessionID = strings.TrimSpace(os.Getenv("X_SESSION_ID"))

	if v := strings.ToLower(strings.TrimSpace(os.Getenv("DEFAULT_OPPONENT"))); v != "" {
		kind, err := ParseAgentKind(v)
		if err != nil {
			return nil, err
		}
		cfg.DefaultOpponent = kind
	}
	if v := strings.TrimSpace(os.Getenv("DEFAULT_EPISODES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultEpisodes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("DEFAULT_ARENA_GAMES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultArenaGames = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("DEFAULT_EPSILON")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.DefaultEpsilon = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("HTTP_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("TRAIN_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrainTimeout = time.Duration(n) * time.Second
		}
	}

	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))
	if v := strings.TrimSpace(os.Getenv("BOARD_EXPORT_DIR")); v != "" {
		cfg.BoardExportDir = v
	}

	if cfg.AgentBaseURL == "" {
		return nil, errors.New("AGENT_BASE_URL is required")
	}
	if cfg.DefaultOpponent == tttdto.AgentRemote && cfg.RemoteAgentURL == "" {
		return nil, errors.New("REMOTE_AGENT_URL is required when DEFAULT_OPPONENT=remote")
	}

	return cfg, nil
}

// Headers returns the optional identity headers sent with every request.
func (c *AppConfig) Headers() map[string]string {
	h := map[string]string{}
	if c.XUserID != "" {
		h["X-User-Id"] = c.XUserID
	}
	if c.XSessionID != "" {
		h["X-Session-Id"] = c.XSessionID
	}
	return h
}

func ParseAgentKind(s string) (tttdto.AgentKind, error) {
	switch tttdto.AgentKind(strings.ToLower(strings.TrimSpace(s))) {
	case tttdto.AgentRL:
		return tttdto.AgentRL, nil
	case tttdto.AgentMinimax:
		return tttdto.AgentMinimax, nil
	case tttdto.AgentRemote:
		return tttdto.AgentRemote, nil
	default:
		return "", errors.New("unknown agent kind: " + s)
	}
}
