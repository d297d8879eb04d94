package tui

import (
	"context"
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/park285/Cheese-TicTacToe/internal/msgcat"
	"github.com/park285/Cheese-TicTacToe/internal/render"
	"github.com/park285/Cheese-TicTacToe/internal/session"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
	"go.uber.org/zap"
)

var agents = []tttdto.AgentKind{tttdto.AgentRL, tttdto.AgentMinimax, tttdto.AgentRemote}

const (
	episodeStep = 100
	gamesStep   = 50
	epsilonStep = 0.05
)

type Options struct {
	Opponent  tttdto.AgentKind
	Episodes  int
	Games     int
	Epsilon   float64
	ExportDir string
	Logger    *zap.Logger
}

// outcomeMsg carries a finished round-trip back into Update.
type outcomeMsg struct {
	out session.Outcome
}

// Model is the bubbletea model. All state mutation happens in Update; the
// commands it returns only perform I/O.
type Model struct {
	ctx    context.Context
	d      *session.Dispatcher
	cat    *msgcat.Catalog
	proj   *render.Projector
	format *render.Formatter
	logger *zap.Logger
	now    func() time.Time

	opponent  int
	mode      int
	episodes  int
	epsilon   float64
	arenaX    int
	arenaO    int
	games     int
	exportDir string
}

func New(ctx context.Context, d *session.Dispatcher, cat *msgcat.Catalog, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Episodes < 1 {
		opts.Episodes = 1000
	}
	if opts.Games < 1 {
		opts.Games = 200
	}
	return Model{
		ctx:       ctx,
		d:         d,
		cat:       cat,
		proj:      render.NewProjector(cat),
		format:    render.NewFormatter(),
		logger:    opts.Logger,
		now:       time.Now,
		opponent:  agentIndex(opts.Opponent),
		episodes:  opts.Episodes,
		epsilon:   clamp01(opts.Epsilon),
		arenaX:    agentIndex(tttdto.AgentRL),
		arenaO:    agentIndex(tttdto.AgentMinimax),
		games:     opts.Games,
		exportDir: opts.ExportDir,
	}
}

func (m Model) Init() tea.Cmd {
	return m.issue(m.d.Bootstrap())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.onKey(msg)
	case outcomeMsg:
		next := m.d.Complete(msg.out)
		if msg.out.Workflow() == session.WorkflowGetEpsilon {
			if v := m.d.State().Epsilon().Value; v != nil {
				m.epsilon = math.Round(*v*100) / 100
			}
		}
		return m, m.issue(next)
	}
	return m, nil
}

func (m Model) onKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := k.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m, m.issue(m.d.Move(int(key[0] - '1')))
	case "x":
		return m, m.issue(m.d.NewGame(tttdto.MarkX, agents[m.opponent], m.d.RemoteURL()))
	case "o":
		return m, m.issue(m.d.NewGame(tttdto.MarkO, agents[m.opponent], m.d.RemoteURL()))
	case "b":
		m.opponent = (m.opponent + 1) % len(agents)
	case "m":
		m.mode = (m.mode + 1) % len(session.Modes)
	case "[":
		m.episodes = max(1, m.episodes-episodeStep)
	case "]":
		m.episodes += episodeStep
	case "-":
		m.epsilon = clamp01(m.epsilon - epsilonStep)
	case "+", "=":
		m.epsilon = clamp01(m.epsilon + epsilonStep)
	case "t":
		return m, m.issue(m.d.Train(m.episodes, string(session.Modes[m.mode]), m.epsilon))
	case "e":
		return m, m.issue(m.d.SetEpsilon(m.epsilon))
	case "r":
		return m, m.issue(m.d.RefreshEpsilon())
	case "X":
		m.arenaX = (m.arenaX + 1) % len(agents)
	case "O":
		m.arenaO = (m.arenaO + 1) % len(agents)
	case "{":
		m.games = max(1, m.games-gamesStep)
	case "}":
		m.games += gamesStep
	case "a":
		return m, m.issue(m.d.Arena(agents[m.arenaX], agents[m.arenaO], m.games, m.d.RemoteURL()))
	case "p":
		m.export()
	}
	return m, nil
}

// issue wraps a call into a command; nil calls mean nothing was sent.
func (m Model) issue(call *session.Call) tea.Cmd {
	if call == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg{out: call.Do(ctx)}
	}
}

func (m Model) export() {
	view := m.proj.Project(m.d.State())
	path, err := render.SaveBoardPNG(m.ctx, m.exportDir, view, m.now())
	if err != nil {
		m.logger.Warn("board_export_failed", zap.Error(err))
		m.d.State().Notify(m.cat.Text("export.failed", map[string]any{"Err": err.Error()}), session.ToneBad)
		return
	}
	m.logger.Info("board_exported", zap.String("path", path))
	m.d.State().Notify(m.cat.Text("export.saved", map[string]any{"Path": path}), session.ToneGood)
}

func (m Model) View() string {
	return m.format.Text(m.proj.Project(m.d.State()), m.help())
}

func (m Model) help() string {
	remote := m.d.RemoteURL()
	if remote == "" {
		remote = "(none)"
	}
	return fmt.Sprintf(
		"opponent=%s  mode=%s  episodes=%d  ε=%.2f  arena X=%s O=%s games=%d  remote=%s\n"+
			"1-9 play · x/o new game · b opponent · t train · m mode · [ ] episodes · - + ε · e apply ε · r refresh ε\n"+
			"a arena · X/O contestants · { } games · p export png · q quit",
		agents[m.opponent], session.Modes[m.mode], m.episodes, m.epsilon,
		agents[m.arenaX], agents[m.arenaO], m.games, remote,
	)
}

func agentIndex(k tttdto.AgentKind) int {
	for i, a := range agents {
		if a == k {
			return i
		}
	}
	return 0
}

func clamp01(v float64) float64 {
	v = math.Round(v*100) / 100
	return math.Min(1, math.Max(0, v))
}
