package agentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// HeaderProvider allows injecting per-request headers
type HeaderProvider func() map[string]string

type Client struct {
	baseURL string
	http    *fasthttp.Client
	headers HeaderProvider
	logger  *zap.Logger

	defaultTimeout time.Duration
	trainTimeout   time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

// WithTrainTimeout bounds the long-running train and arena calls.
func WithTrainTimeout(d time.Duration) Option {
	return func(c *Client) { c.trainTimeout = d }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func WithHeaderProvider(h HeaderProvider) Option {
	return func(c *Client) { c.headers = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDial replaces the dialer, e.g. with an in-memory listener.
func WithDial(dial func(addr string) (net.Conn, error)) Option {
	return func(c *Client) { c.http.Dial = dial }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Minute, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 8},
		logger:         zap.NewNop(),
		defaultTimeout: 10 * time.Second,
		trainTimeout:   10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetEpsilon(ctx context.Context) (*tttdto.EpsilonReply, error) {
	var out tttdto.EpsilonReply
	status, err := c.doJSON(ctx, fasthttp.MethodGet, "/api/epsilon", nil, &out, c.defaultTimeout)
	if err != nil {
		return nil, err
	}
	out.HTTPStatus = status
	return &out, nil
}

func (c *Client) SetEpsilon(ctx context.Context, epsilon float64) (*tttdto.EpsilonReply, error) {
	var out tttdto.EpsilonReply
	status, err := c.doJSON(ctx, fasthttp.MethodPost, "/api/epsilon", tttdto.SetEpsilonRequest{Epsilon: epsilon}, &out, c.defaultTimeout)
	if err != nil {
		return nil, err
	}
	out.HTTPStatus = status
	return &out, nil
}

func (c *Client) NewGame(ctx context.Context, req tttdto.NewGameRequest) (*tttdto.GameSnapshot, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Set("bot", string(req.Bot))
	args.Set("human_as", string(req.HumanAs))
	if req.Bot == tttdto.AgentRemote {
		args.Set("remote_url", req.RemoteURL)
	}

	var out tttdto.GameSnapshot
	status, err := c.doJSON(ctx, fasthttp.MethodGet, "/api/new?"+args.String(), nil, &out, c.defaultTimeout)
	if err != nil {
		return nil, err
	}
	out.HTTPStatus = status
	return &out, nil
}

func (c *Client) Move(ctx context.Context, req tttdto.MoveRequest) (*tttdto.GameSnapshot, error) {
	var out tttdto.GameSnapshot
	status, err := c.doJSON(ctx, fasthttp.MethodPost, "/api/move", req, &out, c.defaultTimeout)
	if err != nil {
		return nil, err
	}
	out.HTTPStatus = status
	return &out, nil
}

func (c *Client) Train(ctx context.Context, req tttdto.TrainRequest) (*tttdto.TrainReply, error) {
	var out tttdto.TrainReply
	status, err := c.doJSON(ctx, fasthttp.MethodPost, "/api/train", req, &out, c.trainTimeout)
	if err != nil {
		return nil, err
	}
	out.HTTPStatus = status
	return &out, nil
}

func (c *Client) Arena(ctx context.Context, req tttdto.ArenaRequest) (*tttdto.ArenaReply, error) {
	var out tttdto.ArenaReply
	status, err := c.doJSON(ctx, fasthttp.MethodPost, "/api/arena", req, &out, c.trainTimeout)
	if err != nil {
		return nil, err
	}
	out.HTTPStatus = status
	return &out, nil
}

// doJSON sends one request and decodes the body whatever the status code;
// the caller judges success from the payload. Nothing is retried.
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any, timeout time.Duration) (int, error) {
	url := c.baseURL + path
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	if c.headers != nil {
		for k, v := range c.headers() {
			if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
				req.Header.Set(k, v)
			}
		}
	}

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	started := time.Now()
	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx, timeout)); err != nil {
		c.logger.Warn("agent_request_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return 0, &TransportError{Op: method + " " + path, Err: err}
	}

	status := resp.StatusCode()
	c.logger.Debug("agent_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(started)),
	)

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return status, &TransportError{
			Op:     method + " " + path,
			Status: status,
			Err:    fmt.Errorf("decode response: %w (body=%s)", err, truncate(string(resp.Body()), 256)),
		}
	}
	return status, nil
}

func (c *Client) computeDeadline(ctx context.Context, timeout time.Duration) time.Time {
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	clientDL := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
