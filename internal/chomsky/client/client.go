package client

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
	"github.com/msto63/arcanequest/internal/chomsky/server"
	"github.com/msto63/arcanequest/internal/chomsky/service"
	"github.com/msto63/arcanequest/internal/chomsky/store"
	coreGrpc "github.com/msto63/arcanequest/pkg/core/grpc"
	"github.com/msto63/arcanequest/pkg/core/health"
	"github.com/msto63/arcanequest/pkg/core/logging"
)

// Client talks to a chomsky language server
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	logger  *logging.Logger
}

// Config holds client configuration
type Config struct {
	Address string
	Timeout time.Duration
	Logger  *logging.Logger
}

// New connects to the server at cfg.Address. Extra dial options are
// appended to the defaults.
func New(cfg Config, opts ...grpc.DialOption) (*Client, error) {
	grpcCfg := coreGrpc.DefaultClientConfig(cfg.Address)
	grpcCfg.Logger = cfg.Logger
	if cfg.Timeout > 0 {
		grpcCfg.Timeout = cfg.Timeout
	}

	conn, err := coreGrpc.Dial(grpcCfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:    conn,
		timeout: grpcCfg.Timeout,
		logger:  cfg.Logger.WithField("component", "chomsky-client"),
	}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Tokenize returns the token stream of source
func (c *Client) Tokenize(ctx context.Context, name, source string) (*service.TokenizeResponse, error) {
	var resp service.TokenizeResponse
	if err := c.call(ctx, server.MethodTokenize, service.TokenizeRequest{Name: name, Source: source}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analyze runs the front-end on the server
func (c *Client) Analyze(ctx context.Context, req service.AnalyzeRequest) (*service.AnalyzeResponse, error) {
	var resp service.AnalyzeResponse
	if err := c.call(ctx, server.MethodAnalyze, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History lists the runs recorded by the server
func (c *Client) History(ctx context.Context, filter store.RunFilter) ([]*store.Run, error) {
	req := server.HistoryRequest{
		Name:   filter.Name,
		Since:  filter.Since,
		Failed: filter.Failed,
		Limit:  filter.Limit,
	}
	var resp server.HistoryResponse
	if err := c.call(ctx, server.MethodHistory, req, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}

// Stats returns the server's history statistics
func (c *Client) Stats(ctx context.Context) (*store.RunStats, error) {
	var stats store.RunStats
	if err := c.call(ctx, server.MethodStats, struct{}{}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health returns the server's detailed health report
func (c *Client) Health(ctx context.Context) (*health.Report, error) {
	var report health.Report
	if err := c.call(ctx, server.MethodHealth, struct{}{}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Ping asks the standard gRPC health service whether the language
// service is serving
func (c *Client) Ping(ctx context.Context) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: server.ServiceName})
	if err != nil {
		return false, fromStatus(err, "chomsky.ping")
	}
	return resp.Status == healthpb.HealthCheckResponse_SERVING, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) call(ctx context.Context, method string, req, resp interface{}) error {
	in, err := server.EncodeStruct(req)
	if err != nil {
		return mdwerror.Wrap(err, "failed to encode request").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(method)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return fromStatus(err, method)
	}
	if err := server.DecodeStruct(out, resp); err != nil {
		return mdwerror.Wrap(err, "failed to decode reply").
			WithCode(mdwerror.CodeTransport).
			WithOperation(method)
	}
	return nil
}

// fromStatus converts a gRPC status error back into a coded error
func fromStatus(err error, op string) error {
	st, _ := status.FromError(err)

	code := mdwerror.CodeTransport
	switch st.Code() {
	case codes.InvalidArgument:
		code = mdwerror.CodeInvalidInput
	case codes.ResourceExhausted:
		code = mdwerror.CodeSourceTooLarge
	case codes.NotFound:
		code = mdwerror.CodeNotFound
	case codes.Unavailable:
		code = mdwerror.CodeServiceUnavailable
	case codes.DeadlineExceeded:
		code = mdwerror.CodeTimeout
	case codes.Canceled:
		code = mdwerror.CodeCanceled
	case codes.DataLoss:
		code = mdwerror.CodeDataCorruption
	}

	return mdwerror.New(st.Message()).
		WithCode(code).
		WithOperation(op).
		WithDetail("grpc_code", st.Code().String())
}
