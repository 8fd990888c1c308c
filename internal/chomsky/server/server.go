package server

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
	"github.com/msto63/arcanequest/internal/chomsky/service"
	"github.com/msto63/arcanequest/internal/chomsky/store"
	"github.com/msto63/arcanequest/pkg/core/config"
	coreGrpc "github.com/msto63/arcanequest/pkg/core/grpc"
	"github.com/msto63/arcanequest/pkg/core/health"
	"github.com/msto63/arcanequest/pkg/core/logging"
	"github.com/msto63/arcanequest/pkg/core/version"
)

// HistoryRequest filters the recorded runs
type HistoryRequest struct {
	Name   string    `json:"name,omitempty"`
	Since  time.Time `json:"since"`
	Failed bool      `json:"failed,omitempty"`
	Limit  int       `json:"limit,omitempty"`
}

// HistoryResponse lists recorded runs, newest first
type HistoryResponse struct {
	Runs []*store.Run `json:"runs"`
}

// Server is the chomsky gRPC server
type Server struct {
	service    *service.Service
	grpc       *coreGrpc.Server
	health     *health.Registry
	grpcHealth *grpchealth.Server
	logger     *logging.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host             string
	Port             int
	MaxRecvMsgSize   int
	Keepalive        time.Duration
	EnableReflection bool

	// HistoryPath opens a SQLite run history when Service.Store is unset
	HistoryPath string

	Service service.Config
	Logger  *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	grpcCfg := coreGrpc.DefaultServerConfig()
	return Config{
		Host:             grpcCfg.Host,
		Port:             grpcCfg.Port,
		MaxRecvMsgSize:   grpcCfg.MaxRecvMsgSize,
		Keepalive:        grpcCfg.KeepaliveInterval,
		EnableReflection: true,
		Service:          service.DefaultConfig(),
	}
}

// ConfigFrom derives the server configuration from the application config
func ConfigFrom(cfg *config.Config, logger *logging.Logger) Config {
	out := DefaultConfig()
	out.Host = cfg.Server.Host
	out.Port = cfg.Server.Port
	out.MaxRecvMsgSize = cfg.Server.MaxRecvMsgSize
	out.Keepalive = cfg.Server.Keepalive.Duration
	out.Logger = logger

	out.Service.Frontend = cfg.FrontendOptions()
	out.Service.Frontend.Logger = logger
	out.Service.MaxSourceSize = cfg.Server.MaxSourceSize
	out.Service.Logger = logger
	if cfg.History.Enabled {
		out.HistoryPath = cfg.History.Path
	}
	return out
}

// New creates a new chomsky server
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger.WithField("component", "chomsky-server")

	if cfg.Service.Store == nil && cfg.HistoryPath != "" {
		st, err := store.NewSQLiteRunStore(store.SQLiteRunConfig{Path: cfg.HistoryPath})
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to open run history").
				WithOperation("server.New")
		}
		cfg.Service.Store = st
	}
	if cfg.Service.Logger == nil {
		cfg.Service.Logger = cfg.Logger
	}
	svc := service.NewService(cfg.Service)

	grpcCfg := coreGrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.Port
	grpcCfg.EnableReflection = cfg.EnableReflection
	grpcCfg.Logger = cfg.Logger
	if cfg.MaxRecvMsgSize > 0 {
		grpcCfg.MaxRecvMsgSize = cfg.MaxRecvMsgSize
	}
	if cfg.Keepalive > 0 {
		grpcCfg.KeepaliveInterval = cfg.Keepalive
	}
	grpcServer := coreGrpc.NewServer(grpcCfg)

	healthRegistry := health.NewRegistry("chomsky", version.Chomsky)
	healthRegistry.Register(health.PingCheck("history", svc.Ping))
	healthRegistry.RegisterFunc("pipeline", func(ctx context.Context) health.CheckResult {
		res := svc.Engine().Analyze("health", "probe = 1 + 2")
		if !res.Valid() {
			return health.CheckResult{
				Name:    "pipeline",
				Status:  health.StatusUnhealthy,
				Message: res.Diagnostics.String(),
			}
		}
		return health.CheckResult{
			Name:    "pipeline",
			Status:  health.StatusHealthy,
			Message: "front-end is operational",
			Details: map[string]interface{}{"token_cache": svc.TokenCacheStats()},
		}
	})

	server := &Server{
		service:    svc,
		grpc:       grpcServer,
		health:     healthRegistry,
		grpcHealth: grpchealth.NewServer(),
		logger:     logger,
		config:     cfg,
	}

	RegisterLanguageServer(grpcServer.GRPCServer(), server)
	healthpb.RegisterHealthServer(grpcServer.GRPCServer(), server.grpcHealth)

	return server, nil
}

// Tokenize implements LanguageServer.Tokenize
func (s *Server) Tokenize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.TokenizeRequest
	if err := DecodeStruct(in, &req); err != nil {
		return nil, invalidRequest(err)
	}
	resp, err := s.service.Tokenize(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return s.reply(resp)
}

// Analyze implements LanguageServer.Analyze
func (s *Server) Analyze(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.AnalyzeRequest
	if err := DecodeStruct(in, &req); err != nil {
		return nil, invalidRequest(err)
	}
	resp, err := s.service.Analyze(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return s.reply(resp)
}

// History implements LanguageServer.History
func (s *Server) History(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req HistoryRequest
	if err := DecodeStruct(in, &req); err != nil {
		return nil, invalidRequest(err)
	}
	runs, err := s.service.History(ctx, store.RunFilter{
		Name:   req.Name,
		Since:  req.Since,
		Failed: req.Failed,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	return s.reply(HistoryResponse{Runs: runs})
}

// Stats implements LanguageServer.Stats
func (s *Server) Stats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	stats, err := s.service.Stats(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return s.reply(stats)
}

// Health implements LanguageServer.Health
func (s *Server) Health(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.reply(s.CheckHealth(ctx))
}

func (s *Server) reply(v interface{}) (*structpb.Struct, error) {
	out, err := EncodeStruct(v)
	if err != nil {
		s.logger.Error("Failed to encode reply", "error", err)
		return nil, toStatus(mdwerror.Wrap(err, "failed to encode reply").
			WithCode(mdwerror.CodeInternal).
			WithOperation("server.reply"))
	}
	return out, nil
}

// CheckHealth runs the health checks and publishes the outcome through
// the standard gRPC health service
func (s *Server) CheckHealth(ctx context.Context) *health.Report {
	report := s.health.Check(ctx)

	serving := healthpb.HealthCheckResponse_SERVING
	if !report.Serving() {
		serving = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn("Health check failed", "report", report.String())
	}
	s.grpcHealth.SetServingStatus("", serving)
	s.grpcHealth.SetServingStatus(ServiceName, serving)
	return report
}

// Start starts the server and blocks
func (s *Server) Start() error {
	s.CheckHealth(context.Background())
	s.logger.Info("Starting chomsky server", "address", s.grpc.Address())
	return s.grpc.Start()
}

// StartAsync starts the server in the background
func (s *Server) StartAsync() error {
	s.CheckHealth(context.Background())
	return s.grpc.StartAsync()
}

// Serve serves on an existing listener until stopped
func (s *Server) Serve(listener net.Listener) error {
	s.CheckHealth(context.Background())
	return s.grpc.Serve(listener)
}

// Stop gracefully stops the server and closes the run history
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping chomsky server")
	s.grpcHealth.Shutdown()
	s.grpc.StopWithTimeout(ctx)
	return s.service.Close()
}

// Address returns the listening address
func (s *Server) Address() string {
	return s.grpc.Address()
}

// Service returns the underlying language service
func (s *Server) Service() *service.Service {
	return s.service
}

// GRPCServer returns the underlying gRPC server
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpc.GRPCServer()
}

// HealthRegistry returns the health registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
