package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/msto63/arcanequest/foundation/arcane"
	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/diag"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
	"github.com/msto63/arcanequest/internal/chomsky/store"
	"github.com/msto63/arcanequest/pkg/core/cache"
	"github.com/msto63/arcanequest/pkg/core/logging"
)

// TokenizeRequest asks for the token stream of a source text
type TokenizeRequest struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
}

// TokenView is the transport form of a scanner token
type TokenView struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Unary  bool   `json:"unary,omitempty"`
}

// TokenizeResponse carries the tokens and the lexical problems among them
type TokenizeResponse struct {
	Tokens []TokenView `json:"tokens"`
	Errors int         `json:"errors"`
}

// AnalyzeRequest asks for a complete front-end run
type AnalyzeRequest struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`

	// OmitTree drops the syntax tree from the response
	OmitTree bool `json:"omit_tree,omitempty"`
}

// AnalyzeResponse is the outcome of one analysis
type AnalyzeResponse struct {
	RunID       string                 `json:"run_id"`
	Name        string                 `json:"name,omitempty"`
	Valid       bool                   `json:"valid"`
	Tokens      int                    `json:"tokens"`
	Statements  int                    `json:"statements"`
	Program     map[string]interface{} `json:"program,omitempty"`
	Diagnostics diag.List              `json:"diagnostics"`
	Counts      map[string]int         `json:"counts"`
	DurationMS  float64                `json:"duration_ms"`
}

// Config holds service configuration
type Config struct {
	Frontend      arcane.Options
	MaxSourceSize int

	// TokenCache memoizes Tokenize replies; MaxItems 0 disables it
	TokenCache cache.Config

	// Store records every analysis when set
	Store  store.RunStore
	Logger *logging.Logger
}

// DefaultConfig returns default service configuration
func DefaultConfig() Config {
	return Config{
		Frontend:      arcane.DefaultOptions(),
		MaxSourceSize: 1024 * 1024, // 1MB
		TokenCache:    cache.DefaultConfig(),
	}
}

// Service implements the language service operations independent of the
// transport
type Service struct {
	engine        *arcane.Engine
	store         store.RunStore
	tokens        *cache.Cache[*TokenizeResponse]
	logger        *logging.Logger
	maxSourceSize int
}

// NewService creates the language service
func NewService(cfg Config) *Service {
	if cfg.Frontend.Logger == nil {
		cfg.Frontend.Logger = cfg.Logger
	}
	svc := &Service{
		engine:        arcane.NewEngine(cfg.Frontend),
		store:         cfg.Store,
		logger:        cfg.Logger.WithField("component", "chomsky-service"),
		maxSourceSize: cfg.MaxSourceSize,
	}
	if cfg.TokenCache.MaxItems > 0 {
		svc.tokens = cache.New[*TokenizeResponse](cfg.TokenCache)
	}
	return svc
}

// Engine returns the pipeline used by the service
func (s *Service) Engine() *arcane.Engine {
	return s.engine
}

// HistoryEnabled reports whether runs are recorded
func (s *Service) HistoryEnabled() bool {
	return s.store != nil
}

func (s *Service) validate(ctx context.Context, source, op string) error {
	if err := contextError(ctx, op); err != nil {
		return err
	}
	if strings.TrimSpace(source) == "" {
		return mdwerror.New("source is required").
			WithCode(mdwerror.CodeRequiredField).
			WithOperation(op).
			WithDetail("field", "source")
	}
	if s.maxSourceSize > 0 && len(source) > s.maxSourceSize {
		return mdwerror.Newf("source exceeds %d bytes", s.maxSourceSize).
			WithCode(mdwerror.CodeSourceTooLarge).
			WithOperation(op).
			WithDetail("size", len(source)).
			WithDetail("limit", s.maxSourceSize)
	}
	return nil
}

func contextError(ctx context.Context, op string) error {
	err := ctx.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return mdwerror.Wrap(err, "request deadline exceeded").
			WithCode(mdwerror.CodeTimeout).
			WithOperation(op)
	default:
		return mdwerror.Wrap(err, "request canceled").
			WithCode(mdwerror.CodeCanceled).
			WithOperation(op)
	}
}

// TokenCacheStats reports the Tokenize cache counters
func (s *Service) TokenCacheStats() cache.Stats {
	if s.tokens == nil {
		return cache.Stats{}
	}
	return s.tokens.Stats()
}

// Tokenize scans the source without parsing it. Replies may be shared
// between callers and must not be modified.
func (s *Service) Tokenize(ctx context.Context, req TokenizeRequest) (*TokenizeResponse, error) {
	if err := s.validate(ctx, req.Source, "chomsky.tokenize"); err != nil {
		return nil, err
	}

	if s.tokens == nil {
		return s.tokenize(req), nil
	}
	return s.tokens.GetOrSet(cache.Key(req.Source), func() (*TokenizeResponse, error) {
		return s.tokenize(req), nil
	})
}

func (s *Service) tokenize(req TokenizeRequest) *TokenizeResponse {
	tokens := s.engine.Tokenize(req.Source)
	resp := &TokenizeResponse{Tokens: ViewTokens(tokens)}
	for _, t := range tokens {
		if t.Kind == scanner.UNKNOWN {
			resp.Errors++
		}
	}

	s.logger.Debug("Tokenized source", "name", req.Name, "tokens", len(tokens), "errors", resp.Errors)
	return resp
}

// Analyze runs the full front-end over the source and records the run
// when history is enabled. A failure to record is logged, not returned.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	if err := s.validate(ctx, req.Source, "chomsky.analyze"); err != nil {
		return nil, err
	}

	result := s.engine.Analyze(req.Name, req.Source)

	if s.store != nil {
		if err := s.store.Record(ctx, store.RunFromResult(result)); err != nil {
			s.logger.Warn("Failed to record run", "run", result.RunID, "error", err)
		}
	}

	resp := NewAnalyzeResponse(result, !req.OmitTree)

	s.logger.Info("Analyzed source",
		"run", resp.RunID,
		"name", resp.Name,
		"valid", resp.Valid,
		"diagnostics", len(resp.Diagnostics))
	return resp, nil
}

// ViewTokens converts scanner tokens into their transport form
func ViewTokens(tokens []scanner.Token) []TokenView {
	views := make([]TokenView, len(tokens))
	for i, t := range tokens {
		views[i] = TokenView{
			Kind:   t.Kind.String(),
			Lexeme: t.Lexeme,
			Line:   t.Line,
			Column: t.Column,
			Unary:  t.Unary,
		}
	}
	return views
}

// NewAnalyzeResponse converts a pipeline result into its transport form
func NewAnalyzeResponse(result *arcane.Result, withTree bool) *AnalyzeResponse {
	resp := &AnalyzeResponse{
		RunID:       result.RunID,
		Name:        result.Name,
		Valid:       result.Valid(),
		Tokens:      len(result.Tokens),
		Statements:  result.Statements,
		Diagnostics: result.Diagnostics,
		Counts:      make(map[string]int, len(result.Counts)),
		DurationMS:  float64(result.Duration) / float64(time.Millisecond),
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = diag.List{}
	}
	for origin, n := range result.Counts {
		resp.Counts[origin.String()] = n
	}
	if withTree {
		resp.Program = ast.ToMap(result.Program)
	}
	return resp
}

func (s *Service) history(op string) error {
	if s.store == nil {
		return mdwerror.New("run history is disabled").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation(op)
	}
	return nil
}

// History lists recorded runs, newest first
func (s *Service) History(ctx context.Context, filter store.RunFilter) ([]*store.Run, error) {
	if err := s.history("chomsky.history"); err != nil {
		return nil, err
	}
	return s.store.Query(ctx, filter)
}

// Run returns a recorded run with its diagnostics
func (s *Service) Run(ctx context.Context, id string) (*store.Run, error) {
	if err := s.history("chomsky.run"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, mdwerror.New("run id is required").
			WithCode(mdwerror.CodeRequiredField).
			WithOperation("chomsky.run").
			WithDetail("field", "id")
	}
	return s.store.Get(ctx, id)
}

// Stats summarizes the recorded runs
func (s *Service) Stats(ctx context.Context) (*store.RunStats, error) {
	if err := s.history("chomsky.stats"); err != nil {
		return nil, err
	}
	return s.store.Stats(ctx)
}

// Prune removes runs older than the retention period
func (s *Service) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if err := s.history("chomsky.prune"); err != nil {
		return 0, err
	}
	n, err := s.store.Prune(ctx, olderThan)
	if err == nil && n > 0 {
		s.logger.Info("Pruned run history", "removed", n, "older_than", olderThan)
	}
	return n, err
}

// Ping verifies that the history store answers
func (s *Service) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	_, err := s.store.Stats(ctx)
	return err
}

// Close releases the history store
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
