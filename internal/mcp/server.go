package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"roi-insight/internal/config"
	"roi-insight/internal/dataset"
	"roi-insight/internal/roi"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "roi-insight"

// Server exposes the analysis reducers over datasets in the store as MCP tools.
type Server struct {
	store         *dataset.Store
	options       roi.Options
	enableMermaid bool
	sdk           *mcpsdk.Server
}

// NewServer creates a new MCP server with every tool registered.
func NewServer(cfg *config.AppConfig, store *dataset.Store, version string) *Server {
	s := &Server{
		store:         store,
		options:       cfg.Analysis,
		enableMermaid: cfg.EnableMermaidCharts,
		sdk: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Start serves JSON-RPC over stdio until the client disconnects or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Str("datasets", s.store.Dir()).Msg("MCP Server starting Stdio loop")
	if err := s.sdk.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.sdk.Connect(ctx, t, nil)
}

func (s *Server) session(name, adoptionDate string, keepUndated bool) (*roi.AnalysisSession, error) {
	if name == "" {
		return nil, fmt.Errorf("dataset is required")
	}
	opts := s.options
	if keepUndated {
		opts.KeepUndated = true
	}
	session, err := s.store.Analyze(name, adoptionDate, opts)
	if err != nil {
		log.Warn().Err(err).Str("dataset", name).Str("adoptionDate", adoptionDate).Msg("Analysis failed")
		return nil, err
	}
	return session, nil
}

// textResult renders data as indented JSON text content alongside the structured output.
func textResult(data any) (*mcpsdk.CallToolResult, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(out)}},
	}, nil
}
