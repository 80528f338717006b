// Package mcp exposes the gate over the Model Context Protocol so an
// orchestrator (or a human driving one) can query and steer enforcement
// through tools instead of process hooks.
package mcp

import (
	"context"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/swarmgate/swarmgate/internal/auditor"
	"github.com/swarmgate/swarmgate/internal/config"
	"github.com/swarmgate/swarmgate/internal/gate"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
	SessionID  string
}

// Server wraps the MCP SDK server around the gatekeeper and auditor.
type Server struct {
	mcpServer  *mcpsdk.Server
	configPath string
	sessionID  string

	mu         sync.Mutex
	cfg        *config.Config
	gatekeeper *gate.Gatekeeper
	auditor    *auditor.Auditor
}

// New creates an MCP server with loaded configuration and registered tools.
func New(sc Config) (*Server, error) {
	cfg, err := config.Load(sc.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, err := auditor.New(cfg.Verification)
	if err != nil {
		return nil, fmt.Errorf("failed to build auditor: %w", err)
	}

	sessionID := sc.SessionID
	if sessionID == "" {
		sessionID = "mcp"
	}

	s := &Server{
		configPath: sc.ConfigPath,
		sessionID:  sessionID,
		cfg:        cfg,
		gatekeeper: gate.New(cfg),
		auditor:    a,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "swarmgate",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the gatekeeper's evidence log.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gatekeeper.Close()
}

// ReloadConfig re-reads the config file and rebuilds the gatekeeper and
// auditor. Called by the Reloader on file changes.
func (s *Server) ReloadConfig() error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a, err := auditor.New(cfg.Verification)
	if err != nil {
		return fmt.Errorf("failed to build auditor: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gatekeeper.Close()
	s.cfg = cfg
	s.gatekeeper = gate.New(cfg)
	s.auditor = a
	return nil
}

// registerTools adds the swarmgate tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "gate_check",
		Description: "Dry-run: classify an action and evaluate it against current session state without recording anything.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "gate_declare",
		Description: "Record an evidence declaration (plan id, work unit status) through the full decision cycle.",
	}, s.handleDeclare)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "gate_status",
		Description: "Report the current session state: enforcement, governing plan, registered work units.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "gate_audit",
		Description: "Run the completion audit against a transcript file and report the verdict per check.",
	}, s.handleAudit)
}
