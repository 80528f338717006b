package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	gatemcp "github.com/swarmgate/swarmgate/internal/mcp"
)

var mcpSession string

func init() {
	mcpCmd.Flags().StringVar(&mcpSession, "session", "mcp", "Session id declarations are recorded against")
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for orchestrator integration",
	Long: "Runs swarmgate as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes the gate as tools: gate_check, gate_declare, gate_status, gate_audit.\n" +
		"The config file is watched and hot-reloaded on change.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv, err := gatemcp.New(gatemcp.Config{
		ConfigPath: configPath,
		SessionID:  mcpSession,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	reloader, err := gatemcp.NewReloader(srv, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config watch unavailable: %v\n", err)
	} else {
		go reloader.Run(ctx)
	}

	fmt.Fprintln(os.Stderr, "swarmgate MCP server running on stdio")
	return srv.Run(ctx)
}
