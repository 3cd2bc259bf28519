package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/umlsync/pkg/mcpserver"
	"github.com/matzehuels/umlsync/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		mcpPath string
		mcpAddr string
		noMCP   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the MCP tools",
		Long: `Serve the HTTP API and the MCP tools.

The JSON API lives under /v1 and the MCP streamable HTTP endpoint is mounted
at --mcp-path on the same listener. With --mcp-addr the MCP endpoint gets a
listener of its own instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("mcp-path") {
				mcpPath = cfg.Server.MCPPath
			}
			return c.runServe(cmd.Context(), addr, mcpPath, mcpAddr, noMCP, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&mcpPath, "mcp-path", "/mcp", "path of the MCP endpoint")
	cmd.Flags().StringVar(&mcpAddr, "mcp-addr", "", "serve MCP on a separate address")
	cmd.Flags().BoolVar(&noMCP, "no-mcp", false, "do not serve MCP tools")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mcpPath, mcpAddr string, noMCP, noCache bool) error {
	base, err := c.baseOptions()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	api := server.New(runner, base, c.Logger)
	g, ctx := errgroup.WithContext(ctx)
	printKeyValue("api", addr+"/v1")

	if !noMCP {
		mcpHandler := mcpserver.Handler(mcpserver.NewService(runner, base))
		if mcpAddr == "" {
			api.Mount(mcpPath, mcpHandler)
			printKeyValue("mcp", addr+mcpPath)
		} else {
			printKeyValue("mcp", mcpAddr)
			g.Go(func() error { return serveMCP(ctx, c, mcpAddr, mcpHandler) })
		}
	}

	g.Go(func() error { return api.ListenAndServe(ctx, addr) })
	return g.Wait()
}

// serveMCP runs the MCP handler on its own listener until ctx is canceled.
func serveMCP(ctx context.Context, c *CLI, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	c.Logger.Info("mcp listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// mcpCommand creates the mcp command.
func (c *CLI) mcpCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdin/stdout",
		Long: `Serve the MCP tools over stdin/stdout.

Intended to be launched by an MCP client. Logs go to stderr so that stdout
carries only protocol messages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			base, err := c.baseOptions()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			c.Logger.Debug("serving mcp on stdio")
			return mcpserver.RunStdio(ctx, mcpserver.NewService(runner, base))
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
