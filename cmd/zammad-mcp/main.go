package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zammad-tools/zammad-mcp/internal/api"
	"github.com/zammad-tools/zammad-mcp/internal/config"
	"github.com/zammad-tools/zammad-mcp/internal/mcp"
	"github.com/zammad-tools/zammad-mcp/internal/zammad"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "zammad-mcp",
	Short: "MCP server bridging AI assistants to a Zammad helpdesk",
	Long: `zammad-mcp exposes a Zammad installation to AI assistants over the
Model Context Protocol: typed tools for tickets, users, organizations,
tags, and attachments, with sanitization and URL policy enforced on
every call.

Configuration comes from ZAMMAD_* environment variables or a .env file
in the working directory.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var (
	modeFlag        string
	hostFlag        string
	portFlag        int
	envFileFlag     string
	sslFlag         bool
	sslCertFlag     string
	sslKeyFlag      string
	sslGenerateFlag bool
	skipCheckFlag   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server on stdio (the default, for MCP hosts that spawn
the process) or HTTP (for shared deployments).`,
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("zammad-mcp %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func init() {
	serveCmd.Flags().StringVar(&modeFlag, "mode", "stdio", "Transport mode: stdio or http")
	serveCmd.Flags().StringVar(&hostFlag, "host", "127.0.0.1", "Bind address for http mode")
	serveCmd.Flags().IntVar(&portFlag, "port", 8080, "Port for http mode")
	serveCmd.Flags().StringVar(&envFileFlag, "env-file", ".env", "Path to the .env file")
	serveCmd.Flags().BoolVar(&sslFlag, "ssl", false, "Serve HTTPS in http mode")
	serveCmd.Flags().StringVar(&sslCertFlag, "ssl-cert", "certs/server.crt", "TLS certificate path")
	serveCmd.Flags().StringVar(&sslKeyFlag, "ssl-key", "certs/server.key", "TLS private key path")
	serveCmd.Flags().BoolVar(&sslGenerateFlag, "ssl-generate", false, "Generate a self-signed certificate when none exists")
	serveCmd.Flags().BoolVar(&skipCheckFlag, "skip-connectivity-check", false, "Skip the startup connectivity check")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(envFileFlag)
	if err != nil {
		return err
	}

	client, err := zammad.New(cfg.ClientOptions())
	if err != nil {
		return err
	}

	if !skipCheckFlag {
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		user, err := client.GetCurrentUser(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("connectivity check against %s failed: %w", client.BaseURL(), err)
		}
		log.Printf("connected to %s as %s", client.BaseURL(), user.DisplayName())
	}

	// A rewritten .env only affects the lookup tables at runtime;
	// credential changes need a restart.
	if stop, err := config.Watch(envFileFlag, client.RefreshCache); err == nil {
		defer stop()
	}

	server := mcp.NewServer(client)

	switch modeFlag {
	case "stdio":
		log.SetOutput(os.Stderr)
		return server.RunStdio(cmd.Context(), os.Stdin, os.Stdout)
	case "http":
		addr := fmt.Sprintf("%s:%d", hostFlag, portFlag)
		httpServer := api.New(server)
		if sslFlag {
			if sslGenerateFlag {
				if err := api.EnsureCertificate(sslCertFlag, sslKeyFlag); err != nil {
					return err
				}
			}
			log.Printf("serving HTTPS on %s", addr)
			return httpServer.RunTLS(addr, sslCertFlag, sslKeyFlag)
		}
		log.Printf("serving HTTP on %s", addr)
		return httpServer.Run(addr)
	default:
		return fmt.Errorf("unknown mode %q: use stdio or http", modeFlag)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
