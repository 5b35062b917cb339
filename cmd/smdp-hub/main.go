package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mbocsi/smdp/config"
	"github.com/mbocsi/smdp/server"
	"github.com/mbocsi/smdp/services"
	"github.com/mbocsi/smdp/web"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	listenAddr string
	httpAddr   string
	logLevel   string
	enableMCP  bool
	enableMDNS bool
)

var rootCmd = &cobra.Command{
	Use:   "smdp-hub",
	Short: "SMDP hub: device registry and dispatcher over UDP",
	Long: `smdp-hub listens for SMDP datagrams, keeps a registry of the devices
that registered with it, acknowledges registrations and records state
reports. Optionally it serves a JSON/websocket API, an MCP stdio server and
an mDNS advertisement so devices can find it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cfg)
	},
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.ListenAddr = listenAddr
	}
	if flags.Changed("http") {
		cfg.HTTPAddr = httpAddr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("mcp") {
		cfg.MCP = enableMCP
	}
	if flags.Changed("mdns") {
		cfg.MDNS = enableMDNS
	}
}

func run(cfg *config.Config) error {
	// stdout belongs to the MCP protocol when it is enabled.
	logOut := os.Stdout
	if cfg.MCP {
		logOut = os.Stderr
	}
	if _, err := config.SetupLogger(logOut, cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	opts := server.HubServerOptions{}
	if cfg.MCP {
		opts.MCPServer = server.NewMCPServer()
	}
	if cfg.MDNS {
		port, err := server.PortOf(cfg.ListenAddr)
		if err != nil {
			return fmt.Errorf("listen_addr %q: %w", cfg.ListenAddr, err)
		}
		opts.Advertiser = server.NewAdvertiser(cfg.MDNSInstance, port)
	}

	udp := server.NewUDPTransport(cfg.ListenAddr)
	udp.SetName("SMDP UDP listener")
	udp.SetDescription("Device registration and state reports")
	udp.SetReadBuffer(cfg.ReadBuffer)

	hub := server.NewHubServer(opts)
	hub.RegisterTransport(udp)

	if cfg.HTTPAddr != "" {
		webClient := web.NewWebClient(services.NewServiceManager(hub).GetServices())
		go func() {
			if err := webClient.Start(cfg.HTTPAddr); err != nil {
				slog.Error("Web server stopped", "error", err.Error())
			}
		}()
		defer webClient.Shutdown()
	}

	slog.Info("Starting SMDP hub", "listen_addr", cfg.ListenAddr, "http_addr", cfg.HTTPAddr, "mcp", cfg.MCP, "mdns", cfg.MDNS)
	if err := hub.Start(); err != nil {
		slog.Error("Error running SMDP hub", "error", err.Error())
		return err
	}
	slog.Info("SMDP hub stopped", "stats", hub.GetDispatcher().Stats())
	return nil
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file")
	flags.StringVarP(&listenAddr, "listen", "l", "", "UDP listen address (default \"0.0.0.0:5555\")")
	flags.StringVar(&httpAddr, "http", "", "serve the JSON/websocket API on this address")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default \"debug\")")
	flags.BoolVar(&enableMCP, "mcp", false, "serve MCP tools over stdio")
	flags.BoolVar(&enableMDNS, "mdns", false, "advertise the hub over mDNS")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
