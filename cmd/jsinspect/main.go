package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/standardbeagle/jsinspect/internal/config"
	"github.com/standardbeagle/jsinspect/internal/debuglog"
	"github.com/standardbeagle/jsinspect/internal/inspector"
	"github.com/standardbeagle/jsinspect/internal/mcp"
	"github.com/standardbeagle/jsinspect/internal/prompt"
)

var (
	// Version is set at build time
	Version = "dev"

	configPath string
	serverURL  string
	debugMode  bool
	jsonOutput bool
	appID      string
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:   "jsinspect",
	Short: "Find and open debuggers for JavaScript runtimes attached to a Metro dev server",
	Long: `jsinspect lists the JavaScript runtimes (Hermes pages) connected to a running
Metro dev server and opens React Native DevTools for the one you pick.

Examples:
  jsinspect list                          # Show debuggable targets, newest first
  jsinspect open                          # Pick a target and open DevTools
  jsinspect open --app-id dev.expo.app    # Open the newest runtime of an app
  jsinspect --url http://10.0.0.5:8081 list
  jsinspect mcp                           # Serve the tools over MCP stdio`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List debuggable targets",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Select a target and open React Native DevTools for it",
	Args:  cobra.NoArgs,
	RunE:  runOpen,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server on stdio exposing the list and open tools",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

var cfg *config.Config

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.jsinspect/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "url", "u", "", "Dev server origin (default http://localhost:8081)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Log discovery and evaluation details to stderr")

	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print targets as JSON")

	openCmd.Flags().StringVar(&appID, "app-id", "", "Open the newest runtime of this application ID")
	openCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Pick the newest target instead of prompting")

	rootCmd.AddCommand(listCmd, openCmd, mcpCmd)
	rootCmd.Version = Version
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if debugMode {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	debuglog.SetEnabled(cfg.Debug)
	return nil
}

func newInspector(chooser prompt.Chooser) *inspector.Inspector {
	return inspector.New(
		inspector.WithEvaluateTimeout(cfg.EvaluateTimeout()),
		inspector.WithChooser(chooser),
	)
}

func runList(cmd *cobra.Command, args []string) error {
	targets, err := newInspector(prompt.FirstChooser{}).QueryAll(cmd.Context(), cfg.ServerURL)
	if err != nil {
		return err
	}

	if jsonOutput {
		if targets == nil {
			targets = []inspector.Target{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(targets)
	}

	if len(targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No debug targets found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEVICE\tID\tAPP\tTITLE")
	for _, target := range targets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", target.DisplayName(), target.ID, target.AppID, target.Title)
	}
	return w.Flush()
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var chooser prompt.Chooser = prompt.NewTerminalChooser()
	if assumeYes {
		chooser = prompt.FirstChooser{}
	}
	insp := newInspector(chooser)

	var target *inspector.Target
	if appID != "" {
		found, err := insp.QueryApp(ctx, cfg.ServerURL, appID)
		if err != nil {
			return err
		}
		target = found
	} else {
		targets, err := insp.QueryAll(ctx, cfg.ServerURL)
		if err != nil {
			return err
		}
		selected, err := insp.Prompt(ctx, targets)
		if errors.Is(err, prompt.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		target = selected
	}

	if target == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No debug targets found")
		return nil
	}

	ok, err := insp.Open(ctx, cfg.ServerURL, *target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("failed to open React Native DevTools for %s", target.DisplayName())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Opened React Native DevTools for %s\n", target.DisplayName())
	return nil
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol; debug logs already go to stderr
	srv := mcp.NewServer(newInspector(prompt.FirstChooser{}), cfg.ServerURL, Version)
	return mcp.ServeStdio(srv)
}
