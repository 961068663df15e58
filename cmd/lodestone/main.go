// ABOUTME: CLI entrypoint for lodestone with build, serve, browse, mcp, verify-titles, and readme modes.
// ABOUTME: Each subcommand parses its own flag set; exit codes are 0 success, 1 failure, 2 usage error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/2389-research/lodestone/build"
	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/genapi"
	"github.com/2389-research/lodestone/mcpserver"
	"github.com/2389-research/lodestone/site"
	"github.com/2389-research/lodestone/tui"
	"github.com/2389-research/lodestone/web"
)

var version = "dev"

// defaultConfigFile is the config looked up when -config is not given.
const defaultConfigFile = "lodestone.yaml"

func main() {
	loadDotEnv(".env")

	args := os.Args[1:]
	if len(args) == 0 {
		printHelp(os.Stderr, version)
		os.Exit(0)
	}

	switch args[0] {
	case "-version", "--version", "version":
		fmt.Printf("lodestone %s\n", version)
		os.Exit(0)
	case "-h", "--help", "help":
		printHelp(os.Stdout, version)
		os.Exit(0)
	case "build":
		os.Exit(runBuild(args[1:]))
	case "serve":
		os.Exit(runServe(args[1:]))
	case "browse":
		os.Exit(runBrowse(args[1:]))
	case "mcp":
		os.Exit(runMCP(args[1:]))
	case "verify-titles":
		os.Exit(runVerifyTitles(args[1:]))
	case "readme":
		os.Exit(runReadme(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printHelp(os.Stderr, version)
		os.Exit(2)
	}
}

// commonFlags registers the flags shared by every subcommand and returns
// pointers to their values.
func commonFlags(fs *flag.FlagSet) (configPath, contentDir, outDir *string) {
	configPath = fs.String("config", defaultConfigFile, "Site config file")
	contentDir = fs.String("content-dir", "", "Content root override")
	outDir = fs.String("out-dir", "", "Output root override")
	return
}

// parseOrExit parses fs over args, exiting on -h or usage errors the way
// the flag package expects.
func parseOrExit(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
}

// loadConfig loads the site config and applies CLI directory overrides.
func loadConfig(configPath, contentDir, outDir string) (site.Config, error) {
	cfg, err := site.Load(configPath)
	if err != nil {
		return site.Config{}, err
	}
	if contentDir != "" {
		cfg.ContentDir = contentDir
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	return cfg, nil
}

// loadCatalog loads the full content catalog for serve/browse/mcp/readme.
func loadCatalog(ctx context.Context, cfg site.Config) (*content.Catalog, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return content.LoadAll(ctx, cfg.ContentDir, reg)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runBuild executes the build pipeline, optionally in watch mode.
func runBuild(args []string) int {
	fs := flag.NewFlagSet("lodestone build", flag.ContinueOnError)
	configPath, contentDir, outDir := commonFlags(fs)
	force := fs.Bool("force", false, "Rebuild everything, ignoring the hash cache")
	watch := fs.Bool("watch", false, "Rebuild on content changes until interrupted")
	parseOrExit(fs, args)

	cfg, err := loadConfig(*configPath, *contentDir, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	doBuild := func(force bool) error {
		builder, err := build.NewBuilder(cfg, force)
		if err != nil {
			return err
		}
		_, err = builder.Run(ctx)
		return err
	}

	if err := doBuild(*force); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if !*watch {
		return 0
	}

	err = build.WatchDirs(ctx, []string{cfg.ContentDir, cfg.GuidesDir}, func() {
		if err := doBuild(false); err != nil {
			fmt.Fprintf(os.Stderr, "rebuild error: %v\n", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runServe starts the directory web server.
func runServe(args []string) int {
	fs := flag.NewFlagSet("lodestone serve", flag.ContinueOnError)
	configPath, contentDir, outDir := commonFlags(fs)
	port := fs.Int("port", 8799, "HTTP port")
	dataDir := fs.String("data-dir", ".lodestone", "Directory for the view-count database")
	parseOrExit(fs, args)

	cfg, err := loadConfig(*configPath, *contentDir, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: create data dir: %v\n", err)
		return 1
	}
	views, err := web.OpenViewStore(filepath.Join(*dataDir, "views.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer views.Close()

	server, err := web.NewServer(cfg, catalog, views)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := server.ListenAndServe(ctx, fmt.Sprintf(":%d", *port)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runBrowse starts the terminal browser.
func runBrowse(args []string) int {
	fs := flag.NewFlagSet("lodestone browse", flag.ContinueOnError)
	configPath, contentDir, outDir := commonFlags(fs)
	parseOrExit(fs, args)

	cfg, err := loadConfig(*configPath, *contentDir, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := tui.Run(cfg, catalog); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runMCP serves the catalog over MCP on stdio.
func runMCP(args []string) int {
	fs := flag.NewFlagSet("lodestone mcp", flag.ContinueOnError)
	configPath, contentDir, outDir := commonFlags(fs)
	parseOrExit(fs, args)

	cfg, err := loadConfig(*configPath, *contentDir, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := mcpserver.New(cfg, catalog, version).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runVerifyTitles checks generated SEO page titles against the length limit.
func runVerifyTitles(args []string) int {
	fs := flag.NewFlagSet("lodestone verify-titles", flag.ContinueOnError)
	configPath, contentDir, outDir := commonFlags(fs)
	parseOrExit(fs, args)

	cfg, err := loadConfig(*configPath, *contentDir, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	dir := filepath.Join(cfg.OutDir, "seo")
	violations, err := build.VerifyTitles(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(violations) == 0 {
		fmt.Println("all titles fit")
		return 0
	}
	for _, v := range violations {
		fmt.Fprintf(os.Stderr, "title too long (%d > %d): %s (%s)\n", v.Length, build.MaxTitleLen, v.Title, v.Path)
	}
	return 1
}

// runReadme generates a README for one item via the hosted backend.
func runReadme(args []string) int {
	fs := flag.NewFlagSet("lodestone readme", flag.ContinueOnError)
	configPath, contentDir, outDir := commonFlags(fs)
	outFile := fs.String("o", "", "Write the README to a file instead of stdout")
	parseOrExit(fs, args)

	if fs.NArg() != 1 || !strings.Contains(fs.Arg(0), "/") {
		fmt.Fprintln(os.Stderr, "usage: lodestone readme <category>/<slug>")
		return 2
	}
	categoryID, slug, _ := strings.Cut(fs.Arg(0), "/")

	cfg, err := loadConfig(*configPath, *contentDir, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	item, ok := catalog.Item(categoryID, slug)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: no item %s/%s\n", categoryID, slug)
		return 1
	}

	token := os.Getenv(cfg.Generation.TokenEnv)
	if cfg.Generation.BaseURL == "" || token == "" {
		fmt.Fprintf(os.Stderr, "error: generation backend not configured (set generation.base_url and %s)\n", cfg.Generation.TokenEnv)
		return 1
	}

	client := genapi.NewClient(cfg.Generation.BaseURL, token)
	readme, err := client.GenerateReadme(ctx, item)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(readme), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s\n", *outFile)
		return 0
	}
	fmt.Print(readme)
	return 0
}
