// Package main provides the Lookout terminal session viewer.
// It shows an agent run's screenshots, live remote desktop and documents,
// and lets the human take control of the remote session and hand it back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	appconfig "github.com/entrhq/lookout/pkg/config"
	"github.com/entrhq/lookout/pkg/executor/tui"
	"github.com/entrhq/lookout/pkg/logging"
	"github.com/entrhq/lookout/pkg/session"
	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

const version = "0.1.0"

// Config holds the command line configuration. Zero values leave the
// settings file in charge.
type Config struct {
	ConfigPath    string
	SessionPath   string
	ResponsesPath string
	LogDir        string
	ServerURL     string
	Quality       int
	Scaling       string
	ViewOnly      bool
	Strategy      string
	Browser       bool
	ShowVersion   bool

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("Lookout v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{set: make(map[string]bool)}

	flag.StringVar(&config.ConfigPath, "config", "", "Settings file (default: ~/.lookout/config.json)")
	flag.StringVar(&config.SessionPath, "session", "", "Session file (YAML) describing the run to view")
	flag.StringVar(&config.ResponsesPath, "responses", "", "File receiving viewer events as JSON lines (default: responses.jsonl next to the session file)")
	flag.StringVar(&config.LogDir, "log-dir", "", "Log directory (default: ~/.lookout/logs)")
	flag.StringVar(&config.ServerURL, "server", "", "Remote desktop host, used when the session endpoint has none")
	flag.IntVar(&config.Quality, "quality", 0, "Remote stream quality 0-9")
	flag.StringVar(&config.Scaling, "scaling", "", "Remote scaling: local, remote or none")
	flag.BoolVar(&config.ViewOnly, "view-only", false, "Do not send input to the remote desktop")
	flag.StringVar(&config.Strategy, "strategy", "", "Surface strategy: embedded-frame or streaming-viewer")
	flag.BoolVar(&config.Browser, "browser", false, "Load the embedded frame in headless Chromium to measure it")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Lookout - watch an agent's remote session and take control\n\n")
		fmt.Fprintf(os.Stderr, "Usage: lookout -session session.yaml [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  lookout -session run.yaml\n")
		fmt.Fprintf(os.Stderr, "  lookout -session run.yaml -server vnc.internal -quality 5\n")
		fmt.Fprintf(os.Stderr, "  lookout -session run.yaml -strategy streaming-viewer -responses events.jsonl\n")
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) { config.set[f.Name] = true })
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	if c.SessionPath == "" {
		return fmt.Errorf("a session file is required (use -session)")
	}
	p := remote.DefaultParams()
	if c.set["quality"] {
		p.Quality = c.Quality
	}
	if c.set["scaling"] {
		p.Scaling = remote.Scaling(c.Scaling)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	switch remote.Strategy(c.Strategy) {
	case "", remote.StrategyEmbeddedFrame, remote.StrategyStreamingViewer:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	return nil
}

// apply overlays explicitly given flags on the stored settings.
func (c *Config) apply(s appconfig.ViewerSettings) appconfig.ViewerSettings {
	if c.set["server"] {
		s.ServerURL = c.ServerURL
	}
	if c.set["quality"] {
		s.Quality = c.Quality
	}
	if c.set["scaling"] {
		s.Scaling = c.Scaling
	}
	if c.set["view-only"] {
		s.ViewOnly = c.ViewOnly
	}
	if c.set["strategy"] {
		s.RenderStrategy = c.Strategy
	}
	return s
}

func (c *Config) responsesPath() string {
	if c.ResponsesPath != "" {
		return c.ResponsesPath
	}
	return filepath.Join(filepath.Dir(c.SessionPath), "responses.jsonl")
}

// run executes the main application logic
func run(ctx context.Context, config *Config) error {
	if config.LogDir != "" {
		logging.SetDirectory(config.LogDir)
	}
	logger, err := logging.NewLogger("lookout")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	settings := config.apply(appconfig.GetViewer().Snapshot())

	props, err := session.LoadProps(config.SessionPath)
	if err != nil {
		return err
	}

	recorder, err := session.OpenRecorder(config.responsesPath(), logger.With("responses"))
	if err != nil {
		return err
	}
	defer recorder.Close()

	opts := []viewer.Option{viewer.WithLogger(logger.With("viewer"))}
	if config.Browser {
		loader := remote.NewPlaywrightFrameLoader()
		defer loader.Close()
		opts = append(opts, viewer.WithFrameLoader(loader))
	}
	v := viewer.New(viewer.ConfigFromSettings(settings), props, recorder.Callbacks(), opts...)

	updates, errs, err := session.NewWatcher(config.SessionPath, session.WithWatchLogger(logger.With("session"))).Watch(ctx)
	if err != nil {
		return err
	}

	logger.Infof("viewing %s, events to %s", config.SessionPath, config.responsesPath())
	executor := tui.NewExecutor(v,
		tui.WithConfig(appconfig.Global()),
		tui.WithLogger(logger.With("tui")),
		tui.WithSessionUpdates(updates, errs),
	)
	return executor.Run(ctx)
}
