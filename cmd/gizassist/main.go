package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/ajramos/gizassist/internal/config"
	"github.com/ajramos/gizassist/internal/headless"
	"github.com/ajramos/gizassist/internal/services"
	"github.com/ajramos/gizassist/internal/tui"
	"github.com/ajramos/gizassist/internal/version"
	"github.com/ajramos/gizassist/pkg/auth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	baseURL    string
	setToken   string
	clearToken bool
	initConfig bool
	dump       string
	autoReply  string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("gizassist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Path to JSON configuration file (default: ~/.config/gizassist/config.json)")
	fs.StringVar(&o.baseURL, "base-url", "", "Backend base URL (overrides the config file)")
	fs.StringVar(&o.setToken, "set-token", "", "Store the API token in the system keyring and exit")
	fs.BoolVar(&o.clearToken, "clear-token", false, "Remove the API token from the system keyring and exit")
	fs.BoolVar(&o.initConfig, "init-config", false, "Write the default configuration and theme, then exit")
	fs.StringVar(&o.dump, "dump", "", "Print the email list and exit: text or html")
	fs.StringVar(&o.autoReply, "auto-reply", "", "Read or set auto-reply and exit: status, on or off")
	fs.BoolVar(&o.version, "version", false, "Show version information and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  gizassist [options]\n\n")
		fmt.Fprintf(stderr, "Examples:\n")
		fmt.Fprintf(stderr, "  gizassist                        # Run the terminal UI\n")
		fmt.Fprintf(stderr, "  gizassist --dump text            # Print the email list\n")
		fmt.Fprintf(stderr, "  gizassist --auto-reply on        # Enable backend auto-reply\n")
		fmt.Fprintf(stderr, "  gizassist --set-token <token>    # Save the API token in the keyring\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(stderr, "  %-28s Override default config file path\n", config.EnvConfigPath)
		fmt.Fprintf(stderr, "  %-28s API token (takes precedence over config and keyring)\n", auth.EnvToken)
		fmt.Fprintf(stderr, "  %-28s Password for the file keyring when no OS keyring exists\n", auth.EnvKeyringPassword)
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, version.GetDetailedVersionString())
		return 0
	}

	headlessOpts := headless.Options{Dump: opts.dump, AutoReply: opts.autoReply}
	if err := headlessOpts.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	mgr, configPath, err := loadConfig(opts.configPath, opts.baseURL, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg := mgr.GetConfig()

	if opts.initConfig {
		if err := initConfig(mgr, configPath, cfg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote %s and the %s theme\n", configPath, config.DefaultThemeName)
		return 0
	}

	store := auth.NewKeyringStore(filepath.Join(config.DefaultConfigDir(), "credentials"))
	switch {
	case opts.setToken != "":
		if err := store.Set(opts.setToken); err != nil {
			fmt.Fprintf(stderr, "Error: could not store token: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "API token saved to the system keyring")
		return 0
	case opts.clearToken:
		if err := store.Delete(); err != nil {
			fmt.Fprintf(stderr, "Error: could not remove token: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "API token removed from the system keyring")
		return 0
	}

	// The TUI owns the terminal, so logs only ever go to the file there
	fallback := io.Discard
	if headlessOpts.Enabled() {
		fallback = stderr
	}
	logger, closeLog := openLogger(cfg.LogFile, fallback)
	defer closeLog()
	logger.Printf("INFO: %s starting, backend %s", version.GetVersionString(), cfg.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token, source, err := auth.TokenResolver{ConfigToken: cfg.APIToken, Store: store}.Resolve()
	if err != nil {
		logger.Printf("ERROR: keyring unavailable, continuing without a token: %v", err)
	}
	logger.Printf("INFO: api token source: %s", source)

	httpClient := auth.NewBearerClient(ctx, &http.Client{Timeout: cfg.GetTimeout()}, token)
	client := backend.NewClient(cfg.BaseURL, httpClient, logger)

	if headlessOpts.Enabled() {
		runner := headless.NewRunner(client, stdout, stderr, logger)
		if err := runner.Run(ctx, headlessOpts); err != nil {
			logger.Printf("ERROR: headless run failed: %v", err)
			return 1
		}
		return 0
	}

	theme, err := config.NewThemeLoader(cfg.ThemeDir()).ResolveTheme(cfg.Layout.CurrentTheme)
	if err != nil {
		logger.Printf("ERROR: theme %q unusable, using built-in colors: %v", cfg.Layout.CurrentTheme, err)
	}

	app := tui.NewApp(cfg, theme, logger)
	notifier := services.NewNotifier(app.Toasts(), app.Toasts(), logger, services.NotifierOptions{
		Duration: cfg.GetToastDuration(),
	})
	defer notifier.Close()
	app.SetOrchestrator(services.NewOrchestrator(client, notifier, notifier, app.Views(), logger, services.OrchestratorOptions{
		ListCooldown: cfg.GetRefreshCooldown(),
		ClearReloads: cfg.Search.ClearReloads,
	}))

	if err := app.Run(); err != nil {
		fmt.Fprintf(stderr, "Error running application: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies flag overrides. A malformed
// file is reported and replaced by defaults; an invalid override is an error.
func loadConfig(flagPath, baseURL string, stderr io.Writer) (*config.Manager, string, error) {
	path := config.ResolveConfigPath(flagPath)
	mgr := config.NewManager()
	if err := mgr.LoadFromFile(path); err != nil {
		fmt.Fprintf(stderr, "Warning: could not load configuration: %v\n", err)
		mgr = config.NewManager()
	}
	if strings.TrimSpace(baseURL) != "" {
		if err := mgr.Override(func(c *config.Config) { c.BaseURL = baseURL }); err != nil {
			return nil, path, err
		}
	}
	return mgr, path, nil
}

// initConfig writes the current configuration and the default theme
func initConfig(mgr *config.Manager, path string, cfg *config.Config) error {
	if path == "" {
		return errors.New("no configuration path: set --config or " + config.EnvConfigPath)
	}
	if err := mgr.SaveToFile(path); err != nil {
		return err
	}
	return config.NewThemeLoader(cfg.ThemeDir()).CreateDefaultTheme()
}

// openLogger opens the log file, falling back to w when it cannot be created
func openLogger(path string, w io.Writer) (*log.Logger, func()) {
	if strings.TrimSpace(path) == "" {
		path = config.DefaultLogPath()
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err == nil {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err == nil {
				return log.New(f, "", log.LstdFlags|log.Lmicroseconds), func() { _ = f.Close() }
			}
		}
	}
	return log.New(w, "", log.LstdFlags), func() {}
}
