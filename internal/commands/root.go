package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stahnma/gh-stars/internal/cache"
	"github.com/stahnma/gh-stars/internal/config"
	ghub "github.com/stahnma/gh-stars/internal/github"
	"github.com/stahnma/gh-stars/internal/stars"
)

// App holds shared application state for one build run.
type App struct {
	Config   config.Config
	Cache    *cache.Cache
	GHClient ghub.Client
	Logger   *log.Logger
	GitSHA   string
	GitDirty string

	resolver *stars.Resolver
}

// NewApp creates a new App from the given configuration. Diagnostics go to
// stdout.
func NewApp(cfg config.Config, gitSHA, gitDirty string) (*App, error) {
	level := log.InfoLevel
	if cfg.DebugMode {
		level = log.DebugLevel
	}
	return &App{
		Config:   cfg,
		Cache:    cache.New(),
		Logger:   newLogger(os.Stdout, level),
		GitSHA:   gitSHA,
		GitDirty: gitDirty,
	}, nil
}

// newLogger creates a logger with timestamp formatting that writes to w
// and filters messages at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ensureClient creates the GitHub client if it doesn't exist.
func (a *App) ensureClient() error {
	if a.GHClient != nil {
		return nil
	}
	client, err := ghub.NewClient(ghub.ClientOptions{
		BaseURL:   a.Config.APIURL,
		UserAgent: a.Config.UserAgent,
		Timeout:   a.Config.HTTPTimeout,
	})
	if err != nil {
		return fmt.Errorf("creating GitHub client: %w", err)
	}
	a.GHClient = client
	return nil
}

// Resolver returns the run's star count resolver, creating it on first use.
// Every caller shares the App's cache.
func (a *App) Resolver() (*stars.Resolver, error) {
	if a.resolver != nil {
		return a.resolver, nil
	}
	if err := a.ensureClient(); err != nil {
		return nil, err
	}
	if a.Logger == nil {
		a.Logger = log.Default()
	}

	var delay stars.Delay = stars.RandomDelay{Min: a.Config.DelayMin, Max: a.Config.DelayMax}
	if a.Config.NoDelay {
		delay = stars.NoDelay{}
	}
	a.resolver = stars.NewResolver(a.GHClient, a.Cache,
		stars.WithDelay(delay),
		stars.WithLogger(a.Logger),
		stars.WithCacheFailures(a.Config.CacheFailures),
	)
	return a.resolver, nil
}

// Reset starts a new build run. Cached star counts are dropped and the next
// Resolver call builds a fresh resolver.
func (a *App) Reset() {
	if a.Cache == nil {
		a.Cache = cache.New()
	} else {
		if a.Logger != nil {
			a.Logger.Debugf("Dropping %d cached star counts", a.Cache.Len())
		}
		a.Cache.Flush()
	}
	a.resolver = nil
}

// NewRootCommand creates the root cobra command with all subcommands.
func (a *App) NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gh-stars",
		Short: "Render GitHub star counts into site templates.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.Config.DebugMode && a.Logger != nil {
				a.Logger.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&a.Config.NoDelay, "no-delay", a.Config.NoDelay, "Do not pause before GitHub API requests")
	flags.BoolVar(&a.Config.DebugMode, "debug", a.Config.DebugMode, "Enable debug logging")
	flags.StringVar(&a.Config.UserAgent, "user-agent", a.Config.UserAgent, "User-Agent header sent to the GitHub API")
	flags.StringVar(&a.Config.APIURL, "api-url", a.Config.APIURL, "GitHub REST API base URL")

	rootCmd.AddCommand(a.newStarsCommand())
	rootCmd.AddCommand(a.newRenderCommand())
	rootCmd.AddCommand(a.newVersionCommand())

	return rootCmd
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the build's Git revision",
		RunE: func(cmd *cobra.Command, args []string) error {
			version := a.GitSHA
			if version == "" {
				version = "unknown"
			}
			if a.GitDirty != "" {
				version += "-dirty"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "gh-stars %s\n", version)
			return nil
		},
	}
}
