package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-stars/internal/render"
	"golang.org/x/sync/errgroup"
)

func (a *App) newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render page templates, substituting github_stars tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args)
		},
	}
	cmd.Flags().StringP("engine", "e", "", "Template engine: liquid or go (default: by file extension)")
	cmd.Flags().StringP("data", "d", "", "YAML file of extra template variables")
	cmd.Flags().StringP("out", "o", "", "Directory to write rendered pages to (default: stdout)")
	cmd.Flags().IntP("jobs", "j", 1, "Number of pages to render concurrently")
	return cmd
}

func (a *App) runRender(cmd *cobra.Command, args []string) error {
	engineName, _ := cmd.Flags().GetString("engine")
	dataPath, _ := cmd.Flags().GetString("data")
	outDir, _ := cmd.Flags().GetString("out")
	jobs, _ := cmd.Flags().GetInt("jobs")
	w := cmd.OutOrStdout()

	// Pages on stdout must not interleave with diagnostics.
	if outDir == "" && a.Logger != nil {
		a.Logger.SetOutput(cmd.ErrOrStderr())
	}

	// Created up front so the concurrent renders below share one resolver.
	if _, err := a.Resolver(); err != nil {
		return err
	}

	var data map[string]any
	if dataPath != "" {
		var err error
		if data, err = render.LoadData(dataPath); err != nil {
			return fmt.Errorf("loading data: %w", err)
		}
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if jobs < 1 {
		jobs = 1
	}

	outputs := make([]string, len(args))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(jobs)
	for i, path := range args {
		g.Go(func() error {
			out, err := a.renderFile(ctx, path, engineName, data)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", path, err)
			}
			if outDir == "" {
				outputs[i] = out
				return nil
			}
			dest := filepath.Join(outDir, render.OutputName(path))
			if err := os.WriteFile(dest, []byte(out), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			a.Logger.Infof("Rendered %s to %s", path, dest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, out := range outputs {
		fmt.Fprint(w, out)
	}
	return nil
}

func (a *App) renderFile(ctx context.Context, path, engineName string, data map[string]any) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if engineName == "" {
		engineName = render.EngineForFile(path)
	}
	return a.RenderString(ctx, engineName, string(src), data)
}

// RenderString renders a page source (optionally with front matter) using
// the named engine. Front matter is bound as "page" and vars at the top
// level.
func (a *App) RenderString(ctx context.Context, engineName, src string, vars map[string]any) (string, error) {
	resolver, err := a.Resolver()
	if err != nil {
		return "", err
	}
	engine, err := render.NewEngine(engineName, resolver)
	if err != nil {
		return "", err
	}
	page, err := render.ParsePage([]byte(src))
	if err != nil {
		return "", err
	}
	return engine.Render(ctx, page.Body, page.Bindings(vars))
}
