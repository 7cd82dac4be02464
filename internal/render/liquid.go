package render

import (
	"context"
	"strings"

	"github.com/osteele/liquid"
	lrender "github.com/osteele/liquid/render"
)

// LiquidEngine renders Liquid templates.
type LiquidEngine struct {
	resolver StarResolver
}

func (e *LiquidEngine) Name() string { return EngineLiquid }

func (e *LiquidEngine) Render(ctx context.Context, src string, vars map[string]any) (string, error) {
	engine := liquid.NewEngine()
	engine.RegisterTag(TagName, e.starsTag(ctx))
	out, err := engine.ParseAndRenderString(src, vars)
	if err != nil {
		return "", err
	}
	return out, nil
}

// starsTag looks up the variable named by the tag argument and resolves it.
// An argument that does not evaluate resolves as an empty reference.
func (e *LiquidEngine) starsTag(ctx context.Context) func(lrender.Context) (string, error) {
	return func(rc lrender.Context) (string, error) {
		var ref any
		if name := strings.TrimSpace(rc.TagArgs()); name != "" {
			if v, err := rc.EvaluateString(name); err == nil {
				ref = v
			}
		}
		return e.resolver.Resolve(ctx, refString(ref)), nil
	}
}
