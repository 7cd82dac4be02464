package render

import (
	"context"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// GoTemplateEngine renders text/template sources with sprig functions.
type GoTemplateEngine struct {
	resolver StarResolver
}

func (e *GoTemplateEngine) Name() string { return EngineGo }

func (e *GoTemplateEngine) Render(ctx context.Context, src string, vars map[string]any) (string, error) {
	funcs := sprig.TxtFuncMap()
	funcs[TagName] = func(ref any) string {
		return e.resolver.Resolve(ctx, refString(ref))
	}

	tmpl, err := template.New("page").Funcs(funcs).Parse(src)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, vars); err != nil {
		return "", err
	}
	return out.String(), nil
}
