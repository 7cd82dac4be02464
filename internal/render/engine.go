// Package render renders page templates with the github_stars tag.
//
// Two engines are available. The Liquid engine mirrors Jekyll: the tag takes
// the name of a context variable, as in
//
//	{% github_stars page.github %}
//
// The Go engine uses text/template with the sprig function library and
// exposes github_stars as a function taking the reference itself:
//
//	{{ github_stars .page.github }}
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// TagName is the tag (Liquid) or function (Go templates) that renders a
// repository's star count.
const TagName = "github_stars"

const (
	EngineLiquid = "liquid"
	EngineGo     = "go"
)

// StarResolver resolves a repository reference to display text.
type StarResolver interface {
	Resolve(ctx context.Context, raw string) string
}

// Engine renders a template source against a set of variables.
type Engine interface {
	Name() string
	Render(ctx context.Context, src string, vars map[string]any) (string, error)
}

// NewEngine returns the engine called name.
func NewEngine(name string, resolver StarResolver) (Engine, error) {
	switch strings.ToLower(name) {
	case EngineLiquid:
		return &LiquidEngine{resolver: resolver}, nil
	case EngineGo, "gotemplate":
		return &GoTemplateEngine{resolver: resolver}, nil
	}
	return nil, fmt.Errorf("unknown template engine %q", name)
}

// EngineForFile picks an engine from the file extension: .tmpl and .gotmpl
// are Go templates, everything else is Liquid.
func EngineForFile(path string) string {
	switch filepath.Ext(path) {
	case ".tmpl", ".gotmpl":
		return EngineGo
	}
	return EngineLiquid
}

// OutputName strips the template extension from a page file name, so
// "index.html.liquid" becomes "index.html". Other names are unchanged.
func OutputName(path string) string {
	base := filepath.Base(path)
	switch ext := filepath.Ext(base); ext {
	case ".liquid", ".tmpl", ".gotmpl":
		return strings.TrimSuffix(base, ext)
	}
	return base
}

func refString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}
