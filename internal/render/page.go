package render

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// ErrUnterminatedFrontMatter is returned when a page opens a front matter
// block but never closes it.
var ErrUnterminatedFrontMatter = errors.New("unterminated front matter")

// Page is a template source with optional YAML front matter.
type Page struct {
	FrontMatter map[string]any
	Body        string
}

// ParsePage splits src into front matter and body. Sources that do not
// start with a "---" line have no front matter.
func ParsePage(src []byte) (Page, error) {
	s := string(src)
	first, rest, found := strings.Cut(s, "\n")
	if !found || strings.TrimRight(first, "\r") != frontMatterDelimiter {
		return Page{FrontMatter: map[string]any{}, Body: s}, nil
	}

	var header strings.Builder
	lines := strings.SplitAfter(rest, "\n")
	for i, line := range lines {
		if strings.TrimRight(line, "\r\n") != frontMatterDelimiter {
			header.WriteString(line)
			continue
		}
		fm := map[string]any{}
		if err := yaml.Unmarshal([]byte(header.String()), &fm); err != nil {
			return Page{}, fmt.Errorf("parsing front matter: %w", err)
		}
		if fm == nil {
			fm = map[string]any{}
		}
		return Page{FrontMatter: fm, Body: strings.Join(lines[i+1:], "")}, nil
	}
	return Page{}, ErrUnterminatedFrontMatter
}

// Bindings returns the variables a page renders with: data at the top level
// and the front matter under "page".
func (p Page) Bindings(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	fm := p.FrontMatter
	if fm == nil {
		fm = map[string]any{}
	}
	out["page"] = fm
	return out
}

// LoadData reads a YAML file of extra render variables.
func LoadData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
