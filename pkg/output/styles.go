package output

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var embeddedStyles []byte

type colorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

type styleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
}

type styleConfig struct {
	Colors map[string]colorDef `yaml:"colors"`
	Styles map[string]styleDef `yaml:"styles"`
}

var defaultStyles styleConfig

func init() {
	cfg, err := parseStyles(embeddedStyles)
	if err != nil {
		panic(fmt.Sprintf("failed to load styles: %v", err))
	}
	defaultStyles = cfg
}

func parseStyles(data []byte) (styleConfig, error) {
	var cfg styleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return styleConfig{}, fmt.Errorf("failed to parse styles: %w", err)
	}
	for name, def := range cfg.Styles {
		if def.Foreground == "" {
			continue
		}
		if _, ok := cfg.Colors[def.Foreground]; !ok {
			return styleConfig{}, fmt.Errorf("style %s uses unknown color %s", name, def.Foreground)
		}
	}
	return cfg, nil
}

type styles struct {
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	path    lipgloss.Style
	unit    lipgloss.Style
	muted   lipgloss.Style
	heading lipgloss.Style
}

// newStyles binds the style registry to w. Anything but FormatTerminal
// renders without escape sequences.
func newStyles(w io.Writer, format Format) styles {
	r := lipgloss.NewRenderer(w)
	if format != FormatTerminal {
		r.SetColorProfile(termenv.Ascii)
	}

	build := func(name string) lipgloss.Style {
		return buildStyle(r, defaultStyles, name)
	}
	return styles{
		success: build("Success"),
		warning: build("Warning"),
		err:     build("Error"),
		path:    build("Path"),
		unit:    build("Unit"),
		muted:   build("Muted"),
		heading: build("Heading"),
	}
}

// buildStyle constructs a named style; unknown names render unstyled
func buildStyle(r *lipgloss.Renderer, cfg styleConfig, name string) lipgloss.Style {
	style := r.NewStyle()
	def, ok := cfg.Styles[name]
	if !ok {
		return style
	}

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if c, ok := cfg.Colors[def.Foreground]; ok {
		style = style.Foreground(lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark})
	}
	return style
}
