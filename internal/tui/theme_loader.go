package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// parseColor accepts either a single color or a [light, dark] pair.
func parseColor(v any) (lipgloss.TerminalColor, error) {
	switch v := v.(type) {
	case string:
		return lipgloss.Color(v), nil
	case []any:
		if len(v) != 2 {
			return nil, fmt.Errorf("adaptive color needs [light, dark], got %d values", len(v))
		}
		light, ok1 := v[0].(string)
		dark, ok2 := v[1].(string)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("adaptive color values must be strings")
		}
		return lipgloss.AdaptiveColor{Light: light, Dark: dark}, nil
	default:
		return nil, fmt.Errorf("unsupported color value %v", v)
	}
}

// themeFile represents the structure of the theme TOML file. Missing keys
// are nil and keep their default.
type themeFile struct {
	Primary    any
	Subtle     any
	Success    any
	Error      any
	Normal     any
	Disabled   any
	Border     any
	SignalHigh any
	SignalLow  any

	TitleIcon *string
	APIcon    *string
	STAIcon   *string
	MatchIcon *string
}

// LoadTheme reads a theme from r and overrides the default theme. A nil
// reader does nothing.
func LoadTheme(r io.Reader) error {
	if r == nil {
		return nil
	}

	var tf themeFile
	if _, err := toml.NewDecoder(r).Decode(&tf); err != nil {
		return err
	}

	theme := NewDefaultTheme()
	for _, c := range []struct {
		src any
		dst *lipgloss.TerminalColor
	}{
		{tf.Primary, &theme.Primary},
		{tf.Subtle, &theme.Subtle},
		{tf.Success, &theme.Success},
		{tf.Error, &theme.Error},
		{tf.Normal, &theme.Normal},
		{tf.Disabled, &theme.Disabled},
		{tf.Border, &theme.Border},
		{tf.SignalHigh, &theme.SignalHigh},
		{tf.SignalLow, &theme.SignalLow},
	} {
		if c.src == nil {
			continue
		}
		color, err := parseColor(c.src)
		if err != nil {
			return err
		}
		*c.dst = color
	}
	for _, s := range []struct {
		src *string
		dst *string
	}{
		{tf.TitleIcon, &theme.TitleIcon},
		{tf.APIcon, &theme.APIcon},
		{tf.STAIcon, &theme.STAIcon},
		{tf.MatchIcon, &theme.MatchIcon},
	} {
		if s.src != nil {
			*s.dst = *s.src
		}
	}

	CurrentTheme = theme
	return nil
}

// LoadThemeFile loads a theme from path. An empty path does nothing.
func LoadThemeFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return LoadTheme(f)
}
