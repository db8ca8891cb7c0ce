package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
)

const defaultConfigPath = ".dfagrep.yaml"

var (
	ErrUnknownPattern = errors.New("pattern not found in library")
	ErrInvalidColor   = errors.New("color must be auto, always or never")
)

// config is the optional pattern library:
//
//	patterns:
//	  date: "(<y>dddd)-(<m>dd)"
//	color: auto
type config struct {
	Patterns map[string]string `yaml:"patterns"`
	Color    string            `yaml:"color"`
}

// loadConfig reads the pattern library at path. A missing file at the default
// path yields an empty library.
func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
			return &config{}, nil
		}
		return nil, err
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*config, error) {
	var c config
	if len(bytes.TrimSpace(data)) == 0 {
		return &c, nil
	}
	if err := yaml.UnmarshalWithOptions(data, &c, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return nil, fmt.Errorf("%w, got %q", ErrInvalidColor, c.Color)
	}
	return &c, nil
}

// resolve maps "@name" to the library pattern of that name. Other patterns
// are returned unchanged.
func (c *config) resolve(pattern string) (string, error) {
	name, ok := strings.CutPrefix(pattern, "@")
	if !ok {
		return pattern, nil
	}
	p, ok := c.Patterns[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return p, nil
}

// applyColor sets highlighting for the process. noColor from the command line
// wins over the library setting, which parseConfig has already validated.
func (c *config) applyColor(noColor bool) {
	switch {
	case noColor || c.Color == "never":
		color.NoColor = true
	case c.Color == "always":
		color.NoColor = false
	}
}
