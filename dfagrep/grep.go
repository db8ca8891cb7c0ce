package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/mfroeh/dfare/regex"
)

var submatchColors = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

type grepCmd struct {
	Pattern string   `arg:"" name:"pattern" help:"Pattern, or @name from the pattern library."`
	Paths   []string `arg:"" optional:"" name:"path" help:"Paths to search." type:"path"`
	Count   bool     `short:"c" help:"Print the number of matching lines per file."`
	NoColor bool     `help:"Disable match highlighting."`
}

func (c *grepCmd) Run(rc *runContext) error {
	re, err := rc.compile(c.Pattern)
	if err != nil {
		return err
	}
	rc.config.applyColor(c.NoColor)

	paths := c.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	s := &searcher{re: re, out: rc.out, count: c.Count}
	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if info.IsDir() {
			err = s.searchDir(path)
		} else {
			err = s.searchFile(path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type searcher struct {
	re    *regex.Regex
	out   io.Writer
	count bool
}

func (s *searcher) searchDir(path string) error {
	return filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// resolve symlinks
		var info os.FileInfo
		for {
			info, err = os.Lstat(path)
			// symlinks may be broken, in that case, just ignore them
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if info.Mode()&fs.ModeSymlink != fs.ModeSymlink {
				break
			}

			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(path), target)
			}
			path = target
		}

		// symlink may resolve to a directory, in which case we just ignore it
		if info.IsDir() {
			return nil
		}

		return s.searchFile(path)
	})
}

func (s *searcher) searchFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	printFileHeader := false
	matchingLines := 0
	for i, line := range strings.Split(string(content), "\n") {
		matches := s.re.SearchAll(line, -1)
		if len(matches) == 0 {
			continue
		}
		matchingLines++
		if s.count {
			continue
		}

		if !printFileHeader {
			printFileHeader = true
			fmt.Fprintln(s.out, path, ":")
		}

		out := strings.Builder{}
		lastMatchEnd := 0
		for _, match := range matches {
			out.WriteString(line[lastMatchEnd:match.Start])
			out.WriteString(formatMatch(match))
			lastMatchEnd = match.End
		}
		out.WriteString(line[lastMatchEnd:])
		fmt.Fprintf(s.out, "%d:%s\n", i+1, out.String())
	}

	if s.count {
		if matchingLines > 0 {
			fmt.Fprintf(s.out, "%s:%d\n", path, matchingLines)
		}
		return nil
	}
	if printFileHeader {
		fmt.Fprintln(s.out)
	}
	return nil
}

// formatMatch colours the whole match in the first colour and every captured
// group in a colour of its own, picked by declaration order. Groups nested in
// an already coloured group keep the outer colour.
func formatMatch(match *regex.MatchResult) string {
	type colored struct {
		sm    *regex.Submatch
		color *color.Color
	}
	var groups []colored
	for i, name := range match.Names() {
		sm, _ := match.Group(name)
		if sm == nil || sm.Str == "" {
			continue
		}
		groups = append(groups, colored{sm: sm, color: submatchColors[1+i%(len(submatchColors)-1)]})
	}
	if len(groups) == 0 {
		return submatchColors[0].Sprint(match.Str)
	}
	slices.SortStableFunc(groups, func(a, b colored) int { return a.sm.Offset - b.sm.Offset })

	out := strings.Builder{}
	matchOff := 0
	for _, g := range groups {
		offRelativeToMatch := g.sm.Offset - match.Start
		if offRelativeToMatch < matchOff {
			continue
		}
		submatchColors[0].Fprint(&out, match.Str[matchOff:offRelativeToMatch])
		g.color.Fprint(&out, g.sm.Str)
		matchOff = offRelativeToMatch + len(g.sm.Str)
	}
	submatchColors[0].Fprint(&out, match.Str[matchOff:])
	return out.String()
}
