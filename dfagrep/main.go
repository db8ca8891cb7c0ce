package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mfroeh/dfare/regex"
)

// errMismatch makes the process exit with status 1 without a message.
var errMismatch = errors.New("input does not match")

type runContext struct {
	config  *config
	verbose bool
	out     io.Writer
}

// compile resolves @name references through the pattern library and logs
// automaton statistics in verbose mode.
func (rc *runContext) compile(pattern string) (*regex.Regex, error) {
	resolved, err := rc.config.resolve(pattern)
	if err != nil {
		return nil, err
	}
	re, err := regex.Compile(resolved)
	if err != nil {
		return nil, err
	}
	if rc.verbose {
		logStats(re)
	}
	return re, nil
}

func logStats(re *regex.Regex) {
	states, transitions := 0, 0
	for _, d := range re.Automata() {
		states += len(d.States)
		transitions += d.NumTransitions()
	}
	log.Printf("%s: %d automata, %d states, %d transitions", re, re.NumAutomata(), states, transitions)
}

type CLI struct {
	Config  string `help:"Pattern library file." default:".dfagrep.yaml"`
	Verbose bool   `short:"v" help:"Log automaton statistics after compiling."`

	Grep      grepCmd      `cmd:"" default:"withargs" help:"Recursively search files for lines matching a pattern."`
	Match     matchCmd     `cmd:"" help:"Report whether each input matches the whole pattern."`
	ToRegex   toRegexCmd   `cmd:"" name:"toregex" help:"Print a pattern reconstructed from the compiled automata."`
	Reverse   reverseCmd   `cmd:"" help:"Print a pattern for the reversed language."`
	Intersect intersectCmd `cmd:"" help:"Print a pattern for the strings both patterns match."`
	Dump      dumpCmd      `cmd:"" help:"Print the transition tables of the compiled automata."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("dfagrep"),
		kong.Description("Search and transform patterns compiled to deterministic automata."),
		kong.UsageOnError(),
	)

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	err = ctx.Run(&runContext{config: cfg, verbose: cli.Verbose, out: os.Stdout})
	if errors.Is(err, errMismatch) {
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

type matchCmd struct {
	Pattern string   `arg:"" help:"Pattern, or @name from the pattern library."`
	Inputs  []string `arg:"" help:"Strings to match against the whole pattern."`
}

func (c *matchCmd) Run(rc *runContext) error {
	re, err := rc.compile(c.Pattern)
	if err != nil {
		return err
	}

	all := true
	for _, in := range c.Inputs {
		ok := re.Match(in)
		all = all && ok
		fmt.Fprintln(rc.out, ok)
	}
	if !all {
		return errMismatch
	}
	return nil
}

type toRegexCmd struct {
	Pattern string `arg:"" help:"Pattern, or @name from the pattern library."`
}

func (c *toRegexCmd) Run(rc *runContext) error {
	re, err := rc.compile(c.Pattern)
	if err != nil {
		return err
	}
	return printRegex(rc.out, re)
}

type reverseCmd struct {
	Pattern string `arg:"" help:"Pattern, or @name from the pattern library."`
}

func (c *reverseCmd) Run(rc *runContext) error {
	re, err := rc.compile(c.Pattern)
	if err != nil {
		return err
	}
	rev, err := re.Reverse()
	if err != nil {
		return err
	}
	return printRegex(rc.out, rev)
}

type intersectCmd struct {
	Left  string `arg:"" help:"Pattern, or @name from the pattern library."`
	Right string `arg:"" help:"Pattern, or @name from the pattern library."`
}

func (c *intersectCmd) Run(rc *runContext) error {
	left, err := rc.compile(c.Left)
	if err != nil {
		return err
	}
	right, err := rc.compile(c.Right)
	if err != nil {
		return err
	}
	return printRegex(rc.out, left.Intersect(right))
}

func printRegex(w io.Writer, re *regex.Regex) error {
	s, err := re.ToRegex()
	if err != nil {
		return fmt.Errorf("%s: %w", re, err)
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
