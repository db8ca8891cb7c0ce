package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/mfroeh/dfare/regex"
)

type dumpCmd struct {
	Pattern string `arg:"" help:"Pattern, or @name from the pattern library."`
	Format  string `enum:"yaml,dot" default:"yaml" help:"Output format: yaml or dot."`
}

func (c *dumpCmd) Run(rc *runContext) error {
	re, err := rc.compile(c.Pattern)
	if err != nil {
		return err
	}
	if c.Format == "dot" {
		return writeDot(rc.out, re.Automata())
	}
	return writeYAML(rc.out, re.Automata())
}

type automatonDump struct {
	ID     int         `yaml:"id"`
	Name   string      `yaml:"name,omitempty"`
	Main   bool        `yaml:"main,omitempty"`
	States []stateDump `yaml:"states"`
}

type stateDump struct {
	ID     int            `yaml:"id"`
	Accept bool           `yaml:"accept,omitempty"`
	Chars  map[string]int `yaml:"chars,omitempty"`
	Calls  map[string]int `yaml:"calls,omitempty"`
}

func dumpAutomata(automata []*regex.DFA) []automatonDump {
	out := make([]automatonDump, len(automata))
	for i, d := range automata {
		ad := automatonDump{ID: i, Name: d.Name, Main: i == len(automata)-1}
		for j, s := range d.States {
			sd := stateDump{ID: j, Accept: s.Accept}
			for c, to := range s.Chars {
				if sd.Chars == nil {
					sd.Chars = make(map[string]int)
				}
				sd.Chars[string(c)] = to
			}
			for _, e := range s.Calls {
				if sd.Calls == nil {
					sd.Calls = make(map[string]int)
				}
				sd.Calls[automata[e.Group].Name] = e.To
			}
			ad.States = append(ad.States, sd)
		}
		out[i] = ad
	}
	return out
}

func writeYAML(w io.Writer, automata []*regex.DFA) error {
	b, err := yaml.Marshal(dumpAutomata(automata))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// writeDot renders one cluster per automaton. Node names are a<automaton>s<state>,
// call edges are dashed and labelled with the group name.
func writeDot(w io.Writer, automata []*regex.DFA) error {
	sb := strings.Builder{}
	sb.WriteString("digraph automata {\n\trankdir=LR;\n")
	for i, d := range automata {
		label := d.Name
		if i == len(automata)-1 {
			label = "main"
		}
		fmt.Fprintf(&sb, "\tsubgraph cluster_%d {\n\t\tlabel=%s;\n", i, strconv.Quote(label))
		for j, s := range d.States {
			shape := "circle"
			if s.Accept {
				shape = "doublecircle"
			}
			fmt.Fprintf(&sb, "\t\ta%ds%d [label=\"%d\", shape=%s];\n", i, j, j, shape)
		}
		for j, s := range d.States {
			for _, c := range slices.Sorted(maps.Keys(s.Chars)) {
				fmt.Fprintf(&sb, "\t\ta%ds%d -> a%ds%d [label=%s];\n", i, j, i, s.Chars[c], strconv.Quote(string(c)))
			}
			for _, e := range s.Calls {
				fmt.Fprintf(&sb, "\t\ta%ds%d -> a%ds%d [label=%s, style=dashed];\n", i, j, i, e.To, strconv.Quote("<"+automata[e.Group].Name+">"))
			}
		}
		sb.WriteString("\t}\n")
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
