package cfg

import (
	"bufio"
	"fmt"
	"io"
)

// Global holds file-scope declarations. There is no graph structure at
// file scope, just the fragments in source order.
type Global struct {
	Lines []string
}

// Program is one input file's worth of output: the globals plus one graph
// per function, in traversal order.
type Program struct {
	// Source is the input path echoed in the program header line.
	Source string

	Globals *Global
	Funcs   []*Graph
}

// NewProgram returns an empty program for the given source path.
func NewProgram(source string) *Program {
	return &Program{Source: source, Globals: &Global{}}
}

// AddFunc appends a function graph in traversal order.
func (p *Program) AddFunc(g *Graph) {
	p.Funcs = append(p.Funcs, g)
}

// Normalize prunes every graph. Each graph is pruned at most once; an
// in-progress traversal must be discarded, never normalized.
func (p *Program) Normalize() {
	for _, g := range p.Funcs {
		g.Prune()
	}
}

// Render writes the canonical text: the program header, the globals stanza
// when any globals exist, then every function's stanzas. Graphs that were
// not pruned yet are pruned here.
func (p *Program) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "/*--- program: %s ---*/\n", p.Source)

	if len(p.Globals.Lines) > 0 {
		fmt.Fprintln(bw, "@Globals {")
		for _, line := range p.Globals.Lines {
			fmt.Fprint(bw, line)
		}
		fmt.Fprintln(bw, "}")
		fmt.Fprintln(bw, "Predecessors: -")
		fmt.Fprintln(bw, "Successors: -")
		fmt.Fprintln(bw)
	}

	for _, g := range p.Funcs {
		g.Prune()
		g.render(bw)
	}

	return bw.Flush()
}
