package cfg

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Renderer writes pruned graphs in the canonical text format. The format
// is a compatibility contract: stanza layout, name sorting, annotation
// placement, and whitespace are all fixed.
type renderer struct {
	w io.Writer
	g *Graph
}

func (g *Graph) render(w io.Writer) {
	r := renderer{w: w, g: g}
	r.writeEntry()
	for _, h := range g.table {
		r.writeBlock(h)
	}
	r.writeBlock(g.exit)
}

// blockName returns the printable name of a block, or ok=false for dead
// blocks, which never appear in output.
func (r *renderer) blockName(h Handle) (string, bool) {
	switch {
	case h == r.g.entry:
		return r.g.FuncName + "_entry", true
	case h == r.g.exit:
		return r.g.FuncName + "_exit", true
	case r.g.block(h).id == idNone:
		return "", false
	default:
		return fmt.Sprintf("%s_B%d", r.g.FuncName, r.g.display[h]), true
	}
}

// sortedNames lists the alive members of a pred/succ set: numbered blocks
// first in creation-id order, then entry before exit.
func (r *renderer) sortedNames(s handleSet) []string {
	alive := make([]Handle, 0, len(s.items))
	for _, h := range s.items {
		if r.g.alive(h) {
			alive = append(alive, h)
		}
	}
	sort.SliceStable(alive, func(i, j int) bool {
		return r.sortKey(alive[i]) < r.sortKey(alive[j])
	})

	names := make([]string, 0, len(alive))
	for _, h := range alive {
		name, _ := r.blockName(h)
		names = append(names, name)
	}
	return names
}

// sortKey orders numbered blocks by creation id (display order follows it)
// and places entry, then exit, after all numbered blocks.
func (r *renderer) sortKey(h Handle) int {
	switch h {
	case r.g.entry:
		return int(^uint(0)>>1) - 1
	case r.g.exit:
		return int(^uint(0) >> 1)
	default:
		return r.g.block(h).id
	}
}

func (r *renderer) writePredsSuccs(h Handle) {
	b := r.g.block(h)

	preds := strings.Join(r.sortedNames(b.preds), ", ")
	if preds == "" {
		preds = "-"
	}
	fmt.Fprintf(r.w, "Predecessors: %s\n", preds)

	succs := strings.Join(r.sortedNames(b.succs), ", ")
	if succs == "" {
		succs = "-"
	}
	fmt.Fprintf(r.w, "Successors: %s\n", succs)
	fmt.Fprintln(r.w)
}

func (r *renderer) writeEntry() {
	name, _ := r.blockName(r.g.entry)
	fmt.Fprintf(r.w, "@%s {\n", name)
	fmt.Fprintf(r.w, "   name: %s\n", r.g.FuncName)

	fmt.Fprint(r.w, "   ret_type: ")
	for _, tok := range r.g.RetType {
		fmt.Fprint(r.w, tok)
	}
	fmt.Fprintln(r.w)

	fmt.Fprint(r.w, "   args: ")
	if len(r.g.Args) == 0 {
		fmt.Fprint(r.w, "-")
	} else {
		for _, tok := range r.g.Args {
			fmt.Fprint(r.w, tok)
		}
	}
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "}")
	r.writePredsSuccs(r.g.entry)
}

func isControlKeyword(frag string) bool {
	return frag == "if" || frag == "for" || frag == "while"
}

// writeBlock prints one stanza. A block may hold several merged statements;
// only the last control keyword can still own a branch or loop annotation,
// so a countdown over keyword fragments decides where annotations attach
// and how far the else-annotation is indented.
func (r *renderer) writeBlock(h Handle) {
	name, ok := r.blockName(h)
	if !ok {
		return
	}
	b := r.g.block(h)

	haveThen := b.thenTarget != None && r.g.alive(b.thenTarget)
	haveLoopExit := b.loopExit != None && r.g.alive(b.loopExit)

	fmt.Fprintf(r.w, "@%s {\n", name)

	keywords := 0
	for _, frag := range b.lines {
		if isControlKeyword(frag) {
			keywords++
		}
	}

	width := 4
	trailing := false
	placeholder := false
	for _, frag := range b.lines {
		if isControlKeyword(frag) {
			keywords--
			if keywords == 0 {
				if frag == "if" {
					trailing = haveThen
				} else {
					trailing = true
				}
			}
		}

		// An if whose arms were both elided never materializes a then
		// target; its body prints as a literal empty compound statement.
		if frag == "if" && !trailing {
			placeholder = true
		}
		if placeholder && frag == "    " {
			fmt.Fprintln(r.w, "{ }")
			placeholder = false
		}

		fmt.Fprint(r.w, frag)
		if trailing {
			width += len(frag)
		}
	}
	if placeholder {
		fmt.Fprintln(r.w, "{ }")
	}

	if haveThen {
		width += 4
		thenName, _ := r.blockName(b.thenTarget)
		elseName, _ := r.blockName(b.elseTarget)
		fmt.Fprintf(r.w, "    # then: %s\n", thenName)
		fmt.Fprintf(r.w, "%s# else: %s\n", strings.Repeat(" ", width), elseName)
	} else if haveLoopExit {
		loopName, _ := r.blockName(b.loopExit)
		fmt.Fprintf(r.w, "    # loop_end: %s\n", loopName)
	}

	fmt.Fprintln(r.w, "}")
	r.writePredsSuccs(h)
}
