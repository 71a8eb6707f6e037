// Package cfg builds normalized control-flow graphs from a stream of
// construction events and renders them in a fixed textual form.
//
// A Graph is built incrementally while a source traversal is in progress:
// every operation splices a new block into the single open fallthrough edge
// between the current block and the innermost segment end. After
// construction the graph is pruned (reachability, empty-block elision,
// straight-line merge, renumbering) and printed.
package cfg

// Handle identifies a block inside its Graph's arena. Handles stay valid
// across pruning; blocks are never deleted, only marked dead.
type Handle int

// None is the null block handle.
const None Handle = -1

// idNone marks a block as anonymous (before scope closure) or dead (after
// pruning). Display names come from the canonical renumbering, not from
// this id; the id orders the table and decides aliveness.
const idNone = -1

// Block is a basic block: an ordered run of opaque text fragments plus its
// place in the graph. Blocks never own their neighbors; preds and succs are
// insertion-ordered sets of handles into the owning Graph's arena.
type Block struct {
	id     int
	lines  []string
	sealed bool

	preds handleSet
	succs handleSet

	// thenTarget/elseTarget are set only on a block whose trailing
	// statement is an if; loopExit only on a loop header.
	thenTarget Handle
	elseTarget Handle
	loopExit   Handle
}

func newBlock(id int) *Block {
	return &Block{
		id:         id,
		thenTarget: None,
		elseTarget: None,
		loopExit:   None,
	}
}

// Lines returns the block's accumulated text fragments.
func (b *Block) Lines() []string { return b.lines }

// Sealed reports whether the block has been frozen by a return.
func (b *Block) Sealed() bool { return b.sealed }

// addLine appends a fragment unless the block is sealed. Fragments arriving
// after a return belong to dead code and are dropped.
func (b *Block) addLine(line string) {
	if b.sealed {
		return
	}
	b.lines = append(b.lines, line)
}

// handleSet is an insertion-ordered set of block handles. An edge either
// exists once or not at all, so membership is checked on every add.
type handleSet struct {
	items []Handle
}

func (s *handleSet) has(h Handle) bool {
	for _, it := range s.items {
		if it == h {
			return true
		}
	}
	return false
}

func (s *handleSet) add(h Handle) {
	if s.has(h) {
		return
	}
	s.items = append(s.items, h)
}

func (s *handleSet) addAll(o handleSet) {
	for _, h := range o.items {
		s.add(h)
	}
}

func (s *handleSet) remove(h Handle) {
	for i, it := range s.items {
		if it == h {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *handleSet) clear() {
	s.items = s.items[:0]
}

func (s *handleSet) len() int { return len(s.items) }

// first returns the oldest member. Callers rely on the construction
// invariant that the set is non-empty.
func (s *handleSet) first() Handle {
	return s.items[0]
}
