package cfg

// Graph is the control-flow graph of a single function, together with the
// construction state used while the source traversal is in progress.
//
// Construction invariant: at every point there is exactly one open
// fallthrough edge from the current block to the top of segmentEnd (the
// exit block when no scope is open). Every operation splices a new block
// into that edge.
type Graph struct {
	FuncName string
	RetType  []string
	Args     []string

	arena []*Block
	entry Handle
	exit  Handle

	// table holds numbered blocks in creation-id order. Pruning marks
	// blocks dead in place so later passes keep the original iteration
	// order.
	table  []Handle
	nextID int

	cur          Handle
	segmentStart []Handle
	segmentEnd   []Handle

	pruned  bool
	display map[Handle]int
}

// New creates the graph for funcName: entry, exit, the base fallthrough
// edge entry->exit, and block #0 spliced into it.
func New(funcName string) *Graph {
	g := &Graph{FuncName: funcName}
	g.entry = g.alloc(newBlock(idNone))
	g.exit = g.alloc(newBlock(idNone))

	g.block(g.entry).succs.add(g.exit)
	g.block(g.exit).preds.add(g.entry)

	g.cur = g.entry
	g.segmentEnd = append(g.segmentEnd, g.exit)
	g.Advance()
	return g
}

func (g *Graph) alloc(b *Block) Handle {
	g.arena = append(g.arena, b)
	return Handle(len(g.arena) - 1)
}

func (g *Graph) block(h Handle) *Block { return g.arena[h] }

// Current returns the handle of the current insertion point.
func (g *Graph) Current() Handle { return g.cur }

// Entry and Exit return the distinguished blocks.
func (g *Graph) Entry() Handle { return g.entry }
func (g *Graph) Exit() Handle  { return g.exit }

// Block exposes a block for inspection.
func (g *Graph) Block(h Handle) *Block { return g.block(h) }

// splice removes the edge current->top(segmentEnd), inserts a fresh block
// on it, and makes that block current. Permanent blocks get the next dense
// id and a table slot immediately; anonymous ones are registered at scope
// closure. Returns the pre-splice current block, or None if the current
// block is sealed and nothing may be appended behind it.
func (g *Graph) splice(permanent bool) Handle {
	cur := g.block(g.cur)
	if cur.sealed {
		return None
	}

	past := g.cur
	nb := newBlock(idNone)
	if permanent {
		nb.id = g.nextID
	}
	h := g.alloc(nb)

	end := g.segmentEnd[len(g.segmentEnd)-1]
	cur.succs.remove(end)
	g.block(end).preds.remove(past)

	cur.succs.add(h)
	nb.preds.add(past)

	nb.succs.add(end)
	g.block(end).preds.add(h)

	if permanent {
		g.table = append(g.table, h)
		g.nextID++
	}

	g.cur = h
	return past
}

// AppendLine adds a text fragment to the current block. Fragments are
// opaque; nothing is interpreted here.
func (g *Graph) AppendLine(text string) {
	g.block(g.cur).addLine(text)
}

// Advance splices a new numbered block into the fallthrough edge. A sealed
// current block makes this a no-op.
func (g *Graph) Advance() {
	g.splice(true)
}

// OpenLoopScope splices a new numbered block and pushes it onto both scope
// stacks: a loop header is the scope's start and its own re-entry target.
// Returns false if the current block is sealed; the caller must skip the
// whole loop subtree.
func (g *Graph) OpenLoopScope() bool {
	if g.splice(true) == None {
		return false
	}
	g.segmentStart = append(g.segmentStart, g.cur)
	g.segmentEnd = append(g.segmentEnd, g.cur)
	return true
}

// OpenBranchScope splices an anonymous block into the fallthrough edge:
// the future join point of an if. The spliced-out block (the branch point)
// goes onto segmentStart, the join onto segmentEnd. The join stays nameless
// until closure since it may be elided. Returns false if the current block
// is sealed.
func (g *Graph) OpenBranchScope() bool {
	past := g.splice(false)
	if past == None {
		return false
	}
	g.segmentStart = append(g.segmentStart, past)
	g.segmentEnd = append(g.segmentEnd, g.cur)
	return true
}

// ResetToScopeStart moves the insertion point back to the innermost scope
// start without popping, so the second arm of a branch can be built.
// Calling it with no open scope is a driver contract violation.
func (g *Graph) ResetToScopeStart() {
	if len(g.segmentStart) == 0 {
		panic("cfg: ResetToScopeStart with no open scope")
	}
	g.cur = g.segmentStart[len(g.segmentStart)-1]
}

// CloseScope pops both stacks and resumes at the popped segment end. If
// that block is still anonymous it is numbered and registered now: its
// existence is certain, statements are about to flow into it. Returns
// false when no scope is open.
func (g *Graph) CloseScope() bool {
	if len(g.segmentStart) == 0 {
		return false
	}
	end := g.segmentEnd[len(g.segmentEnd)-1]
	g.segmentEnd = g.segmentEnd[:len(g.segmentEnd)-1]
	g.segmentStart = g.segmentStart[:len(g.segmentStart)-1]

	g.cur = end
	b := g.block(end)
	if b.id == idNone {
		b.id = g.nextID
		g.table = append(g.table, end)
		g.nextID++
	}
	return true
}

// SealToExit detaches the current block's successors, wires it straight to
// exit, and freezes it. Later AppendLine/Advance calls on it are no-ops.
func (g *Graph) SealToExit() {
	b := g.block(g.cur)
	if b.sealed {
		return
	}
	for _, s := range b.succs.items {
		g.block(s).preds.remove(g.cur)
	}
	b.succs.clear()
	b.succs.add(g.exit)
	g.block(g.exit).preds.add(g.cur)
	b.sealed = true
}

// SetThen records the then-arm entry on the block ending an if.
func (g *Graph) SetThen(branch, target Handle) {
	g.block(branch).thenTarget = target
}

// SetElse records the else-arm entry on the block ending an if.
func (g *Graph) SetElse(branch, target Handle) {
	g.block(branch).elseTarget = target
}

// SetLoopExit records the block control falls to when a loop finishes.
func (g *Graph) SetLoopExit(header, target Handle) {
	g.block(header).loopExit = target
}

// alive reports whether h should appear in output. Entry and exit are
// always printable; numbered blocks survive until pruning kills them.
func (g *Graph) alive(h Handle) bool {
	if h == g.entry || h == g.exit {
		return true
	}
	return g.block(h).id >= 0
}
