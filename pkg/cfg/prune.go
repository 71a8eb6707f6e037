package cfg

// Prune normalizes a structurally complete graph in four passes, in order:
// reachability, empty-block elision, straight-line merge, canonical
// renumbering. The passes rewrite pointers destructively, so they run at
// most once per graph; a second call is a no-op.
//
// Dead blocks keep their slot in the table (id reset to none) so every
// pass iterates in original creation order.
func (g *Graph) Prune() {
	if g.pruned {
		return
	}
	g.pruned = true

	g.pruneUnreachable()
	g.elideEmpty()
	g.mergeStraightLine()
	g.renumber()
}

// pruneUnreachable marks blocks not reachable from block #0 dead in one
// ascending-id sweep. The sweep suffices because construction only emits
// forward edges or back-edges into loop headers that are independently
// reachable along the lower-id fallthrough path.
func (g *Graph) pruneUnreachable() {
	if len(g.table) == 0 {
		return
	}
	reached := map[Handle]bool{g.table[0]: true}
	for _, h := range g.table {
		b := g.block(h)
		if !reached[h] {
			b.id = idNone
			for _, s := range b.succs.items {
				g.block(s).preds.remove(h)
			}
			continue
		}
		for _, s := range b.succs.items {
			reached[s] = true
		}
	}
}

// elideEmpty removes blocks that accumulated no statements. By
// construction only anonymous join points and headers can be empty, and
// each has exactly one fallthrough successor; every predecessor is
// redirected past the block, including its then/else/loop-exit pointers.
func (g *Graph) elideEmpty() {
	for _, h := range g.table {
		b := g.block(h)
		if b.id == idNone || len(b.lines) > 0 {
			continue
		}
		succ := b.succs.first()
		for _, p := range b.preds.items {
			pb := g.block(p)
			if pb.thenTarget == h {
				pb.thenTarget = succ
			}
			if pb.elseTarget == h {
				pb.elseTarget = succ
			}
			if pb.loopExit == h {
				pb.loopExit = succ
			}
			pb.succs.remove(h)
			pb.succs.addAll(b.succs)
		}
		for _, s := range b.succs.items {
			sb := g.block(s)
			sb.preds.remove(h)
			sb.preds.addAll(b.preds)
		}
		b.id = idNone
	}
}

// mergeStraightLine absorbs 1-to-1 successor chains. Each alive block
// swallows its sole successor while that successor has no other
// predecessor and is not exit, taking over its lines, successors, and
// branch/loop-target pointers; chains collapse fully in one visit.
func (g *Graph) mergeStraightLine() {
	for _, h := range g.table {
		b := g.block(h)
		if b.id == idNone {
			continue
		}

		for {
			if b.succs.len() != 1 {
				break
			}
			n := b.succs.first()
			nb := g.block(n)
			if n == g.exit || nb.preds.len() != 1 {
				break
			}

			b.lines = append(b.lines, nb.lines...)

			b.succs.remove(n)
			for _, nn := range nb.succs.items {
				nnb := g.block(nn)
				nnb.preds.remove(n)
				nnb.preds.add(h)
				b.succs.add(nn)
			}

			b.thenTarget = nb.thenTarget
			b.elseTarget = nb.elseTarget
			b.loopExit = nb.loopExit

			nb.id = idNone
		}
	}
}

// renumber assigns alive blocks dense display indices 0..k-1 in original
// creation order. Internal identity and edges are untouched.
func (g *Graph) renumber() {
	g.display = make(map[Handle]int)
	idx := 0
	for _, h := range g.table {
		if g.block(h).id == idNone {
			continue
		}
		g.display[h] = idx
		idx++
	}
}
