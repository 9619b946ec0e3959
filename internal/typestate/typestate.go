// Package typestate runs the flow-sensitive checks: every function of an
// executable should be reachable from main.
package typestate

import (
	"fmt"

	"kiln/internal/diag"
	"kiln/internal/resolve"
	"kiln/internal/session"
	"kiln/internal/syntax"
	"kiln/internal/typeck"
)

// Checker is the reference typestate checker.
type Checker struct{}

// Check warns about functions that main can never reach. Libraries and
// crates without main are skipped.
func (Checker) Check(tcx *typeck.Context, crate *syntax.Crate) error {
	sess := tcx.Session()
	opts := sess.Options()
	if opts.Shared || opts.Output != session.OutputExecutable {
		return nil
	}
	main := typeck.FindMain(crate)
	if main == nil {
		return nil
	}

	reached := map[syntax.NodeID]bool{main.ID: true}
	work := []syntax.NodeID{main.ID}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		node := tcx.ASTMap()[id]
		if node.Item == nil {
			continue
		}
		for _, call := range node.Item.Calls {
			def, ok := tcx.Defs()[call.ID]
			if !ok || def.Kind != resolve.DefLocalFn || reached[def.Item] {
				continue
			}
			reached[def.Item] = true
			work = append(work, def.Item)
		}
	}

	for _, fn := range crate.Functions() {
		if _, defined := tcx.Defs()[fn.ID]; !defined {
			continue // duplicate, already reported
		}
		if !reached[fn.ID] {
			sess.SpanWarn(diag.TckUnreachableFn, fn.Span, fmt.Sprintf("function `%s` is never called", fn.Name))
		}
	}
	return nil
}
