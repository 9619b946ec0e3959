// Package alias verifies that the resolution and type tables agree with the
// AST before translation relies on them.
package alias

import (
	"kiln/internal/diag"
	"kiln/internal/resolve"
	"kiln/internal/syntax"
	"kiln/internal/typeck"
)

// Checker is the reference alias checker.
type Checker struct{}

// Check fails fatally when a definition points at a node of the wrong kind
// or when a call is left unresolved without any error having been reported.
func (Checker) Check(tcx *typeck.Context, crate *syntax.Crate) error {
	sess := tcx.Session()
	amap := tcx.ASTMap()
	for _, fn := range crate.Functions() {
		for _, call := range fn.Calls {
			if n, ok := amap[call.ID]; !ok || n.Call != call {
				return sess.SpanFatal(diag.TckAliasCorrupt, call.Span, "internal error: call `%s` is missing from the AST map", call.Path())
			}
			def, ok := tcx.Defs()[call.ID]
			if !ok {
				if !sess.HasErrors() {
					return sess.SpanFatal(diag.TckAliasCorrupt, call.Span, "internal error: call `%s` has no definition", call.Path())
				}
				continue
			}
			want := syntax.ItemFn
			switch def.Kind {
			case resolve.DefExternFn, resolve.DefCrate:
				want = syntax.ItemUse
			case resolve.DefNative:
				want = syntax.ItemNative
			}
			target, ok := amap[def.Item]
			if !ok || target.Item == nil || target.Item.Kind != want {
				return sess.SpanFatal(diag.TckAliasCorrupt, call.Span,
					"internal error: `%s` refers to node %d, which is not a %s item", call.Path(), def.Item, want)
			}
		}
	}
	return nil
}
