// Package typeck assigns types to the items and calls of a resolved crate.
package typeck

import (
	"fmt"

	"kiln/internal/diag"
	"kiln/internal/resolve"
	"kiln/internal/session"
	"kiln/internal/syntax"
)

// Type is the type of a node. The item language has only function types,
// and the opaque types of crates and native libraries.
type Type uint8

const (
	TypeFn Type = iota + 1
	TypeUnit
	TypeCrate
	TypeNative
)

func (t Type) String() string {
	switch t {
	case TypeFn:
		return "fn()"
	case TypeUnit:
		return "()"
	case TypeCrate:
		return "crate"
	case TypeNative:
		return "native"
	}
	return "<invalid>"
}

// Context is the type context shared by the checks after resolution.
type Context struct {
	sess  *session.Session
	defs  resolve.DefMap
	amap  syntax.ASTMap
	types map[syntax.NodeID]Type
}

// Session returns the compilation session.
func (c *Context) Session() *session.Session { return c.sess }

// Defs returns the resolution results.
func (c *Context) Defs() resolve.DefMap { return c.defs }

// ASTMap returns the node index.
func (c *Context) ASTMap() syntax.ASTMap { return c.amap }

// TypeOf returns the type recorded for id.
func (c *Context) TypeOf(id syntax.NodeID) (Type, bool) {
	t, ok := c.types[id]
	return t, ok
}

// Callable reports whether a call node resolved to a function of type fn().
func (c *Context) Callable(id syntax.NodeID) bool {
	def, ok := c.defs[id]
	return ok && c.defType(def) == TypeFn
}

func (c *Context) defType(def resolve.Def) Type {
	switch def.Kind {
	case resolve.DefLocalFn, resolve.DefExternFn:
		return TypeFn
	case resolve.DefCrate:
		return TypeCrate
	case resolve.DefNative:
		return TypeNative
	default:
		panic(fmt.Sprintf("typeck: invalid definition kind %d", def.Kind))
	}
}

// Checker is the reference type checker.
type Checker struct{}

// NewContext builds the type context and types every resolved item.
func (Checker) NewContext(sess *session.Session, defs resolve.DefMap, amap syntax.ASTMap) *Context {
	tcx := &Context{sess: sess, defs: defs, amap: amap, types: make(map[syntax.NodeID]Type, len(amap))}
	for id, node := range amap {
		if node.Item == nil {
			continue
		}
		if def, ok := defs[id]; ok {
			tcx.types[id] = tcx.defType(def)
		}
	}
	return tcx
}

// Check types every call. Calls of non-functions and a missing main in an
// executable are reported as non-fatal errors.
func (Checker) Check(tcx *Context, crate *syntax.Crate) error {
	sess := tcx.sess
	for _, fn := range crate.Functions() {
		for _, call := range fn.Calls {
			def, ok := tcx.defs[call.ID]
			if !ok {
				continue // reported by resolve
			}
			if t := tcx.defType(def); t != TypeFn {
				sess.SpanErr(diag.TckNotAFunction, call.Span,
					fmt.Sprintf("`%s` is not a function, found %s of type %s", call.Path(), def.Kind, t))
				continue
			}
			tcx.types[call.ID] = TypeUnit
		}
	}

	opts := sess.Options()
	if opts.Output == session.OutputExecutable && !opts.Shared && FindMain(crate) == nil {
		sess.Err(diag.TckMissingMain, fmt.Sprintf("main function not found in crate `%s`", crate.Name))
	}
	return nil
}

// FindMain returns the first function named main.
func FindMain(crate *syntax.Crate) *syntax.Item {
	for _, fn := range crate.Functions() {
		if fn.Name == "main" {
			return fn
		}
	}
	return nil
}
