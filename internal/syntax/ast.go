// Package syntax holds the item tree of a crate together with its parser,
// the crate manifest loader, configuration stripping and AST indexing.
package syntax

import (
	"fmt"

	"kiln/internal/crateconfig"
	"kiln/internal/source"
)

// NodeID identifies an item or a call within one crate. Zero is never
// assigned.
type NodeID uint32

// ItemKind discriminates Item.
type ItemKind uint8

const (
	ItemUse ItemKind = iota + 1
	ItemNative
	ItemFn
)

func (k ItemKind) String() string {
	switch k {
	case ItemUse:
		return "use"
	case ItemNative:
		return "native"
	case ItemFn:
		return "fn"
	}
	return "invalid"
}

// Attr is a #[cfg(...)] attribute.
type Attr struct {
	Pred crateconfig.Predicate
	Span source.Span
}

// Call is `name();` or `krate::name();` inside a function body.
type Call struct {
	ID    NodeID
	Crate string // empty for calls into the current crate
	Name  string
	Span  source.Span
}

// Path renders the call target as written.
func (c *Call) Path() string {
	if c.Crate == "" {
		return c.Name
	}
	return c.Crate + "::" + c.Name
}

// Item is a top-level declaration.
type Item struct {
	ID    NodeID
	Kind  ItemKind
	Name  string // crate name, library name or function name
	Pub   bool
	Attrs []Attr
	Calls []*Call
	Span  source.Span
}

// Crate is the parsed input.
type Crate struct {
	Name  string
	Path  string
	Items []*Item
	Files []source.FileID

	lastID NodeID
}

// NewCrate returns an empty crate.
func NewCrate(name, path string) *Crate {
	return &Crate{Name: name, Path: path}
}

// String renders a short description of the crate for logs.
func (c *Crate) String() string {
	return fmt.Sprintf("crate %s (%d items)", c.Name, len(c.Items))
}

func (c *Crate) newID() NodeID {
	c.lastID++
	return c.lastID
}

// Functions returns the function items in source order.
func (c *Crate) Functions() []*Item {
	var out []*Item
	for _, it := range c.Items {
		if it.Kind == ItemFn {
			out = append(out, it)
		}
	}
	return out
}

// Node is the entry an ASTMap stores: exactly one field is set.
type Node struct {
	Item *Item
	Call *Call
}

// ASTMap maps every node id of a crate to its node.
type ASTMap map[NodeID]Node
