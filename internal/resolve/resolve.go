// Package resolve binds every use, native and call node of a crate to its
// definition and loads the external crates the crate uses.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"

	"kiln/internal/diag"
	"kiln/internal/metadata"
	"kiln/internal/session"
	"kiln/internal/syntax"
	"kiln/internal/target"
)

// DefKind discriminates Def.
type DefKind uint8

const (
	DefLocalFn DefKind = iota + 1
	DefExternFn
	DefCrate
	DefNative
)

func (k DefKind) String() string {
	switch k {
	case DefLocalFn:
		return "function"
	case DefExternFn:
		return "external function"
	case DefCrate:
		return "crate"
	case DefNative:
		return "native library"
	}
	return "invalid"
}

// Def is what a node refers to.
type Def struct {
	Kind  DefKind
	Name  string
	Item  syntax.NodeID // defining item for local functions, crates and libraries
	Crate int           // session crate number for crates and external functions
}

// DefMap maps node ids to definitions. Nodes that failed to resolve are
// absent.
type DefMap map[syntax.NodeID]Def

// Resolver is the reference name resolver.
type Resolver struct{}

type scope struct {
	fns    map[string]syntax.NodeID
	crates map[string]Def
	libs   map[string]Def
	failed map[string]bool // crates already reported as missing
}

// Resolve populates the session's crate and library accumulators and returns
// the definitions of every resolvable node. Problems are reported as
// non-fatal errors.
func (Resolver) Resolve(sess *session.Session, amap syntax.ASTMap, crate *syntax.Crate) (DefMap, error) {
	defs := make(DefMap, len(amap))
	sc := scope{
		fns:    make(map[string]syntax.NodeID),
		crates: make(map[string]Def),
		libs:   make(map[string]Def),
		failed: make(map[string]bool),
	}

	for _, it := range crate.Items {
		switch it.Kind {
		case syntax.ItemUse:
			num, ok := loadCrate(sess, it)
			if !ok {
				sc.failed[it.Name] = true
				continue
			}
			def := Def{Kind: DefCrate, Name: it.Name, Item: it.ID, Crate: num}
			sc.crates[it.Name] = def
			defs[it.ID] = def
		case syntax.ItemNative:
			sess.AddUsedLibrary(it.Name)
			def := Def{Kind: DefNative, Name: it.Name, Item: it.ID}
			sc.libs[it.Name] = def
			defs[it.ID] = def
		case syntax.ItemFn:
			if _, dup := sc.fns[it.Name]; dup {
				sess.SpanErr(diag.ResDuplicateItem, it.Span, fmt.Sprintf("duplicate definition of `%s`", it.Name))
				continue
			}
			sc.fns[it.Name] = it.ID
			defs[it.ID] = Def{Kind: DefLocalFn, Name: it.Name, Item: it.ID}
		default:
			return nil, sess.SpanFatal(diag.DrvInternal, it.Span, "internal error: unexpected item kind %s", it.Kind)
		}
	}

	for _, fn := range crate.Functions() {
		for _, call := range fn.Calls {
			if def, ok := sc.lookup(sess, call); ok {
				defs[call.ID] = def
			}
		}
	}
	return defs, nil
}

func (sc *scope) lookup(sess *session.Session, call *syntax.Call) (Def, bool) {
	if call.Crate == "" {
		if id, ok := sc.fns[call.Name]; ok {
			return Def{Kind: DefLocalFn, Name: call.Name, Item: id}, true
		}
		if def, ok := sc.crates[call.Name]; ok {
			return def, true
		}
		if def, ok := sc.libs[call.Name]; ok {
			return def, true
		}
		sess.SpanErr(diag.ResUnresolvedName, call.Span, fmt.Sprintf("unresolved name: `%s`", call.Name))
		return Def{}, false
	}

	krate, ok := sc.crates[call.Crate]
	if !ok && sc.failed[call.Crate] {
		return Def{}, false
	}
	if !ok {
		sess.SpanErr(diag.ResUnresolvedName, call.Span, fmt.Sprintf("unresolved crate `%s` in `%s`", call.Crate, call.Path()))
		return Def{}, false
	}
	if ext, ok := sess.ExternalCrate(krate.Crate); ok && ext.Meta != nil && !ext.Meta.HasExport(call.Name) {
		sess.SpanErr(diag.ResUnknownExternFn, call.Span, fmt.Sprintf("crate `%s` has no public function `%s`", call.Crate, call.Name))
		return Def{}, false
	}
	return Def{Kind: DefExternFn, Name: call.Name, Item: krate.Item, Crate: krate.Crate}, true
}

// loadCrate finds the crate file for `use NAME;` on the library search path,
// caches it on the session and records it for the linker.
func loadCrate(sess *session.Session, it *syntax.Item) (int, bool) {
	if num, _, ok := sess.FindExternalCrate(it.Name); ok {
		return num, true
	}

	file := target.CrateFileName(sess.Target().OS, it.Name)
	path, ok := searchLibrary(sess.Options().LibrarySearchPaths, file)
	if !ok {
		sess.SpanErr(diag.ResCrateNotFound, it.Span, fmt.Sprintf("can't find crate for `%s`", it.Name))
		return 0, false
	}

	meta, _, err := metadata.Read(path)
	if err != nil {
		sess.SpanErr(diag.ResBadCrateMeta, it.Span, err.Error())
		return 0, false
	}

	num := sess.NextCrateNum()
	sess.SetExternalCrate(num, &session.ExternalCrate{Name: it.Name, Path: path, Meta: meta})
	sess.AddUsedCrateFile(path)
	if meta != nil {
		for _, lib := range meta.NativeLibs {
			sess.AddUsedLibrary(lib)
		}
	}
	return num, true
}

func searchLibrary(dirs []string, file string) (string, bool) {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, file)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
