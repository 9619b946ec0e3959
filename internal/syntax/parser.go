package syntax

import (
	"path/filepath"
	"strings"

	"kiln/internal/crateconfig"
	"kiln/internal/diag"
	"kiln/internal/session"
	"kiln/internal/source"
)

// Parser reads `.rs` source files and `.rc` crate manifests.
type Parser struct{}

// ParseSourceFile parses a single source file into a crate named after the
// file.
func (Parser) ParseSourceFile(sess *session.Session, path string) (*Crate, error) {
	crate := NewCrate(crateNameFromPath(path), path)
	if err := parseModule(sess, crate, path); err != nil {
		return nil, err
	}
	return crate, nil
}

// ParseCrateFile loads a crate manifest and parses every module it lists.
func (Parser) ParseCrateFile(sess *session.Session, path string) (*Crate, error) {
	m, err := loadManifest(path)
	if err != nil {
		return nil, sess.Fatal(diag.SynBadManifest, "%v", err)
	}
	crate := NewCrate(m.Crate.Name, path)
	root := filepath.Dir(path)
	for _, mod := range m.Crate.Modules {
		if err := parseModule(sess, crate, filepath.Join(root, filepath.FromSlash(mod))); err != nil {
			return nil, err
		}
	}
	for _, lib := range m.Crate.Libraries {
		crate.Items = append(crate.Items, &Item{ID: crate.newID(), Kind: ItemNative, Name: lib})
	}
	return crate, nil
}

// ParseString parses src as a virtual file named name. Tests use it to
// build crates without touching the disk.
func ParseString(sess *session.Session, crateName, name, src string) (*Crate, error) {
	id, err := sess.Files().AddVirtual(name, []byte(src))
	if err != nil {
		return nil, sess.Fatal(diag.DrvInternal, "%v", err)
	}
	crate := NewCrate(crateName, name)
	if err := parseFile(sess, crate, sess.Files().Get(id)); err != nil {
		return nil, err
	}
	return crate, nil
}

func crateNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseModule(sess *session.Session, crate *Crate, path string) error {
	id, err := sess.Files().Load(path)
	if err != nil {
		return sess.Fatal(diag.DrvUnknownInput, "%s: %v", path, err)
	}
	return parseFile(sess, crate, sess.Files().Get(id))
}

func parseFile(sess *session.Session, crate *Crate, file *source.File) error {
	p := &parser{sess: sess, crate: crate, lx: newLexer(file)}
	crate.Files = append(crate.Files, file.ID)
	return p.parseItems()
}

type parser struct {
	sess  *session.Session
	crate *Crate
	lx    *lexer
}

func (p *parser) errorf(at token, format string, args ...any) error {
	return p.sess.SpanFatal(diag.SynUnexpectedToken, at.Span, format, args...)
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.lx.next()
	if t.Kind != kind {
		return t, p.errorf(t, "expected %s, found %s", kind, t.describe())
	}
	return t, nil
}

func (p *parser) expectKeyword(kw string) (token, error) {
	t := p.lx.next()
	if t.Kind != tokIdent || t.Text != kw {
		return t, p.errorf(t, "expected `%s`, found %s", kw, t.describe())
	}
	return t, nil
}

func (p *parser) parseItems() error {
	for {
		var attrs []Attr
		for p.lx.peek().Kind == tokHash {
			attr, err := p.parseAttr()
			if err != nil {
				return err
			}
			attrs = append(attrs, attr)
		}
		if p.lx.peek().Kind == tokEOF {
			if len(attrs) > 0 {
				return p.errorf(p.lx.peek(), "attribute is not followed by an item")
			}
			return nil
		}
		item, err := p.parseItem()
		if err != nil {
			return err
		}
		item.Attrs = attrs
		if len(attrs) > 0 {
			item.Span.Start = attrs[0].Span.Start
		}
		p.crate.Items = append(p.crate.Items, item)
	}
}

// #[cfg(word)] or #[cfg(key = "value")]
func (p *parser) parseAttr() (Attr, error) {
	hash := p.lx.next()
	if _, err := p.expect(tokLBracket); err != nil {
		return Attr{}, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return Attr{}, err
	}
	if name.Text != "cfg" {
		return Attr{}, p.sess.SpanFatal(diag.SynBadAttribute, name.Span, "unknown attribute `%s`", name.Text)
	}
	if _, err := p.expect(tokLParen); err != nil {
		return Attr{}, err
	}
	key, err := p.expect(tokIdent)
	if err != nil {
		return Attr{}, err
	}
	pred := crateconfig.Word(key.Text)
	if p.lx.peek().Kind == tokEq {
		p.lx.next()
		val, err := p.expect(tokString)
		if err != nil {
			return Attr{}, err
		}
		pred = crateconfig.NameValue(key.Text, val.Text)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return Attr{}, err
	}
	end, err := p.expect(tokRBracket)
	if err != nil {
		return Attr{}, err
	}
	return Attr{Pred: pred, Span: source.Span{File: hash.Span.File, Start: hash.Span.Start, End: end.Span.End}}, nil
}

func (p *parser) parseItem() (*Item, error) {
	first := p.lx.peek()
	if first.Kind != tokIdent {
		p.lx.next()
		return nil, p.errorf(first, "expected item, found %s", first.describe())
	}

	item := &Item{Span: first.Span}
	switch first.Text {
	case "use":
		p.lx.next()
		name, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		item.Kind, item.Name = ItemUse, name.Text
		return p.finishDecl(item)
	case "native":
		p.lx.next()
		name, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		item.Kind, item.Name = ItemNative, name.Text
		return p.finishDecl(item)
	case "pub":
		p.lx.next()
		item.Pub = true
		return p.parseFn(item)
	case "fn":
		return p.parseFn(item)
	}
	p.lx.next()
	return nil, p.errorf(first, "expected item, found %s", first.describe())
}

func (p *parser) finishDecl(item *Item) (*Item, error) {
	semi, err := p.expect(tokSemi)
	if err != nil {
		return nil, err
	}
	item.ID = p.crate.newID()
	item.Span.End = semi.Span.End
	return item, nil
}

func (p *parser) parseFn(item *Item) (*Item, error) {
	if _, err := p.expectKeyword("fn"); err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	item.Kind, item.Name = ItemFn, name.Text
	if p.lx.peek().Kind == tokSemi {
		return p.finishDecl(item)
	}

	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	item.ID = p.crate.newID()
	for p.lx.peek().Kind != tokRBrace {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		item.Calls = append(item.Calls, call)
	}
	end := p.lx.next()
	item.Span.End = end.Span.End
	return item, nil
}

// name(); or krate::name();
func (p *parser) parseCall() (*Call, error) {
	first, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	call := &Call{Name: first.Text, Span: first.Span}
	if p.lx.peek().Kind == tokColonColon {
		p.lx.next()
		name, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		call.Crate, call.Name = first.Text, name.Text
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	semi, err := p.expect(tokSemi)
	if err != nil {
		return nil, err
	}
	call.ID = p.crate.newID()
	call.Span.End = semi.Span.End
	return call, nil
}
