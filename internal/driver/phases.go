package driver

import (
	"context"

	"kiln/internal/alias"
	"kiln/internal/backend"
	"kiln/internal/crateconfig"
	"kiln/internal/resolve"
	"kiln/internal/session"
	"kiln/internal/syntax"
	"kiln/internal/toolchain"
	"kiln/internal/trans"
	"kiln/internal/typeck"
	"kiln/internal/typestate"
)

// Phase names as they appear in --time-passes output, traces and --stats.
const (
	PhaseParsing       = "parsing"
	PhaseConfiguration = "configuration"
	PhaseIndexing      = "ast indexing"
	PhaseResolution    = "resolution"
	PhaseTypeContext   = "type context"
	PhaseTypecheck     = "typechecking"
	PhaseTypestate     = "typestate checking"
	PhaseAlias         = "alias checking"
	PhaseTranslation   = "translation"
	PhaseBackend       = "backend passes"
)

// PhaseNames lists every phase of a full compilation in order.
var PhaseNames = []string{
	PhaseParsing,
	PhaseConfiguration,
	PhaseIndexing,
	PhaseResolution,
	PhaseTypeContext,
	PhaseTypecheck,
	PhaseTypestate,
	PhaseAlias,
	PhaseTranslation,
	PhaseBackend,
}

// Parser turns the input file into a crate.
type Parser interface {
	ParseCrateFile(sess *session.Session, path string) (*syntax.Crate, error)
	ParseSourceFile(sess *session.Session, path string) (*syntax.Crate, error)
}

// ConfigStripper drops items excluded by conditional compilation.
type ConfigStripper interface {
	Strip(crate *syntax.Crate, cfg crateconfig.Set) *syntax.Crate
}

// Indexer maps node ids to nodes.
type Indexer interface {
	Index(crate *syntax.Crate) syntax.ASTMap
}

// Resolver binds names and records the crates and libraries to link.
type Resolver interface {
	Resolve(sess *session.Session, amap syntax.ASTMap, crate *syntax.Crate) (resolve.DefMap, error)
}

// TypeChecker builds the type context and checks the crate.
type TypeChecker interface {
	NewContext(sess *session.Session, defs resolve.DefMap, amap syntax.ASTMap) *typeck.Context
	Check(tcx *typeck.Context, crate *syntax.Crate) error
}

// CrateChecker is a check over a typed crate (typestate, alias).
type CrateChecker interface {
	Check(tcx *typeck.Context, crate *syntax.Crate) error
}

// Translator lowers a checked crate, or produces the glue module.
type Translator interface {
	Translate(sess *session.Session, crate *syntax.Crate, tcx *typeck.Context, output string, amap syntax.ASTMap) (*trans.Module, error)
	TranslateGlue(sess *session.Session) (*trans.Module, error)
}

// Backend writes a translated module to output in the requested form.
type Backend interface {
	RunPasses(ctx context.Context, sess *session.Session, mod *trans.Module, kind session.OutputKind, output string) error
}

// Phases bundles the collaborators of one compilation.
type Phases struct {
	Parser      Parser
	Stripper    ConfigStripper
	Indexer     Indexer
	Resolver    Resolver
	TypeChecker TypeChecker
	Typestate   CrateChecker
	Alias       CrateChecker
	Translator  Translator
	Backend     Backend
}

// DefaultPhases returns the built-in frontend and the clang backend.
func DefaultPhases(runner toolchain.Runner) Phases {
	return Phases{
		Parser:      syntax.Parser{},
		Stripper:    syntax.ConfigStripper{},
		Indexer:     syntax.Indexer{},
		Resolver:    resolve.Resolver{},
		TypeChecker: typeck.Checker{},
		Typestate:   typestate.Checker{},
		Alias:       alias.Checker{},
		Translator:  trans.Translator{},
		Backend:     backend.Clang{Runner: runner},
	}
}
