// Package crateconfig builds the set of configuration predicates that
// conditional compilation tests items against.
package crateconfig

import (
	"strconv"

	"kiln/internal/target"
)

// Predicate is a configuration flag: a bare word such as `test`, or a
// name/value pair such as `target_os = "linux"`.
type Predicate struct {
	Name     string
	Value    string
	HasValue bool
}

// Word builds a bare predicate.
func Word(name string) Predicate {
	return Predicate{Name: name}
}

// NameValue builds a name/value predicate.
func NameValue(name, value string) Predicate {
	return Predicate{Name: name, Value: value, HasValue: true}
}

func (p Predicate) String() string {
	if !p.HasValue {
		return p.Name
	}
	return p.Name + " = " + strconv.Quote(p.Value)
}

// Set is an ordered list of active predicates. Order and duplicates are kept
// as given; membership is all that conditional compilation looks at.
type Set []Predicate

// Active reports whether p is in the set. A bare word matches a predicate
// of the same name with or without a value; a name/value predicate needs
// both to match.
func (s Set) Active(p Predicate) bool {
	for _, q := range s {
		if q.Name != p.Name {
			continue
		}
		if !p.HasValue || (q.HasValue && q.Value == p.Value) {
			return true
		}
	}
	return false
}

// Default returns the five built-in facts, always in this order:
// target_os, target_arch, target_libc, build_compiler, build_input.
func Default(tc *target.Config, buildCompiler, input string) Set {
	return Set{
		NameValue("target_os", tc.OS.String()),
		NameValue("target_arch", tc.Arch.String()),
		NameValue("target_libc", target.LibC(tc.OS)),
		NameValue("build_compiler", buildCompiler),
		NameValue("build_input", input),
	}
}

// Build concatenates the default facts and the user predicates.
func Build(tc *target.Config, buildCompiler, input string, user Set) Set {
	out := Default(tc, buildCompiler, input)
	return append(out, user...)
}

// ParseSpecs turns each --cfg argument into a bare word predicate.
//
// Value-carrying specs (`--cfg 'feature="x"'`) are not parsed: the whole
// argument becomes the word.
func ParseSpecs(specs []string) Set {
	out := make(Set, 0, len(specs))
	for _, spec := range specs {
		out = append(out, Word(spec))
	}
	return out
}
