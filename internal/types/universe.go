package types

import "github.com/you-not-fish/codemotion/internal/syntax"

// NoPos is the zero position value, used for predeclared objects.
var NoPos syntax.Pos

// Universe is the root scope containing all predeclared objects.
var Universe *Scope

// pureBuiltins are side-effect free primitives.
var pureBuiltins = []string{
	"add", "sub", "mul", "and", "or", "xor", "shl",
	"cmp_eq", "cmp_ne", "cmp_lt", "cmp_le",
	"trunc", "zext", "sizeof",
}

// effectBuiltins may write memory, trap, or otherwise be observed.
var effectBuiltins = []string{
	"print", "fence", "trap", "assume",
}

func init() {
	Universe = NewScope(nil, NoPos, "universe")

	for _, kind := range []BasicKind{Bool, Int, Float, String} {
		typ := Typ[kind]
		Universe.Insert(NewTypeName(NoPos, typ.name, typ))
	}
	for _, name := range pureBuiltins {
		Universe.Insert(NewBuiltin(name, true))
	}
	for _, name := range effectBuiltins {
		Universe.Insert(NewBuiltin(name, false))
	}
}

// LookupBuiltin returns the predeclared builtin with the given name,
// or nil if there is none.
func LookupBuiltin(name string) *Builtin {
	b, _ := Universe.Lookup(name).(*Builtin)
	return b
}
