// types.go
//
// Weave's nominal type layer (runtime-only):
//  1. Builtin annotations str, number and bool match the corresponding
//     value kinds exactly. There is no nil-able annotation and no Any.
//  2. Struct declarations register an ordered field schema under a name.
//     A record matches Custom(T) iff its type name is T.
//  3. Union aliases (`type Color = "red" | "blue"`) register a finite set of
//     string variants. A string matches Custom(T) iff T is an alias and the
//     string is one of its variants.
//  4. Names are resolved when a value is checked, not when a declaration is
//     parsed; redeclaring a name silently replaces the previous entry.
package weave

import (
	"github.com/ahrtr/gocontainer/set"
)

// typeTable holds the struct and alias declarations of one program run.
type typeTable struct {
	structs map[string][]FieldDecl
	aliases map[string]set.Interface
}

func newTypeTable() *typeTable {
	return &typeTable{
		structs: map[string][]FieldDecl{},
		aliases: map[string]set.Interface{},
	}
}

func (tt *typeTable) declareStruct(d *StructDecl) {
	fields := make([]FieldDecl, len(d.Fields))
	copy(fields, d.Fields)
	tt.structs[d.Name] = fields
}

func (tt *typeTable) declareAlias(a *TypeAlias) {
	variants := set.New()
	for _, v := range a.Variants {
		variants.Add(v)
	}
	tt.aliases[a.Name] = variants
}

// schema returns the declared fields of a struct, in declaration order.
func (tt *typeTable) schema(name string) ([]FieldDecl, bool) {
	fs, ok := tt.structs[name]
	return fs, ok
}

// matches implements the type-match rule for a value against an annotation.
func (tt *typeTable) matches(v Value, t TypeAnn) bool {
	switch t.Kind {
	case TypeStr:
		return v.Tag == VTStr
	case TypeNumber:
		return v.Tag == VTNum
	case TypeBool:
		return v.Tag == VTBool
	}

	switch v.Tag {
	case VTStr:
		variants, ok := tt.aliases[t.Name]
		return ok && variants.Contains(v.Data.(string))
	case VTRecord:
		return v.Data.(*Record).Type == t.Name
	}
	return false
}

// typeNameOf describes a value's type for diagnostics: builtin kinds by
// their annotation keyword, records by their struct name.
func typeNameOf(v Value) string {
	if r, ok := v.AsRecord(); ok {
		return r.Type
	}
	return v.Tag.String()
}
