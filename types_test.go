package weave

import "testing"

func Test_Types_Builtin_Annotations_Match_Exactly(t *testing.T) {
	tt := newTypeTable()
	cases := []struct {
		v    Value
		t    TypeAnn
		want bool
	}{
		{Str("a"), TypeAnn{Kind: TypeStr}, true},
		{Num(1), TypeAnn{Kind: TypeNumber}, true},
		{Bool(false), TypeAnn{Kind: TypeBool}, true},
		{Num(1), TypeAnn{Kind: TypeStr}, false},
		{Str("1"), TypeAnn{Kind: TypeNumber}, false},
		{Nil, TypeAnn{Kind: TypeBool}, false},
		{Nil, TypeAnn{Kind: TypeStr}, false},
	}
	for _, c := range cases {
		if got := tt.matches(c.v, c.t); got != c.want {
			t.Errorf("matches(%v, %s) = %v, want %v", c.v, c.t, got, c.want)
		}
	}
}

func Test_Types_Alias_Variants(t *testing.T) {
	tt := newTypeTable()
	tt.declareAlias(&TypeAlias{Name: "Color", Variants: []string{"red", "blue"}})
	color := TypeAnn{Kind: TypeCustom, Name: "Color"}

	if !tt.matches(Str("red"), color) || !tt.matches(Str("blue"), color) {
		t.Fatal("declared variants must match")
	}
	if tt.matches(Str("green"), color) {
		t.Fatal("undeclared variant must not match")
	}
	if tt.matches(Num(1), color) || tt.matches(Nil, color) {
		t.Fatal("non-strings never match an alias")
	}

	// redeclaration replaces the set
	tt.declareAlias(&TypeAlias{Name: "Color", Variants: []string{"green"}})
	if tt.matches(Str("red"), color) || !tt.matches(Str("green"), color) {
		t.Fatal("redeclared alias should replace the variant set")
	}
}

func Test_Types_Records_Match_By_Name(t *testing.T) {
	tt := newTypeTable()
	p := TypeAnn{Kind: TypeCustom, Name: "P"}
	if !tt.matches(rec("P"), p) {
		t.Fatal("record tagged P matches P even before any declaration is consulted")
	}
	if tt.matches(rec("Q"), p) {
		t.Fatal("record tagged Q must not match P")
	}
	if tt.matches(Str("P"), p) {
		t.Fatal("a string is not a record")
	}
}

func Test_Types_Struct_Schema_Is_Copied(t *testing.T) {
	tt := newTypeTable()
	decl := &StructDecl{Name: "P", Fields: []FieldDecl{{Name: "a", Type: TypeAnn{Kind: TypeNumber}}}}
	tt.declareStruct(decl)
	decl.Fields[0].Name = "changed"

	fs, ok := tt.schema("P")
	if !ok || len(fs) != 1 || fs[0].Name != "a" {
		t.Fatalf("schema: %v %v", fs, ok)
	}
	if _, ok := tt.schema("Nope"); ok {
		t.Fatal("unknown struct must not have a schema")
	}
}

func Test_Types_TypeNameOf(t *testing.T) {
	if typeNameOf(rec("Point")) != "Point" || typeNameOf(Num(1)) != "number" || typeNameOf(Nil) != "nil" {
		t.Fatal("typeNameOf")
	}
}
