package beangen

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeKind distinguishes pure interfaces from abstract base structs
type TypeKind int

const (
	KindInterface TypeKind = iota
	KindStruct
)

// String returns the string representation of the type kind
func (k TypeKind) String() string {
	if k == KindStruct {
		return "struct"
	}
	return "interface"
}

// TypeRef names a Go type. Two refs are the same type when their names match.
// The reflect type is optional and only known for descriptors built in-process.
type TypeRef struct {
	Name  string
	rtype reflect.Type
}

// TypeOf returns a TypeRef for T
func TypeOf[T any]() TypeRef {
	return TypeFromReflect(reflect.TypeFor[T]())
}

// TypeFromReflect returns a TypeRef for t
func TypeFromReflect(t reflect.Type) TypeRef {
	if t == nil {
		return TypeRef{}
	}
	return TypeRef{Name: t.String(), rtype: t}
}

// TypeNamed returns a TypeRef known only by its Go spelling, e.g. "*model.Owner"
func TypeNamed(name string) TypeRef {
	return TypeRef{Name: name}
}

// Reflect returns the reflect type, or nil when only the name is known
func (r TypeRef) Reflect() reflect.Type {
	return r.rtype
}

// Zero returns the zero value of the type, or nil ("unset") when the type is only known by name
func (r TypeRef) Zero() any {
	if r.rtype == nil {
		return nil
	}
	return reflect.Zero(r.rtype).Interface()
}

// Accepts reports whether v may be stored in a slot of this type
func (r TypeRef) Accepts(v any) bool {
	if r.rtype == nil {
		return true
	}
	if v == nil {
		switch r.rtype.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(v).AssignableTo(r.rtype)
}

// String returns the Go spelling of the type
func (r TypeRef) String() string {
	return r.Name
}

func sameTypes(a, b []TypeRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

// MethodFunc is a concrete method body run against a dynamic Instance
type MethodFunc func(self *Instance, args []any) []any

// InitFunc runs when an Instance is constructed, like a base-class constructor
type InitFunc func(self *Instance) error

// MethodSignature is one method declared on a TypeDescriptor
type MethodSignature struct {
	Declaring *TypeDescriptor
	Name      string
	Params    []TypeRef
	Results   []TypeRef

	// Body is the implementation for dynamic instances. Implemented marks a
	// method that has a body in Go source but none available at runtime.
	Body        MethodFunc
	Implemented bool
}

// Concrete reports whether the method already has an implementation
func (m *MethodSignature) Concrete() bool {
	return m.Body != nil || m.Implemented
}

// SameShape reports whether m and other have the same name, parameters and results
func (m *MethodSignature) SameShape(other *MethodSignature) bool {
	return m.Name == other.Name && sameTypes(m.Params, other.Params) && sameTypes(m.Results, other.Results)
}

// Overrides reports whether m is equivalent to, or can stand in for, an
// already processed method p: p's declaring type must be a subtype of (or
// equal to) m's, names and results must match, and parameter lists are
// compared element-wise when they have the same length.
func (m *MethodSignature) Overrides(p *MethodSignature) bool {
	if m.Name != p.Name {
		return false
	}
	if m.Declaring != nil && p.Declaring != nil && !p.Declaring.IsSubtypeOf(m.Declaring) {
		return false
	}
	if !sameTypes(m.Results, p.Results) {
		return false
	}
	if len(m.Params) == len(p.Params) {
		return sameTypes(m.Params, p.Params)
	}
	return true
}

// String renders the signature in Go syntax
func (m *MethodSignature) String() string {
	var b strings.Builder
	if m.Declaring != nil {
		b.WriteString(m.Declaring.ID())
		b.WriteString(".")
	}
	b.WriteString(m.Name)
	b.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
	}
	b.WriteString(")")
	switch len(m.Results) {
	case 0:
	case 1:
		b.WriteString(" ")
		b.WriteString(m.Results[0].Name)
	default:
		b.WriteString(" (")
		for i, r := range m.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.Name)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Field is a field declared on a struct descriptor
type Field struct {
	Name string
	Type TypeRef
}

// TypeDescriptor is the structural description of an interface or abstract
// base struct: its declared methods, fields and supertypes.
type TypeDescriptor struct {
	PkgPath    string
	Name       string
	Kind       TypeKind
	Methods    []*MethodSignature
	Fields     []Field
	Superclass *TypeDescriptor
	Interfaces []*TypeDescriptor

	// GoType is the Go type the descriptor was derived from, when known
	GoType reflect.Type
	// Init runs when instances of a type extending this one are built
	Init InitFunc
}

// NewInterface creates an interface descriptor from an ID like "example.com/shop.Widget"
func NewInterface(id string) *TypeDescriptor {
	pkg, name := splitID(id)
	return &TypeDescriptor{PkgPath: pkg, Name: name, Kind: KindInterface}
}

// NewStruct creates an abstract base struct descriptor
func NewStruct(id string) *TypeDescriptor {
	pkg, name := splitID(id)
	return &TypeDescriptor{PkgPath: pkg, Name: name, Kind: KindStruct}
}

func splitID(id string) (string, string) {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

// ID returns the fully qualified identity of the type
func (t *TypeDescriptor) ID() string {
	if t.PkgPath == "" {
		return t.Name
	}
	return t.PkgPath + "." + t.Name
}

// String implements fmt.Stringer
func (t *TypeDescriptor) String() string {
	return t.ID()
}

// IsInterface reports whether the descriptor is a pure interface
func (t *TypeDescriptor) IsInterface() bool {
	return t.Kind == KindInterface
}

// Extends records interfaces that t embeds (interfaces) or implements (structs)
func (t *TypeDescriptor) Extends(ifaces ...*TypeDescriptor) *TypeDescriptor {
	t.Interfaces = append(t.Interfaces, ifaces...)
	return t
}

// Embeds sets the base struct of a struct descriptor
func (t *TypeDescriptor) Embeds(base *TypeDescriptor) *TypeDescriptor {
	t.Superclass = base
	return t
}

// AddMethod declares m on t
func (t *TypeDescriptor) AddMethod(m *MethodSignature) *TypeDescriptor {
	m.Declaring = t
	t.Methods = append(t.Methods, m)
	return t
}

// Getter declares an abstract getter returning typ
func (t *TypeDescriptor) Getter(name string, typ TypeRef) *TypeDescriptor {
	return t.AddMethod(&MethodSignature{Name: name, Results: []TypeRef{typ}})
}

// Setter declares an abstract setter taking typ
func (t *TypeDescriptor) Setter(name string, typ TypeRef) *TypeDescriptor {
	return t.AddMethod(&MethodSignature{Name: name, Params: []TypeRef{typ}})
}

// Abstract declares an abstract method of arbitrary shape
func (t *TypeDescriptor) Abstract(name string, params, results []TypeRef) *TypeDescriptor {
	return t.AddMethod(&MethodSignature{Name: name, Params: params, Results: results})
}

// Concrete declares an implemented method
func (t *TypeDescriptor) Concrete(name string, params, results []TypeRef, body MethodFunc) *TypeDescriptor {
	return t.AddMethod(&MethodSignature{Name: name, Params: params, Results: results, Body: body})
}

// Field declares a field on a struct descriptor
func (t *TypeDescriptor) Field(name string, typ TypeRef) *TypeDescriptor {
	t.Fields = append(t.Fields, Field{Name: name, Type: typ})
	return t
}

// WithInit sets the constructor hook
func (t *TypeDescriptor) WithInit(fn InitFunc) *TypeDescriptor {
	t.Init = fn
	return t
}

// IsSubtypeOf reports whether t is other or reaches it through its supertypes
func (t *TypeDescriptor) IsSubtypeOf(other *TypeDescriptor) bool {
	if t == nil || other == nil {
		return false
	}
	return t.isSubtypeOf(other, make(map[*TypeDescriptor]bool))
}

func (t *TypeDescriptor) isSubtypeOf(other *TypeDescriptor, seen map[*TypeDescriptor]bool) bool {
	if t == other || t.ID() == other.ID() {
		return true
	}
	if seen[t] {
		return false
	}
	seen[t] = true
	if t.Superclass != nil && t.Superclass.isSubtypeOf(other, seen) {
		return true
	}
	for _, iface := range t.Interfaces {
		if iface.isSubtypeOf(other, seen) {
			return true
		}
	}
	return false
}

// Method returns the method declared directly on t with the given name
func (t *TypeDescriptor) Method(name string) (*MethodSignature, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// GoString helps when descriptors show up in test failures
func (t *TypeDescriptor) GoString() string {
	return fmt.Sprintf("beangen.TypeDescriptor{%s %s, %d methods}", t.Kind, t.ID(), len(t.Methods))
}
