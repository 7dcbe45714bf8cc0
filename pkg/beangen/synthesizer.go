package beangen

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IdentityField is the name of the injected identity holder field
const IdentityField = "beanIdentity"

// IdentityPlan says how a generated type satisfies Identifiable. Each
// accessor is either found concretely in the hierarchy or injected as a
// delegate to an IdentitySupport field, never both.
type IdentityPlan struct {
	InjectGetter bool
	InjectSetter bool

	// Getter and Setter are the concrete accessors found in the hierarchy
	Getter *MethodSignature
	Setter *MethodSignature

	// Field is the injected holder field, empty when nothing is injected
	Field string
}

// Native reports whether the hierarchy implements Identifiable by itself
func (p IdentityPlan) Native() bool {
	return !p.InjectGetter && !p.InjectSetter
}

// Slot is one storage cell of a generated type
type Slot struct {
	Name      string
	Type      TypeRef
	Inherited bool
	Owner     *TypeDescriptor // struct that declares an inherited slot
}

type accessor struct {
	prop int
	kind AccessorKind
}

// GeneratedType is the synthesized implementation of a source type
type GeneratedType struct {
	Source     *TypeDescriptor
	Name       string
	Model      *Model
	Properties []*Property
	Identity   IdentityPlan
	Slots      []Slot

	slotIndex map[string]int
	accessors map[string]accessor
	methods   map[string]*MethodSignature
	inits     []InitFunc
}

// CacheKey is the identity the registry files the type under
func (g *GeneratedType) CacheKey() string {
	return g.Source.ID()
}

// StructName is the Go identifier of the generated struct, e.g. WidgetImpl
func (g *GeneratedType) StructName() string {
	return g.Source.Name + "Impl"
}

// Embeds reports whether the generated type extends a base struct rather
// than only implementing interfaces
func (g *GeneratedType) Embeds() bool {
	return !g.Source.IsInterface()
}

// Property returns the property with the given name
func (g *GeneratedType) Property(name string) (*Property, bool) {
	return g.Model.Property(name)
}

// NewFields returns the slots the generated type must declare itself
func (g *GeneratedType) NewFields() []Slot {
	var out []Slot
	for _, s := range g.Slots {
		if !s.Inherited {
			out = append(out, s)
		}
	}
	return out
}

// ImplName returns the generated type name for src: <pkg>/impl.<Name>Impl
func ImplName(src *TypeDescriptor) string {
	if src.PkgPath == "" {
		return "impl." + src.Name + "Impl"
	}
	return src.PkgPath + "/impl." + src.Name + "Impl"
}

// FieldName returns the backing field name for a property, mangling Go
// keywords with a trailing underscore
func FieldName(property string) string {
	if token.IsKeyword(property) {
		return property + "_"
	}
	return property
}

// ExportedName upper-cases the first rune of s
func ExportedName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// checkIdentity rejects roots that cannot satisfy Identifiable
func checkIdentity(root *TypeDescriptor) error {
	if !root.IsSubtypeOf(IdentityCapability) {
		return newError(KindMissingIdentity, root, "type does not extend %s", IdentityCapability.ID())
	}
	return nil
}

// Synthesize builds the implementation of root: backing storage for every
// property, accessor dispatch for the accessor kinds actually declared, the
// identity plan and the constructor chain.
func Synthesize(root *TypeDescriptor) (*GeneratedType, error) {
	if root == nil {
		return nil, newError(KindSynthesis, nil, "nil type descriptor")
	}
	if err := checkIdentity(root); err != nil {
		return nil, err
	}

	model, err := Resolve(root)
	if err != nil {
		return nil, err
	}

	g := &GeneratedType{
		Source:     root,
		Name:       ImplName(root),
		Model:      model,
		Properties: model.Properties,
		slotIndex:  make(map[string]int),
		accessors:  make(map[string]accessor),
		methods:    make(map[string]*MethodSignature),
	}

	if err := g.layoutInherited(); err != nil {
		return nil, err
	}
	if err := g.layoutProperties(); err != nil {
		return nil, err
	}
	g.planIdentity()

	for _, m := range model.Concrete {
		if _, ok := g.methods[m.Name]; !ok {
			g.methods[m.Name] = m
		}
	}

	for t := root; t != nil; t = t.Superclass {
		if t.Init != nil {
			g.inits = append([]InitFunc{t.Init}, g.inits...)
		}
	}
	return g, nil
}

func (g *GeneratedType) addSlot(s Slot) error {
	if _, dup := g.slotIndex[s.Name]; dup {
		return newError(KindSynthesis, g.Source, "duplicate field %q", s.Name)
	}
	g.slotIndex[s.Name] = len(g.Slots)
	g.Slots = append(g.Slots, s)
	return nil
}

// layoutInherited reserves a slot for every field of the base structs
func (g *GeneratedType) layoutInherited() error {
	for _, t := range g.Model.Types {
		if t.IsInterface() {
			continue
		}
		for _, f := range t.Fields {
			if f.Name == IdentityField {
				return newError(KindSynthesis, t, "field %q is reserved", IdentityField)
			}
			if err := g.addSlot(Slot{Name: f.Name, Type: f.Type, Inherited: true, Owner: t}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *GeneratedType) layoutProperties() error {
	for i, p := range g.Properties {
		if idx, ok := g.slotIndex[p.Name]; ok && g.Slots[idx].Inherited {
			if g.Slots[idx].Type.Name != p.Type.Name {
				return newError(KindSynthesis, g.Source, "property %q is %s but inherited field is %s",
					p.Name, p.Type, g.Slots[idx].Type)
			}
			p.Field = p.Name
			p.Inherited = true
		} else {
			name := FieldName(p.Name)
			if name == IdentityField {
				return newError(KindSynthesis, g.Source, "property %q collides with the identity field", p.Name)
			}
			if err := g.addSlot(Slot{Name: name, Type: p.Type}); err != nil {
				return err
			}
			p.Field = name
		}

		for _, m := range p.Getters() {
			g.accessors[m.Name] = accessor{prop: i, kind: AccessorGetter}
		}
		if p.Setter != nil {
			g.accessors[p.Setter.Name] = accessor{prop: i, kind: AccessorSetter}
		}
	}
	return nil
}

func (g *GeneratedType) planIdentity() {
	plan := IdentityPlan{
		Getter:       g.Model.IdentityGetter,
		Setter:       g.Model.IdentitySetter,
		InjectGetter: g.Model.IdentityGetter == nil,
		InjectSetter: g.Model.IdentitySetter == nil,
	}
	if !plan.Native() {
		plan.Field = IdentityField
	}
	g.Identity = plan
}

func (g *GeneratedType) slot(name string) (int, bool) {
	i, ok := g.slotIndex[name]
	return i, ok
}

// String implements fmt.Stringer
func (g *GeneratedType) String() string {
	var b strings.Builder
	b.WriteString(g.Name)
	b.WriteString("{")
	for i, p := range g.Properties {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(" ")
		b.WriteString(p.Type.Name)
	}
	b.WriteString("}")
	return b.String()
}
