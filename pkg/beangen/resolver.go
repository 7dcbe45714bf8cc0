package beangen

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AccessorKind tells getters from setters
type AccessorKind int

const (
	AccessorGetter AccessorKind = iota
	AccessorSetter
)

// Property is a named, typed attribute inferred from accessor methods
type Property struct {
	Name   string
	Type   TypeRef
	Getter *MethodSignature
	Setter *MethodSignature

	// Aliases are further getters of the same property, e.g. IsActive next
	// to GetActive
	Aliases []*MethodSignature

	// Field is the backing field name and Inherited is set when the field
	// comes from a base struct instead of being synthesized.
	Field     string
	Inherited bool
}

func (p *Property) hasAlias(name string) bool {
	for _, a := range p.Aliases {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Getters returns the primary getter followed by its aliases
func (p *Property) Getters() []*MethodSignature {
	if p.Getter == nil {
		return nil
	}
	return append([]*MethodSignature{p.Getter}, p.Aliases...)
}

// ReadOnly reports whether the property has no setter
func (p *Property) ReadOnly() bool { return p.Setter == nil }

// WriteOnly reports whether the property has no getter
func (p *Property) WriteOnly() bool { return p.Getter == nil }

// Model is the result of property resolution for one root type
type Model struct {
	Root       *TypeDescriptor
	Types      []*TypeDescriptor
	Properties []*Property
	Concrete   []*MethodSignature

	// IdentityGetter and IdentitySetter are the concrete identity accessors
	// found in the hierarchy, nil when they must be injected
	IdentityGetter *MethodSignature
	IdentitySetter *MethodSignature
}

// Property returns the property with the given name
func (m *Model) Property(name string) (*Property, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

var accessorPrefixes = []struct {
	prefix string
	kind   AccessorKind
}{
	{"Is", AccessorGetter},
	{"is", AccessorGetter},
	{"Has", AccessorGetter},
	{"has", AccessorGetter},
	{"Get", AccessorGetter},
	{"get", AccessorGetter},
	{"Set", AccessorSetter},
	{"set", AccessorSetter},
}

// PropertyName derives the property name of an accessor method: the
// get/is/has/set prefix is dropped and the next character lower-cased.
func PropertyName(method string) (string, AccessorKind, bool) {
	for _, p := range accessorPrefixes {
		if !strings.HasPrefix(method, p.prefix) {
			continue
		}
		rest := method[len(p.prefix):]
		if rest == "" {
			return "", p.kind, false
		}
		r, size := utf8.DecodeRuneInString(rest)
		return string(unicode.ToLower(r)) + rest[size:], p.kind, true
	}
	return "", 0, false
}

// resolution is the state of a single Resolve call. The processed set lives
// here and nowhere else.
type resolution struct {
	root      *TypeDescriptor
	types     []*TypeDescriptor
	processed []*MethodSignature
	concrete  []*MethodSignature
	props     map[string]*Property
	order     []*Property
}

func newResolution(root *TypeDescriptor) *resolution {
	return &resolution{
		root:  root,
		props: make(map[string]*Property),
	}
}

// Resolve turns the abstract methods of root's hierarchy into a property model
func Resolve(root *TypeDescriptor) (*Model, error) {
	return newResolution(root).run()
}

func (r *resolution) run() (*Model, error) {
	r.types = Inspect(r.root)

	for _, t := range r.types {
		for _, m := range t.Methods {
			if m.Concrete() {
				r.concrete = append(r.concrete, m)
				r.processed = append(r.processed, m)
			}
		}
	}

	for _, t := range r.types {
		for _, m := range t.Methods {
			if m.Concrete() || r.isProcessed(m) {
				continue
			}
			if r.isImplemented(m) || isIdentityAccessor(m) {
				r.processed = append(r.processed, m)
				continue
			}
			if isDefaultName(m.Name) {
				if !isSynthesizedDefault(m) {
					return nil, methodError(KindUnsupportedMethod, m,
						"%s collides with the generated %s method", m.Name, defaultShapes[m.Name])
				}
				r.processed = append(r.processed, m)
				continue
			}
			if err := r.addAccessor(m); err != nil {
				return nil, err
			}
			r.processed = append(r.processed, m)
		}
	}

	model := &Model{
		Root:       r.root,
		Types:      r.types,
		Properties: r.order,
		Concrete:   r.concrete,
	}
	for _, c := range r.concrete {
		switch {
		case model.IdentityGetter == nil && c.SameShape(identityGetter()):
			model.IdentityGetter = c
		case model.IdentitySetter == nil && c.SameShape(identitySetter()):
			model.IdentitySetter = c
		}
	}
	return model, nil
}

func (r *resolution) isProcessed(m *MethodSignature) bool {
	for _, p := range r.processed {
		if m.Overrides(p) {
			return true
		}
	}
	return false
}

// isImplemented reports whether some concrete method in the hierarchy
// already satisfies m. Generated code never shadows a real implementation.
func (r *resolution) isImplemented(m *MethodSignature) bool {
	for _, c := range r.concrete {
		if c.SameShape(m) {
			return true
		}
	}
	return false
}

func (r *resolution) addAccessor(m *MethodSignature) error {
	name, kind, ok := PropertyName(m.Name)
	if !ok {
		return methodError(KindUnsupportedMethod, m, "non-bean-style method %s", m)
	}

	var typ TypeRef
	switch kind {
	case AccessorGetter:
		if len(m.Params) != 0 || len(m.Results) != 1 {
			return methodError(KindUnsupportedMethod, m, "getter must take no arguments and return one value: %s", m)
		}
		typ = m.Results[0]
	case AccessorSetter:
		if len(m.Params) != 1 || len(m.Results) != 0 {
			return methodError(KindUnsupportedMethod, m, "setter must take exactly one argument and return nothing: %s", m)
		}
		typ = m.Params[0]
	}

	prop, exists := r.props[name]
	if !exists {
		prop = &Property{Name: name, Type: typ}
		r.props[name] = prop
		r.order = append(r.order, prop)
	} else if prop.Type.Name != typ.Name {
		return methodError(KindSynthesis, m, "property %q declared as both %s and %s", name, prop.Type, typ)
	}
	if prop.Type.rtype == nil {
		prop.Type.rtype = typ.rtype
	}

	switch kind {
	case AccessorGetter:
		switch {
		case prop.Getter == nil:
			prop.Getter = m
		case prop.Getter.Name != m.Name && !prop.hasAlias(m.Name):
			prop.Aliases = append(prop.Aliases, m)
		}
	case AccessorSetter:
		if prop.Setter == nil {
			prop.Setter = m
		}
	}
	return nil
}

// defaultShapes lists the methods every generated type receives
var defaultShapes = map[string]string{
	"Equal":  "Equal(any) bool",
	"Hash":   "Hash() uint64",
	"String": "String() string",
}

func isDefaultName(name string) bool {
	_, ok := defaultShapes[name]
	return ok
}

// isSynthesizedDefault reports whether m has exactly the shape of the
// generated Equal, Hash or String method
func isSynthesizedDefault(m *MethodSignature) bool {
	switch m.Name {
	case "Equal":
		return len(m.Params) == 1 && isEmptyInterface(m.Params[0].Name) &&
			len(m.Results) == 1 && m.Results[0].Name == "bool"
	case "Hash":
		return len(m.Params) == 0 && len(m.Results) == 1 && m.Results[0].Name == "uint64"
	case "String":
		return len(m.Params) == 0 && len(m.Results) == 1 && m.Results[0].Name == "string"
	}
	return false
}

// isEmptyInterface accepts the reflect ("interface {}") and source
// ("interface{}") spellings of the empty interface as well as any
func isEmptyInterface(name string) bool {
	name = strings.Join(strings.Fields(name), "")
	return name == "any" || name == "interface{}"
}
