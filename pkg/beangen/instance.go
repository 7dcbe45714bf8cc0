package beangen

import (
	"fmt"
)

// Instance is a dynamic object of a generated type. Properties live in a
// slot table and accessor calls are dispatched by method name.
type Instance struct {
	typ     *GeneratedType
	slots   []any
	support IdentitySupport
}

var _ Bean = (*Instance)(nil)

func newInstance(t *GeneratedType) (inst *Instance, err error) {
	inst = &Instance{
		typ:   t,
		slots: make([]any, len(t.Slots)),
	}
	for i, s := range t.Slots {
		inst.slots[i] = s.Type.Zero()
	}

	defer func() {
		if r := recover(); r != nil {
			inst, err = nil, fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	for _, fn := range t.inits {
		if err := fn(inst); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Type returns the generated type of the instance
func (i *Instance) Type() *GeneratedType {
	return i.typ
}

// Get returns the current value of a property
func (i *Instance) Get(property string) (any, error) {
	p, ok := i.typ.Property(property)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoSuchProperty, i.typ.Name, property)
	}
	return i.Field(p.Field)
}

// Set stores v in a property
func (i *Instance) Set(property string, v any) error {
	p, ok := i.typ.Property(property)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrNoSuchProperty, i.typ.Name, property)
	}
	return i.SetField(p.Field, v)
}

// Field reads a storage slot by field name, including fields of base structs
func (i *Instance) Field(name string) (any, error) {
	idx, ok := i.typ.slot(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no field %s", ErrNoSuchProperty, i.typ.Name, name)
	}
	return i.slots[idx], nil
}

// SetField writes a storage slot by field name
func (i *Instance) SetField(name string, v any) error {
	idx, ok := i.typ.slot(name)
	if !ok {
		return fmt.Errorf("%w: %s has no field %s", ErrNoSuchProperty, i.typ.Name, name)
	}
	s := i.typ.Slots[idx]
	if !s.Type.Accepts(v) {
		return fmt.Errorf("%w: field %s is %s, got %T", ErrTypeMismatch, name, s.Type, v)
	}
	i.slots[idx] = v
	return nil
}

// Invoke calls a method of the generated type. Accessors read and write
// their backing slot, identity and the Equal/Hash/String defaults go to the
// identity plan, anything else runs the concrete body from the hierarchy.
func (i *Instance) Invoke(method string, args ...any) ([]any, error) {
	if a, ok := i.typ.accessors[method]; ok {
		return i.invokeAccessor(method, a, args)
	}

	switch method {
	case "GetID":
		if err := arity(method, args, 0); err != nil {
			return nil, err
		}
		return []any{i.GetID()}, nil
	case "SetID":
		if err := arity(method, args, 1); err != nil {
			return nil, err
		}
		id, ok := args[0].(Key)
		if !ok && args[0] != nil {
			return nil, fmt.Errorf("%w: SetID wants a Key, got %T", ErrTypeMismatch, args[0])
		}
		i.SetID(id)
		return nil, nil
	case "Equal":
		if err := arity(method, args, 1); err != nil {
			return nil, err
		}
		return []any{i.Equal(args[0])}, nil
	case "Hash":
		if err := arity(method, args, 0); err != nil {
			return nil, err
		}
		return []any{i.Hash()}, nil
	case "String":
		if err := arity(method, args, 0); err != nil {
			return nil, err
		}
		return []any{i.String()}, nil
	}

	m, ok := i.typ.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoSuchMethod, i.typ.Name, method)
	}
	if m.Body == nil {
		return nil, fmt.Errorf("%w: %s has no runtime body", ErrNoSuchMethod, m)
	}
	if err := arity(method, args, len(m.Params)); err != nil {
		return nil, err
	}
	for n, p := range m.Params {
		if !p.Accepts(args[n]) {
			return nil, fmt.Errorf("%w: %s argument %d is %s, got %T", ErrTypeMismatch, method, n, p, args[n])
		}
	}
	return m.Body(i, args), nil
}

func (i *Instance) invokeAccessor(method string, a accessor, args []any) ([]any, error) {
	p := i.typ.Properties[a.prop]
	if a.kind == AccessorGetter {
		if err := arity(method, args, 0); err != nil {
			return nil, err
		}
		v, err := i.Field(p.Field)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
	if err := arity(method, args, 1); err != nil {
		return nil, err
	}
	return nil, i.SetField(p.Field, args[0])
}

func arity(method string, args []any, want int) error {
	if len(args) != want {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrTypeMismatch, method, want, len(args))
	}
	return nil
}

// GetID implements Identifiable
func (i *Instance) GetID() Key {
	if g := i.typ.Identity.Getter; g != nil && g.Body != nil {
		if out := g.Body(i, nil); len(out) == 1 {
			id, _ := out[0].(Key)
			return id
		}
		return nil
	}
	return i.support.GetID()
}

// SetID implements Identifiable
func (i *Instance) SetID(id Key) {
	if s := i.typ.Identity.Setter; s != nil && s.Body != nil {
		s.Body(i, []any{id})
		return
	}
	i.support.SetID(id)
}

// Equal reports identity equality with other
func (i *Instance) Equal(other any) bool {
	return IdentityEqual(i, other)
}

// Hash returns the identity hash
func (i *Instance) Hash() uint64 {
	return IdentityHash(i)
}

// String returns the identity key, or <type>@<address> when unset
func (i *Instance) String() string {
	return IdentityString(i)
}
