package beangen

import (
	"reflect"
)

var identifiableType = reflect.TypeFor[Identifiable]()

// DescribeInterface builds a descriptor for the Go interface T. Interfaces
// that embed Identifiable extend IdentityCapability.
func DescribeInterface[T any]() (*TypeDescriptor, error) {
	return Describe(reflect.TypeFor[T]())
}

// MustDescribe is DescribeInterface that panics on error
func MustDescribe[T any]() *TypeDescriptor {
	d, err := DescribeInterface[T]()
	if err != nil {
		panic(err)
	}
	return d
}

// Describe builds a descriptor for an interface type. Go flattens embedded
// interfaces, so every method other than the identity pair is declared on
// the root itself.
func Describe(t reflect.Type) (*TypeDescriptor, error) {
	if t == nil || t.Kind() != reflect.Interface {
		return nil, &Error{Kind: KindSynthesis, Type: typeName(t), Message: "not an interface type"}
	}

	desc := NewInterface(t.PkgPath() + "." + t.Name())
	if t.Name() == "" {
		desc = NewInterface(t.String())
	}
	desc.GoType = t

	native := t.Implements(identifiableType)
	if native {
		desc.Extends(IdentityCapability)
	}

	for i := range t.NumMethod() {
		m := t.Method(i)
		if native && (m.Name == "GetID" || m.Name == "SetID") {
			continue
		}
		sig := &MethodSignature{Name: m.Name}
		for p := range m.Type.NumIn() {
			sig.Params = append(sig.Params, TypeFromReflect(m.Type.In(p)))
		}
		for r := range m.Type.NumOut() {
			sig.Results = append(sig.Results, TypeFromReflect(m.Type.Out(r)))
		}
		desc.AddMethod(sig)
	}
	return desc, nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func typeImplements(v any, src *TypeDescriptor) bool {
	if src.GoType.Kind() != reflect.Interface {
		return true
	}
	return reflect.TypeOf(v).Implements(src.GoType)
}
