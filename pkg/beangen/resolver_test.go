package beangen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyName(t *testing.T) {
	tests := []struct {
		method string
		name   string
		kind   AccessorKind
		ok     bool
	}{
		{"GetName", "name", AccessorGetter, true},
		{"IsActive", "active", AccessorGetter, true},
		{"HasActive", "active", AccessorGetter, true},
		{"GetActive", "active", AccessorGetter, true},
		{"SetName", "name", AccessorSetter, true},
		{"getName", "name", AccessorGetter, true},
		{"isOpen", "open", AccessorGetter, true},
		{"setOpen", "open", AccessorSetter, true},
		{"GetURL", "uRL", AccessorGetter, true},
		{"Get", "", AccessorGetter, false},
		{"Set", "", AccessorSetter, false},
		{"ComputeTotal", "", 0, false},
		{"Name", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			name, kind, ok := PropertyName(tt.method)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.name, name)
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestResolve_Widget(t *testing.T) {
	model, err := Resolve(widgetDescriptor())
	require.NoError(t, err)

	require.Len(t, model.Properties, 2)

	label, ok := model.Property("label")
	require.True(t, ok)
	assert.Equal(t, "string", label.Type.Name)
	assert.Equal(t, "GetLabel", label.Getter.Name)
	assert.Equal(t, "SetLabel", label.Setter.Name)

	size, ok := model.Property("size")
	require.True(t, ok)
	assert.True(t, size.ReadOnly())
	assert.False(t, size.WriteOnly())

	_, ok = model.Property("iD")
	assert.False(t, ok, "identity accessors are not properties")
	assert.Nil(t, model.IdentityGetter)
	assert.Nil(t, model.IdentitySetter)
}

func TestResolve_RedeclaredGetterYieldsOneProperty(t *testing.T) {
	_, person := namedHierarchy()

	model, err := Resolve(person)
	require.NoError(t, err)
	require.Len(t, model.Properties, 1)

	name := model.Properties[0]
	assert.Equal(t, "name", name.Name)
	assert.Equal(t, "example.com/people.Person", name.Getter.Declaring.ID())
	assert.NotNil(t, name.Setter)
	assert.Empty(t, name.Aliases)
}

func TestResolve_BooleanPrefixesShareProperty(t *testing.T) {
	root := NewInterface("x.Flag").
		Getter("IsActive", boolType).
		Getter("GetActive", boolType).
		Setter("SetActive", boolType)

	model, err := Resolve(root)
	require.NoError(t, err)
	require.Len(t, model.Properties, 1)

	p := model.Properties[0]
	assert.Equal(t, "active", p.Name)
	assert.Equal(t, "IsActive", p.Getter.Name)
	require.Len(t, p.Aliases, 1)
	assert.Equal(t, "GetActive", p.Aliases[0].Name)
	assert.Len(t, p.Getters(), 2)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		root *TypeDescriptor
		kind ErrorKind
		want error
	}{
		{
			name: "non bean method",
			root: NewInterface("x.Order").Abstract("ComputeTotal", nil, []TypeRef{intType}),
			kind: KindUnsupportedMethod,
			want: ErrUnsupportedMethod,
		},
		{
			name: "setter with two arguments",
			root: NewInterface("x.Order").Abstract("SetRange", []TypeRef{intType, intType}, nil),
			kind: KindUnsupportedMethod,
			want: ErrUnsupportedMethod,
		},
		{
			name: "setter without arguments",
			root: NewInterface("x.Order").Abstract("SetNothing", nil, nil),
			kind: KindUnsupportedMethod,
			want: ErrUnsupportedMethod,
		},
		{
			name: "getter with an argument",
			root: NewInterface("x.Order").Abstract("GetItem", []TypeRef{intType}, []TypeRef{stringType}),
			kind: KindUnsupportedMethod,
			want: ErrUnsupportedMethod,
		},
		{
			name: "setter returning a value",
			root: NewInterface("x.Order").Abstract("SetName", []TypeRef{stringType}, []TypeRef{boolType}),
			kind: KindUnsupportedMethod,
			want: ErrUnsupportedMethod,
		},
		{
			name: "hash with a foreign result",
			root: NewInterface("x.Order").Getter("Hash", intType),
			kind: KindUnsupportedMethod,
			want: ErrUnsupportedMethod,
		},
		{
			name: "equal with a typed parameter",
			root: NewInterface("x.Order").Abstract("Equal", []TypeRef{stringType}, []TypeRef{boolType}),
			kind: KindUnsupportedMethod,
			want: ErrUnsupportedMethod,
		},
		{
			name: "string with an argument",
			root: NewInterface("x.Order").Abstract("String", []TypeRef{intType}, []TypeRef{stringType}),
			kind: KindUnsupportedMethod,
			want: ErrUnsupportedMethod,
		},
		{
			name: "getter and setter disagree on type",
			root: NewInterface("x.Order").Getter("GetTotal", intType).Setter("SetTotal", stringType),
			kind: KindSynthesis,
			want: ErrSynthesis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Resolve(tt.root)
			require.Error(t, err)
			assert.Nil(t, model, "partial results are never returned")
			assert.Equal(t, tt.kind, KindOf(err))
			assert.True(t, errors.Is(err, tt.want))

			var genErr *Error
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, "x.Order", genErr.Type)
		})
	}
}

func TestResolve_ConcreteMethodIsIgnored(t *testing.T) {
	order := NewInterface("x.Order").
		Extends(IdentityCapability).
		Abstract("ComputeTotal", nil, []TypeRef{intType}).
		Getter("GetTotal", intType)
	base := NewStruct("x.OrderBase").
		Extends(order).
		Concrete("ComputeTotal", nil, []TypeRef{intType}, func(*Instance, []any) []any {
			return []any{42}
		})

	model, err := Resolve(base)
	require.NoError(t, err)
	require.Len(t, model.Properties, 1)
	assert.Equal(t, "total", model.Properties[0].Name)
	require.Len(t, model.Concrete, 1)
	assert.Equal(t, "ComputeTotal", model.Concrete[0].Name)
}

func TestResolve_ConcreteInSuperclassShadowsLaterInterface(t *testing.T) {
	iface := NewInterface("x.Named").Getter("GetName", stringType)
	base := NewStruct("x.Base").
		Concrete("GetName", nil, []TypeRef{stringType}, func(*Instance, []any) []any {
			return []any{"fixed"}
		})
	root := NewStruct("x.Root").Embeds(base).Extends(iface)

	model, err := Resolve(root)
	require.NoError(t, err)
	assert.Empty(t, model.Properties)
}

func TestResolve_SynthesizedDefaultsAreNotProperties(t *testing.T) {
	root := widgetDescriptor().
		Abstract("Equal", []TypeRef{TypeOf[any]()}, []TypeRef{boolType}).
		Abstract("Hash", nil, []TypeRef{TypeOf[uint64]()}).
		Abstract("String", nil, []TypeRef{stringType})

	model, err := Resolve(root)
	require.NoError(t, err)
	assert.Len(t, model.Properties, 2)

	for _, spelling := range []string{"interface{}", "interface {}", "any"} {
		root := widgetDescriptor().Abstract("Equal", []TypeRef{TypeNamed(spelling)}, []TypeRef{boolType})
		model, err := Resolve(root)
		require.NoError(t, err, spelling)
		assert.Len(t, model.Properties, 2, spelling)
	}
}

func TestResolve_NativeIdentity(t *testing.T) {
	root := NewStruct("x.Entity").Embeds(IdentitySupportType).Extends(widgetDescriptor())

	model, err := Resolve(root)
	require.NoError(t, err)
	require.NotNil(t, model.IdentityGetter)
	require.NotNil(t, model.IdentitySetter)
	assert.Equal(t, "GetID", model.IdentityGetter.Name)
	assert.Equal(t, "SetID", model.IdentitySetter.Name)
}

func TestResolve_IsRepeatable(t *testing.T) {
	_, person := namedHierarchy()

	first, err := Resolve(person)
	require.NoError(t, err)
	second, err := Resolve(person)
	require.NoError(t, err)

	require.Len(t, second.Properties, len(first.Properties))
	for i := range first.Properties {
		assert.Equal(t, first.Properties[i].Name, second.Properties[i].Name)
		assert.Equal(t, first.Properties[i].Type, second.Properties[i].Type)
	}
}

func TestOverrides(t *testing.T) {
	named, person := namedHierarchy()
	parent, _ := named.Method("GetName")
	child, _ := person.Method("GetName")

	assert.True(t, parent.Overrides(child), "supertype declaration is satisfied by the subtype's")
	assert.False(t, child.Overrides(parent), "a supertype declaration cannot stand in for a subtype's")

	other := &MethodSignature{Declaring: person, Name: "GetName", Results: []TypeRef{intType}}
	assert.False(t, other.Overrides(child), "results must match")
}
