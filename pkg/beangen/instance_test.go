package beangen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWidget(t *testing.T, r *Registry, desc *TypeDescriptor) *Instance {
	t.Helper()
	h, err := r.Obtain(desc)
	require.NoError(t, err)
	b, err := h.New()
	require.NoError(t, err)
	inst, ok := b.(*Instance)
	require.True(t, ok, "expected a dynamic instance, got %T", b)
	return inst
}

func call(t *testing.T, inst *Instance, method string, args ...any) any {
	t.Helper()
	out, err := inst.Invoke(method, args...)
	require.NoError(t, err)
	if len(out) == 0 {
		return nil
	}
	return out[0]
}

func TestInstance_WidgetScenario(t *testing.T) {
	desc, err := DescribeInterface[Widget]()
	require.NoError(t, err)

	r := NewRegistry()
	w := newWidget(t, r, desc)

	assert.Equal(t, "", call(t, w, "GetLabel"))
	assert.Equal(t, 0, call(t, w, "GetSize"))

	call(t, w, "SetLabel", "x")
	assert.Equal(t, "x", call(t, w, "GetLabel"))

	other := newWidget(t, r, desc)
	assert.False(t, w.Equal(other), "unset identities are equal only by reference")
	assert.True(t, w.Equal(w))
	assert.Equal(t, uint64(0), w.Hash())
}

func TestInstance_Accessors(t *testing.T) {
	w := newWidget(t, NewRegistry(), widgetDescriptor())

	t.Run("read-only property has no setter", func(t *testing.T) {
		_, err := w.Invoke("SetSize", 3)
		assert.True(t, errors.Is(err, ErrNoSuchMethod))
	})

	t.Run("direct property access", func(t *testing.T) {
		require.NoError(t, w.Set("size", 3))
		v, err := w.Get("size")
		require.NoError(t, err)
		assert.Equal(t, 3, v)
		assert.Equal(t, 3, call(t, w, "GetSize"))
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := w.Invoke("SetLabel", 5)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
		assert.True(t, errors.Is(w.Set("label", 1.5), ErrTypeMismatch))
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := w.Invoke("GetLabel", "extra")
		assert.True(t, errors.Is(err, ErrTypeMismatch))
		_, err = w.Invoke("SetLabel")
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("unknown names", func(t *testing.T) {
		_, err := w.Invoke("Launch")
		assert.True(t, errors.Is(err, ErrNoSuchMethod))
		_, err = w.Get("colour")
		assert.True(t, errors.Is(err, ErrNoSuchProperty))
		assert.True(t, errors.Is(w.Set("colour", "red"), ErrNoSuchProperty))
	})
}

func TestInstance_Identity(t *testing.T) {
	r := NewRegistry()
	a := newWidget(t, r, widgetDescriptor())
	b := newWidget(t, r, widgetDescriptor())

	assert.Nil(t, a.GetID())
	assert.True(t, strings.HasPrefix(a.String(), "example.com/shop/impl.WidgetImpl@0x"), a.String())

	key := URIKey("urn:widget:1")
	call(t, a, "SetID", key)
	b.SetID(URIKey("urn:widget:1"))

	assert.Equal(t, key, call(t, a, "GetID"))
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.Equal(t, key.Hash(), a.Hash())
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, "urn:widget:1", a.String())
	assert.Equal(t, true, call(t, a, "Equal", b))
	assert.Equal(t, key.Hash(), call(t, a, "Hash"))
	assert.Equal(t, "urn:widget:1", call(t, a, "String"))

	b.SetID(URIKey("urn:widget:2"))
	assert.False(t, a.Equal(b))

	_, err := a.Invoke("SetID", "not a key")
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestInstance_EqualityAcrossTypes(t *testing.T) {
	r := NewRegistry()
	w := newWidget(t, r, widgetDescriptor())

	gadget := NewInterface("example.com/shop.Gadget").
		Extends(IdentityCapability).
		Getter("GetLabel", stringType)
	g := newWidget(t, r, gadget)

	key := URIKey("urn:shared")
	w.SetID(key)
	g.SetID(key)

	assert.False(t, w.Equal(g), "different generated types are never equal")
	assert.False(t, w.Equal(nil))
	assert.False(t, w.Equal("urn:shared"))
}

func TestInstance_EqualTypedNil(t *testing.T) {
	r := NewRegistry()
	w := newWidget(t, r, widgetDescriptor())
	w.SetID(URIKey("urn:widget:1"))

	var nilInstance *Instance
	var nilWidget *widgetImpl
	assert.NotPanics(t, func() {
		assert.False(t, w.Equal(nilInstance))
		assert.False(t, w.Equal(nilWidget))
		assert.Equal(t, false, call(t, w, "Equal", nilInstance))
	})
}

func TestInstance_ConcreteBodies(t *testing.T) {
	base := NewStruct("x.Counter").
		Field("count", intType).
		Concrete("Increment", []TypeRef{intType}, []TypeRef{intType}, func(self *Instance, args []any) []any {
			v, _ := self.Field("count")
			n := v.(int) + args[0].(int)
			_ = self.SetField("count", n)
			return []any{n}
		})
	root := NewStruct("x.Tally").
		Embeds(base).
		Extends(NewInterface("x.Counted").Extends(IdentityCapability).Getter("GetCount", intType))

	inst := newWidget(t, NewRegistry(), root)

	assert.Equal(t, 2, call(t, inst, "Increment", 2))
	assert.Equal(t, 5, call(t, inst, "Increment", 3))
	assert.Equal(t, 5, call(t, inst, "GetCount"), "getter reads the inherited field")

	_, err := inst.Invoke("Increment", "one")
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestInstance_NativeIdentityBodies(t *testing.T) {
	root := NewStruct("x.Entity").Embeds(IdentitySupportType).Extends(widgetDescriptor())
	inst := newWidget(t, NewRegistry(), root)

	inst.SetID(URIKey("urn:entity"))
	assert.Equal(t, URIKey("urn:entity"), inst.GetID())
	assert.Equal(t, URIKey("urn:entity"), call(t, inst, "GetID"))
}

func TestInstance_PartialIdentity(t *testing.T) {
	base := NewStruct("x.ReadOnlyID").
		Extends(IdentityCapability).
		Concrete("GetID", nil, []TypeRef{KeyType}, func(*Instance, []any) []any {
			return []any{URIKey("urn:fixed")}
		})
	inst := newWidget(t, NewRegistry(), NewStruct("x.Fixed").Embeds(base))

	inst.SetID(URIKey("urn:other"))
	assert.Equal(t, URIKey("urn:fixed"), inst.GetID(), "concrete getter wins over the injected holder")
}

func TestInstance_InitOrder(t *testing.T) {
	var order []string
	grand := NewStruct("x.Grand").
		Field("trail", stringType).
		WithInit(func(self *Instance) error {
			order = append(order, "grand")
			return self.SetField("trail", "g")
		})
	base := NewStruct("x.Base").
		Embeds(grand).
		WithInit(func(self *Instance) error {
			order = append(order, "base")
			v, _ := self.Field("trail")
			return self.SetField("trail", v.(string)+"b")
		})
	root := NewStruct("x.Root").
		Embeds(base).
		Extends(NewInterface("x.Trail").Extends(IdentityCapability).Getter("GetTrail", stringType))

	h, err := NewRegistry().Obtain(root)
	require.NoError(t, err)

	order = nil
	inst, err := h.NewInstance()
	require.NoError(t, err)
	assert.Equal(t, []string{"grand", "base"}, order)
	assert.Equal(t, "gb", call(t, inst, "GetTrail"))
}
