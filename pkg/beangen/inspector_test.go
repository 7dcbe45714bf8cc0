package beangen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(types []*TypeDescriptor) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.ID()
	}
	return out
}

func TestInspect(t *testing.T) {
	t.Run("no supertypes", func(t *testing.T) {
		root := NewInterface("x.Lonely").Getter("GetName", stringType)
		assert.Equal(t, []string{"x.Lonely"}, ids(Inspect(root)))
		assert.Len(t, MethodSet(root), 1)
	})

	t.Run("diamond visits shared base once", func(t *testing.T) {
		a := NewInterface("x.A").Getter("GetA", stringType)
		b := NewInterface("x.B").Extends(a)
		c := NewInterface("x.C").Extends(a)
		d := NewInterface("x.D").Extends(b, c)

		assert.Equal(t, []string{"x.D", "x.B", "x.A", "x.C"}, ids(Inspect(d)))
		assert.Len(t, MethodSet(d), 1)
	})

	t.Run("superclass chain before interfaces", func(t *testing.T) {
		iface := NewInterface("x.Iface")
		grand := NewStruct("x.Grand")
		base := NewStruct("x.Base").Embeds(grand)
		root := NewStruct("x.Root").Embeds(base).Extends(iface)

		assert.Equal(t, []string{"x.Root", "x.Base", "x.Grand", "x.Iface"}, ids(Inspect(root)))
	})

	t.Run("descriptors with the same id are one type", func(t *testing.T) {
		a1 := NewInterface("x.A")
		a2 := NewInterface("x.A")
		root := NewInterface("x.Root").Extends(a1, a2)

		assert.Equal(t, []string{"x.Root", "x.A"}, ids(Inspect(root)))
	})
}

func TestIsSubtypeOf(t *testing.T) {
	named, person := namedHierarchy()

	assert.True(t, person.IsSubtypeOf(named))
	assert.True(t, person.IsSubtypeOf(person))
	assert.True(t, person.IsSubtypeOf(IdentityCapability))
	assert.False(t, named.IsSubtypeOf(person))
	assert.False(t, named.IsSubtypeOf(nil))
}
