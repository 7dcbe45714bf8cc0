package beangen

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// Key is the opaque identity of a bean. Equality, hashing and the string
// form of generated types derive from it and nothing else.
type Key interface {
	fmt.Stringer
	Equal(other Key) bool
	Hash() uint64
}

// URIKey identifies a bean by URI
type URIKey string

// String implements Key
func (k URIKey) String() string { return string(k) }

// Equal implements Key
func (k URIKey) Equal(other Key) bool {
	o, ok := other.(URIKey)
	return ok && o == k
}

// Hash implements Key
func (k URIKey) Hash() uint64 { return xxh3.HashString(string(k)) }

// UUIDKey identifies a bean by a random UUID
type UUIDKey uuid.UUID

// NewUUIDKey returns a fresh random key
func NewUUIDKey() UUIDKey {
	return UUIDKey(uuid.New())
}

// ParseUUIDKey parses the canonical textual form of a UUID
func ParseUUIDKey(s string) (UUIDKey, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUIDKey{}, fmt.Errorf("invalid uuid key %q: %w", s, err)
	}
	return UUIDKey(id), nil
}

// String implements Key
func (k UUIDKey) String() string { return "urn:uuid:" + uuid.UUID(k).String() }

// Equal implements Key
func (k UUIDKey) Equal(other Key) bool {
	o, ok := other.(UUIDKey)
	return ok && o == k
}

// Hash implements Key
func (k UUIDKey) Hash() uint64 { return xxh3.Hash(k[:]) }

// Identifiable is the identity capability every generated type satisfies
type Identifiable interface {
	GetID() Key
	SetID(id Key)
}

// Bean is what a TypeHandle produces: an identifiable value with
// identity-derived equality, hashing and string form.
type Bean interface {
	Identifiable
	Equal(other any) bool
	Hash() uint64
	String() string
}

// IdentitySupport is the default identity holder. Generated types embed or
// delegate to it when their hierarchy does not implement Identifiable.
type IdentitySupport struct {
	id Key
}

// GetID implements Identifiable
func (s *IdentitySupport) GetID() Key { return s.id }

// SetID implements Identifiable
func (s *IdentitySupport) SetID(id Key) { s.id = id }

// KeyType is the TypeRef of Key
var KeyType = TypeOf[Key]()

// ImportPath is the import path of this package, used by generated code
var ImportPath = reflect.TypeFor[Identifiable]().PkgPath()

// IdentityCapability describes Identifiable
var IdentityCapability = NewInterface(ImportPath+".Identifiable").
	Getter("GetID", KeyType).
	Setter("SetID", KeyType)

// IdentitySupportType describes IdentitySupport as a base struct
var IdentitySupportType = NewStruct(ImportPath+".IdentitySupport").
	Extends(IdentityCapability).
	Concrete("GetID", nil, []TypeRef{KeyType}, func(self *Instance, _ []any) []any {
		return []any{self.support.GetID()}
	}).
	Concrete("SetID", []TypeRef{KeyType}, nil, func(self *Instance, args []any) []any {
		id, _ := args[0].(Key)
		self.support.SetID(id)
		return nil
	})

func identityGetter() *MethodSignature {
	m, _ := IdentityCapability.Method("GetID")
	return m
}

func identitySetter() *MethodSignature {
	m, _ := IdentityCapability.Method("SetID")
	return m
}

// isIdentityAccessor reports whether m has the shape of an Identifiable method
func isIdentityAccessor(m *MethodSignature) bool {
	return m.SameShape(identityGetter()) || m.SameShape(identitySetter())
}

// IdentityEqual implements the default equality of generated types. self
// equals other when they are the same value, or when other is identifiable,
// of the same type, and both identity keys are set and equal. Unset keys are
// never equal to anything but the value itself. A nil other, typed or not,
// is never equal.
func IdentityEqual(self Identifiable, other any) bool {
	if other == nil {
		return false
	}
	if any(self) == other {
		return true
	}
	o, ok := other.(Identifiable)
	if !ok || isNilPointer(other) {
		return false
	}
	if !sameBeanType(self, other) {
		return false
	}
	return keysEqual(self.GetID(), o.GetID())
}

func sameBeanType(self Identifiable, other any) bool {
	if si, ok := self.(*Instance); ok {
		oi, ok := other.(*Instance)
		return ok && oi != nil && oi.typ == si.typ
	}
	return reflect.TypeOf(other) == reflect.TypeOf(self)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func keysEqual(a, b Key) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Equal(b)
}

// IdentityHash returns the hash of the identity key, or 0 when unset
func IdentityHash(self Identifiable) uint64 {
	if id := self.GetID(); id != nil {
		return id.Hash()
	}
	return 0
}

// IdentityString returns the identity key as a string, falling back to
// "<type>@<address>" when unset
func IdentityString(self Identifiable) string {
	if id := self.GetID(); id != nil {
		return id.String()
	}
	if i, ok := self.(*Instance); ok {
		return fmt.Sprintf("%s@%p", i.typ.Name, i)
	}
	return fmt.Sprintf("%s@%p", strings.TrimPrefix(reflect.TypeOf(self).String(), "*"), self)
}
