package beangen

// Widget is the reference bean used across the tests
type Widget interface {
	Identifiable
	GetLabel() string
	SetLabel(label string)
	GetSize() int
}

// widgetImpl is what the generator emits for Widget
type widgetImpl struct {
	label        string
	size         int
	beanIdentity IdentitySupport
}

func (w *widgetImpl) GetLabel() string      { return w.label }
func (w *widgetImpl) SetLabel(label string) { w.label = label }
func (w *widgetImpl) GetSize() int          { return w.size }
func (w *widgetImpl) GetID() Key            { return w.beanIdentity.GetID() }
func (w *widgetImpl) SetID(id Key)          { w.beanIdentity.SetID(id) }
func (w *widgetImpl) Equal(other any) bool  { return IdentityEqual(w, other) }
func (w *widgetImpl) Hash() uint64          { return IdentityHash(w) }
func (w *widgetImpl) String() string        { return IdentityString(w) }

// gadgetImpl satisfies Bean but not Widget
type gadgetImpl struct {
	IdentitySupport
}

func (g *gadgetImpl) Equal(other any) bool { return IdentityEqual(g, other) }
func (g *gadgetImpl) Hash() uint64         { return IdentityHash(g) }
func (g *gadgetImpl) String() string       { return IdentityString(g) }

var (
	stringType = TypeOf[string]()
	intType    = TypeOf[int]()
	boolType   = TypeOf[bool]()
)

func widgetDescriptor() *TypeDescriptor {
	return NewInterface("example.com/shop.Widget").
		Extends(IdentityCapability).
		Getter("GetLabel", stringType).
		Setter("SetLabel", stringType).
		Getter("GetSize", intType)
}

// namedHierarchy returns Named{GetName} and Person extends Named
// redeclaring GetName
func namedHierarchy() (named, person *TypeDescriptor) {
	named = NewInterface("example.com/people.Named").
		Getter("GetName", stringType)
	person = NewInterface("example.com/people.Person").
		Extends(named, IdentityCapability).
		Getter("GetName", stringType).
		Setter("SetName", stringType)
	return named, person
}
