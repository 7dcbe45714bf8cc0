package beangen

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/toyz/beangen/internal/utils"
)

// Factory builds a native instance of a generated type. Generated code
// registers one per entity so Obtain hands out real structs instead of
// dynamic instances.
type Factory func() Bean

// TypeHandle is a constructible reference to a generated type
type TypeHandle struct {
	typ     *GeneratedType
	factory Factory
}

// Type returns the generated type behind the handle
func (h *TypeHandle) Type() *GeneratedType { return h.typ }

// Name returns the generated type name
func (h *TypeHandle) Name() string { return h.typ.Name }

// Properties returns the resolved properties of the generated type
func (h *TypeHandle) Properties() []*Property { return h.typ.Properties }

// Native reports whether New returns values built by a registered factory
func (h *TypeHandle) Native() bool { return h.factory != nil }

// New builds a fresh instance with every property unset
func (h *TypeHandle) New() (b Bean, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	if h.factory != nil {
		return h.factory(), nil
	}
	return newInstance(h.typ)
}

// NewInstance builds a dynamic instance even when a native factory exists
func (h *TypeHandle) NewInstance() (*Instance, error) {
	return newInstance(h.typ)
}

// NewAs builds an instance and asserts it to T
func NewAs[T any](h *TypeHandle) (T, error) {
	var zero T
	b, err := h.New()
	if err != nil {
		return zero, err
	}
	v, ok := b.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s does not produce %T", ErrTypeMismatch, h.Name(), zero)
	}
	return v, nil
}

// TypeLoader stores generated types under their generated name and
// materializes them again on later requests
type TypeLoader interface {
	Store(h *TypeHandle) error
	Load(name string) (*TypeHandle, error)
}

type memoryLoader struct {
	types *utils.BaseRegistry[string, *TypeHandle]
}

// NewMemoryLoader returns the in-process loader used by default
func NewMemoryLoader() TypeLoader {
	types := utils.NewBaseRegistry[string, *TypeHandle]("type", "generated type", "handle")
	types.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[*TypeHandle]("generated type name"),
		utils.NoDuplicateValidator[string, *TypeHandle]("generated type"),
	))
	return &memoryLoader{types: types}
}

func (l *memoryLoader) Store(h *TypeHandle) error {
	return l.types.Register(h.Name(), h)
}

func (l *memoryLoader) Load(name string) (*TypeHandle, error) {
	return l.types.GetOrError(name)
}

// Option configures a Registry
type Option func(*Registry)

// WithLoader replaces the in-memory type loader
func WithLoader(l TypeLoader) Option {
	return func(r *Registry) { r.loader = l }
}

// WithLogger sets the logger for generation events
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// Registry memoizes generated types by source identity. Generation for one
// identity happens at most once; different identities proceed in parallel.
type Registry struct {
	mu        sync.RWMutex
	ledger    map[string]string // source ID -> generated name
	loader    TypeLoader
	factories *utils.BaseRegistry[string, Factory]
	group     singleflight.Group
	logger    *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		ledger:    make(map[string]string),
		factories: utils.NewBaseRegistry[string, Factory]("factory", "type", "factory"),
		logger:    slog.New(slog.DiscardHandler),
	}
	r.factories.SetValidator(utils.NoDuplicateValidator[string, Factory]("factory for type"))
	for _, opt := range opts {
		opt(r)
	}
	if r.loader == nil {
		r.loader = NewMemoryLoader()
	}
	return r
}

// DefaultRegistry is the process-wide registry used by the package functions
var DefaultRegistry = NewRegistry()

// Obtain returns the handle for desc from the default registry
func Obtain(desc *TypeDescriptor) (*TypeHandle, error) {
	return DefaultRegistry.Obtain(desc)
}

// RegisterFactory registers a native factory with the default registry
func RegisterFactory(typeID string, f Factory) error {
	return DefaultRegistry.RegisterFactory(typeID, f)
}

// MustRegisterFactory is RegisterFactory for init functions of generated code
func MustRegisterFactory(typeID string, f Factory) {
	if err := RegisterFactory(typeID, f); err != nil {
		panic(err)
	}
}

// RegisterFactory makes handles for typeID build instances with f. It must
// run before the first Obtain of that type.
func (r *Registry) RegisterFactory(typeID string, f Factory) error {
	if f == nil {
		return fmt.Errorf("nil factory for %s", typeID)
	}
	return r.factories.Register(typeID, f)
}

// Obtain returns the generated type for desc, generating and validating it
// on the first request for its identity.
func (r *Registry) Obtain(desc *TypeDescriptor) (*TypeHandle, error) {
	if desc == nil {
		return nil, newError(KindSynthesis, nil, "nil type descriptor")
	}
	if err := checkIdentity(desc); err != nil {
		return nil, err
	}

	id := desc.ID()
	if h, ok, err := r.lookup(desc); ok || err != nil {
		return h, err
	}

	v, err, shared := r.group.Do(id, func() (any, error) {
		if h, ok, err := r.lookup(desc); ok || err != nil {
			return h, err
		}
		return r.generate(desc)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.logger.Debug("shared generation result", "type", id)
	}
	return v.(*TypeHandle), nil
}

// lookup consults the ledger. A recorded type that cannot be loaded again
// is an inconsistency, never a reason to regenerate.
func (r *Registry) lookup(desc *TypeDescriptor) (*TypeHandle, bool, error) {
	r.mu.RLock()
	name, ok := r.ledger[desc.ID()]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	h, err := r.loader.Load(name)
	if err != nil {
		return nil, false, wrapError(KindRegistryInconsistency, desc, err, "generated type %s cannot be loaded", name)
	}
	if h == nil {
		return nil, false, newError(KindRegistryInconsistency, desc, "generated type %s loaded as nil", name)
	}
	r.logger.Debug("generated type cache hit", "type", desc.ID(), "impl", name)
	return h, true, nil
}

func (r *Registry) generate(desc *TypeDescriptor) (*TypeHandle, error) {
	g, err := Synthesize(desc)
	if err != nil {
		r.logger.Debug("synthesis failed", "type", desc.ID(), "error", err)
		return nil, err
	}

	h := &TypeHandle{typ: g}
	if f, ok := r.factories.Get(desc.ID()); ok {
		h.factory = f
	}
	if err := validate(h); err != nil {
		r.logger.Debug("validation failed", "type", desc.ID(), "error", err)
		return nil, err
	}
	if err := r.loader.Store(h); err != nil {
		return nil, wrapError(KindSynthesis, desc, err, "cannot store generated type %s", g.Name)
	}

	r.mu.Lock()
	r.ledger[desc.ID()] = g.Name
	r.mu.Unlock()

	r.logger.Debug("generated type",
		"type", desc.ID(),
		"impl", g.Name,
		"properties", len(g.Properties),
		"native", h.Native(),
		"identity_injected", !g.Identity.Native())
	return h, nil
}

// validate builds one instance. A type that cannot be instantiated is
// never stored.
func validate(h *TypeHandle) error {
	src := h.typ.Source
	b, err := h.New()
	if err != nil {
		return wrapError(KindValidation, src, err, "cannot instantiate %s", h.Name())
	}
	if b == nil {
		return newError(KindValidation, src, "constructor of %s returned nil", h.Name())
	}
	if h.factory != nil && src.GoType != nil && !typeImplements(b, src) {
		return newError(KindValidation, src, "%T does not implement %s", b, src.GoType)
	}
	return nil
}

// Types returns the handles of every generated type, sorted by name. Types
// recorded in the ledger that can no longer be loaded are reported as
// RegistryInconsistency errors next to the handles that could.
func (r *Registry) Types() ([]*TypeHandle, error) {
	r.mu.RLock()
	ids := make(map[string]string, len(r.ledger))
	names := make([]string, 0, len(r.ledger))
	for id, name := range r.ledger {
		ids[name] = id
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)

	handles := make([]*TypeHandle, 0, len(names))
	var errs []error
	for _, name := range names {
		h, err := r.loader.Load(name)
		if err == nil && h == nil {
			err = errors.New("loaded as nil")
		}
		if err != nil {
			e := wrapError(KindRegistryInconsistency, nil, err, "generated type %s cannot be loaded", name)
			e.Type = ids[name]
			r.logger.Warn("generated type missing from loader", "type", ids[name], "impl", name, "error", err)
			errs = append(errs, e)
			continue
		}
		handles = append(handles, h)
	}
	return handles, errors.Join(errs...)
}

// Len returns the number of generated types
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ledger)
}
