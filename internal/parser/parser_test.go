package parser

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/utils"
	"github.com/toyz/beangen/pkg/beangen"
)

const widgetSource = `package shop

import "github.com/toyz/beangen/pkg/beangen"

// Widget is a catalog item.
//
//bean::entity
type Widget interface {
	beangen.Identifiable
	GetLabel() string
	SetLabel(label string)
	GetSize() int
}
`

func methodNames(desc *beangen.TypeDescriptor) []string {
	var names []string
	for _, m := range desc.Methods {
		names = append(names, m.Name)
	}
	return names
}

func TestParseSource_InterfaceEntity(t *testing.T) {
	p := NewParser(nil)

	meta, err := p.ParseSource("widget.go", widgetSource, "example.com/shop")
	require.NoError(t, err)

	assert.Equal(t, "shop", meta.PackageName)
	require.Len(t, meta.Entities, 1)

	entity := meta.Entities[0]
	assert.Equal(t, "Widget", entity.Name)
	assert.Equal(t, "Widget is a catalog item.", entity.Doc)
	assert.Equal(t, "widget.go", entity.FileName)
	assert.Equal(t, 8, entity.Line)
	assert.False(t, entity.NoFactory)
	assert.True(t, entity.IsInterface())

	desc := entity.Descriptor
	assert.Equal(t, "example.com/shop.Widget", desc.ID())
	assert.Equal(t, []string{"GetLabel", "SetLabel", "GetSize"}, methodNames(desc))
	require.Len(t, desc.Interfaces, 1)
	assert.Same(t, beangen.IdentityCapability, desc.Interfaces[0])

	setter, ok := desc.Method("SetLabel")
	require.True(t, ok)
	assert.Equal(t, "string", setter.Params[0].Name)
	assert.Empty(t, setter.Results)

	gen, err := beangen.Synthesize(desc)
	require.NoError(t, err)
	assert.Len(t, gen.Properties, 2)
	assert.False(t, gen.Identity.Native())
}

func TestParseSource_DeclaredDefaults(t *testing.T) {
	tests := []struct {
		name  string
		equal string
	}{
		{"empty interface", "Equal(other interface{}) bool"},
		{"empty interface with space", "Equal(other interface {}) bool"},
		{"any", "Equal(other any) bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `package shop

import "github.com/toyz/beangen/pkg/beangen"

//bean::entity
type Widget interface {
	beangen.Identifiable
	GetLabel() string
	` + tt.equal + `
	Hash() uint64
	String() string
}
`
			meta, err := NewParser(nil).ParseSource("widget.go", src, "example.com/shop")
			require.NoError(t, err)
			require.Len(t, meta.Entities, 1)

			gen, err := beangen.Synthesize(meta.Entities[0].Descriptor)
			require.NoError(t, err)
			require.Len(t, gen.Properties, 1)
			assert.Equal(t, "label", gen.Properties[0].Name)
		})
	}
}

func TestParseSource_AliasedImport(t *testing.T) {
	src := `package shop

import (
	"time"

	bg "github.com/toyz/beangen/pkg/beangen"
)

//bean::entity -NoFactory
type Order interface {
	bg.Identifiable
	GetOwner() bg.Key
	SetOwner(owner bg.Key)
	GetPlaced() time.Time
	GetLines() map[string][]bg.Key
}
`
	meta, err := NewParser(nil).ParseSource("order.go", src, "example.com/shop")
	require.NoError(t, err)
	require.Len(t, meta.Entities, 1)
	assert.True(t, meta.Entities[0].NoFactory)

	desc := meta.Types["Order"]
	getOwner, _ := desc.Method("GetOwner")
	assert.Equal(t, "beangen.Key", getOwner.Results[0].Name)
	getLines, _ := desc.Method("GetLines")
	assert.Equal(t, "map[string][]beangen.Key", getLines.Results[0].Name)
	getPlaced, _ := desc.Method("GetPlaced")
	assert.Equal(t, "time.Time", getPlaced.Results[0].Name)

	assert.ElementsMatch(t, []string{"time", beangen.ImportPath}, []string{meta.Imports[0].Path, meta.Imports[1].Path})
	assert.Equal(t, "bg", meta.Imports[1].Name)
}

func TestParseSource_StructEntity(t *testing.T) {
	src := `package people

import (
	"sync"

	"github.com/toyz/beangen/pkg/beangen"
)

type Named interface {
	GetName() string
	SetName(name string)
	GetAge() int
}

type Audit struct {
	created string
}

func (a Audit) Created() string { return a.created }

//bean::entity -Implements=Named
type PersonBase struct {
	Audit
	beangen.IdentitySupport
	sync.Mutex
	name string
}

func (p *PersonBase) Greeting() string { return "hi " + p.name }
`
	meta, err := NewParser(nil).ParseSource("person.go", src, "example.com/people")
	require.NoError(t, err)
	require.Len(t, meta.Entities, 1)

	desc := meta.Entities[0].Descriptor
	assert.False(t, desc.IsInterface())
	require.NotNil(t, desc.Superclass)
	assert.Equal(t, "example.com/people.Audit", desc.Superclass.ID())
	assert.Equal(t, []beangen.Field{
		{Name: "Mutex", Type: beangen.TypeNamed("sync.Mutex")},
		{Name: "name", Type: beangen.TypeNamed("string")},
	}, desc.Fields)
	assert.Equal(t, []string{"GetID", "SetID", "Greeting"}, methodNames(desc))
	for _, m := range desc.Methods {
		assert.True(t, m.Implemented, m.Name)
	}
	assert.True(t, desc.IsSubtypeOf(meta.Types["Named"]))
	assert.True(t, desc.IsSubtypeOf(beangen.IdentityCapability))

	gen, err := beangen.Synthesize(desc)
	require.NoError(t, err)
	assert.True(t, gen.Identity.Native())

	name, ok := gen.Property("name")
	require.True(t, ok)
	assert.True(t, name.Inherited)
	_, ok = gen.Property("age")
	assert.True(t, ok)
}

func TestParseSource_GroupedDeclarations(t *testing.T) {
	src := `package shop

import "github.com/toyz/beangen/pkg/beangen"

type (
	// Priced has a price.
	Priced interface {
		GetPrice() int
	}

	// Item is sold.
	//bean::entity
	Item interface {
		beangen.Identifiable
		Priced
		IsActive() bool
	}
)
`
	meta, err := NewParser(nil).ParseSource("item.go", src, "")
	require.NoError(t, err)
	require.Len(t, meta.Entities, 1)
	assert.Equal(t, "Item", meta.Entities[0].Descriptor.ID())
	assert.Equal(t, "Item is sold.", meta.Entities[0].Doc)
	assert.Len(t, meta.Types, 2)
}

func TestParseSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.ErrorCode
	}{
		{
			name: "unresolved embedded interface",
			src: `package shop
import "example.com/other"
//bean::entity
type Widget interface {
	other.Thing
}`,
			code: errors.UnresolvedTypeErrorCode,
		},
		{
			name: "unresolved implements",
			src: `package shop
//bean::entity -Implements=Missing
type Widget struct{}`,
			code: errors.UnresolvedTypeErrorCode,
		},
		{
			name: "implements a struct",
			src: `package shop
type Base struct{}
//bean::entity -Implements=Base
type Widget struct{}`,
			code: errors.ValidationErrorCode,
		},
		{
			name: "annotation on a named basic type",
			src: `package shop
//bean::entity
type ID string`,
			code: errors.ValidationErrorCode,
		},
		{
			name: "annotation on a generic type",
			src: `package shop
//bean::entity
type Box[T any] interface{ Get() T }`,
			code: errors.ValidationErrorCode,
		},
		{
			name: "base on an interface",
			src: `package shop
//bean::base -Implements=Other
type Widget interface{}`,
			code: errors.ValidationErrorCode,
		},
		{
			name: "two annotations",
			src: `package shop
//bean::entity
//bean::base
type Widget struct{}`,
			code: errors.ValidationErrorCode,
		},
		{
			name: "bad annotation syntax",
			src: `package shop
//bean::entity Widget
type Widget interface{}`,
			code: errors.SyntaxErrorCode,
		},
		{
			name: "unknown annotation parameter",
			src: `package shop
//bean::entity -Scope=Singleton
type Widget interface{}`,
			code: errors.SchemaErrorCode,
		},
		{
			name: "dot import",
			src: `package shop
import . "github.com/toyz/beangen/pkg/beangen"
var _ Key`,
			code: errors.ValidationErrorCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil).ParseSource("widget.go", tt.src, "example.com/shop")
			require.Error(t, err)

			var multi *errors.MultipleErrors
			require.True(t, stderrors.As(err, &multi), "got %T: %v", err, err)
			assert.True(t, multi.HasCode(tt.code), "codes in %v", err)
			assert.Equal(t, "widget.go", multi.Errors[0].Location().File)
		})
	}
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"widget.go": widgetSource,
		"named.go": `package shop

type Named interface {
	GetName() string
}
`,
		utils.DefaultGeneratedFile: utils.GeneratedHeader + "\n\npackage shop\n\ntype WidgetImpl struct{}\n",
		"widget_test.go":           "package shop_test\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	meta, err := NewParser(utils.NewFileProcessor("")).ParseDirectory(dir, "example.com/shop")
	require.NoError(t, err)

	assert.Equal(t, dir, meta.PackagePath)
	assert.Len(t, meta.Types, 2)
	_, generatedScanned := meta.Types["WidgetImpl"]
	assert.False(t, generatedScanned)
	require.Len(t, meta.Entities, 1)
	assert.Equal(t, filepath.Join(dir, "widget.go"), meta.Entities[0].FileName)
}

func TestExtractAnnotations(t *testing.T) {
	p := NewParser(nil)
	file, err := p.processor.GetFileReader().ParseGoSource("widget.go", widgetSource)
	require.NoError(t, err)

	found, err := p.ExtractAnnotations(file, "widget.go")
	require.NoError(t, err)
	require.Contains(t, found, "Widget")
	assert.Equal(t, "Widget", found["Widget"].Target)
	assert.Equal(t, 7, found["Widget"].Location.Line)
}
