package models

import "github.com/toyz/beangen/pkg/beangen"

// PackageMetadata represents all bean declarations found in a package
type PackageMetadata struct {
	PackageName string                             // name of the Go package
	PackagePath string                             // file system path to the package
	ImportPath  string                             // Go import path, empty when unknown
	Entities    []EntityMetadata                   // types annotated with //bean::entity
	Types       map[string]*beangen.TypeDescriptor // every interface and struct by local name
	Imports     []ImportSpec                       // imports of the scanned files, deduplicated
}

// Entity returns the entity with the given local name
func (m *PackageMetadata) Entity(name string) (*EntityMetadata, bool) {
	for i := range m.Entities {
		if m.Entities[i].Name == name {
			return &m.Entities[i], true
		}
	}
	return nil, false
}

// EntityMetadata is one type whose implementation gets generated
type EntityMetadata struct {
	Name       string                  // local type name
	Descriptor *beangen.TypeDescriptor // structural description of the type
	NoFactory  bool                    // skip registering a native factory
	Doc        string                  // doc comment without the annotation lines
	FileName   string                  // file containing the declaration
	Line       int                     // line of the declaration
}

// IsInterface reports whether the entity is a pure interface
func (e *EntityMetadata) IsInterface() bool {
	return e.Descriptor.IsInterface()
}

// ImportSpec is one import of a scanned file
type ImportSpec struct {
	Name string // explicit package name, empty when implicit
	Path string // import path
}
