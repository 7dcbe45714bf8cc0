package models

// GeneratedFile represents one generated implementation file
type GeneratedFile struct {
	PackageName string              // name of the package
	FilePath    string              // path where the file should be written
	Content     []byte              // formatted Go source
	Types       []GeneratedTypeInfo // implementations contained in the file
}

// GeneratedTypeInfo summarizes one generated implementation
type GeneratedTypeInfo struct {
	Source           string // ID of the source type
	StructName       string // generated struct name
	Properties       int    // number of resolved properties
	IdentityInjected bool   // whether identity accessors were injected
}
