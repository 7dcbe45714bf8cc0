package templates

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	standardImports map[string]bool
	packageImports  map[string]string // path -> alias, empty when none
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		standardImports: make(map[string]bool),
		packageImports:  make(map[string]string),
	}
}

// AddImport adds an import without alias
func (im *ImportManager) AddImport(importPath string) {
	im.AddPackageImport("", importPath)
}

// AddPackageImport adds an import with alias. An alias equal to the
// package's default name is dropped.
func (im *ImportManager) AddPackageImport(alias, importPath string) {
	if importPath == "" {
		return
	}
	if alias == DefaultPackageName(importPath) {
		alias = ""
	}
	if isStandardLibrary(importPath) && alias == "" {
		im.standardImports[importPath] = true
		return
	}
	im.packageImports[importPath] = alias
}

// Has reports whether importPath was added
func (im *ImportManager) Has(importPath string) bool {
	if im.standardImports[importPath] {
		return true
	}
	_, ok := im.packageImports[importPath]
	return ok
}

// Len returns the number of imports
func (im *ImportManager) Len() int {
	return len(im.standardImports) + len(im.packageImports)
}

// GenerateImports generates the import section, standard library first
func (im *ImportManager) GenerateImports() string {
	if im.Len() == 0 {
		return ""
	}

	var std []string
	for imp := range im.standardImports {
		std = append(std, fmt.Sprintf("%q", imp))
	}
	sort.Strings(std)

	var paths []string
	for imp := range im.packageImports {
		paths = append(paths, imp)
	}
	sort.Strings(paths)

	var others []string
	for _, p := range paths {
		if alias := im.packageImports[p]; alias != "" {
			others = append(others, fmt.Sprintf("%s %q", alias, p))
		} else {
			others = append(others, fmt.Sprintf("%q", p))
		}
	}

	if len(std)+len(others) == 1 {
		return fmt.Sprintf("import %s\n", append(std, others...)[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range std {
		result.WriteString("\t" + imp + "\n")
	}
	if len(std) > 0 && len(others) > 0 {
		result.WriteString("\n")
	}
	for _, imp := range others {
		result.WriteString("\t" + imp + "\n")
	}
	result.WriteString(")\n")

	return result.String()
}

// Merge merges another import manager into this one
func (im *ImportManager) Merge(other *ImportManager) {
	for imp := range other.standardImports {
		im.standardImports[imp] = true
	}
	for imp, alias := range other.packageImports {
		im.packageImports[imp] = alias
	}
}

// DefaultPackageName guesses the package name of an import path from its
// last element: major version suffixes and a go- prefix are dropped.
func DefaultPackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.LastIndex(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.NewReplacer("-", "", ".", "").Replace(base)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isStandardLibrary reports whether the first path element lacks a dot
func isStandardLibrary(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
