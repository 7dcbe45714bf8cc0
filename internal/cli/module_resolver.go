package cli

import (
	"os"

	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	if reader == nil {
		reader = utils.NewFileReader()
	}
	return &ModuleResolver{gomod: utils.NewGoModParser(reader)}
}

// ResolveModuleName resolves the module name for imports
// If customModule is provided, it uses that; otherwise reads from go.mod
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", ".", err)
	}
	goModPath, err := r.gomod.FindGoModFile(dir)
	if err != nil {
		return "", r.moduleError(err)
	}
	moduleName, err := r.gomod.ParseModuleName(goModPath)
	if err != nil {
		return "", r.moduleError(err)
	}
	return moduleName, nil
}

// BuildPackagePath builds the full import path for a package directory.
// moduleName may be empty, in which case the nearest go.mod names the module.
func (r *ModuleResolver) BuildPackagePath(moduleName, packageDir string) (string, error) {
	importPath, err := r.gomod.PackageImportPath(packageDir, moduleName)
	if err != nil {
		return "", r.moduleError(err).WithContext("directory", packageDir)
	}
	return importPath, nil
}

func (r *ModuleResolver) moduleError(cause error) *errors.BaseError {
	return errors.Wrap(errors.ConfigurationErrorCode, "failed to determine module name", cause).
		WithSuggestion("Check your go.mod file exists and is valid").
		WithSuggestion("Ensure you're running from inside the module").
		WithSuggestion("Try specifying --module flag explicitly")
}
