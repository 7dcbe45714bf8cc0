package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/generator"
	"github.com/toyz/beangen/internal/models"
	"github.com/toyz/beangen/internal/parser"
	"github.com/toyz/beangen/internal/utils"
	"github.com/toyz/beangen/pkg/beangen"
)

// Generator coordinates the CLI generation process
type Generator struct {
	config         Config
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         *parser.Parser
	codeGenerator  generator.CodeGenerator
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator for the configuration. A nil
// diagnostics system is derived from the configured verbosity.
func NewGenerator(cfg Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(cfg.Level())
	}

	processor := utils.NewFileProcessor(cfg.Output)
	return &Generator{
		config:         cfg,
		scanner:        NewDirectoryScanner(processor),
		moduleResolver: NewModuleResolver(processor.GetFileReader()),
		parser:         parser.NewParser(processor),
		codeGenerator:  generator.NewGenerator(cfg.GeneratorOptions()),
		reporter:       NewDiagnosticReporter(cfg.Verbose),
		diagnostics:    diagnostics,
	}
}

// Reporter returns the reporter used for failed runs
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run generates one implementation file for every scanned package that
// declares entities. Packages without entities are skipped and an existing
// generated file in them is left untouched.
func (g *Generator) Run() error {
	startTime := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	g.diagnostics.Header("Generating bean implementations")
	g.diagnostics.SourcePath(strings.Join(g.config.Directories, ", "))
	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))

	packages, err := g.discover()
	if err != nil {
		return err
	}

	if len(packages) == 0 {
		g.diagnostics.Warn("No bean entities found in %d packages", g.summary.PackagesProcessed)
	}

	g.diagnostics.PhaseHeader("Generation")
	for _, metadata := range packages {
		if err := g.generatePackage(metadata); err != nil {
			return err
		}
	}

	g.diagnostics.Summary("Summary", g.summary.Stats())
	g.diagnostics.Verbose("Finished in %s", time.Since(startTime).Round(time.Millisecond))
	g.diagnostics.GenerationComplete()
	return nil
}

// Inspect parses the configured directories without writing anything and
// returns the metadata of every package that declares entities
func (g *Generator) Inspect() ([]*models.PackageMetadata, error) {
	g.summary = GenerationSummary{}
	return g.discover()
}

// discover scans the configured directories and parses each package
func (g *Generator) discover() ([]*models.PackageMetadata, error) {
	moduleName := g.config.ModuleName
	if moduleName != "" {
		g.diagnostics.Debug("Using custom module name: %s", moduleName)
	}

	packageDirs, err := g.scanner.ScanDirectories(g.config.Directories)
	if err != nil {
		return nil, err
	}
	if len(packageDirs) == 0 {
		return nil, errors.New(errors.ValidationErrorCode, "no Go packages found in specified directories").
			WithContext("directories", g.config.Directories).
			WithSuggestions(
				"Ensure the directories contain Go files",
				"Try scanning parent directories or use the './...' pattern",
			)
	}

	g.diagnostics.PhaseHeader("Discovery")
	g.diagnostics.Verbose("Found %d packages to scan", len(packageDirs))
	g.diagnostics.Indent()
	for _, dir := range packageDirs {
		g.diagnostics.Debug("%s", dir)
	}
	g.diagnostics.Unindent()

	var packages []*models.PackageMetadata
	var multi *errors.MultipleErrors
	for _, dir := range packageDirs {
		importPath, err := g.moduleResolver.BuildPackagePath(moduleName, dir)
		if err != nil {
			return nil, err
		}

		metadata, err := g.parser.ParseDirectory(dir, importPath)
		if err != nil {
			collect(&multi, err)
			continue
		}

		g.summary.PackagesProcessed++
		if len(metadata.Entities) == 0 {
			g.summary.PackagesSkipped++
			g.diagnostics.Debug("No entities in %s", importPath)
			continue
		}

		g.summary.EntitiesFound += len(metadata.Entities)
		g.diagnostics.PhaseItem(describePackage(importPath, metadata))
		packages = append(packages, metadata)
	}

	if multi != nil {
		return nil, multi
	}
	return packages, nil
}

// generatePackage renders and writes the implementation file of one package
func (g *Generator) generatePackage(metadata *models.PackageMetadata) error {
	file, err := g.codeGenerator.GenerateFile(metadata)
	if err != nil {
		return err
	}

	if err := g.writeFile(file.FilePath, file.Content); err != nil {
		return err
	}

	for _, t := range file.Types {
		g.summary.PropertiesFound += t.Properties
		if t.IdentityInjected {
			g.summary.IdentityInjected++
		}
		g.diagnostics.Verbose("%s -> %s (%d properties)", t.Source, t.StructName, t.Properties)
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	g.diagnostics.PhaseProgress("Writing " + relativePath(file.FilePath))
	return nil
}

// writeFile writes the generated file, creating the directory if needed
func (g *Generator) writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapFileSystemError("create directory for", path, err)
	}
	if err := utils.FormatAndWriteGoFile(path, content); err != nil {
		return errors.WrapFileSystemError("write", path, err).
			WithSuggestion("Ensure you have write permissions for the package directory")
	}
	return nil
}

// collect adds err to multi, keeping the individual errors of a collection
func collect(multi **errors.MultipleErrors, err error) {
	switch e := err.(type) {
	case *errors.MultipleErrors:
		for _, inner := range e.Errors {
			errors.AddToMultiple(multi, inner)
		}
	case errors.BeanError:
		errors.AddToMultiple(multi, e)
	default:
		errors.AddToMultiple(multi, errors.Wrap(errors.UnknownErrorCode, err.Error(), err))
	}
}

func describePackage(importPath string, metadata *models.PackageMetadata) string {
	names := make([]string, 0, len(metadata.Entities))
	for _, e := range metadata.Entities {
		names = append(names, e.Name)
	}
	if importPath == "" {
		importPath = metadata.PackageName
	}
	return importPath + ": " + strings.Join(names, ", ")
}

// relativePath shortens path relative to the working directory when possible
func relativePath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// EntityReport is the resolved shape of one entity, as shown by inspect
type EntityReport struct {
	Package    string
	Entity     string
	StructName string
	Native     bool // identity implemented by the hierarchy itself
	Properties []*beangen.Property
}

// BuildReports synthesizes every entity of the packages without rendering
// code. Synthesis errors are collected per entity.
func BuildReports(packages []*models.PackageMetadata, suffix string) ([]EntityReport, error) {
	if suffix == "" {
		suffix = generator.DefaultSuffix
	}

	var reports []EntityReport
	var multi *errors.MultipleErrors
	for _, metadata := range packages {
		for _, entity := range metadata.Entities {
			generated, err := beangen.Synthesize(entity.Descriptor)
			if err != nil {
				loc := errors.SourceLocation{File: entity.FileName, Line: entity.Line}
				errors.AddToMultiple(&multi, errors.FromSynthesis(err, loc))
				continue
			}
			reports = append(reports, EntityReport{
				Package:    metadata.PackageName,
				Entity:     entity.Name,
				StructName: entity.Name + suffix,
				Native:     generated.Identity.Native(),
				Properties: generated.Properties,
			})
		}
	}

	if multi != nil {
		return reports, multi
	}
	return reports, nil
}
