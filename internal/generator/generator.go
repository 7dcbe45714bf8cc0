package generator

import (
	"go/ast"
	"go/parser"
	"path/filepath"

	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/models"
	"github.com/toyz/beangen/internal/templates"
	"github.com/toyz/beangen/internal/utils"
	"github.com/toyz/beangen/pkg/beangen"
)

// DefaultSuffix is appended to entity names to form generated struct names
const DefaultSuffix = "Impl"

// Options control the naming of generated code
type Options struct {
	OutputFile string // generated file name, defaults to beangen_impl.go
	Suffix     string // generated struct suffix, defaults to Impl
}

// Generator implements the CodeGenerator interface
type Generator struct {
	options Options
}

// NewGenerator creates a new code generator instance
func NewGenerator(opts Options) *Generator {
	if opts.OutputFile == "" {
		opts.OutputFile = utils.DefaultGeneratedFile
	}
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	return &Generator{options: opts}
}

// Options returns the effective options
func (g *Generator) Options() Options {
	return g.options
}

// GenerateFile synthesizes every entity of the package and renders one
// formatted file holding their implementations
func (g *Generator) GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, errors.New(errors.ValidationErrorCode, "metadata cannot be nil")
	}
	if len(metadata.Entities) == 0 {
		return nil, errors.Newf(errors.ValidationErrorCode, "package %s has no bean entities", metadata.PackageName).
			WithSuggestion("Mark an interface or base struct with //bean::entity")
	}

	filePath := filepath.Join(metadata.PackagePath, g.options.OutputFile)
	imports := templates.NewImportManager()
	imports.AddImport(beangen.ImportPath)
	resolver := newQualifierResolver(metadata, imports)

	var multi *errors.MultipleErrors
	file := &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
	}
	data := templates.FileData{
		PackageName: metadata.PackageName,
		Imports:     imports,
	}

	for _, entity := range metadata.Entities {
		loc := errors.SourceLocation{File: entity.FileName, Line: entity.Line}

		gen, err := beangen.Synthesize(entity.Descriptor)
		if err != nil {
			errors.AddToMultiple(&multi, errors.FromSynthesis(err, loc))
			continue
		}

		bean, beanErr := g.beanData(metadata, entity, gen)
		if beanErr != nil {
			errors.AddToMultiple(&multi, beanErr.WithLocation(loc))
			continue
		}
		for _, f := range bean.Fields {
			resolver.add(f.Type)
		}
		for _, a := range append(bean.Getters, bean.Setters...) {
			resolver.add(a.Type)
		}

		data.Beans = append(data.Beans, bean)
		file.Types = append(file.Types, models.GeneratedTypeInfo{
			Source:           entity.Descriptor.ID(),
			StructName:       bean.StructName,
			Properties:       len(gen.Properties),
			IdentityInjected: !gen.Identity.Native(),
		})
	}
	if multi != nil {
		return nil, multi
	}

	content, err := templates.GenerateFile(data)
	if err != nil {
		return nil, errors.WrapTemplateError("beans", "execute", err)
	}

	format := utils.FormatGoCode
	if resolver.unresolved {
		format = utils.FixImports
	}
	formatted, err := format(filePath, []byte(content))
	if err != nil {
		return nil, errors.WrapGenerateError("file", filePath, err)
	}

	file.Content = formatted
	return file, nil
}

// beanData maps a synthesized type onto template data
func (g *Generator) beanData(metadata *models.PackageMetadata, entity models.EntityMetadata, gen *beangen.GeneratedType) (templates.BeanData, *errors.BaseError) {
	src := entity.Descriptor
	structName := entity.Name + g.options.Suffix
	if _, clash := metadata.Types[structName]; clash {
		return templates.BeanData{}, errors.Newf(errors.ValidationErrorCode, "generated struct %s collides with a declared type", structName).
			WithContext("entity", entity.Name).
			WithSuggestion("Rename the type or choose another suffix")
	}

	bean := templates.BeanData{
		Source:         entity.Name,
		StructName:     structName,
		Constructor:    "New" + beangen.ExportedName(entity.Name),
		TypeID:         src.ID(),
		Embeds:         gen.Embeds(),
		NoFactory:      entity.NoFactory,
		InjectIdentity: !gen.Identity.Native(),
		InjectGetter:   gen.Identity.InjectGetter,
		InjectSetter:   gen.Identity.InjectSetter,
		IdentityField:  gen.Identity.Field,
	}

	for _, slot := range gen.NewFields() {
		bean.Fields = append(bean.Fields, templates.FieldData{Name: slot.Name, Type: slot.Type.Name})
	}

	for _, p := range gen.Properties {
		for _, m := range p.Getters() {
			bean.Getters = append(bean.Getters, templates.AccessorData{
				Method:   m.Name,
				Property: p.Name,
				Field:    p.Field,
				Type:     p.Type.Name,
			})
		}
		if p.Setter != nil {
			bean.Setters = append(bean.Setters, templates.AccessorData{
				Method:   p.Setter.Name,
				Property: p.Name,
				Field:    p.Field,
				Type:     p.Type.Name,
			})
		}
	}

	for _, m := range gen.Model.Concrete {
		switch m.Name {
		case "Equal":
			bean.SkipEqual = true
		case "Hash":
			bean.SkipHash = true
		case "String":
			bean.SkipString = true
		}
	}

	if src.IsInterface() {
		bean.Assertions = append(bean.Assertions, entity.Name)
	} else {
		for _, iface := range src.Interfaces {
			if iface.PkgPath == src.PkgPath && iface != beangen.IdentityCapability {
				bean.Assertions = append(bean.Assertions, iface.Name)
			}
		}
	}
	bean.Assertions = append(bean.Assertions, "beangen.Bean")

	return bean, nil
}

// qualifierResolver adds the imports that property types refer to
type qualifierResolver struct {
	byName     map[string]models.ImportSpec
	imports    *templates.ImportManager
	unresolved bool
}

func newQualifierResolver(metadata *models.PackageMetadata, imports *templates.ImportManager) *qualifierResolver {
	r := &qualifierResolver{
		byName:  make(map[string]models.ImportSpec),
		imports: imports,
	}
	for _, spec := range metadata.Imports {
		name := spec.Name
		if name == "" {
			name = templates.DefaultPackageName(spec.Path)
		}
		if name == "_" || name == "." {
			continue
		}
		if _, seen := r.byName[name]; !seen {
			r.byName[name] = spec
		}
	}
	return r
}

// add records the packages referenced by a type expression
func (r *qualifierResolver) add(typeName string) {
	for _, q := range qualifiers(typeName) {
		if q == "beangen" {
			continue
		}
		spec, ok := r.byName[q]
		if !ok {
			r.unresolved = true
			continue
		}
		r.imports.AddPackageImport(spec.Name, spec.Path)
	}
}

// qualifiers returns the package names used in a type expression
func qualifiers(typeName string) []string {
	expr, err := parser.ParseExpr(typeName)
	if err != nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if pkg, ok := sel.X.(*ast.Ident); ok && !seen[pkg.Name] {
			seen[pkg.Name] = true
			names = append(names, pkg.Name)
		}
		return false
	})
	return names
}
