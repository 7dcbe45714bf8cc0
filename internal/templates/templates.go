package templates

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/beangen/internal/utils"
)

// FileData is everything needed to render one generated file
type FileData struct {
	PackageName string
	Imports     *ImportManager
	Beans       []BeanData
}

// BeanData describes the implementation of one entity
type BeanData struct {
	Source      string // name of the interface or base struct
	StructName  string
	Constructor string
	TypeID      string
	Embeds      bool // base struct roots are embedded instead of implemented
	NoFactory   bool

	InjectIdentity bool
	InjectGetter   bool
	InjectSetter   bool
	IdentityField  string

	Fields  []FieldData
	Getters []AccessorData
	Setters []AccessorData

	// Defaults already implemented by the base struct are not generated
	SkipEqual  bool
	SkipHash   bool
	SkipString bool

	Assertions []string
}

// FieldData is one declared field of a generated struct
type FieldData struct {
	Name string
	Type string
}

// AccessorData is one generated getter or setter
type AccessorData struct {
	StructName string
	Method     string
	Property   string
	Field      string
	Type       string
}

// GenerateFile renders a complete generated file. The result is not yet
// gofmt formatted.
func GenerateFile(data FileData) (string, error) {
	imports := data.Imports
	if imports == nil {
		imports = NewImportManager()
	}

	var b strings.Builder
	header, err := executeTemplate("file-header", DefaultTemplateRegistry.MustGet("file-header"), map[string]string{
		"Header":      utils.GeneratedHeader,
		"PackageName": data.PackageName,
		"Imports":     imports.GenerateImports(),
	})
	if err != nil {
		return "", err
	}
	b.WriteString(header)

	var factories []BeanData
	for _, bean := range data.Beans {
		code, err := GenerateBean(bean)
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(code)

		if !bean.NoFactory {
			factories = append(factories, bean)
		}
	}

	if len(factories) > 0 {
		code, err := executeTemplate("factory-registration", DefaultTemplateRegistry.MustGet("factory-registration"), factories)
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(code)
	}

	return b.String(), nil
}

// GenerateBean renders the struct, constructor, accessors and identity
// methods of one entity
func GenerateBean(bean BeanData) (string, error) {
	var sections []string
	render := func(name string, data any) error {
		code, err := executeTemplate(name, DefaultTemplateRegistry.MustGet(name), data)
		if err != nil {
			return err
		}
		sections = append(sections, code)
		return nil
	}

	for _, name := range []string{"bean-struct", "bean-constructor"} {
		if err := render(name, bean); err != nil {
			return "", err
		}
	}
	for _, g := range bean.Getters {
		g.StructName = bean.StructName
		if err := render("getter", g); err != nil {
			return "", err
		}
	}
	for _, s := range bean.Setters {
		s.StructName = bean.StructName
		if err := render("setter", s); err != nil {
			return "", err
		}
	}

	optional := []struct {
		name string
		emit bool
	}{
		{"identity-getter", bean.InjectGetter},
		{"identity-setter", bean.InjectSetter},
		{"identity-equal", !bean.SkipEqual},
		{"identity-hash", !bean.SkipHash},
		{"identity-string", !bean.SkipString},
	}
	for _, o := range optional {
		if !o.emit {
			continue
		}
		if err := render(o.name, bean); err != nil {
			return "", err
		}
	}

	if len(bean.Assertions) > 0 {
		if err := render("bean-assertions", bean); err != nil {
			return "", err
		}
	}

	return strings.Join(sections, "\n"), nil
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data any) (string, error) {
	funcMap := template.FuncMap{
		"quote": strconv.Quote,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// ExecuteTemplate executes a Go template with the given data (exported version)
func ExecuteTemplate(name, templateStr string, data any) (string, error) {
	return executeTemplate(name, templateStr, data)
}
