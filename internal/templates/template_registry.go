package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerBeanTemplates()
	registry.registerAccessorTemplates()
	registry.registerIdentityTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerFileTemplates registers the templates that frame a generated file
func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates["file-header"] = `{{.Header}}

package {{.PackageName}}

{{.Imports}}`

	tr.templates["factory-registration"] = `func init() {
{{range .}}	beangen.MustRegisterFactory({{quote .TypeID}}, func() beangen.Bean { return &{{.StructName}}{} })
{{end}}}
`
}

// registerBeanTemplates registers the struct, constructor and assertions of one bean
func (tr *TemplateRegistry) registerBeanTemplates() {
	tr.templates["bean-struct"] = `// {{.StructName}} is the generated implementation of {{.Source}}
type {{.StructName}} struct {
{{if .Embeds}}	{{.Source}}
{{end}}{{if .InjectIdentity}}	{{.IdentityField}} beangen.IdentitySupport
{{end}}{{range .Fields}}	{{.Name}} {{.Type}}
{{end}}}
`

	tr.templates["bean-constructor"] = `// {{.Constructor}} returns a {{.Source}} with unset identity and zero-valued properties
func {{.Constructor}}() {{if .Embeds}}*{{.StructName}}{{else}}{{.Source}}{{end}} {
	return &{{.StructName}}{}
}
`

	tr.templates["bean-assertions"] = `var (
{{range .Assertions}}	_ {{.}} = (*{{$.StructName}})(nil)
{{end}})
`
}

// registerAccessorTemplates registers property getters and setters
func (tr *TemplateRegistry) registerAccessorTemplates() {
	tr.templates["getter"] = `// {{.Method}} returns the {{.Property}} property
func (b *{{.StructName}}) {{.Method}}() {{.Type}} {
	return b.{{.Field}}
}
`

	tr.templates["setter"] = `// {{.Method}} sets the {{.Property}} property
func (b *{{.StructName}}) {{.Method}}(v {{.Type}}) {
	b.{{.Field}} = v
}
`
}

// registerIdentityTemplates registers injected identity delegates and the
// identity-derived defaults
func (tr *TemplateRegistry) registerIdentityTemplates() {
	tr.templates["identity-getter"] = `// GetID returns the identity key, nil while unset
func (b *{{.StructName}}) GetID() beangen.Key {
	return b.{{.IdentityField}}.GetID()
}
`

	tr.templates["identity-setter"] = `// SetID assigns the identity key
func (b *{{.StructName}}) SetID(id beangen.Key) {
	b.{{.IdentityField}}.SetID(id)
}
`

	tr.templates["identity-equal"] = `// Equal reports whether other is the same {{.Source}} or one with an equal identity key
func (b *{{.StructName}}) Equal(other any) bool {
	return beangen.IdentityEqual(b, other)
}
`

	tr.templates["identity-hash"] = `// Hash returns the hash of the identity key, 0 while unset
func (b *{{.StructName}}) Hash() uint64 {
	return beangen.IdentityHash(b)
}
`

	tr.templates["identity-string"] = `// String returns the identity key, or the type and address while unset
func (b *{{.StructName}}) String() string {
	return beangen.IdentityString(b)
}
`
}

// DefaultTemplateRegistry is the registry used by the package level generators
var DefaultTemplateRegistry = NewTemplateRegistry()
