package parser

import (
	stderrors "errors"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/beangen/internal/annotations"
	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/models"
	"github.com/toyz/beangen/internal/utils"
	"github.com/toyz/beangen/pkg/beangen"
)

// Parser reads Go packages and builds bean descriptors from their
// interface and struct declarations
type Parser struct {
	processor   *utils.FileProcessor
	annotations *annotations.ParticipleParser
}

// NewParser creates a parser using the default annotation registry
func NewParser(processor *utils.FileProcessor) *Parser {
	if processor == nil {
		processor = utils.NewFileProcessor("")
	}
	return &Parser{
		processor:   processor,
		annotations: annotations.NewParticipleParser(annotations.DefaultRegistry()),
	}
}

// ParseSource parses a single source file held in memory
func (p *Parser) ParseSource(filename, source, importPath string) (*models.PackageMetadata, error) {
	file, err := p.processor.GetFileReader().ParseGoSource(filename, source)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
		ImportPath:  importPath,
	}
	if err := p.scan(metadata, map[string]*ast.File{filename: file}); err != nil {
		return nil, err
	}
	return metadata, nil
}

// ParseDirectory parses the package in dir. importPath qualifies the
// descriptor IDs and may be empty.
func (p *Parser) ParseDirectory(dir, importPath string) (*models.PackageMetadata, error) {
	files, packageName, err := p.processor.ParseDirectoryFiles(dir)
	if err != nil {
		return nil, errors.WrapParseError("directory "+dir, err)
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: dir,
		ImportPath:  importPath,
	}
	if err := p.scan(metadata, files); err != nil {
		return nil, err
	}
	return metadata, nil
}

// ExtractAnnotations returns the bean annotations attached to type
// declarations in file, keyed by type name
func (p *Parser) ExtractAnnotations(file *ast.File, fileName string) (map[string]*annotations.ParsedAnnotation, error) {
	found := make(map[string]*annotations.ParsedAnnotation)
	var multi *errors.MultipleErrors

	fset := p.processor.GetFileReader().GetFileSet()
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			ann, err := p.annotationFor(fset, gen, ts, fileName)
			if err != nil {
				errors.AddToMultiple(&multi, err)
				continue
			}
			if ann != nil {
				found[ts.Name.Name] = ann
			}
		}
	}

	if multi != nil {
		return nil, multi
	}
	return found, nil
}

func (p *Parser) annotationFor(fset *token.FileSet, gen *ast.GenDecl, ts *ast.TypeSpec, fileName string) (*annotations.ParsedAnnotation, errors.BeanError) {
	doc := ts.Doc
	if doc == nil && len(gen.Specs) == 1 {
		doc = gen.Doc
	}
	if doc == nil {
		return nil, nil
	}

	var result *annotations.ParsedAnnotation
	for _, c := range doc.List {
		if !annotations.IsAnnotation(c.Text) {
			continue
		}
		pos := fset.Position(c.Pos())
		loc := annotations.SourceLocation{File: fileName, Line: pos.Line, Column: pos.Column}

		ann, err := p.annotations.ParseAnnotation(c.Text, loc)
		if err != nil {
			return nil, annotationError(err, loc)
		}
		if result != nil {
			return nil, errors.Newf(errors.ValidationErrorCode, "type '%s' has more than one bean annotation", ts.Name.Name).
				WithLocation(toLocation(loc)).
				WithSuggestion("Keep a single //bean::entity or //bean::base line per type")
		}
		ann.Target = ts.Name.Name
		result = ann
	}
	return result, nil
}

// scan builds descriptors for every interface and struct in files and
// records the annotated entities
func (p *Parser) scan(metadata *models.PackageMetadata, files map[string]*ast.File) error {
	s := &packageScan{
		parser:     p,
		fset:       p.processor.GetFileReader().GetFileSet(),
		importPath: metadata.ImportPath,
		decls:      make(map[string]*declaration),
		methods:    make(map[string][]*ast.FuncDecl),
		built:      make(map[string]*beangen.TypeDescriptor),
	}

	fileNames := make([]string, 0, len(files))
	for name := range files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	imports := make(map[models.ImportSpec]bool)
	for _, name := range fileNames {
		s.collect(name, files[name])
		for _, spec := range files[name].Imports {
			imp := importSpec(spec)
			if !imports[imp] {
				imports[imp] = true
				metadata.Imports = append(metadata.Imports, imp)
			}
		}
	}

	metadata.Types = make(map[string]*beangen.TypeDescriptor, len(s.order))
	for _, name := range s.order {
		metadata.Types[name] = s.build(name)
	}

	for _, name := range s.order {
		decl := s.decls[name]
		if decl.annotation == nil || decl.annotation.Type != annotations.EntityAnnotation {
			continue
		}
		metadata.Entities = append(metadata.Entities, models.EntityMetadata{
			Name:       name,
			Descriptor: metadata.Types[name],
			NoFactory:  decl.annotation.GetBool(annotations.ParamNoFactory),
			Doc:        decl.doc,
			FileName:   decl.fileName,
			Line:       decl.pos.Line,
		})
	}

	if s.errs != nil {
		return s.errs
	}
	return nil
}

// declaration is an interface or struct type found while scanning
type declaration struct {
	name       string
	spec       *ast.TypeSpec
	fileName   string
	pos        token.Position
	annotation *annotations.ParsedAnnotation
	doc        string
	// qualifier is the local name of the beangen package in the declaring
	// file, empty when the file does not import it
	qualifier string
}

type packageScan struct {
	parser     *Parser
	fset       *token.FileSet
	importPath string
	decls      map[string]*declaration
	order      []string
	methods    map[string][]*ast.FuncDecl
	built      map[string]*beangen.TypeDescriptor
	errs       *errors.MultipleErrors
}

func (s *packageScan) fail(err errors.BeanError) {
	errors.AddToMultiple(&s.errs, err)
}

func (s *packageScan) location(fileName string, pos token.Pos) errors.SourceLocation {
	position := s.fset.Position(pos)
	return errors.SourceLocation{File: fileName, Line: position.Line, Column: position.Column}
}

// collect records the type declarations and receiver methods of one file
func (s *packageScan) collect(fileName string, file *ast.File) {
	qualifier := ""
	for _, spec := range file.Imports {
		if path, _ := strconv.Unquote(spec.Path.Value); path == beangen.ImportPath {
			qualifier = "beangen"
			if spec.Name != nil {
				qualifier = spec.Name.Name
			}
		}
	}
	if qualifier == "." {
		s.fail(errors.New(errors.ValidationErrorCode, "the beangen package cannot be dot-imported").
			WithLocation(s.location(fileName, file.Package)).
			WithSuggestion("Import it by name so bean types can be qualified"))
		qualifier = ""
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				s.collectType(fileName, d, spec.(*ast.TypeSpec), qualifier)
			}
		case *ast.FuncDecl:
			if recv := receiverName(d); recv != "" {
				s.methods[recv] = append(s.methods[recv], d)
			}
		}
	}
}

func (s *packageScan) collectType(fileName string, gen *ast.GenDecl, ts *ast.TypeSpec, qualifier string) {
	ann, err := s.parser.annotationFor(s.fset, gen, ts, fileName)
	if err != nil {
		s.fail(err)
		return
	}

	loc := s.location(fileName, ts.Pos())
	_, isInterface := ts.Type.(*ast.InterfaceType)
	_, isStruct := ts.Type.(*ast.StructType)

	if (!isInterface && !isStruct) || ts.TypeParams != nil || ts.Assign.IsValid() {
		if ann != nil {
			s.fail(errors.Newf(errors.ValidationErrorCode, "bean annotation on '%s' requires a non-generic interface or struct type", ts.Name.Name).
				WithLocation(loc))
		}
		return
	}
	if ann != nil && ann.Type == annotations.BaseAnnotation && isInterface {
		s.fail(errors.Newf(errors.ValidationErrorCode, "//bean::base applies to structs, '%s' is an interface", ts.Name.Name).
			WithLocation(loc).
			WithSuggestion("Embed the supertypes in the interface instead of listing them"))
		return
	}

	doc := ts.Doc
	if doc == nil && len(gen.Specs) == 1 {
		doc = gen.Doc
	}

	s.decls[ts.Name.Name] = &declaration{
		name:       ts.Name.Name,
		spec:       ts,
		fileName:   fileName,
		pos:        s.fset.Position(ts.Pos()),
		annotation: ann,
		doc:        docText(doc),
		qualifier:  qualifier,
	}
	s.order = append(s.order, ts.Name.Name)
}

// build returns the descriptor for a local type, constructing it on first use
func (s *packageScan) build(name string) *beangen.TypeDescriptor {
	if desc, ok := s.built[name]; ok {
		return desc
	}
	decl, ok := s.decls[name]
	if !ok {
		return nil
	}

	id := name
	if s.importPath != "" {
		id = s.importPath + "." + name
	}

	switch t := decl.spec.Type.(type) {
	case *ast.InterfaceType:
		desc := beangen.NewInterface(id)
		s.built[name] = desc
		s.fillInterface(decl, t, desc)
		s.implements(decl, desc)
		return desc
	case *ast.StructType:
		desc := beangen.NewStruct(id)
		s.built[name] = desc
		s.fillStruct(decl, t, desc)
		s.implements(decl, desc)
		return desc
	}
	return nil
}

func (s *packageScan) fillInterface(decl *declaration, t *ast.InterfaceType, desc *beangen.TypeDescriptor) {
	for _, field := range t.Methods.List {
		if fn, ok := field.Type.(*ast.FuncType); ok {
			params := s.typeList(decl, fn.Params)
			results := s.typeList(decl, fn.Results)
			for _, n := range field.Names {
				desc.AddMethod(&beangen.MethodSignature{Name: n.Name, Params: params, Results: results})
			}
			continue
		}

		super := s.resolve(decl, field.Type)
		switch {
		case super == nil:
			s.fail(errors.UnresolvedType(exprString(field.Type), decl.name, s.location(decl.fileName, field.Pos())))
		case !super.IsInterface():
			s.fail(errors.Newf(errors.ValidationErrorCode, "interface '%s' embeds non-interface '%s'", decl.name, super.ID()).
				WithLocation(s.location(decl.fileName, field.Pos())))
		default:
			desc.Extends(super)
		}
	}
}

func (s *packageScan) fillStruct(decl *declaration, t *ast.StructType, desc *beangen.TypeDescriptor) {
	for _, field := range t.Fields.List {
		if len(field.Names) > 0 {
			typ := beangen.TypeNamed(s.typeString(decl, field.Type))
			for _, n := range field.Names {
				desc.Field(n.Name, typ)
			}
			continue
		}
		s.embed(decl, field, desc)
	}

	for _, fn := range s.methods[decl.name] {
		desc.AddMethod(&beangen.MethodSignature{
			Name:        fn.Name.Name,
			Params:      s.typeList(decl, fn.Type.Params),
			Results:     s.typeList(decl, fn.Type.Results),
			Implemented: true,
		})
	}
}

// implements extends desc with the interfaces listed in its annotation
func (s *packageScan) implements(decl *declaration, desc *beangen.TypeDescriptor) {
	if decl.annotation == nil {
		return
	}
	for _, name := range decl.annotation.GetStringSlice(annotations.ParamImplements) {
		loc := toLocation(decl.annotation.Location)
		expr, err := parser.ParseExpr(name)
		var super *beangen.TypeDescriptor
		if err == nil {
			super = s.resolve(decl, expr)
		}
		switch {
		case super == nil:
			s.fail(errors.UnresolvedType(name, decl.name, loc))
		case !super.IsInterface():
			s.fail(errors.Newf(errors.ValidationErrorCode, "'%s' listed in -Implements of '%s' is not an interface", name, decl.name).
				WithLocation(loc).
				WithSuggestion("Embed base structs in the struct body instead"))
		default:
			desc.Extends(super)
		}
	}
}

// embed handles an embedded field of a struct. The first embedded local
// struct becomes the superclass; the identity holder contributes concrete
// identity accessors; anything else is an ordinary field whose concrete
// methods are promoted.
func (s *packageScan) embed(decl *declaration, field *ast.Field, desc *beangen.TypeDescriptor) {
	super := s.resolve(decl, field.Type)

	switch {
	case super == beangen.IdentitySupportType:
		desc.Extends(beangen.IdentityCapability)
		desc.AddMethod(&beangen.MethodSignature{Name: "GetID", Results: []beangen.TypeRef{beangen.KeyType}, Implemented: true})
		desc.AddMethod(&beangen.MethodSignature{Name: "SetID", Params: []beangen.TypeRef{beangen.KeyType}, Implemented: true})
		return
	case super != nil && !super.IsInterface() && desc.Superclass == nil:
		desc.Embeds(super)
		return
	}

	desc.Field(embeddedName(field.Type), beangen.TypeNamed(s.typeString(decl, field.Type)))
	if super == nil {
		return
	}
	if super.IsInterface() {
		desc.Extends(super)
	}
	for _, m := range beangen.MethodSet(super) {
		if super.IsInterface() || m.Concrete() {
			desc.AddMethod(&beangen.MethodSignature{Name: m.Name, Params: m.Params, Results: m.Results, Implemented: true})
		}
	}
}

// resolve maps a type expression to a descriptor: local interfaces and
// structs, plus the identity types of the beangen package
func (s *packageScan) resolve(decl *declaration, expr ast.Expr) *beangen.TypeDescriptor {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	switch e := expr.(type) {
	case *ast.Ident:
		return s.build(e.Name)
	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok || (pkg.Name != decl.qualifier && pkg.Name != "beangen") {
			return nil
		}
		switch e.Sel.Name {
		case "Identifiable":
			return beangen.IdentityCapability
		case "IdentitySupport":
			return beangen.IdentitySupportType
		}
	}
	return nil
}

func (s *packageScan) typeList(decl *declaration, fields *ast.FieldList) []beangen.TypeRef {
	if fields == nil {
		return nil
	}
	var refs []beangen.TypeRef
	for _, f := range fields.List {
		typ := beangen.TypeNamed(s.typeString(decl, f.Type))
		n := len(f.Names)
		if n == 0 {
			n = 1
		}
		for range n {
			refs = append(refs, typ)
		}
	}
	return refs
}

// typeString spells expr the way generated code will, with the beangen
// package always qualified as "beangen"
func (s *packageScan) typeString(decl *declaration, expr ast.Expr) string {
	return requalify(exprString(expr), decl.qualifier, "beangen")
}

func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

func embeddedName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	}
	return exprString(expr)
}

func importSpec(spec *ast.ImportSpec) models.ImportSpec {
	path, _ := strconv.Unquote(spec.Path.Value)
	imp := models.ImportSpec{Path: path}
	if spec.Name != nil {
		imp.Name = spec.Name.Name
	}
	return imp
}

// docText returns the doc comment without annotation lines
func docText(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), annotations.Prefix) {
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func toLocation(loc annotations.SourceLocation) errors.SourceLocation {
	return errors.SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column}
}

func annotationError(err error, loc annotations.SourceLocation) errors.BeanError {
	code := errors.SyntaxErrorCode
	var annErr annotations.AnnotationError
	if stderrors.As(err, &annErr) {
		switch annErr.Code() {
		case annotations.ValidationErrorCode:
			code = errors.ValidationErrorCode
		case annotations.SchemaErrorCode:
			code = errors.SchemaErrorCode
		}
	}
	message := strings.TrimPrefix(err.Error(), loc.String()+": ")
	return errors.Wrap(code, "invalid bean annotation: "+message, err).WithLocation(toLocation(loc))
}
