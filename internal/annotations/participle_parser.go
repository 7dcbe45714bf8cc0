package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix introduces every bean annotation
const Prefix = "bean::"

// ParticipleParser parses //bean:: annotations using alecthomas/participle
type ParticipleParser struct {
	parser   *participle.Parser[Annotation]
	registry AnnotationRegistry
}

// Annotation represents the root of a bean annotation
type Annotation struct {
	Pos    lexer.Position
	Kind   string   `parser:"'//' 'bean' '::' @Word"`
	Params []*Param `parser:"@@*"`
}

// Param is a -Key or -Key=Value item
type Param struct {
	Key   string  `parser:"'-' @Word"`
	Value *string `parser:"( '=' @( String | Word ) )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"|'[^']*'`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Word", Pattern: `[a-zA-Z0-9_.*/,\[\]]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// NewParticipleParser creates a new parser using participle
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	parser := participle.MustBuild[Annotation](
		participle.Lexer(annotationLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	return &ParticipleParser{
		parser:   parser,
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line looks like a bean annotation
func IsAnnotation(comment string) bool {
	content, ok := strings.CutPrefix(strings.TrimSpace(comment), "//")
	return ok && strings.HasPrefix(strings.TrimSpace(content), Prefix)
}

// ParseAnnotation parses an annotation string
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	comment = strings.TrimSpace(comment)
	if !IsAnnotation(comment) {
		return nil, &SyntaxError{
			Msg:  "annotation must start with '//" + Prefix + "'",
			Loc:  location,
			Hint: "Write annotations as //" + Prefix + "entity",
		}
	}

	ast, err := p.parser.ParseString(location.File, comment)
	if err != nil {
		return nil, &SyntaxError{
			Msg:  err.Error(),
			Loc:  location,
			Hint: "Parameters take the form -Name or -Name=value",
		}
	}

	annotationType, err := ParseAnnotationType(ast.Kind)
	if err != nil {
		return nil, &SchemaError{Msg: err.Error(), Loc: location, Hint: "Known annotations are entity and base"}
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]any),
		Location:   location,
		Raw:        comment,
	}

	if p.registry == nil {
		for _, param := range ast.Params {
			if param.Value == nil {
				parsed.Parameters[param.Key] = true
			} else {
				parsed.Parameters[param.Key] = unquote(*param.Value)
			}
		}
		return parsed, nil
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, &SchemaError{Msg: err.Error(), Loc: location}
	}
	if err := p.applyParameters(parsed, ast.Params, schema); err != nil {
		return nil, err
	}
	return parsed, nil
}

// applyParameters converts and validates parameters against the schema
func (p *ParticipleParser) applyParameters(parsed *ParsedAnnotation, params []*Param, schema AnnotationSchema) error {
	for _, param := range params {
		spec, exists := schema.Parameters[param.Key]
		if !exists {
			return &SchemaError{
				Msg:  fmt.Sprintf("unknown parameter '%s' for annotation type %s", param.Key, parsed.Type),
				Loc:  parsed.Location,
				Hint: fmt.Sprintf("Valid parameters are: %s", strings.Join(schemaParameterNames(schema), ", ")),
			}
		}

		var value any
		switch {
		case param.Value != nil:
			converted, err := convert(*param.Value, spec)
			if err != nil {
				return &ValidationError{
					Parameter: param.Key,
					Expected:  spec.Type.String(),
					Actual:    *param.Value,
					Loc:       parsed.Location,
				}
			}
			value = converted
		case spec.Type == BoolType:
			value = true
		case spec.DefaultValue != nil:
			value = spec.DefaultValue
		default:
			return &ValidationError{
				Parameter: param.Key,
				Expected:  spec.Type.String(),
				Actual:    "no value",
				Loc:       parsed.Location,
				Hint:      fmt.Sprintf("Use -%s=value", param.Key),
			}
		}

		if spec.Validator != nil {
			if err := spec.Validator(value); err != nil {
				return &ValidationError{
					Parameter: param.Key,
					Expected:  spec.Description,
					Actual:    fmt.Sprint(value),
					Loc:       parsed.Location,
					Hint:      err.Error(),
				}
			}
		}
		parsed.Parameters[param.Key] = value
	}

	for name, spec := range schema.Parameters {
		if _, ok := parsed.Parameters[name]; spec.Required && !ok {
			return &SchemaError{
				Msg: fmt.Sprintf("missing required parameter '%s' for annotation type %s", name, parsed.Type),
				Loc: parsed.Location,
			}
		}
	}
	return nil
}
