package annotations

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// Built-in annotation schemas

// ParamImplements lists the interfaces a struct implements
const ParamImplements = "Implements"

// ParamNoFactory disables native factory registration in generated code
const ParamNoFactory = "NoFactory"

// EntityAnnotationSchema defines the schema for //bean::entity annotations
var EntityAnnotationSchema = AnnotationSchema{
	Type:        EntityAnnotation,
	Description: "Generates an implementation for a bean interface or abstract base struct",
	Parameters: map[string]ParameterSpec{
		ParamImplements: implementsSpec,
		ParamNoFactory: {
			Type:         BoolType,
			DefaultValue: false,
			Description:  "Skip registering a native factory with the runtime registry",
		},
	},
	Examples: []string{
		"//bean::entity",
		"//bean::entity -NoFactory",
		"//bean::entity -Implements=Named,Priced",
	},
}

// BaseAnnotationSchema defines the schema for //bean::base annotations
var BaseAnnotationSchema = AnnotationSchema{
	Type:        BaseAnnotation,
	Description: "Declares the interfaces implemented by a base struct that entities embed",
	Parameters: map[string]ParameterSpec{
		ParamImplements: implementsSpec,
	},
	Examples: []string{
		"//bean::base -Implements=Named",
		"//bean::base -Implements=beangen.Identifiable",
	},
}

var implementsSpec = ParameterSpec{
	Type:        StringSliceType,
	Description: "Comma-separated interface names, optionally package qualified",
	Validator:   ValidateTypeNames,
}

// ValidateTypeNames checks that every entry is an identifier or pkg.Identifier
func ValidateTypeNames(v any) error {
	names, ok := v.([]string)
	if !ok {
		return fmt.Errorf("expected a list of type names, got %T", v)
	}
	if len(names) == 0 {
		return fmt.Errorf("at least one type name is required")
	}
	for _, name := range names {
		for _, part := range strings.Split(name, ".") {
			if !token.IsIdentifier(part) {
				return fmt.Errorf("'%s' is not a type name", name)
			}
		}
	}
	return nil
}

// RegisterBuiltinSchemas registers the builtin schemas with a registry
func RegisterBuiltinSchemas(r AnnotationRegistry) error {
	for _, schema := range []AnnotationSchema{EntityAnnotationSchema, BaseAnnotationSchema} {
		if err := r.Register(schema.Type, schema); err != nil {
			return err
		}
	}
	return nil
}

func schemaParameterNames(schema AnnotationSchema) []string {
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, "-"+name)
	}
	sort.Strings(names)
	return names
}
