package errors

import (
	"errors"
	"fmt"

	"github.com/toyz/beangen/pkg/beangen"
)

// GenerationError represents an error during code generation
type GenerationError struct {
	*BaseError
	GenerationType string // type of generation (template, file, etc.)
	TargetFile     string // target file being generated
	Stage          string // stage of generation where error occurred
}

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	*BaseError
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *SyntaxError {
	message := fmt.Sprintf("failed to parse %s", item)
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, message, cause),
	}
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(generationType, item string, cause error) *GenerationError {
	message := fmt.Sprintf("failed to generate %s", item)
	return &GenerationError{
		BaseError:      Wrap(GenerationErrorCode, message, cause),
		GenerationType: generationType,
		TargetFile:     item,
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *GenerationError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return &GenerationError{
		BaseError:      Wrap(TemplateErrorCode, message, cause),
		GenerationType: "template",
		TargetFile:     templateName,
		Stage:          operation,
	}
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// UnresolvedType reports a supertype the scanner could not find
func UnresolvedType(typeName, referencedBy string, loc SourceLocation) *BaseError {
	return Newf(UnresolvedTypeErrorCode, "type '%s' referenced by '%s' cannot be resolved", typeName, referencedBy).
		WithLocation(loc).
		WithContext("type", typeName).
		WithSuggestion("Declare the type in the same package or import it with a package qualifier").
		WithSuggestion("Only interfaces and structs declared in scanned packages can be part of a bean hierarchy")
}

// FromSynthesis maps a runtime generation error onto a located tool error
func FromSynthesis(cause error, loc SourceLocation) *BaseError {
	var genErr *beangen.Error
	if !errors.As(cause, &genErr) {
		return Wrap(GenerationErrorCode, cause.Error(), cause).WithLocation(loc)
	}

	err := Wrap(codeFor(genErr.Kind), cause.Error(), cause).
		WithLocation(loc).
		WithContext("type", genErr.Type)
	if genErr.Method != "" {
		err.WithContext("method", genErr.Method)
	}

	switch genErr.Kind {
	case beangen.KindMissingIdentity:
		err.WithSuggestion("Embed beangen.Identifiable in the interface or in one of its supertypes")
	case beangen.KindUnsupportedMethod:
		err.WithSuggestions(
			"Only Get/Is/Has/Set accessors can be generated",
			"Getters take no arguments and return one value; setters take one argument and return nothing",
			"Implement other methods on a base struct the entity embeds",
		)
	case beangen.KindSynthesis:
		err.WithSuggestion("Make the getter, setter and any inherited field agree on the property type")
	}
	return err
}

func codeFor(kind beangen.ErrorKind) ErrorCode {
	switch kind {
	case beangen.KindMissingIdentity:
		return MissingIdentityErrorCode
	case beangen.KindUnsupportedMethod:
		return UnsupportedMethodErrorCode
	case beangen.KindSynthesis:
		return SynthesisErrorCode
	default:
		return GenerationErrorCode
	}
}

// AddToMultiple adds an error to a multiple error collection, creating it if needed
func AddToMultiple(multiple **MultipleErrors, err BeanError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}
