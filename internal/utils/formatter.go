package utils

import (
	"fmt"
	"os"

	"golang.org/x/tools/imports"
)

var importOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// FormatGoCode formats generated source and tidies its import block
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, importOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", filename, err)
	}
	return formatted, nil
}

// FixImports formats source and also adds missing and removes unused
// imports, resolving packages the way goimports does
func FixImports(filename string, source []byte) ([]byte, error) {
	opts := *importOptions
	opts.FormatOnly = false
	fixed, err := imports.Process(filename, source, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fix imports of %s: %w", filename, err)
	}
	return fixed, nil
}

// FormatAndWriteGoFile formats code and writes it. Unformattable code is
// still written so the failure can be inspected, and the error is returned.
func FormatAndWriteGoFile(filename string, code []byte) error {
	formatted, formatErr := FormatGoCode(filename, code)
	if formatErr != nil {
		if err := os.WriteFile(filename, code, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w (format error: %v)", filename, err, formatErr)
		}
		return formatErr
	}

	return os.WriteFile(filename, formatted, 0644)
}
