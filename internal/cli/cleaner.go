package cli

import (
	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
	diagnostics   *utils.DiagnosticSystem
}

// NewCleaner creates a new cleaner removing files named generatedName
func NewCleaner(generatedName string, diagnostics *utils.DiagnosticSystem) *Cleaner {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(generatedName),
		diagnostics:   diagnostics,
	}
}

// CleanGeneratedFiles removes the generated files below the specified
// directories. Files without the generated header are left alone.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	dirs, err := resolveDirectories(directories)
	if err != nil {
		return nil, err
	}

	removed, err := c.fileProcessor.CleanDirectories(dirs)
	for _, path := range removed {
		c.diagnostics.PhaseItem("Removed " + path)
	}
	if err != nil {
		return removed, errors.WrapFileSystemError("clean", c.fileProcessor.GeneratedName(), err)
	}
	return removed, nil
}
