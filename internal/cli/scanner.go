package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/utils"
)

// DirectoryScanner handles recursive directory scanning for Go files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner(processor *utils.FileProcessor) *DirectoryScanner {
	if processor == nil {
		processor = utils.NewFileProcessor("")
	}
	return &DirectoryScanner{
		fileProcessor: processor,
	}
}

// ScanDirectories recursively scans the provided directories for Go packages
// Returns a list of directories that contain Go files
// Supports Go-style patterns like "./..." for recursive scanning
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	cleanDirs, err := resolveDirectories(rootDirs)
	if err != nil {
		return nil, err
	}

	dirs, err := s.fileProcessor.ScanDirectoriesWithGoFiles(cleanDirs)
	if err != nil {
		return nil, errors.WrapFileSystemError("scan", strings.Join(rootDirs, ", "), err).
			WithSuggestion("Check that the specified directories exist")
	}
	return dirs, nil
}

// resolveDirectories turns patterns like ./... into absolute base directories
func resolveDirectories(rootDirs []string) ([]string, error) {
	if len(rootDirs) == 0 {
		rootDirs = []string{"."}
	}

	var cleanDirs []string
	for _, rootDir := range rootDirs {
		baseDir := rootDir
		if rootDir == "..." || strings.HasSuffix(rootDir, "/...") {
			baseDir = strings.TrimSuffix(strings.TrimSuffix(rootDir, "..."), "/")
			if baseDir == "" {
				baseDir = "."
			}
		}

		cleanPath, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, errors.WrapFileSystemError("resolve", baseDir, err)
		}
		cleanDirs = append(cleanDirs, cleanPath)
	}
	return cleanDirs, nil
}
