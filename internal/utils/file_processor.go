package utils

import (
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"strings"
)

// GeneratedHeader marks files written by beangen. Only files carrying it are
// ever removed by a clean.
const GeneratedHeader = "// Code generated by beangen. DO NOT EDIT."

// DefaultGeneratedFile is the per-package output file name
const DefaultGeneratedFile = "beangen_impl.go"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader    *FileReader
	generatedName string
}

// NewFileProcessor creates a file processor that treats generatedName as
// the generated output file in every package
func NewFileProcessor(generatedName string) *FileProcessor {
	return NewFileProcessorWithReader(NewFileReader(), generatedName)
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader, generatedName string) *FileProcessor {
	if generatedName == "" {
		generatedName = DefaultGeneratedFile
	}
	return &FileProcessor{
		fileReader:    reader,
		generatedName: generatedName,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// DefaultGoFileFilter filters for .go source files, excluding tests and the generated file
func DefaultGoFileFilter(generatedName string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			name != generatedName
	}
}

// GeneratedFileFilter matches files named like the generated output
func GeneratedFileFilter(generatedName string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && info.Name() == generatedName
	}
}

// DefaultDirectoryFilter skips directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Hidden and underscore directories are ignored by the go tool as well
		if (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree with filtering
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// ScanDirectoriesWithGoFiles scans directories and returns those containing Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check Go files in %s: %w", dir, err)
	}
	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	directoryFilter := DefaultDirectoryFilter()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(dir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any .go source files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	fileFilter := DefaultGoFileFilter(fp.generatedName)
	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}

	return false, nil
}

// ParseDirectoryFiles parses all Go source files in a directory. All files
// must belong to the same package.
func (fp *FileProcessor) ParseDirectoryFiles(dirPath string) (map[string]*ast.File, string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	files := make(map[string]*ast.File)
	var packageName string
	fileFilter := DefaultGoFileFilter(fp.generatedName)

	for _, entry := range entries {
		filePath := filepath.Join(dirPath, entry.Name())
		if !fileFilter(filePath, entry) {
			continue
		}

		file, err := fp.fileReader.ParseGoFile(filePath)
		if err != nil {
			return nil, "", err
		}

		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, "", fmt.Errorf("multiple packages found in directory %s: %s and %s", dirPath, packageName, file.Name.Name)
		}

		files[filePath] = file
	}

	if len(files) == 0 {
		return nil, "", fmt.Errorf("no Go files found in directory %s", dirPath)
	}

	return files, packageName, nil
}

// IsGeneratedFile reports whether the file starts with the beangen header
func (fp *FileProcessor) IsGeneratedFile(path string) bool {
	content, err := fp.fileReader.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(content, GeneratedHeader)
}

// CleanDirectories removes generated files from the directory trees. Files
// with the generated name but without the generated header are left alone.
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removedFiles []string

	if len(baseDirs) == 0 {
		baseDirs = []string{"."}
	}

	for _, baseDir := range baseDirs {
		candidates, err := fp.WalkFiles(baseDir, FileWalkOptions{
			FileFilter:      GeneratedFileFilter(fp.generatedName),
			DirectoryFilter: DefaultDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return removedFiles, fmt.Errorf("failed to clean directory %s: %w", baseDir, err)
		}

		for _, path := range candidates {
			if !fp.IsGeneratedFile(path) {
				continue
			}
			if err := os.Remove(path); err != nil {
				return removedFiles, fmt.Errorf("failed to remove %s: %w", path, err)
			}
			fp.fileReader.InvalidateFile(path)
			removedFiles = append(removedFiles, path)
		}
	}

	return removedFiles, nil
}

// GeneratedName returns the generated file name this processor works with
func (fp *FileProcessor) GeneratedName() string {
	return fp.generatedName
}

// GetFileReader returns the underlying FileReader
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
