package generator

import "github.com/toyz/beangen/internal/models"

// CodeGenerator renders the implementation file of a scanned package
type CodeGenerator interface {
	GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
}
