package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportManager_GenerateImports(t *testing.T) {
	im := NewImportManager()
	assert.Empty(t, im.GenerateImports())

	im.AddImport("time")
	assert.Equal(t, "import \"time\"\n", im.GenerateImports())

	im.AddImport("github.com/toyz/beangen/pkg/beangen")
	im.AddPackageImport("uuid", "github.com/google/uuid")
	im.AddPackageImport("gouuid", "github.com/gofrs/uuid")
	im.AddImport("context")
	im.AddImport("time")

	expected := "import (\n" +
		"\t\"context\"\n" +
		"\t\"time\"\n" +
		"\n" +
		"\tgouuid \"github.com/gofrs/uuid\"\n" +
		"\t\"github.com/google/uuid\"\n" +
		"\t\"github.com/toyz/beangen/pkg/beangen\"\n" +
		")\n"
	assert.Equal(t, expected, im.GenerateImports())
	assert.Equal(t, 5, im.Len())
	assert.True(t, im.Has("github.com/google/uuid"))
	assert.False(t, im.Has("fmt"))
}

func TestImportManager_AliasedStandardLibrary(t *testing.T) {
	im := NewImportManager()
	im.AddPackageImport("stdtime", "time")
	assert.Equal(t, "import stdtime \"time\"\n", im.GenerateImports())
}

func TestImportManager_Merge(t *testing.T) {
	a := NewImportManager()
	a.AddImport("fmt")
	b := NewImportManager()
	b.AddImport("fmt")
	b.AddPackageImport("bg", "github.com/toyz/beangen/pkg/beangen")

	a.Merge(b)
	assert.Equal(t, 2, a.Len())
	assert.Contains(t, a.GenerateImports(), "bg \"github.com/toyz/beangen/pkg/beangen\"")
}

func TestDefaultPackageName(t *testing.T) {
	cases := map[string]string{
		"time":                                "time",
		"net/http":                            "http",
		"github.com/google/uuid":              "uuid",
		"github.com/knadh/koanf/v2":           "koanf",
		"github.com/jedib0t/go-pretty/v6":     "pretty",
		"gopkg.in/yaml.v3":                    "yaml",
		"github.com/toyz/beangen/pkg/beangen": "beangen",
		"github.com/mattn/go-sqlite3":         "sqlite3",
	}
	for path, want := range cases {
		assert.Equal(t, want, DefaultPackageName(path), path)
	}
}
