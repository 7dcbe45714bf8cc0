package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/utils"
)

const shopWidget = `package shop

import "github.com/toyz/beangen/pkg/beangen"

//bean::entity
type Widget interface {
	beangen.Identifiable
	GetLabel() string
	SetLabel(label string)
	IsActive() bool
	SetActive(active bool)
}
`

const shopGadget = `package shop

import "github.com/toyz/beangen/pkg/beangen"

type Weighted interface {
	GetWeight() int
	SetWeight(weight int)
}

//bean::entity -NoFactory -Implements=Weighted
type GadgetBase struct {
	beangen.IdentitySupport
	label string
}

func (g *GadgetBase) Label() string { return g.label }
`

func newTestModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["go.mod"] = "module example.com/store\n\ngo 1.25\n"
	writeTree(t, root, files)
	return root
}

func newTestGenerator(cfg Config) (*Generator, *strings.Builder) {
	var out strings.Builder
	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	diagnostics.SetOutput(&out, &out)
	return NewGenerator(cfg, diagnostics), &out
}

func TestGeneratorRun(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"shop/widget.go":  shopWidget,
		"util/strings.go": "package util\n\nfunc Upper(s string) string { return s }\n",
	})

	cfg := DefaultConfig()
	cfg.Directories = []string{root + "/..."}
	gen, out := newTestGenerator(cfg)

	require.NoError(t, gen.Run())

	generated := filepath.Join(root, "shop", utils.DefaultGeneratedFile)
	content, err := os.ReadFile(generated)
	require.NoError(t, err)

	code := string(content)
	assert.True(t, strings.HasPrefix(code, utils.GeneratedHeader))
	assert.Contains(t, code, "type WidgetImpl struct")
	assert.Contains(t, code, "func NewWidget() Widget")
	assert.Contains(t, code, "func (b *WidgetImpl) IsActive() bool")
	assert.Contains(t, code, `beangen.MustRegisterFactory("example.com/store/shop.Widget"`)
	assert.NoFileExists(t, filepath.Join(root, "util", utils.DefaultGeneratedFile))

	summary := gen.GetSummary()
	assert.Equal(t, 2, summary.PackagesProcessed)
	assert.Equal(t, 1, summary.PackagesSkipped)
	assert.Equal(t, 1, summary.EntitiesFound)
	assert.Equal(t, 2, summary.PropertiesFound)
	assert.Equal(t, 1, summary.IdentityInjected)
	assert.Equal(t, []string{generated}, summary.GeneratedFiles)

	assert.Contains(t, out.String(), "example.com/store/shop: Widget")
	assert.Contains(t, out.String(), "Generation complete")

	// a second run must not pick up its own output
	again, _ := newTestGenerator(cfg)
	require.NoError(t, again.Run())
	second, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Equal(t, code, string(second))
}

func TestGeneratorRun_CustomNaming(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"shop/gadget.go": shopGadget,
	})

	cfg := DefaultConfig()
	cfg.Directories = []string{root}
	cfg.Output = "beans_gen.go"
	cfg.Suffix = "Bean"
	cfg.ModuleName = "example.com/renamed"
	gen, _ := newTestGenerator(cfg)

	require.NoError(t, gen.Run())

	content, err := os.ReadFile(filepath.Join(root, "shop", "beans_gen.go"))
	require.NoError(t, err)
	code := string(content)
	assert.Contains(t, code, "type GadgetBaseBean struct")
	assert.Contains(t, code, "func NewGadgetBase() *GadgetBaseBean")
	assert.Contains(t, code, "func (b *GadgetBaseBean) GetWeight() int")
	assert.NotContains(t, code, "MustRegisterFactory")
}

func TestGeneratorRun_Errors(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"shop/order.go": `package shop

import "github.com/toyz/beangen/pkg/beangen"

//bean::entity
type Order interface {
	beangen.Identifiable
	Missing
}
`,
	})

	cfg := DefaultConfig()
	cfg.Directories = []string{root + "/..."}
	gen, _ := newTestGenerator(cfg)

	err := gen.Run()
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.True(t, multi.HasCode(errors.UnresolvedTypeErrorCode))
	assert.NoFileExists(t, filepath.Join(root, "shop", utils.DefaultGeneratedFile))
}

func TestGeneratorRun_SynthesisError(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"shop/plain.go": "package shop\n\n//bean::entity\ntype Plain interface {\n\tGetName() string\n}\n",
	})

	cfg := DefaultConfig()
	cfg.Directories = []string{root}
	gen, _ := newTestGenerator(cfg)

	err := gen.Run()
	require.Error(t, err)

	var beanErr errors.BeanError
	require.ErrorAs(t, err, &beanErr)
	var multi *errors.MultipleErrors
	if assert.ErrorAs(t, err, &multi) {
		assert.True(t, multi.HasCode(errors.MissingIdentityErrorCode))
	}
}

func TestGeneratorRun_NoPackages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directories = []string{t.TempDir()}
	gen, _ := newTestGenerator(cfg)

	err := gen.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Go packages found")
}

func TestInspectAndBuildReports(t *testing.T) {
	root := newTestModule(t, map[string]string{
		"shop/widget.go": shopWidget,
		"shop/gadget.go": shopGadget,
	})

	cfg := DefaultConfig()
	cfg.Directories = []string{root}
	gen, _ := newTestGenerator(cfg)

	packages, err := gen.Inspect()
	require.NoError(t, err)
	require.Len(t, packages, 1)

	reports, err := BuildReports(packages, "")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	byName := make(map[string]EntityReport)
	for _, r := range reports {
		byName[r.Entity] = r
	}

	widget := byName["Widget"]
	assert.Equal(t, "WidgetImpl", widget.StructName)
	assert.False(t, widget.Native)
	assert.Len(t, widget.Properties, 2)

	gadget := byName["GadgetBase"]
	assert.True(t, gadget.Native)
	require.Len(t, gadget.Properties, 1)
	assert.Equal(t, "weight", gadget.Properties[0].Name)
	assert.NoFileExists(t, filepath.Join(root, "shop", utils.DefaultGeneratedFile))
}
