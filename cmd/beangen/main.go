package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/beangen/internal/cli"
	"github.com/toyz/beangen/internal/utils"
)

// Version is set at build time
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "beangen",
		Short: "beangen - Bean Implementation Generator",
		Long: `beangen generates implementations of annotated bean interfaces and base structs.

Types marked with //bean::entity get a generated struct holding one field per
property, accessors for every Get/Is/Has/Set method, injected identity
accessors where the hierarchy lacks them, and a factory registered with the
beangen runtime registry.

Directory Patterns:
  ./...              Scan current directory and all subdirectories recursively
  ./internal/...     Scan internal directory and all its subdirectories`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+cli.ConfigFileName+")")
	flags.String("module", "", "Custom module name for imports (defaults to go.mod module)")
	flags.StringP("output", "o", "", "Name of the generated file in each package")
	flags.String("suffix", "", "Suffix appended to entity names for generated structs")
	flags.BoolP("verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolP("quiet", "q", false, "Only show errors")

	load := func(cmd *cobra.Command, args []string) (*cli.Config, error) {
		cfg, err := cli.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			cfg.Directories = args
		}
		return cfg, nil
	}

	rootCmd.AddCommand(
		newGenerateCmd(load),
		newCleanCmd(load),
		newInspectCmd(load),
	)
	return rootCmd
}

type configLoader func(cmd *cobra.Command, args []string) (*cli.Config, error)

// diagnosticsFor returns a diagnostic system writing to the command streams
func diagnosticsFor(cmd *cobra.Command, cfg *cli.Config) *utils.DiagnosticSystem {
	diagnostics := utils.NewDiagnosticSystem(cfg.Level())
	diagnostics.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return diagnostics
}

// reportFailure prints err through the detailed reporter and returns it
func reportFailure(cmd *cobra.Command, verbose bool, err error) error {
	reporter := cli.NewDiagnosticReporter(verbose)
	reporter.SetOutput(cmd.ErrOrStderr())
	reporter.ReportError(err)
	return err
}

func newGenerateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Generate bean implementations",
		Example: `  beangen generate ./...
  beangen generate --suffix Bean ./internal/model/...
  beangen generate --module github.com/myorg/myapp ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd, args)
			if err != nil {
				return reportFailure(cmd, false, err)
			}

			generator := cli.NewGenerator(*cfg, diagnosticsFor(cmd, cfg))
			if err := generator.Run(); err != nil {
				reporter := generator.Reporter()
				reporter.SetOutput(cmd.ErrOrStderr())
				reporter.ReportError(err)
				return err
			}
			return nil
		},
	}
}

func newCleanCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated bean files",
		Long:  "Delete generated files carrying the beangen header. Files with the same name but without the header are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd, args)
			if err != nil {
				return reportFailure(cmd, false, err)
			}

			diagnostics := diagnosticsFor(cmd, cfg)
			diagnostics.Header("Cleaning generated files")
			removed, err := cli.NewCleaner(cfg.Output, diagnostics).CleanGeneratedFiles(cfg.Directories)
			if err != nil {
				return reportFailure(cmd, cfg.Verbose, err)
			}
			if len(removed) == 0 {
				diagnostics.Info("No generated %s files found", cfg.Output)
				return nil
			}
			diagnostics.Info("Removed %d generated files", len(removed))
			return nil
		},
	}
}

func newInspectCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [directories...]",
		Short: "Show the resolved properties of every entity without writing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd, args)
			if err != nil {
				return reportFailure(cmd, false, err)
			}

			generator := cli.NewGenerator(*cfg, utils.NewQuietDiagnostics())
			packages, err := generator.Inspect()
			if err != nil {
				return reportFailure(cmd, cfg.Verbose, err)
			}
			if len(packages) == 0 {
				reporter := generator.Reporter()
				reporter.SetOutput(cmd.ErrOrStderr())
				reporter.ReportWarning("No bean entities found", "Mark an interface or base struct with //bean::entity")
				return nil
			}

			reports, err := cli.BuildReports(packages, cfg.Suffix)
			renderReports(cmd.OutOrStdout(), reports)
			if err != nil {
				return reportFailure(cmd, cfg.Verbose, err)
			}
			return nil
		},
	}
}
