package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/sb/SmallBasic-Online-sub000/compiler"
	"github.com/sb/SmallBasic-Online-sub000/config"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

var log = commonlog.GetLogger("sbasic.cli")

var (
	verbosity int
	logFile   string
)

// errReported is returned after diagnostics have already been printed, so
// Execute only has to set the exit status.
var errReported = errors.New("errors were reported")

var rootCmd = &cobra.Command{
	Use:   "sbasic",
	Short: "SmallBasic compiler, runner and step debugger",
	Long: `sbasic compiles SmallBasic programs and runs them on a stack-based
virtual machine.

Commands:
  check   - report compile diagnostics
  run     - run a program in the terminal
  debug   - step through a program in an interactive debugger
  disasm  - print the emitted instructions
  lsp     - start the language server on stdio`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", -1, "log verbosity (overrides sbasic.toml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (default: stderr)")
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, styles.Error.Render("error:"), err)
}

// configureLogging applies the [log] section, with command-line flags taking
// precedence.
func configureLogging(cfg *config.Config) {
	level := cfg.Log.Verbosity
	if verbosity >= 0 {
		level = verbosity
	}
	path := cfg.LogPath()
	if logFile != "" {
		path = logFile
	}
	if path == "" {
		commonlog.Configure(level, nil)
		return
	}
	commonlog.Configure(level, &path)
}

// program is a compiled source file with its configuration.
type program struct {
	path        string
	compilation *compiler.Compilation
	config      *config.Config
}

// loadProgram reads and compiles a source file, loading the nearest
// sbasic.toml and configuring logging from it.
func loadProgram(path string) (*program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg, err := config.FindAndLoad(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	configureLogging(cfg)

	c := compiler.Compile(string(data))
	log.Debugf("compiled %s with %d diagnostics", path, len(c.Diagnostics()))
	return &program{path: path, compilation: c, config: cfg}, nil
}

// requireClean prints diagnostics and fails when the program has any.
func (p *program) requireClean() error {
	if !p.compilation.HasErrors() {
		return nil
	}
	printDiagnostics(os.Stderr, p.path, p.compilation)
	return errReported
}
