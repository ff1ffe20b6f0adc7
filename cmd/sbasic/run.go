package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sb/SmallBasic-Online-sub000/vm"
)

var (
	runMode        string
	runBreakpoints []int
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Runs a program in the terminal",
	Long: `Compiles and runs a program. TextWindow output goes to stdout and
TextWindow reads come from stdin. Turtle, Shapes, Controls and Sound calls
are logged at debug verbosity.

Modes:
  run    - run to the end (default)
  debug  - stop at breakpoints and Program.Pause()
  step   - stop before every statement

When stopped, press Enter to continue or type "q" to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runMode, "mode", "", "execution mode: run, debug or step (overrides sbasic.toml)")
	runCmd.Flags().IntSliceVar(&runBreakpoints, "break", nil, "breakpoint lines, one-based (adds to sbasic.toml)")
}

func runRun(cmd *cobra.Command, args []string) error {
	p, err := loadProgram(args[0])
	if err != nil {
		return err
	}
	if err := p.requireClean(); err != nil {
		return err
	}

	if runMode != "" {
		p.config.Run.Mode = runMode
	}
	p.config.Run.Breakpoints = append(p.config.Run.Breakpoints, runBreakpoints...)

	session := uuid.NewString()
	log.Infof("session %s: running %s in %s mode", session, p.path, p.config.ExecutionMode())

	engine, host := newConsoleSession(p, os.Stdin, cmd.OutOrStdout())
	host.onPause = promptOnPause(host, os.Stderr)

	err = host.run(engine, p.config.ExecutionMode())
	var rtErr *runtimeError
	if errors.As(err, &rtErr) {
		log.Infof("session %s: terminated by %s", session, rtErr.diagnostic.Code)
		printRuntimeError(p.path, p.compilation.Text(), rtErr.diagnostic)
		return errReported
	}
	log.Infof("session %s: finished", session)
	return err
}

// newConsoleSession creates an engine for a compiled program with console
// and headless plugins installed and configuration applied.
func newConsoleSession(p *program, in io.Reader, out io.Writer) (*vm.Engine, *consoleHost) {
	libs := vm.NewLibraries()
	libs.TextWindow.UseColors(p.config.TextWindow.Foreground, p.config.TextWindow.Background)

	host := newConsoleHost(in, out)
	host.install(libs)

	engine := vm.NewEngine(p.compilation, vm.WithLibraries(libs))
	for _, line := range p.config.Run.Breakpoints {
		engine.SetBreakpoint(line - 1)
	}
	return engine, host
}

// errQuit stops a run from the pause prompt.
var errQuit = errors.New("stopped by user")

// promptOnPause prints where the program stopped and waits for a command on
// the host's input.
func promptOnPause(h *consoleHost, w io.Writer) pauseHandler {
	return func(e *vm.Engine) error {
		if rng, ok := e.CurrentRange(); ok {
			fmt.Fprintf(w, "%s line %d\n", styles.Paused.Render("paused at"), rng.Line+1)
		}
		for _, v := range e.Memory() {
			fmt.Fprintf(w, "  %s = %s\n", v.Name, v.Value)
		}
		fmt.Fprint(w, styles.Help.Render("[Enter] continue  [q] quit")+" ")

		line, err := h.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errQuit
			}
			return err
		}
		if strings.EqualFold(strings.TrimSpace(line), "q") {
			return errQuit
		}
		return nil
	}
}
