package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sb/SmallBasic-Online-sub000/compiler"
	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Reports compile diagnostics",
	Long: `Compiles each file and prints its diagnostics with the offending
source line. Exits with a non-zero status when any file has errors.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	failed := false
	for _, path := range args {
		p, err := loadProgram(path)
		if err != nil {
			return err
		}
		if p.compilation.HasErrors() {
			printDiagnostics(cmd.OutOrStdout(), path, p.compilation)
			failed = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Success.Render("ok"), path)
	}
	if failed {
		return errReported
	}
	return nil
}

func printDiagnostics(w io.Writer, path string, c *compiler.Compilation) {
	lines := compiler.SplitLines(c.Text())
	for _, d := range c.Diagnostics() {
		fmt.Fprintln(w, formatDiagnostic(path, lines, d))
	}
	fmt.Fprintf(w, "%d %s\n", len(c.Diagnostics()), plural(len(c.Diagnostics()), "error", "errors"))
}

// formatDiagnostic renders one diagnostic as "path:line:col: Code message",
// followed by the source line and a caret underline. Lines and columns are
// shown one-based.
func formatDiagnostic(path string, lines []string, d diagnostics.Diagnostic) string {
	var b strings.Builder
	location := fmt.Sprintf("%s:%d:%d:", path, d.Range.Line+1, d.Range.Start+1)
	fmt.Fprintf(&b, "%s %s %s", styles.Location.Render(location), styles.Code.Render(d.Code.String()), d.String())

	if d.Range.Line < len(lines) {
		source := strings.TrimRight(lines[d.Range.Line], "\r")
		width := d.Range.End - d.Range.Start
		if width < 1 {
			width = 1
		}
		fmt.Fprintf(&b, "\n    %s\n    %s%s",
			styles.Source.Render(source),
			strings.Repeat(" ", d.Range.Start),
			styles.Caret.Render(strings.Repeat("^", width)))
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// printRuntimeError reports the diagnostic that terminated a program.
func printRuntimeError(path string, text string, d diagnostics.Diagnostic) {
	fmt.Fprintln(os.Stderr, styles.Error.Render("runtime error:"))
	fmt.Fprintln(os.Stderr, formatDiagnostic(path, compiler.SplitLines(text), d))
}
