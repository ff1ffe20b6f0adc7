package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sb/SmallBasic-Online-sub000/vm"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <file>",
	Short: "Prints the emitted instructions",
	Long: `Compiles a file and prints every module's instructions with their
source lines. The main module is listed first, then sub-modules by name.`,
	Args: cobra.ExactArgs(1),
	RunE: runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) error {
	p, err := loadProgram(args[0])
	if err != nil {
		return err
	}
	if err := p.requireClean(); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), vm.Disassemble(p.compilation))
	return nil
}
