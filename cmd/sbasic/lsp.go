package main

import (
	"github.com/spf13/cobra"

	"github.com/sb/SmallBasic-Online-sub000/config"
	"github.com/sb/SmallBasic-Online-sub000/server"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Starts the language server on stdio",
	Long: `Starts a Language Server Protocol server on stdin/stdout. Editors get
compile diagnostics on every change, plus completion, hover, go to
definition and references.`,
	Args: cobra.NoArgs,
	RunE: runLSP,
}

func init() {
	rootCmd.AddCommand(lspCmd)
}

func runLSP(cmd *cobra.Command, args []string) error {
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		return err
	}
	configureLogging(cfg)
	log.Infof("starting language server %s", version)
	return server.NewLSP(version).Run()
}
