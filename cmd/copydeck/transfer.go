package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const stdioPath = "-"

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export every deck as JSON",
	Long: `Export every deck as JSON, byte for byte as it is stored.
Writes to the configured export file (copyDeckData.json) unless FILE is
given; use "-" for stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		data, err := svc.Export()
		if err != nil {
			return fail("Error exporting", err)
		}

		file := cfg.ExportFile
		if len(args) == 1 {
			file = args[0]
		}
		if file == stdioPath {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}

		if err := os.WriteFile(file, data, 0644); err != nil {
			return fail("Error writing export file", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d decks to %s\n", svc.Store().Len(), file)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace every deck with the contents of an exported JSON file",
	Long: `Replace every deck with the contents of an exported JSON file ("-" for stdin).
The current decks are kept when the file is not a valid export.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == stdioPath {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fail("Error importing file", err)
		}

		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		if err := svc.Import(cmd.Context(), data); err != nil {
			return fail("Error importing file", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d decks\n", svc.Store().Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}
