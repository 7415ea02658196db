package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexuskb/nexus/internal/config"
	"github.com/nexuskb/nexus/internal/excel"
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export the full deck to an .xlsx spreadsheet",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	path := "nexus-deck.xlsx"
	if len(args) == 1 {
		path = args[0]
	}

	cfg := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := excel.ExportDeck(db, path)
	if err != nil {
		return fmt.Errorf("export deck: %w", err)
	}
	fmt.Printf("exported %d cards to %s\n", result.Cards, result.Path)
	return nil
}
