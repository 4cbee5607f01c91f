package main

import (
	"wordbook/internal/importer"
	"wordbook/internal/repository/postgres"
	"wordbook/internal/service"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Bulk-create vocabulary from a spreadsheet",
	Long: `Bulk-create vocabulary from a spreadsheet.

Columns A..E hold word, meaning, part of speech, example and comma-separated tags.
The first row is treated as a header unless --start-row says otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")
		startRow, _ := cmd.Flags().GetInt("start-row")

		if err := cfg.ValidateDatabase(); err != nil {
			return err
		}

		db, err := connectDatabase(cmd.Context(), cfg.DSN(), logger)
		if err != nil {
			return err
		}
		defer db.Close()

		words := service.NewWordService(postgres.NewWordRepo(db), logger)

		icfg := importer.DefaultConfig()
		icfg.SheetName = sheet
		if startRow > 0 {
			icfg.StartRow = startRow
		}

		result, err := importer.New(words, icfg, logger).ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, msg := range result.Errors {
			printWarning("%s", msg)
		}
		printSuccess("Processed %d rows: %d created, %d skipped, %d failed",
			result.Processed, result.Created, result.Skipped, len(result.Errors)-result.Skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "sheet name (default: first sheet)")
	importCmd.Flags().Int("start-row", 0, "first data row, 1-based (default 2)")
}
