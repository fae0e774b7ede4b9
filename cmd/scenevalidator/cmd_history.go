package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"scenevalidator/internal/history"
)

var (
	historyDBPath string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded validation runs",
	Long:  `Lists recent validation runs from a history database written by "validate --history-db".`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBPath, "history-db", "", "SQLite database recording validation runs")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyDBPath == "" {
		return errors.New("--history-db is required")
	}

	store, err := history.Open(historyDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No validation runs recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "Scene", "Source", "Status", "Errors", "Warnings"})
	for _, r := range runs {
		status := "INVALID"
		if r.Valid {
			status = "VALID"
		}
		t.AppendRow(table.Row{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.SceneName, r.Source, status, r.ErrorCount, r.WarningCount,
		})
	}
	fmt.Println(t.Render())
	return nil
}
