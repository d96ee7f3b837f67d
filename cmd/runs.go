package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List runs, or show one run's checkpointed progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.RunRepo()

		if len(args) == 1 {
			run, err := repo.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Run:       %s\n", run.ID)
			fmt.Printf("Kind:      %s\n", run.Kind)
			fmt.Printf("Status:    %s\n", run.Status)
			fmt.Printf("Grade:     %d\n", run.Grade)
			fmt.Printf("Model:     %s\n", run.Model)
			fmt.Printf("Started:   %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
			if !run.FinishedAt.IsZero() {
				fmt.Printf("Finished:  %s\n", run.FinishedAt.Local().Format("2006-01-02 15:04:05"))
			}
			fmt.Printf("Progress:  %d/%d\n", run.CompletedUnits, run.TotalUnits)
			if run.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", run.ErrorMessage)
			}

			entries, err := repo.Progress(ctx, run.ID)
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				fmt.Println("\nCompleted substandards:")
				for _, e := range entries {
					fmt.Printf("  %-16s  %s\n", e.SubstandardID, e.CompletedAt.Local().Format("2006-01-02 15:04:05"))
				}
			}
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := repo.List(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		fmt.Printf("%-36s  %-10s  %-9s  %-5s  %-9s  %s\n",
			"ID", "Kind", "Status", "Grade", "Progress", "Started")
		fmt.Println(strings.Repeat("─", 100))
		for _, run := range runs {
			fmt.Printf("%-36s  %-10s  %-9s  %-5d  %4d/%-4d  %s\n",
				run.ID, run.Kind, run.Status, run.Grade,
				run.CompletedUnits, run.TotalUnits,
				run.StartedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
}
