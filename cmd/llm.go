package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anirudhs/dimatch/internal/llm"
	"github.com/anirudhs/dimatch/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
			Limit:   limit,
			Purpose: purpose,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-17s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 104))

		for _, e := range events {
			ok := "y"
			if !e.Success {
				ok = "n"
			}
			fmt.Printf("%-5d  %-19s  %-17s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 17),
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.EventRepo().SummarizeUsage(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		models := make([]string, 0, len(usage))
		for m := range usage {
			models = append(models, m)
		}
		sort.Strings(models)

		fmt.Println("Usage and Estimated Cost (USD)")
		fmt.Println(strings.Repeat("─", 84))
		fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %9s\n",
			"Model", "Calls", "Fails", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 84))

		var totalCost float64
		var unknownModels []string
		for _, m := range models {
			u := usage[m]
			cost := llm.LookupCost(m)
			costStr := "?"
			if cost != nil {
				c := cost.Cost(u.InputTokens, u.OutputTokens)
				totalCost += c
				costStr = formatCost(c)
			} else {
				unknownModels = append(unknownModels, m)
			}
			fmt.Printf("%-32s  %6d  %6d  %10d  %10d  %9s\n",
				truncate(m, 32), u.Requests, u.Failures, u.InputTokens, u.OutputTokens, costStr)
		}

		fmt.Println(strings.Repeat("─", 84))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %9s\n", label, "", "", "", "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. skill_selection, sequence_rating, question_gen)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
