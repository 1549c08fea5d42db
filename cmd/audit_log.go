package cmd

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// auditLogCmd represents the audit log command
var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Retrieve and display audit records",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Fetching audit records...")
		records, err := cli.ListAudits(cmd.Context(), uint(limit))
		if err != nil {
			return err
		}

		log.Info().Msgf("Retrieved %d audit records", len(records))

		allowed := color.New(color.FgGreen).Sprint("ALLOW")
		denied := color.New(color.FgRed).Sprint("DENY")

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Operation", "Container", "Principal", "Decision", "Success", "Rule", "Error",
		})

		for _, rec := range records {
			decision := allowed
			if !rec.Allowed {
				decision = denied
			}

			success := "-"
			if rec.Success != nil {
				if *rec.Success {
					success = "yes"
				} else {
					success = "no"
				}
			}

			rule := string(rec.MatchedRule.Kind)
			if rec.MatchedRule.Pattern != "" {
				rule += " (" + rec.MatchedRule.Pattern + ")"
			}

			t.AppendRow(table.Row{
				rec.Time.Format(time.RFC3339),
				rec.Operation,
				rec.Container,
				truncate(rec.Principal, 20),
				decision,
				success,
				rule,
				truncate(rec.Error, 40),
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)

	auditLogCmd.Flags().IntP("limit", "n", 25, "Number of audit records to retrieve")
}
