package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vacationctl",
		Short:         "Vacation period calculator",
		Long:          `Computes CLT vacation accrual periods, usage deadlines and expiry warnings from a hire date.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPeriodsCmd())
	root.AddCommand(newFormatCmd())
	return root
}

// ─── periods ────────────────────────────────────────────────────────────────

func newPeriodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List accrual periods for a hire date",
		Long: `List every accrual period from the hire date through the period containing
today. Dates are YYYY-MM-DD. --today defaults to the current local date.`,
		Args: cobra.NoArgs,
		RunE: runPeriods,
	}
	cmd.Flags().String("hire-date", "", "Hire date (YYYY-MM-DD)")
	cmd.Flags().String("today", "", "Evaluate as of this date (YYYY-MM-DD)")
	cmd.Flags().Bool("json", false, "Print periods as JSON")
	_ = cmd.MarkFlagRequired("hire-date")
	return cmd
}

type periodJSON struct {
	Start         string `json:"start_date"`
	End           string `json:"end_date"`
	UsageDeadline string `json:"usage_deadline"`
	Type          string `json:"type"`
	DaysAvailable int    `json:"days_available"`
	Status        string `json:"status"`
	IsExpiring    bool   `json:"is_expiring"`
}

func runPeriods(cmd *cobra.Command, args []string) error {
	rawHire, _ := cmd.Flags().GetString("hire-date")
	rawToday, _ := cmd.Flags().GetString("today")
	asJSON, _ := cmd.Flags().GetBool("json")

	hireDate, err := generic.ParseISO(rawHire)
	if err != nil {
		return fmt.Errorf("invalid --hire-date: %w", err)
	}
	var clock generic.Clock = generic.SystemClock{Location: time.Local}
	if rawToday != "" {
		today, err := generic.ParseISO(rawToday)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
		clock = generic.FixedClock{Date: today}
	}

	periods, err := vacation.NewCalculator(clock).Periods(hireDate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		rows := make([]periodJSON, len(periods))
		for i, p := range periods {
			rows[i] = periodJSON{
				Start:         p.Start.String(),
				End:           p.End.String(),
				UsageDeadline: p.UsageDeadline().String(),
				Type:          string(p.Type),
				DaysAvailable: p.DaysAvailable,
				Status:        string(p.Status),
				IsExpiring:    p.IsExpiring,
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTART\tEND\tDEADLINE\tTYPE\tDAYS\tSTATUS\tEXPIRING")
	for i, p := range periods {
		expiring := ""
		if p.IsExpiring {
			expiring = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			i+1,
			vacation.FormatDate(p.Start),
			vacation.FormatDate(p.End),
			vacation.FormatDate(p.UsageDeadline()),
			p.Type, p.DaysAvailable, p.Status, expiring)
	}
	return tw.Flush()
}

// ─── format ─────────────────────────────────────────────────────────────────

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format DATE",
		Short: "Print a YYYY-MM-DD date as DD/MM/YYYY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := generic.ParseISO(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), vacation.FormatDate(d))
			return nil
		},
	}
}
