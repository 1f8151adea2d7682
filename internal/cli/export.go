package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachkit/taskplan/ics"
)

var (
	exportDue     string
	exportRule    string
	exportSummary string
	exportOut     string
	exportExpand  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a planned schedule as an iCalendar file",
	Example: `  recurctl export --due 2025-01-06 --rule "FREQ=WEEKLY;BYDAY=MO" -o checkins.ics
  recurctl export --due 2025-01-06 --rule "FREQ=DAILY;COUNT=5" --expand --summary "Daily practice"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		planDue, planRule, planMax = exportDue, exportRule, 0
		plan, err := runPlan()
		if err != nil {
			return err
		}

		builder := ics.Calendar
		if exportExpand {
			builder = ics.ExpandedCalendar
		}
		cal, err := builder(plan, exportSummary)
		if err != nil {
			return err
		}

		text, err := ics.Encode(cal)
		if err != nil {
			return err
		}

		if exportOut == "" {
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDue, "due", "", "anchor due date (RFC 3339 or YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportRule, "rule", "", "recurrence rule (RRULE text or JSON)")
	exportCmd.Flags().StringVar(&exportSummary, "summary", "", "SUMMARY for the exported component")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (stdout when omitted)")
	exportCmd.Flags().BoolVar(&exportExpand, "expand", false, "write one VTODO per materialized instance")
	rootCmd.AddCommand(exportCmd)
}
