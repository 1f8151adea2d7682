package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <rule>",
	Short: "Normalize a recurrence payload and print its canonical form",
	Long: `Inspect accepts any payload shape the engine accepts at the system
boundary: canonical RRULE text, a JSON rule object, or a JSON wrapper with the
rule nested under "rule", "options" or "rrule". It prints the normalized rule,
which is also what would be persisted.`,
	Example: `  recurctl inspect "FREQ=MONTHLY;BYMONTHDAY=-1"
  recurctl inspect '{"rule":{"frequency":"WEEKLY","byWeekday":["MO","FR"]}}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rule, err := normalizeRuleArg(args[0], cfg)
		if err != nil {
			return err
		}

		if inspectJSON {
			out, err := json.MarshalIndent(rule, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "canonical: %s\n", rule.RRuleString())
		fmt.Fprintf(out, "frequency: %s\n", rule.Frequency)
		fmt.Fprintf(out, "interval:  %d\n", rule.Interval)
		if rule.Count > 0 {
			fmt.Fprintf(out, "count:     %d\n", rule.Count)
		}
		if rule.Until != nil {
			fmt.Fprintf(out, "until:     %s\n", rule.Until.Format(time.RFC3339))
		}
		if len(rule.ByWeekday) > 0 {
			codes := make([]string, len(rule.ByWeekday))
			for i, day := range rule.ByWeekday {
				codes[i] = day.String()
			}
			fmt.Fprintf(out, "byDay:     %s\n", strings.Join(codes, ","))
		}
		if len(rule.ByMonthDay) > 0 {
			fmt.Fprintf(out, "byMonthDay: %v\n", rule.ByMonthDay)
		}
		if len(rule.BySetPos) > 0 {
			fmt.Fprintf(out, "bySetPos:  %v\n", rule.BySetPos)
		}
		fmt.Fprintf(out, "weekStart: %s\n", rule.WeekStart)
		if rule.Timezone != "" {
			fmt.Fprintf(out, "timezone:  %s\n", rule.Timezone)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the normalized rule as JSON")
	rootCmd.AddCommand(inspectCmd)
}
