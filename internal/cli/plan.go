package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coachkit/taskplan/recurrence"
)

var (
	planDue  string
	planRule string
	planMax  int
	planJSON bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Expand a due date and recurrence rule into concrete instances",
	Example: `  recurctl plan --due 2025-01-06 --rule "FREQ=WEEKLY;BYDAY=MO" --max 3
  recurctl plan --due 2025-06-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := runPlan()
		if err != nil {
			return err
		}

		if planJSON {
			out, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		if plan.Rule != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "rule: %s (anchored %s)\n",
				plan.Rule.RRule, plan.Rule.StartDate.Format(time.RFC3339))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "rule: none (one-shot)")
		}
		for i, inst := range plan.Instances {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, inst.DueDate.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planDue, "due", "", "anchor due date (RFC 3339 or YYYY-MM-DD)")
	planCmd.Flags().StringVar(&planRule, "rule", "", "recurrence rule (RRULE text)")
	planCmd.Flags().IntVar(&planMax, "max", 0, "cap the number of generated instances")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the plan as JSON")
	rootCmd.AddCommand(planCmd)
}

func runPlan() (*recurrence.Plan, error) {
	req := recurrence.PlanRequest{MaxInstances: planMax}
	if planDue != "" {
		due, err := cfg.parseDueDate(planDue)
		if err != nil {
			return nil, err
		}
		req.DueDate = &due
	}
	if planRule != "" {
		rule, err := normalizeRuleArg(planRule, cfg)
		if err != nil {
			return nil, err
		}
		req.Recurrence = rule
	}

	planner := recurrence.NewWithConfig(cfg.plannerConfig())
	return planner.Plan(req)
}

// normalizeRuleArg turns a CLI rule argument into a validated rule. JSON
// objects are decoded into field maps; anything else is treated as RRULE
// text. The configured timezone applies to rules that do not set their own.
func normalizeRuleArg(arg string, cfg Config) (*recurrence.Rule, error) {
	var payload any = arg
	if len(arg) > 0 && arg[0] == '{' {
		var fields map[string]any
		if err := json.Unmarshal([]byte(arg), &fields); err != nil {
			return nil, fmt.Errorf("rule argument looks like JSON but is not: %w", err)
		}
		payload = fields
	}

	rule, err := recurrence.Normalize(payload)
	if err != nil {
		return nil, err
	}
	if rule != nil && rule.Timezone == "" && cfg.Timezone != "" {
		rule.Timezone = cfg.Timezone
	}
	return rule, nil
}
