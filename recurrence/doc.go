/*
Package recurrence turns a task's due date and an optional recurrence rule
into a bounded, deterministic schedule of task instances.

# Basic Usage

	planner := recurrence.New()
	defer planner.Close()

	due := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	plan, err := planner.Plan(recurrence.PlanRequest{
		DueDate:    &due,
		Recurrence: "FREQ=WEEKLY;BYDAY=MO",
	})
	if err != nil {
		log.Fatal(err)
	}
	for _, inst := range plan.Instances {
		fmt.Println(inst.DueDate)
	}

The recurrence payload may be a canonical RRULE string, a Rule value, or a
loose field map as decoded from JSON, possibly wrapped under a nested "rule",
"options" or "rrule" key; Normalize absorbs the variance. Expansion always
terminates: the most restrictive of the rule's COUNT/UNTIL bounds and the
configured instance limit applies, and a rule that matches no dates falls
back to the anchor date itself.

The engine performs no I/O and never consults the clock; identical inputs
produce identical plans, which also makes schedules safe to cache.
*/
package recurrence
