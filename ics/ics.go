// Package ics converts recurrence plans to and from iCalendar VTODO
// components, so persisted rules stay portable and inspectable with standard
// calendar tooling.
package ics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/coachkit/taskplan/recurrence"
)

const productID = "-//coachkit//taskplan//EN"

// Calendar renders a plan as a VCALENDAR. A recurring plan becomes one master
// VTODO carrying the canonical RRULE; a one-shot plan becomes a single plain
// VTODO.
func Calendar(plan *recurrence.Plan, summary string) (*ical.Calendar, error) {
	if plan == nil || len(plan.Instances) == 0 {
		return nil, errors.New("plan has no instances to export")
	}

	cal := newCalendar()

	todo := newTodo(summary)
	if plan.Rule != nil {
		todo.Props.SetDateTime(ical.PropDue, plan.Rule.StartDate)
		rrule := ical.NewProp(ical.PropRecurrenceRule)
		rrule.SetValueType(ical.ValueRecurrence)
		rrule.Value = plan.Rule.RRule
		todo.Props.Set(rrule)
	} else {
		todo.Props.SetDateTime(ical.PropDue, plan.Instances[0].DueDate)
	}
	cal.Children = append(cal.Children, todo)

	return cal, nil
}

// ExpandedCalendar renders every materialized instance as its own VTODO,
// the shape task rows take once persisted.
func ExpandedCalendar(plan *recurrence.Plan, summary string) (*ical.Calendar, error) {
	if plan == nil || len(plan.Instances) == 0 {
		return nil, errors.New("plan has no instances to export")
	}

	cal := newCalendar()
	for _, inst := range plan.Instances {
		todo := newTodo(summary)
		todo.Props.SetDateTime(ical.PropDue, inst.DueDate)
		cal.Children = append(cal.Children, todo)
	}

	return cal, nil
}

// Encode serializes a calendar to ics text.
func Encode(cal *ical.Calendar) (string, error) {
	var buf strings.Builder
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.String(), nil
}

// RequestFromComponent extracts a PlanRequest from an externally authored
// VTODO or VEVENT: the DUE (or DTSTART) property becomes the anchor date and
// the RRULE property, if any, the recurrence payload.
func RequestFromComponent(comp *ical.Component) (recurrence.PlanRequest, error) {
	if comp.Name != ical.CompToDo && comp.Name != ical.CompEvent {
		return recurrence.PlanRequest{}, fmt.Errorf("unsupported component %q", comp.Name)
	}

	var req recurrence.PlanRequest
	if due, ok := componentTime(comp, ical.PropDue); ok {
		req.DueDate = &due
	} else if start, ok := componentTime(comp, ical.PropDateTimeStart); ok {
		req.DueDate = &start
	}

	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil && prop.Value != "" {
		req.Recurrence = prop.Value
	}

	if req.DueDate == nil && req.Recurrence == nil {
		return recurrence.PlanRequest{}, fmt.Errorf("component %q carries neither a due date nor a recurrence rule", comp.Name)
	}
	return req, nil
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	return cal
}

func newTodo(summary string) *ical.Component {
	todo := ical.NewComponent(ical.CompToDo)
	todo.Props.SetText(ical.PropUID, uuid.NewString())
	todo.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	if summary != "" {
		todo.Props.SetText(ical.PropSummary, summary)
	}
	return todo
}

func componentTime(comp *ical.Component, name string) (time.Time, bool) {
	if comp.Props.Get(name) == nil {
		return time.Time{}, false
	}
	t, err := comp.Props.DateTime(name, nil)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}
