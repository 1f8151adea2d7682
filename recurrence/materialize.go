package recurrence

import (
	"context"
	"fmt"
)

// PlanStore is the persistence collaborator contract. Implementations turn a
// plan into durable rows: the persisted rule on the owning task plus one
// task-instance row per schedule entry.
type PlanStore interface {
	SavePlan(ctx context.Context, taskID string, plan *Plan) error
}

// Materializer is the glue between the planner and persistence. The engine
// itself never touches storage; embedders that want the common
// plan-then-persist sequence can use this instead of wiring it by hand.
type Materializer struct {
	planner *Planner
	store   PlanStore
}

func NewMaterializer(planner *Planner, store PlanStore) *Materializer {
	return &Materializer{planner: planner, store: store}
}

// Materialize plans the request and hands the result to the store. Planning
// errors propagate unchanged; store errors are wrapped.
func (m *Materializer) Materialize(ctx context.Context, taskID string, req PlanRequest) (*Plan, error) {
	plan, err := m.planner.Plan(req)
	if err != nil {
		return nil, err
	}
	if err := m.store.SavePlan(ctx, taskID, plan); err != nil {
		return nil, fmt.Errorf("failed to persist recurrence plan for task %s: %w", taskID, err)
	}
	return plan, nil
}
