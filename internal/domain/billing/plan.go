package billing

import "fmt"

// Plan describes one allow-listed subscription plan. Plans are configured at
// deploy time; an unknown plan id on any write path is rejected.
type Plan struct {
	ID          string
	Name        string
	GatewayCode string
	PeriodDays  int
}

// PlanCatalog is the immutable allow-list of purchasable plans.
type PlanCatalog struct {
	plans map[string]Plan
	order []string
}

// NewPlanCatalog builds the catalog, rejecting empty or duplicate entries.
func NewPlanCatalog(plans []Plan) (*PlanCatalog, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("plan catalog cannot be empty")
	}

	c := &PlanCatalog{plans: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		if p.ID == "" {
			return nil, fmt.Errorf("plan id cannot be empty")
		}
		if p.GatewayCode == "" {
			return nil, fmt.Errorf("plan %s: gateway code cannot be empty", p.ID)
		}
		if _, exists := c.plans[p.ID]; exists {
			return nil, fmt.Errorf("duplicate plan id: %s", p.ID)
		}
		c.plans[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

// Get returns the plan for the given id.
func (c *PlanCatalog) Get(id string) (Plan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// IsAllowed reports whether the plan id is in the allow-list.
func (c *PlanCatalog) IsAllowed(id string) bool {
	_, ok := c.plans[id]
	return ok
}

// List returns all plans in configuration order.
func (c *PlanCatalog) List() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}
