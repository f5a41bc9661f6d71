package domain

import "time"

// Campaign is a funded pool of tasks. All amounts are integer cents;
// spent <= budget holds after every committed transition.
type Campaign struct {
	ID        int64
	Name      string
	Budget    int64 // cents
	Spent     int64 // cents
	Active    bool
	CreatedAt time.Time
}

func (c *Campaign) Remaining() int64 {
	return c.Budget - c.Spent
}

// BudgetDecision is the budget guard verdict for one candidate reward.
type BudgetDecision int

const (
	// DecisionPay: the reward fits the remaining budget and must be paid.
	DecisionPay BudgetDecision = iota
	// DecisionRejectAndClose: honoring the reward would overspend the
	// budget; the campaign must be deactivated and nothing paid.
	DecisionRejectAndClose
)

// DecideReward evaluates a candidate reward against the campaign budget.
// Exact exhaustion (spent+reward == budget) pays out; only exceeding the
// budget closes the campaign.
func (c *Campaign) DecideReward(reward int64) BudgetDecision {
	if c.Spent+reward > c.Budget {
		return DecisionRejectAndClose
	}
	return DecisionPay
}
