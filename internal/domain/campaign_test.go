package domain

import "testing"

func TestDecideReward(t *testing.T) {
	tests := []struct {
		name   string
		budget int64
		spent  int64
		reward int64
		want   BudgetDecision
	}{
		{"fits with room", 500, 100, 100, DecisionPay},
		{"exact exhaustion pays", 100, 0, 100, DecisionPay},
		{"exact remaining pays", 300, 200, 100, DecisionPay},
		{"exceeds by one", 100, 0, 101, DecisionRejectAndClose},
		{"already spent up", 100, 100, 50, DecisionRejectAndClose},
		{"zero budget rejects any reward", 0, 0, 1, DecisionRejectAndClose},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Campaign{Budget: tt.budget, Spent: tt.spent, Active: true}
			if got := c.DecideReward(tt.reward); got != tt.want {
				t.Fatalf("DecideReward(%d) with budget=%d spent=%d = %v, want %v",
					tt.reward, tt.budget, tt.spent, got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	c := Campaign{Budget: 500, Spent: 120}
	if got := c.Remaining(); got != 380 {
		t.Fatalf("Remaining() = %d, want 380", got)
	}
}

func TestSubmissionStatusTerminal(t *testing.T) {
	if SubmissionStatusPending.Terminal() {
		t.Fatal("pending must not be terminal")
	}
	for _, s := range []SubmissionStatus{
		SubmissionStatusApproved,
		SubmissionStatusClosedUnpaid,
		SubmissionStatusRejected,
	} {
		if !s.Terminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}
