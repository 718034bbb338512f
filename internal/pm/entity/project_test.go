package entity

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{ProjectStatusPending, ProjectStatusSurvey, true},
		{ProjectStatusSurvey, ProjectStatusProposal, true},
		{ProjectStatusProposal, ProjectStatusPurchasing, true},
		{ProjectStatusPurchasing, ProjectStatusImplementing, true},
		{ProjectStatusImplementing, ProjectStatusAcceptance, true},
		{ProjectStatusAcceptance, ProjectStatusDelivered, true},
		{ProjectStatusDelivered, ProjectStatusSettled, true},

		// 前四个阶段可以取消
		{ProjectStatusPending, ProjectStatusCancelled, true},
		{ProjectStatusSurvey, ProjectStatusCancelled, true},
		{ProjectStatusProposal, ProjectStatusCancelled, true},
		{ProjectStatusPurchasing, ProjectStatusCancelled, true},

		// 开工之后不能取消
		{ProjectStatusImplementing, ProjectStatusCancelled, false},
		{ProjectStatusAcceptance, ProjectStatusCancelled, false},
		{ProjectStatusDelivered, ProjectStatusCancelled, false},

		// 不能跳级或回退
		{ProjectStatusPending, ProjectStatusImplementing, false},
		{ProjectStatusSurvey, ProjectStatusPending, false},
		{ProjectStatusAcceptance, ProjectStatusImplementing, false},

		// 终态
		{ProjectStatusSettled, ProjectStatusPending, false},
		{ProjectStatusSettled, ProjectStatusCancelled, false},
		{ProjectStatusCancelled, ProjectStatusPending, false},

		// 未知状态
		{"unknown", ProjectStatusSurvey, false},
		{ProjectStatusPending, "unknown", false},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
