package finding

import (
	"testing"
	"time"

	common_models "go-safesite/internal/common/models"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		finding Finding
		want    bool
	}{
		{"no due date", Finding{Status: common_models.StatusOpen}, false},
		{"past due open", Finding{Status: common_models.StatusOpen, DueDate: &past}, true},
		{"past due closed", Finding{Status: common_models.StatusClosed, DueDate: &past}, false},
		{"past due pending approval", Finding{Status: common_models.StatusPendingApproval, DueDate: &past}, false},
		{"not yet due", Finding{Status: common_models.StatusOpen, DueDate: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.finding.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
