package finding

import (
	"time"

	common_models "go-safesite/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Finding struct {
	ID                      primitive.ObjectID      `json:"id" bson:"_id,omitempty"`
	Title                   string                  `json:"title" bson:"title"`
	Description             string                  `json:"description,omitempty" bson:"description,omitempty"`
	Location                string                  `json:"location,omitempty" bson:"location,omitempty"`
	Severity                common_models.Severity  `json:"severity" bson:"severity"`
	Status                  common_models.Status    `json:"status" bson:"status"`
	Category                common_models.Category  `json:"category" bson:"category"`
	RegulatoryReference     string                  `json:"regulatory_reference,omitempty" bson:"regulatory_reference,omitempty"`
	ImmediateActionRequired bool                    `json:"immediate_action_required" bson:"immediate_action_required"`
	ProjectID               primitive.ObjectID      `json:"project_id" bson:"project_id"`
	CreatedBy               primitive.ObjectID      `json:"created_by" bson:"created_by"`
	AssignedTo              *primitive.ObjectID     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	DueDate                 *time.Time              `json:"due_date,omitempty" bson:"due_date,omitempty"`
	CreatedAt               time.Time               `json:"created_at" bson:"created_at"`
	UpdatedAt               time.Time               `json:"updated_at" bson:"updated_at"`
}

// IsOverdue reports whether the finding has passed its due date without
// reaching a terminal state.
func (f *Finding) IsOverdue(now time.Time) bool {
	if f.DueDate == nil {
		return false
	}
	if f.Status == common_models.StatusClosed || f.Status == common_models.StatusPendingApproval {
		return false
	}
	return f.DueDate.Before(now)
}
