package user

import (
	common_models "go-safesite/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName string             `json:"firstName" bson:"first_name"`
	LastName  string             `json:"lastName" bson:"last_name"`
	Email     string             `json:"email" bson:"email"`
	Role      common_models.Role `json:"role" bson:"role"`
	Company   string             `json:"company,omitempty" bson:"company,omitempty"`
}

// DisplayName is the label joined onto report rows.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
