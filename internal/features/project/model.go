package project

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name              string             `json:"name" bson:"name"`
	Description       string             `json:"description,omitempty" bson:"description,omitempty"`
	ClientCompany     string             `json:"client_company" bson:"client_company"`
	ContractorCompany string             `json:"contractor_company" bson:"contractor_company"`
	Status            string             `json:"status" bson:"status"`
	StartDate         *time.Time         `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate           *time.Time         `json:"end_date,omitempty" bson:"end_date,omitempty"`
	CreatedBy         primitive.ObjectID `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}
