package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Severity is the ordinal classification of a finding: critical > high > medium > low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Status is the lifecycle state of a finding.
type Status string

const (
	StatusOpen            Status = "open"
	StatusAssigned        Status = "assigned"
	StatusInProgress      Status = "in_progress"
	StatusPendingApproval Status = "completed_pending_approval"
	StatusClosed          Status = "closed"
	StatusOverdue         Status = "overdue"
)

// OpenStatuses are the states counted as "open" in project rollups.
var OpenStatuses = []Status{StatusOpen, StatusAssigned, StatusInProgress}

type Category string

const (
	CategoryPPE            Category = "ppe"
	CategoryFallProtection Category = "fall_protection"
	CategoryElectrical     Category = "electrical"
	CategoryHousekeeping   Category = "housekeeping"
	CategoryEquipment      Category = "equipment"
	CategoryFireSafety     Category = "fire_safety"
	CategoryEnvironmental  Category = "environmental"
	CategoryOther          Category = "other"
)

// Role is a principal's role as carried in the JWT claims.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleHSEManager     Role = "hse_manager"
	RoleProjectManager Role = "project_manager"
	RoleQualityManager Role = "quality_manager"
	RoleSupervisor     Role = "supervisor"
	RoleSubcontractor  Role = "subcontractor"
	RoleWorker         Role = "worker"
)

// Principal is the authenticated caller as seen by the report engine.
type Principal struct {
	ID   primitive.ObjectID
	Role Role
}

// Log is the record shape written by the async zap sink.
type Log struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Message      string             `bson:"message"`
	Caller       string             `bson:"caller,omitempty"`
	LogLevelId   int                `bson:"log_level_id"`
	AppId        string             `bson:"app_id"`
	CreatedOnUtc time.Time          `bson:"created_on_utc"`
}
