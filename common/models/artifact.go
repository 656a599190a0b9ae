package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of artifact categories
type Category string

const (
	CategoryComputer      Category = "Computer"
	CategoryPeripheral    Category = "Peripheral"
	CategoryStorage       Category = "Storage"
	CategoryComponent     Category = "Component"
	CategoryNetworking    Category = "Networking"
	CategoryCalculator    Category = "Calculator"
	CategoryGaming        Category = "Gaming"
	CategorySoftware      Category = "Software"
	CategoryDocumentation Category = "Documentation"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryComputer,
	CategoryPeripheral,
	CategoryStorage,
	CategoryComponent,
	CategoryNetworking,
	CategoryCalculator,
	CategoryGaming,
	CategorySoftware,
	CategoryDocumentation,
	CategoryOther,
}

// Condition is the physical condition of an artifact
type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
	ConditionForParts  Condition = "For Parts"
	ConditionUnknown   Condition = "Unknown"
)

var Conditions = []Condition{
	ConditionExcellent,
	ConditionGood,
	ConditionFair,
	ConditionPoor,
	ConditionForParts,
	ConditionUnknown,
}

// TaskStatus tracks curation work outstanding on an artifact
type TaskStatus string

const (
	TaskStatusNone       TaskStatus = "none"
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

var TaskStatuses = []TaskStatus{TaskStatusNone, TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// TaskPriority ranks outstanding curation work
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

// Artifact is a single cataloged item in the collection
// Maps to: artifact table
type Artifact struct {
	ArtifactID string `db:"artifact_id" json:"artifact_id"`

	Name            string    `db:"name" json:"name" validate:"required,max=200"`
	Category        Category  `db:"category" json:"category" validate:"required,category"`
	Manufacturer    string    `db:"manufacturer" json:"manufacturer"`
	Model           string    `db:"model" json:"model"`
	SerialNumber    string    `db:"serial_number" json:"serial_number"`
	Year            string    `db:"year" json:"year"`
	OperatingSystem string    `db:"operating_system" json:"operating_system"`
	Description     string    `db:"description" json:"description"`
	Condition       Condition `db:"condition" json:"condition" validate:"omitempty,condition"`

	// Display group is referenced by name, not id
	DisplayGroup string `db:"display_group" json:"display_group" validate:"required"`
	Location     string `db:"location" json:"location"`

	// Amounts accept either a JSON number or a numeric string
	EstimatedValue decimal.NullDecimal `db:"estimated_value" json:"estimated_value"`
	StartingBid    decimal.NullDecimal `db:"starting_bid" json:"starting_bid"`

	AcquisitionDate string       `db:"acquisition_date" json:"acquisition_date"`
	Donor           string       `db:"donor" json:"donor"`
	Notes           string       `db:"notes" json:"notes"`
	TaskStatus      TaskStatus   `db:"task_status" json:"task_status" validate:"omitempty,task_status"`
	TaskPriority    TaskPriority `db:"task_priority" json:"task_priority" validate:"omitempty,task_priority"`

	// Ordered blob references; the first entry is the primary image
	Images []string `db:"images" json:"images" validate:"dive,image_ref"`

	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StartingValue returns the opening price for bidding: the starting bid if
// set, else the estimated value, else zero.
func (a *Artifact) StartingValue() decimal.Decimal {
	if a.StartingBid.Valid {
		return a.StartingBid.Decimal
	}
	if a.EstimatedValue.Valid {
		return a.EstimatedValue.Decimal
	}
	return decimal.Zero
}

// PrimaryImage returns the first image reference or ""
func (a *Artifact) PrimaryImage() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0]
}
