package types

import "time"

// ExecutionStatus is the lifecycle state of one function invocation.
type ExecutionStatus string

const (
	ExecutionStatusStarted ExecutionStatus = "STARTED"
	ExecutionStatusSuccess ExecutionStatus = "SUCCESS"
	ExecutionStatusPartial ExecutionStatus = "PARTIAL"
	ExecutionStatusFailed  ExecutionStatus = "FAILED"
)

// ExecutionRecord is the run history entry kept in the executions collection.
type ExecutionRecord struct {
	ExecutionID  string
	Service      string
	TriggerType  string
	Status       ExecutionStatus
	StartTime    time.Time
	EndTime      *time.Time
	Integrations int
	Failures     int
	OutputsJSON  string
	ErrorMessage string
}

// IntegrationRecord is an integration as stored in the registry.
type IntegrationRecord struct {
	ID      string
	Enabled bool
	IntegrationConfig
}

// SyncCompletedEvent is published once per run.
type SyncCompletedEvent struct {
	ExecutionID string     `json:"executionId"`
	CompletedAt time.Time  `json:"completedAt"`
	Report      *RunReport `json:"report"`
}
