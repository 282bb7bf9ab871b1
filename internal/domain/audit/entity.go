package audit

import (
	"encoding/json"
	"time"
)

// Entry is one append-only audit trail row. Entries are never updated or
// deleted; ActorID is nullable because the actor may be deleted later.
type Entry struct {
	ID           string          `json:"id"`
	ActorID      *string         `json:"actor_id"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id"`
	Before       json.RawMessage `json:"before,omitempty"`
	After        json.RawMessage `json:"after,omitempty"`
	RequestID    string          `json:"request_id,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Well-known actions recorded by the domain services.
const (
	ActionLogin           = "auth.login"
	ActionRegister        = "auth.register"
	ActionPasswordChange  = "user.password_change"
	ActionRoleSet         = "user.role_set"
	ActionEmployeeCreate  = "employee.create"
	ActionEmployeeUpdate  = "employee.update"
	ActionBiometricEnroll = "employee.biometric_enroll"
	ActionClockIn         = "attendance.clock_in"
	ActionClockOut        = "attendance.clock_out"
	ActionLeaveFile       = "leave.file"
	ActionLeaveDecide     = "leave.decide"
	ActionLeaveBalanceSet = "leave.balance_set"
	ActionPayrollRun      = "payroll.run"
	ActionPayrollPay      = "payroll.pay"
)

type Filter struct {
	Action       *string
	ResourceType *string
	ActorID      *string
	Page         int
	Limit        int
}
