package campaign

import (
	"time"
)

// Mode selects whether the dispatcher actually contacts the SMTP gateway.
type Mode string

const (
	Live   Mode = "live"
	DryRun Mode = "dry_run"
)

// Record is one recipient row: placeholder name -> value. The "email"
// field is mandatory, everything else is substituted verbatim.
type Record map[string]string

// Email returns the recipient address, or "" when the record has none.
func (r Record) Email() string { return r["email"] }

// Template is the campaign message with flat {field} placeholders in
// both subject and body.
type Template struct {
	Subject string
	Body    string
}

// Policy bounds the outbound send rate for one campaign.
// MinDelay <= MaxDelay and MaxPerHour >= 1 are enforced at config load.
type Policy struct {
	MinDelay            time.Duration
	MaxDelay            time.Duration
	MaxPerHour          int
	DryRunConsumesQuota bool
}

type OutcomeKind string

const (
	OutcomeSent    OutcomeKind = "sent"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

// Outcome is the terminal result for a single recipient. Never mutated
// after it is appended to the summary.
type Outcome struct {
	Email     string      `json:"email"`
	Kind      OutcomeKind `json:"outcome"`
	Reason    string      `json:"reason,omitempty"`
	ErrorKind string      `json:"error_kind,omitempty"`
	At        time.Time   `json:"at"`
}

// Summary aggregates one campaign run.
type Summary struct {
	RunID      string    `json:"run_id"`
	Attempted  int       `json:"attempted"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Outcomes   []Outcome `json:"outcomes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
