package domain

import (
	"context"
	"time"
)

// ScanStatus says whether a scan produced a payload or a failure reason.
type ScanStatus string

const (
	ScanOK     ScanStatus = "ok"
	ScanFailed ScanStatus = "failed"
)

// ScanOutcome describes what a successful scan did.
type ScanOutcome string

const (
	// OutcomeJustConfirmed: general attendance moved from unconfirmed to confirmed on this scan.
	OutcomeJustConfirmed ScanOutcome = "just_confirmed"
	// OutcomeAlreadyConfirmed: general attendance was confirmed by an earlier scan; nothing changed.
	OutcomeAlreadyConfirmed ScanOutcome = "already_confirmed"
	// OutcomeIdentified: the attendee was looked up without any state change.
	OutcomeIdentified ScanOutcome = "identified"
	// OutcomeTalkAttended: the attendee was marked attended for the talk on this scan.
	OutcomeTalkAttended ScanOutcome = "talk_attended"
)

// FailureReason is the tagged reason of a failed scan.
type FailureReason string

const (
	ReasonMalformed            FailureReason = "malformed"
	ReasonNotFound             FailureReason = "not_found"
	ReasonTalkNotFound         FailureReason = "talk_not_found"
	ReasonNotRegisteredForTalk FailureReason = "not_registered_for_talk"
	ReasonAlreadyAttended      FailureReason = "already_attended"
)

// ScanResult is the structured answer to a QR scan: either a success with the attendee payload or a
// failure reason with a human-readable message. Storage failures are reported as errors instead.
// swagger:model ScanResult
type ScanResult struct {
	Status      ScanStatus    `json:"status"`
	Outcome     ScanOutcome   `json:"outcome,omitempty"`
	Reason      FailureReason `json:"reason,omitempty"`
	Message     string        `json:"message"`
	Attendee    *Attendee     `json:"attendee,omitempty"`
	Talks       []*Talk       `json:"talks,omitempty"`
	Talk        *Talk         `json:"talk,omitempty"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty"`
}

// ScanSucceeded returns a successful ScanResult.
func ScanSucceeded(outcome ScanOutcome, message string, attendee *Attendee, talks []*Talk) *ScanResult {
	if talks == nil {
		talks = []*Talk{}
	}
	return &ScanResult{
		Status:   ScanOK,
		Outcome:  outcome,
		Message:  message,
		Attendee: attendee,
		Talks:    talks,
	}
}

// ScanFailure returns a failed ScanResult.
func ScanFailure(reason FailureReason, message string) *ScanResult {
	return &ScanResult{
		Status:  ScanFailed,
		Reason:  reason,
		Message: message,
	}
}

// OK reports whether the scan succeeded.
func (r *ScanResult) OK() bool { return r.Status == ScanOK }

// ManualConfirmation is the result of a staff member confirming an attendee for a talk by id.
// Linked reports that the pair did not exist and was created; ConfirmedAt is set only when NewlyMarked.
type ManualConfirmation struct {
	Attendee    *Attendee  `json:"attendee"`
	Talk        *Talk      `json:"talk"`
	Linked      bool       `json:"linked"`
	NewlyMarked bool       `json:"newly_marked"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// CheckInService resolves scanned fingerprints and records attendance.
// Every entry point resolves the fingerprint the same way; they differ only in what they record.
type CheckInService interface {
	// CheckInGeneral confirms event-wide attendance for the scanned attendee.
	CheckInGeneral(ctx context.Context, code string) (*ScanResult, error)
	// Lookup identifies the scanned attendee without changing any state.
	Lookup(ctx context.Context, code string) (*ScanResult, error)
	// CheckInTalk marks the scanned attendee as attended for a talk it is linked to.
	// Attendees that are not linked to the talk are rejected.
	CheckInTalk(ctx context.Context, talkID int64, code string) (*ScanResult, error)
	// ConfirmTalkByID marks an attendee as attended for a talk, linking the pair first if needed.
	ConfirmTalkByID(ctx context.Context, talkID, attendeeID int64) (*ManualConfirmation, error)
}
