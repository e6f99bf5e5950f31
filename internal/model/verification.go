package model

import "encoding/json"

// Canonical employer verification statuses
var (
	// StatusPending means the employer has not been reviewed yet
	StatusPending = "pending"
	// StatusApproved means an admin approved the employer
	StatusApproved = "approved"
	// StatusRejected means an admin rejected the employer
	StatusRejected = "rejected"
)

// VerificationInput carries the raw verification fields of an employer record.
// Rejected keeps whatever encoding the record was written with.
type VerificationInput struct {
	Rejected interface{}
	Status   string
}

// DeriveVerificationStatus maps raw verification fields to a canonical status.
// Precedence, first match wins:
//  1. rejected when the rejection flag is set under any legacy encoding
//     (bool true, string "true", numeric 1)
//  2. rejected when the raw status says so
//  3. the raw status verbatim when present
//  4. pending
//
// The function is total, malformed input falls through to pending.
func DeriveVerificationStatus(raw VerificationInput) string {
	if rejectionFlagSet(raw.Rejected) {
		return StatusRejected
	}
	if raw.Status == StatusRejected {
		return StatusRejected
	}
	if raw.Status != "" {
		return raw.Status
	}
	return StatusPending
}

// rejectionFlagSet is the only place that understands the legacy encodings of
// the rejection flag. Do not collapse the encodings elsewhere.
func rejectionFlagSet(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true"
	case float64:
		return val == 1
	case int:
		return val == 1
	case json.Number:
		return val.String() == "1"
	}
	return false
}

// VerificationInput decodes the stored jsonb rejection flag into the raw shape
// DeriveVerificationStatus expects.
func (e *EmployerProfile) VerificationInput() VerificationInput {
	var rejected interface{}
	if len(e.VerificationRejected) > 0 {
		// decode error leaves rejected nil, the deriver treats that as unset
		_ = json.Unmarshal(e.VerificationRejected, &rejected)
	}
	return VerificationInput{
		Rejected: rejected,
		Status:   e.VerificationStatus,
	}
}

// DerivedStatus returns the canonical verification status of the employer.
func (e *EmployerProfile) DerivedStatus() string {
	return DeriveVerificationStatus(e.VerificationInput())
}
