package enums

import "fmt"

// EnrolmentStatus tracks a wellness-package enrolment lifecycle.
type EnrolmentStatus string

const (
	EnrolmentStatusActive    EnrolmentStatus = "active"
	EnrolmentStatusCompleted EnrolmentStatus = "completed"
	EnrolmentStatusCancelled EnrolmentStatus = "cancelled"
)

var validEnrolmentStatuses = []EnrolmentStatus{
	EnrolmentStatusActive,
	EnrolmentStatusCompleted,
	EnrolmentStatusCancelled,
}

func (s EnrolmentStatus) String() string {
	return string(s)
}

func (s EnrolmentStatus) IsValid() bool {
	for _, candidate := range validEnrolmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// SessionType keys the per-enrolment credit ledger and sizes booking slots.
type SessionType string

const (
	SessionInitialConsult SessionType = "initial_consult"
	SessionFollowUp       SessionType = "follow_up"
	SessionCompoundReview SessionType = "compound_review"
)

var validSessionTypes = []SessionType{
	SessionInitialConsult,
	SessionFollowUp,
	SessionCompoundReview,
}

// sessionDurations maps each session type to its slot length in minutes.
var sessionDurations = map[SessionType]int{
	SessionInitialConsult: 60,
	SessionFollowUp:       30,
	SessionCompoundReview: 45,
}

func (t SessionType) String() string {
	return string(t)
}

func (t SessionType) IsValid() bool {
	for _, candidate := range validSessionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// DurationMinutes returns the booking slot length for the session type.
func (t SessionType) DurationMinutes() int {
	if minutes, ok := sessionDurations[t]; ok {
		return minutes
	}
	return 30
}

func ParseSessionType(value string) (SessionType, error) {
	for _, candidate := range validSessionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session type %q", value)
}
