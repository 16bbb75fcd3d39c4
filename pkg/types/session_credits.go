package types

import (
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// CreditEntry counts sessions of one type inside a package enrolment.
type CreditEntry struct {
	Included int `json:"included"`
	Used     int `json:"used"`
}

// Remaining returns how many sessions of this type are still bookable.
func (e CreditEntry) Remaining() int {
	if e.Used >= e.Included {
		return 0
	}
	return e.Included - e.Used
}

// SessionCredits is the whole per-enrolment ledger, stored and rewritten as a
// single jsonb value keyed by session type.
type SessionCredits map[enums.SessionType]CreditEntry

// Clone deep-copies the ledger so callers can stage changes before persisting.
func (c SessionCredits) Clone() SessionCredits {
	out := make(SessionCredits, len(c))
	for key, entry := range c {
		out[key] = entry
	}
	return out
}
