package quotes

import (
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
)

// allowedTransitions is the full quote state machine. Approved and rejected
// are terminal for the acceptance decision; payment and fulfillment evolve
// independently afterward. Archiving is not a transition, it is an
// orthogonal flag.
var allowedTransitions = map[enums.QuoteStatus][]enums.QuoteStatus{
	enums.QuoteStatusDraft:    {enums.QuoteStatusSent},
	enums.QuoteStatusSent:     {enums.QuoteStatusApproved, enums.QuoteStatusRejected, enums.QuoteStatusDraft},
	enums.QuoteStatusApproved: {},
	enums.QuoteStatusRejected: {},
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to enums.QuoteStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a state-conflict error when from -> to is not
// permitted. The same target as the current state is reported as not
// permitted here; callers that want idempotent re-application (accept on an
// already-approved quote) check for that case before calling.
func ValidateTransition(from, to enums.QuoteStatus) error {
	if !CanTransition(from, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			"quote cannot move from "+from.String()+" to "+to.String())
	}
	return nil
}
