package documents

import (
	"billhub/internal/core/apperror"
)

// Status is a lifecycle state. The set of legal states and transitions
// depends on the document kind.
type Status string

const (
	// Quotation lifecycle
	StatusToSend   Status = "to_send"
	StatusSent     Status = "sent"
	StatusWon      Status = "won"
	StatusRejected Status = "rejected"
	StatusLost     Status = "lost"

	// Invoice lifecycle. Sent is shared with quotations.
	StatusPending  Status = "pending"
	StatusUnbanked Status = "unbanked"
	StatusPaid     Status = "paid"

	// Receipt and statement states (terminal from birth)
	StatusReceived Status = "received"
	StatusIssued   Status = "issued"
)

// transitions maps each kind to its legal state changes. Absence of an entry
// means the state is terminal.
var transitions = map[Kind]map[Status][]Status{
	KindQuotation: {
		StatusToSend: {StatusSent},
		StatusSent:   {StatusWon, StatusRejected, StatusLost},
	},
	KindInvoice: {
		StatusPending:  {StatusPaid, StatusUnbanked},
		StatusUnbanked: {StatusPaid},
	},
	// Receipts and statements have no transitions.
	KindReceipt:   {},
	KindStatement: {},
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusToSend, StatusSent, StatusWon, StatusRejected, StatusLost,
		StatusPending, StatusUnbanked, StatusPaid, StatusReceived, StatusIssued:
		return Status(s), nil
	}
	return "", apperror.NewValidation("unknown document status").WithDetail("status", s)
}

// InitialStatus returns the birth state for the kind.
func InitialStatus(kind Kind) Status {
	switch kind {
	case KindQuotation:
		return StatusToSend
	case KindInvoice:
		return StatusPending
	case KindReceipt:
		return StatusReceived
	case KindStatement:
		return StatusIssued
	}
	return ""
}

// ValidStatus reports whether the status belongs to the kind's lifecycle.
func ValidStatus(kind Kind, status Status) bool {
	if status == InitialStatus(kind) {
		return true
	}
	for _, targets := range transitions[kind] {
		for _, t := range targets {
			if t == status {
				return true
			}
		}
	}
	return false
}

// CanTransition reports whether from -> to is a legal move for the kind.
func CanTransition(kind Kind, from, to Status) bool {
	for _, t := range transitions[kind][from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from the status.
func IsTerminal(kind Kind, status Status) bool {
	return len(transitions[kind][status]) == 0
}

// Transition moves the document to a new status, rejecting anything outside
// the kind's state machine. The caller persists the change.
func (d *Document) Transition(to Status) error {
	if !CanTransition(d.Kind, d.Status, to) {
		return apperror.NewInvalidTransition(string(d.Kind), string(d.Status), string(to))
	}
	d.Status = to
	return nil
}
