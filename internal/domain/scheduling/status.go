package scheduling

import "github.com/coachly/call-scheduler/internal/httperr"

// ===============================
// Scheduling Status
// ===============================

type Status string

const (
	StatusProposed        Status = "proposed"
	StatusPendingResponse Status = "pending_response"
	StatusCounterProposed Status = "counter_proposed"
	StatusConfirmed       Status = "confirmed"
	StatusCancelled       Status = "cancelled"
)

// Status que seguram horário na agenda do coach: negociação em
// andamento bloqueia o slot tanto quanto confirmação.
var HoldingStatuses = []Status{
	StatusProposed,
	StatusPendingResponse,
	StatusCounterProposed,
	StatusConfirmed,
}

func HoldingStatusStrings() []string {
	out := make([]string, len(HoldingStatuses))
	for i, s := range HoldingStatuses {
		out[i] = string(s)
	}
	return out
}

// ===============================
// Transition Table
// ===============================

var transitions = map[Status][]Status{
	StatusProposed:        {StatusPendingResponse, StatusCancelled},
	StatusPendingResponse: {StatusConfirmed, StatusCounterProposed, StatusCancelled},
	StatusCounterProposed: {StatusConfirmed, StatusCounterProposed, StatusCancelled},
	StatusConfirmed:       {StatusCancelled, StatusProposed},
	StatusCancelled:       {},
}

func IsTerminal(s Status) bool {
	return s == StatusCancelled
}

func IsHolding(s Status) bool {
	for _, h := range HoldingStatuses {
		if s == h {
			return true
		}
	}
	return false
}

// CanTransition valida a tabela de estados. Nenhuma transição
// sai de cancelled.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeInvalidTransition)
}

func InitialStatus() Status {
	return StatusPendingResponse
}
