package domain

import "fmt"

// TransitionError reports an illegal lifecycle move. It carries the
// requested edge and the acting role so the UI can explain the refusal.
type TransitionError struct {
	From   TicketStatus
	To     TicketStatus
	Role   Role
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition ticket from %q to %q: %s", e.From, e.To, e.Reason)
}

// transitionRule decides whether the actor may move the given ticket along
// an edge that exists in the lifecycle table.
type transitionRule func(actor Actor, t *Ticket) bool

func adminOnly(actor Actor, _ *Ticket) bool {
	return actor.Role == RoleAdmin
}

// resolverClaimOrAdmin covers the open -> in-progress cell: a resolver
// self-assigns a ticket from their pool (or one already theirs), or an
// admin forces the move.
func resolverClaimOrAdmin(actor Actor, t *Ticket) bool {
	if actor.Role == RoleAdmin {
		return true
	}
	if actor.Role != RoleResolver {
		return false
	}
	if t.AssignedToActor(actor) {
		return true
	}
	return !t.Assigned() && actor.Department != nil && t.Category == *actor.Department
}

func assigneeOrAdmin(actor Actor, t *Ticket) bool {
	return actor.Role == RoleAdmin || t.AssignedToActor(actor)
}

func assigneeCreatorOrAdmin(actor Actor, t *Ticket) bool {
	return actor.Role == RoleAdmin || t.AssignedToActor(actor) || t.CreatedBy == actor.ID
}

// lifecycle is the authoritative transition table. A missing edge is never
// legal for anyone; a present edge is legal only when its rule accepts the
// actor. closed is terminal except for admin reopen.
var lifecycle = map[TicketStatus]map[TicketStatus]transitionRule{
	TicketStatusOpen: {
		TicketStatusInProgress: resolverClaimOrAdmin,
		TicketStatusResolved:   adminOnly,
		TicketStatusClosed:     adminOnly,
	},
	TicketStatusInProgress: {
		TicketStatusOpen:     adminOnly,
		TicketStatusResolved: assigneeOrAdmin,
		TicketStatusClosed:   adminOnly,
	},
	TicketStatusResolved: {
		TicketStatusOpen:       adminOnly,
		TicketStatusInProgress: adminOnly,
		TicketStatusClosed:     assigneeCreatorOrAdmin,
	},
	TicketStatusClosed: {
		TicketStatusOpen: adminOnly,
	},
}

// CanTransition checks whether the actor may move the ticket to the
// requested status. It returns nil when legal and a *TransitionError
// otherwise. Re-requesting the current status (including closed -> closed)
// is an error, never a silent no-op.
func CanTransition(actor Actor, t *Ticket, to TicketStatus) error {
	if !to.Valid() {
		return &TransitionError{From: t.Status, To: to, Role: actor.Role, Reason: "unknown status"}
	}
	rule, ok := lifecycle[t.Status][to]
	if !ok {
		return &TransitionError{From: t.Status, To: to, Role: actor.Role, Reason: "no such transition"}
	}
	if !rule(actor, t) {
		return &TransitionError{
			From:   t.Status,
			To:     to,
			Role:   actor.Role,
			Reason: fmt.Sprintf("not permitted for role %s", actor.Role),
		}
	}
	return nil
}
