package domain

// CanViewTicket reports whether the actor may see the ticket at all.
//
// Admins see everything. Resolvers see their own queue plus unclaimed
// tickets in their department (the load-balancing pool). Students and staff
// see only what they filed. This is the single authoritative dispatch point
// for ticket visibility; callers must not re-derive role logic elsewhere.
func CanViewTicket(actor Actor, t *Ticket) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleResolver:
		if t.AssignedToActor(actor) {
			return true
		}
		return !t.Assigned() && actor.Department != nil && t.Category == *actor.Department
	case RoleStudent, RoleStaff:
		return t.CreatedBy == actor.ID
	}
	return false
}

// VisibleTickets filters tickets down to what the actor may see, preserving
// input order. It is pure and re-evaluated on every read: role and
// department can change between sessions, so the result is never cached.
func VisibleTickets(actor Actor, tickets []Ticket) []Ticket {
	visible := make([]Ticket, 0, len(tickets))
	for i := range tickets {
		if CanViewTicket(actor, &tickets[i]) {
			visible = append(visible, tickets[i])
		}
	}
	return visible
}

// CanViewMessage reports whether the actor may see a message on a ticket
// they already have visibility over. Internal notes are restricted to
// resolver/admin regardless of any other grant.
func CanViewMessage(actor Actor, msg *TicketMessage) bool {
	return !msg.IsInternal || actor.Role.IsPrivileged()
}

// VisibleMessages filters a ticket's thread for the actor. The caller is
// responsible for having checked ticket visibility first.
func VisibleMessages(actor Actor, msgs []TicketMessage) []TicketMessage {
	visible := make([]TicketMessage, 0, len(msgs))
	for i := range msgs {
		if CanViewMessage(actor, &msgs[i]) {
			visible = append(visible, msgs[i])
		}
	}
	return visible
}
