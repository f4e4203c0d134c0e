package service

import "github.com/eventup-dev/eventup/internal/domain"

// Authorization policy shared by the services. Route-level role gates keep
// the wrong roles out entirely; these checks decide ownership within a role.

// canManageAny reports whether the actor may act on any resource.
func canManageAny(actor *domain.User) bool {
	return actor.IsAdministrator()
}

// canManageEvent reports whether the actor may manage the given event and
// everything scoped to it, such as its registrations and certificates.
func canManageEvent(actor *domain.User, event *domain.Event) bool {
	return canManageAny(actor) || actor.ID == event.OrganizerID
}

// canReadRegistration reports whether the actor may see a registration:
// its owner, the event's organizer, or an administrator.
func canReadRegistration(actor *domain.User, reg *domain.Registration, event *domain.Event) bool {
	if actor.ID == reg.UserID {
		return true
	}
	return canManageEvent(actor, event)
}
