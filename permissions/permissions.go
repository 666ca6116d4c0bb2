// Package permissions is a pure authorization engine: a decision function
// over (actor, action, optional target) with no I/O and no knowledge of
// HTTP or storage. Each resource owns a static table mapping an action to
// an ordered list of predicates evaluated with OR semantics; the first
// predicate that passes allows the action, and if none passes the decision
// carries a human-readable denial reason.
package permissions

import "reviewhub-api/models"

type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) readOnly() bool {
	return a == ActionRead
}

// Actor is the identity a request acts as. The zero value is an
// anonymous, unauthenticated actor.
type Actor struct {
	Authenticated bool
	ID            uint
	Username      string
	Role          models.UserRole
	Superuser     bool
}

// FromUser builds an authenticated actor from a stored user record.
func FromUser(u *models.User) Actor {
	return Actor{
		Authenticated: true,
		ID:            u.ID,
		Username:      u.Username,
		Role:          u.Role,
		Superuser:     u.IsSuperuser,
	}
}

// Anonymous is the actor of a request that carried no credentials.
func Anonymous() Actor {
	return Actor{}
}

// Target identifies the object of an object-scoped action. Only the
// author matters for ownership checks; administratively owned resources
// pass a nil target.
type Target struct {
	AuthorID uint
}

// Decision is the engine's output. Denial never raises; the boundary
// layer maps a denied decision to an access-denied response.
type Decision struct {
	Allowed bool
	Reason  string
}

// Predicate is a single permission check. Predicates are pure functions
// over the actor's role and superuser flag, never methods on the
// identity type.
type Predicate func(actor Actor, action Action, target *Target) bool

func isAdmin(actor Actor) bool {
	return actor.Authenticated && (actor.Role == models.RoleAdmin || actor.Superuser)
}

func isModerator(actor Actor) bool {
	return actor.Authenticated && (actor.Role == models.RoleModerator || actor.Superuser)
}

// IsAdmin allows administrators (or superusers) only.
func IsAdmin(actor Actor, _ Action, _ *Target) bool {
	return isAdmin(actor)
}

// IsModerator allows moderators (or superusers) only.
func IsModerator(actor Actor, _ Action, _ *Target) bool {
	return isModerator(actor)
}

// IsAdminOrReadOnly allows anyone to read and administrators to write.
func IsAdminOrReadOnly(actor Actor, action Action, _ *Target) bool {
	return action.readOnly() || isAdmin(actor)
}

// IsAuthenticatedOrReadOnly allows anyone to read and any authenticated
// actor to write.
func IsAuthenticatedOrReadOnly(actor Actor, action Action, _ *Target) bool {
	return action.readOnly() || actor.Authenticated
}

// IsOwnerOrAdminOrModeratorOrReadOnly allows anyone to read, and the
// target's author, a moderator or an administrator to write.
func IsOwnerOrAdminOrModeratorOrReadOnly(actor Actor, action Action, target *Target) bool {
	if action.readOnly() {
		return true
	}
	if target != nil && actor.Authenticated && actor.ID == target.AuthorID {
		return true
	}
	return isAdmin(actor) || isModerator(actor)
}

type rule struct {
	predicates []Predicate
	reason     string
}

// Ruleset is the static permission table of one resource.
type Ruleset struct {
	rules map[Action]rule
}

// Check evaluates the actor against the table. Unknown actions deny.
func (rs Ruleset) Check(actor Actor, action Action, target *Target) Decision {
	r, ok := rs.rules[action]
	if !ok {
		return Decision{Allowed: false, Reason: "action is not permitted on this resource"}
	}
	for _, p := range r.predicates {
		if p(actor, action, target) {
			return Decision{Allowed: true}
		}
	}
	reason := r.reason
	if !actor.Authenticated {
		reason = "authentication required"
	}
	return Decision{Allowed: false, Reason: reason}
}

const (
	adminOnlyReason = "this action is allowed to administrators only"
	ownerReason     = "only the author, a moderator or an administrator may modify this"
)

// Users: the collection is an administrative surface. Self access goes
// through the dedicated /users/me path, not through this table.
var Users = Ruleset{rules: map[Action]rule{
	ActionRead:   {predicates: []Predicate{IsAdmin}, reason: adminOnlyReason},
	ActionCreate: {predicates: []Predicate{IsAdmin}, reason: adminOnlyReason},
	ActionUpdate: {predicates: []Predicate{IsAdmin}, reason: adminOnlyReason},
	ActionDelete: {predicates: []Predicate{IsAdmin}, reason: adminOnlyReason},
}}

// Catalog covers categories, genres and titles: open reads, admin writes.
var Catalog = Ruleset{rules: map[Action]rule{
	ActionRead:   {predicates: []Predicate{IsAdminOrReadOnly}, reason: adminOnlyReason},
	ActionCreate: {predicates: []Predicate{IsAdminOrReadOnly}, reason: adminOnlyReason},
	ActionUpdate: {predicates: []Predicate{IsAdminOrReadOnly}, reason: adminOnlyReason},
	ActionDelete: {predicates: []Predicate{IsAdminOrReadOnly}, reason: adminOnlyReason},
}}

// UserContent covers reviews and comments: open reads, authenticated
// creates, owner/moderator/admin updates and deletes.
var UserContent = Ruleset{rules: map[Action]rule{
	ActionRead:   {predicates: []Predicate{IsOwnerOrAdminOrModeratorOrReadOnly}, reason: ownerReason},
	ActionCreate: {predicates: []Predicate{IsAuthenticatedOrReadOnly}, reason: "authentication required"},
	ActionUpdate: {predicates: []Predicate{IsOwnerOrAdminOrModeratorOrReadOnly}, reason: ownerReason},
	ActionDelete: {predicates: []Predicate{IsOwnerOrAdminOrModeratorOrReadOnly}, reason: ownerReason},
}}
