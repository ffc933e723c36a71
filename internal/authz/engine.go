// Package authz is the pure authorization engine: stateless decision
// functions over a principal, a resource's ownership fields, and the
// resource category's access grant (if any). It performs no queries and
// has no side effects; callers fetch the grant row and apply the decision.
package authz

import (
	"github.com/docvault/docvault/internal/models"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Permitted allows the action.
	Permitted Decision = iota
	// NotFoundOrDenied conceals the resource: the caller must respond
	// exactly as if the resource did not exist.
	NotFoundOrDenied
	// Forbidden denies the action on a resource the caller may see.
	Forbidden
)

// Principal is the authenticated caller, reduced to what decisions need.
type Principal struct {
	ID   string
	Role models.Role
}

// IsAdmin reports whether the principal carries the administrator role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Owner returns the principal as an owner reference for ownership tagging.
func (p Principal) Owner() models.OwnerRef {
	return models.OwnerRef{Kind: p.Role, ID: p.ID}
}

// CanManageCategories gates category create/update/delete and all grant
// administration. Role is the only input: the grant table never applies
// to administrators, and members never qualify.
func CanManageCategories(p Principal) Decision {
	if p.IsAdmin() {
		return Permitted
	}
	return Forbidden
}

// CanReadCategory decides visibility into a category and everything
// beneath it. Members need any grant (full or read-only); absence reads
// as NotFoundOrDenied so category existence is not leaked.
func CanReadCategory(p Principal, grant *models.AccessGrant) Decision {
	if p.IsAdmin() {
		return Permitted
	}
	if grant == nil {
		return NotFoundOrDenied
	}
	return Permitted
}

// CanCreateContent decides folder/document creation within a category.
// Any grant level suffices for members; read-only does not restrict
// creates.
func CanCreateContent(p Principal, grant *models.AccessGrant) Decision {
	return CanReadCategory(p, grant)
}

// CanMutateContent decides update/delete of an existing folder or
// document. For members the ownership check precedes the grant check:
// another principal's content is Forbidden outright, and content of
// their own additionally requires a live grant on the category.
func CanMutateContent(p Principal, owner models.OwnerRef, grant *models.AccessGrant) Decision {
	if p.IsAdmin() {
		return Permitted
	}
	if !models.SameOwner(owner, p.Owner()) {
		return Forbidden
	}
	if grant == nil {
		return Forbidden
	}
	return Permitted
}

// CanTouchVersions decides version creation and restoration. Identical
// inputs and ordering to CanMutateContent: the member must be the
// document's original uploader AND still hold a grant; either failing is
// Forbidden (the document was already visible to reach this point).
func CanTouchVersions(p Principal, owner models.OwnerRef, grant *models.AccessGrant) Decision {
	return CanMutateContent(p, owner, grant)
}
