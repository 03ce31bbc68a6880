package app

import (
	"docmanager/internal/model"
	"docmanager/internal/pkg/jwtutil"
)

// Identity is a decoded session token: who is calling and with which role.
type Identity struct {
	UserID uint
	Role   model.Role
}

// Actions gated by the policy. Each route declares one of these instead of
// attaching role metadata to handlers.
const (
	ActionAuthMe = "auth.me"

	ActionUserCreate     = "users.create"
	ActionUserList       = "users.list"
	ActionUserGet        = "users.get"
	ActionUserUpdateRole = "users.update_role"

	ActionDocumentCreate  = "documents.create"
	ActionDocumentList    = "documents.list"
	ActionDocumentGet     = "documents.get"
	ActionDocumentUpdate  = "documents.update"
	ActionDocumentDelete  = "documents.delete"
	ActionDocumentProcess = "documents.trigger_ingestion"

	ActionIngestionTrigger   = "ingestion.trigger"
	ActionIngestionStatus    = "ingestion.status"
	ActionIngestionStatusAll = "ingestion.status_all"
	ActionIngestionComplete  = "ingestion.complete"
	ActionIngestionFail      = "ingestion.fail"
)

// actionRoles enumerates the roles allowed per action. An empty list means
// any authenticated identity may perform it. Membership is exact: admin is
// listed wherever it is permitted, never inferred.
var actionRoles = map[string][]model.Role{
	ActionAuthMe: {},

	ActionUserCreate:     {model.RoleAdmin},
	ActionUserList:       {model.RoleAdmin},
	ActionUserGet:        {model.RoleAdmin},
	ActionUserUpdateRole: {model.RoleAdmin},

	ActionDocumentCreate:  {model.RoleAdmin, model.RoleEditor},
	ActionDocumentList:    {},
	ActionDocumentGet:     {},
	ActionDocumentUpdate:  {model.RoleAdmin, model.RoleEditor},
	ActionDocumentDelete:  {model.RoleAdmin, model.RoleEditor},
	ActionDocumentProcess: {model.RoleAdmin, model.RoleEditor},

	ActionIngestionTrigger:   {model.RoleAdmin, model.RoleEditor},
	ActionIngestionStatus:    {},
	ActionIngestionStatusAll: {model.RoleAdmin},
	ActionIngestionComplete:  {model.RoleAdmin, model.RoleEditor},
	ActionIngestionFail:      {model.RoleAdmin, model.RoleEditor},
}

// RolesFor returns the allow-list for an action. Unknown actions are locked
// down to admin so a missing table entry fails closed rather than open.
func RolesFor(action string) []model.Role {
	roles, ok := actionRoles[action]
	if !ok {
		return []model.Role{model.RoleAdmin}
	}
	return roles
}

// Policy verifies session tokens and checks role membership.
type Policy struct {
	jwtSecret string
}

func NewPolicy(jwtSecret string) *Policy {
	return &Policy{jwtSecret: jwtSecret}
}

// Authorize verifies the token and, when requiredRoles is non-empty, checks
// that the decoded role is one of them.
func (p *Policy) Authorize(token string, requiredRoles ...model.Role) (*Identity, error) {
	claims, err := jwtutil.ParseToken(p.jwtSecret, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	identity := &Identity{UserID: claims.UserID, Role: claims.Role}
	if len(requiredRoles) == 0 {
		return identity, nil
	}
	for _, role := range requiredRoles {
		if identity.Role == role {
			return identity, nil
		}
	}
	return nil, ErrForbidden
}

// AuthorizeAction gates the token against the action's declared allow-list.
func (p *Policy) AuthorizeAction(token, action string) (*Identity, error) {
	return p.Authorize(token, RolesFor(action)...)
}
