package report

import (
	common_models "go-safesite/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
)

// RoleClass partitions principals into the two visibility classes the
// engine cares about.
type RoleClass int

const (
	// Contributor sees only rows it created or is assigned to.
	Contributor RoleClass = iota
	// Management sees all rows.
	Management
)

// managementRoles is the single authority for elevated visibility. Every
// scoping decision in the codebase goes through Classify; do not re-declare
// this set elsewhere.
var managementRoles = map[common_models.Role]struct{}{
	common_models.RoleAdmin:          {},
	common_models.RoleHSEManager:     {},
	common_models.RoleProjectManager: {},
	common_models.RoleQualityManager: {},
}

func Classify(role common_models.Role) RoleClass {
	if _, ok := managementRoles[role]; ok {
		return Management
	}
	return Contributor
}

// ScopeFilter narrows a findings query to what the principal may see.
// Management principals get the base filter back unchanged; everyone else is
// constrained to rows they created or are assigned to.
func ScopeFilter(filter bson.M, principal common_models.Principal) (bson.M, error) {
	if principal.ID.IsZero() {
		return nil, ErrUnauthenticated
	}
	if Classify(principal.Role) == Management {
		return filter, nil
	}

	scoped := make(bson.M, len(filter)+1)
	for k, v := range filter {
		scoped[k] = v
	}
	scoped["$or"] = []bson.M{
		{"created_by": principal.ID},
		{"assigned_to": principal.ID},
	}
	return scoped, nil
}
