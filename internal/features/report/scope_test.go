package report

import (
	"testing"

	common_models "go-safesite/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		role common_models.Role
		want RoleClass
	}{
		{common_models.RoleAdmin, Management},
		{common_models.RoleHSEManager, Management},
		{common_models.RoleProjectManager, Management},
		{common_models.RoleQualityManager, Management},
		{common_models.RoleSupervisor, Contributor},
		{common_models.RoleSubcontractor, Contributor},
		{common_models.RoleWorker, Contributor},
		{common_models.Role("unknown"), Contributor},
		{common_models.Role(""), Contributor},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.role))
		})
	}
}

func TestScopeFilter(t *testing.T) {
	base := bson.M{"status": "open"}

	t.Run("management sees everything", func(t *testing.T) {
		principal := common_models.Principal{ID: primitive.NewObjectID(), Role: common_models.RoleHSEManager}
		got, err := ScopeFilter(base, principal)
		require.NoError(t, err)
		assert.Equal(t, base, got)
	})

	t.Run("contributor is constrained to own rows", func(t *testing.T) {
		id := primitive.NewObjectID()
		principal := common_models.Principal{ID: id, Role: common_models.RoleWorker}
		got, err := ScopeFilter(base, principal)
		require.NoError(t, err)

		assert.Equal(t, "open", got["status"])
		or, ok := got["$or"].([]bson.M)
		require.True(t, ok, "expected an $or clause")
		assert.Contains(t, or, bson.M{"created_by": id})
		assert.Contains(t, or, bson.M{"assigned_to": id})

		// The base filter must not be mutated.
		_, mutated := base["$or"]
		assert.False(t, mutated)
	})

	t.Run("missing principal id", func(t *testing.T) {
		_, err := ScopeFilter(base, common_models.Principal{Role: common_models.RoleAdmin})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}
