package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

func TestNewFallbackUser(t *testing.T) {
	cases := map[string]struct {
		role     types.UserRole
		fullName string
	}{
		"reporter": {types.RoleReporter, "Usuario desconocido"},
		"assignee": {types.RoleAssignee, "No asignado"},
		"resolver": {types.RoleResolver, "No resuelto"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			user := model.NewFallbackUser("U1", tc.role)
			gt.Value(t, user.ID).Equal(types.UserID("U1"))
			gt.Value(t, user.FullName).Equal(tc.fullName)
			gt.Value(t, user.Code).Equal("N/A")
			gt.Value(t, user.Role).Equal(tc.role)
			gt.True(t, user.Fallback)
		})
	}

	t.Run("empty user ID maps to the unknown sentinel", func(t *testing.T) {
		user := model.NewFallbackUser("", types.RoleReporter)
		gt.Value(t, user.ID).Equal(types.UnknownUserID)
	})

	t.Run("unrecognized role still yields a usable summary", func(t *testing.T) {
		user := model.NewFallbackUser("U1", types.UserRole("auditor"))
		gt.Value(t, user).NotNil()
		gt.True(t, user.Fallback)
		gt.Value(t, user.FullName).NotEqual("")
	})
}
