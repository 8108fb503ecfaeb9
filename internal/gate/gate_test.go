package gate

import (
	"testing"

	"hrhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anon struct{}

func (anon) Profile() (model.Profile, bool) { return model.Profile{}, false }

var protectedRoutes = []string{
	"/", "/employees", "/employees/42", "/attendance", "/leave", "/payroll",
	"/performance", "/recruitment", "/reports", "/settings", "/forbidden",
	"/no-such-page", "/payroll/2024/05",
}

func TestCanAccess_UnauthenticatedAlwaysRedirectsToLogin(t *testing.T) {
	for _, route := range protectedRoutes {
		t.Run(route, func(t *testing.T) {
			for _, s := range []Subject{nil, anon{}} {
				d := CanAccess(s, route)
				assert.Equal(t, RedirectLogin, d.Outcome)
				assert.Contains(t, d.Target, LoginRoute+"?next=")
				assert.ErrorIs(t, d.Err(), ErrUnauthenticated)
			}
		})
	}
}

func TestCanAccess_PreservesRequestedRoute(t *testing.T) {
	d := CanAccess(anon{}, "/employees/42?tab=leave")
	assert.Equal(t, "/login?next=%2Femployees%2F42", d.Target)
}

func TestCanAccess_PublicRoutes(t *testing.T) {
	for _, route := range []string{"/login", "/register", "/login?next=%2Fpayroll"} {
		assert.True(t, CanAccess(anon{}, route).Allowed(), route)
		assert.True(t, CanAccess(ForRole(model.RoleEmployee), route).Allowed(), route)
	}
}

func TestCanAccess_RoleRestrictions(t *testing.T) {
	employee := ForRole(model.RoleEmployee)
	admin := ForRole(model.RoleAdmin)

	for _, route := range []string{"/payroll", "/recruitment", "/reports", "/settings", "/settings/users"} {
		d := CanAccess(employee, route)
		assert.Equal(t, RedirectForbidden, d.Outcome, route)
		assert.Equal(t, ForbiddenRoute, d.Target)
		assert.ErrorIs(t, d.Err(), ErrForbidden)

		assert.True(t, CanAccess(admin, route).Allowed(), route)
	}
	for _, route := range []string{"/", "/employees", "/employees/7", "/leave", "/unknown"} {
		d := CanAccess(employee, route)
		assert.True(t, d.Allowed(), route)
		assert.NoError(t, d.Err())
	}
}

func TestCanAccess_SegmentPrefixOnly(t *testing.T) {
	// "/payrollx" is not under "/payroll".
	d := CanAccess(ForRole(model.RoleEmployee), "/payrollx")
	assert.True(t, d.Allowed())

	d = CanAccess(ForRole(model.RoleEmployee), "/employees/../payroll")
	assert.Equal(t, RedirectForbidden, d.Outcome)
}

func TestCanAccess_RouteSpellingDoesNotBypassRoles(t *testing.T) {
	employee := ForRole(model.RoleEmployee)
	for _, route := range []string{
		"/PAYROLL", "/Payroll/", "/Settings", "/pay%72oll", "/pay%2572oll",
		"/%70ayroll/2024", "/REPORTS?x=1", "/employees/../Recruitment",
	} {
		d := CanAccess(employee, route)
		assert.Equal(t, RedirectForbidden, d.Outcome, route)
		assert.True(t, CanAccess(ForRole(model.RoleAdmin), route).Allowed(), route)
	}

	assert.True(t, CanAccess(anon{}, "/LOGIN").Allowed())
	assert.Equal(t, "/login?next=%2Fpayroll", CanAccess(anon{}, "/PayRoll").Target)
}

func TestNavItems(t *testing.T) {
	employeeNav := Default.NavItems(model.RoleEmployee)
	adminNav := Default.NavItems(model.RoleAdmin)

	assert.Len(t, adminNav, 9)
	assert.Len(t, employeeNav, 5)
	assert.Equal(t, NavItem{Route: "/", Label: "Dashboard"}, employeeNav[0])
	for _, item := range employeeNav {
		assert.True(t, CanAccess(ForRole(model.RoleEmployee), item.Route).Allowed(), item.Route)
	}
}

func TestNewTable_Validation(t *testing.T) {
	_, err := NewTable(Rule{Route: "payroll"})
	assert.Error(t, err)

	_, err = NewTable(Rule{Route: "/a"}, Rule{Route: "/a/"})
	assert.Error(t, err)

	_, err = NewTable(Rule{Route: "/a"}, Rule{Route: "/A"})
	assert.Error(t, err)

	_, err = NewTable(Rule{Route: "/a", Roles: []model.Role{"superuser"}})
	assert.Error(t, err)

	_, err = NewTable(Rule{Route: "/a", Public: true, Roles: []model.Role{model.RoleAdmin}})
	assert.Error(t, err)

	table, err := NewTable(Rule{Route: "/only-admins", Roles: []model.Role{model.RoleAdmin}})
	require.NoError(t, err)
	assert.Equal(t, RedirectForbidden, table.CanAccess(ForRole(model.RoleEmployee), "/only-admins/x").Outcome)
	assert.True(t, table.CanAccess(ForRole(model.RoleEmployee), "/").Allowed())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect(login)", RedirectLogin.String())
	assert.Equal(t, "redirect(forbidden)", RedirectForbidden.String())
}
