// Package gate decides whether a session may open a route of the HR app.
//
// Access rules live in a declarative Table (route -> required roles) and are
// evaluated by CanAccess, a pure function of the session and the route. The
// result is never cached: callers evaluate it on every navigation.
package gate

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"

	"hrhub/internal/model"
)

const (
	LoginRoute     = "/login"
	RegisterRoute  = "/register"
	ForbiddenRoute = "/forbidden"
	DashboardRoute = "/"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role for this page")
)

// Subject is what the gate needs to know about the caller. session.Session
// implements it.
type Subject interface {
	Profile() (model.Profile, bool)
}

type roleSubject model.Role

func (r roleSubject) Profile() (model.Profile, bool) {
	return model.Profile{Role: model.Role(r)}, true
}

// ForRole adapts an already authenticated role, e.g. from verified token
// claims, to a Subject.
func ForRole(role model.Role) Subject { return roleSubject(role) }

// Outcome is the kind of decision.
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectForbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect(login)"
	case RedirectForbidden:
		return "redirect(forbidden)"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Decision is the result of CanAccess. Target is set for redirects.
type Decision struct {
	Outcome Outcome
	Target  string
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Err maps a redirect to ErrUnauthenticated or ErrForbidden, and Allow to nil.
func (d Decision) Err() error {
	switch d.Outcome {
	case RedirectLogin:
		return ErrUnauthenticated
	case RedirectForbidden:
		return ErrForbidden
	}
	return nil
}

// Rule describes one route. Roles empty means any authenticated user.
// Rules with a Label appear in the navigation.
type Rule struct {
	Route  string
	Label  string
	Public bool
	Roles  []model.Role
}

func (r Rule) admits(role model.Role) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// NavItem is one entry of the navigation shell.
type NavItem struct {
	Route string `json:"route"`
	Label string `json:"label"`
}

// Table is an immutable route -> access rule table.
type Table struct {
	rules    map[string]Rule
	order    []string
	fallback Rule
}

// NewTable validates rules and builds a Table. Routes must be absolute and unique.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{
		rules: make(map[string]Rule, len(rules)),
	}
	for _, r := range rules {
		if !strings.HasPrefix(r.Route, "/") {
			return nil, fmt.Errorf("gate: route %q must start with /", r.Route)
		}
		route := normalize(r.Route)
		if _, dup := t.rules[route]; dup {
			return nil, fmt.Errorf("gate: duplicate route %q", route)
		}
		for _, role := range r.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("gate: route %q names unknown role %q", route, role)
			}
		}
		if r.Public && len(r.Roles) > 0 {
			return nil, fmt.Errorf("gate: public route %q cannot require roles", route)
		}
		r.Route = route
		r.Roles = slices.Clone(r.Roles)
		t.rules[route] = r
		t.order = append(t.order, route)
	}
	return t, nil
}

// MustTable is NewTable that panics on an invalid table.
func MustTable(rules ...Rule) *Table {
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

var adminOnly = []model.Role{model.RoleAdmin}

// Default is the access table of the HR navigation shell.
var Default = MustTable(
	Rule{Route: LoginRoute, Public: true},
	Rule{Route: RegisterRoute, Public: true},
	Rule{Route: ForbiddenRoute},
	Rule{Route: DashboardRoute, Label: "Dashboard"},
	Rule{Route: "/employees", Label: "Employees"},
	Rule{Route: "/attendance", Label: "Attendance"},
	Rule{Route: "/leave", Label: "Leave"},
	Rule{Route: "/payroll", Label: "Payroll", Roles: adminOnly},
	Rule{Route: "/performance", Label: "Performance"},
	Rule{Route: "/recruitment", Label: "Recruitment", Roles: adminOnly},
	Rule{Route: "/reports", Label: "Reports", Roles: adminOnly},
	Rule{Route: "/settings", Label: "Settings", Roles: adminOnly},
)

// CanAccess evaluates route against the Default table.
func CanAccess(s Subject, route string) Decision {
	return Default.CanAccess(s, route)
}

// CanAccess decides whether s may open route. Routes not in the table are
// protected and open to any authenticated user.
func (t *Table) CanAccess(s Subject, route string) Decision {
	route = normalize(route)
	rule := t.lookup(route)
	if rule.Public {
		return Decision{Outcome: Allow}
	}

	var profile model.Profile
	authenticated := false
	if s != nil {
		profile, authenticated = s.Profile()
	}
	if !authenticated {
		return Decision{Outcome: RedirectLogin, Target: LoginRoute + "?" + url.Values{"next": {route}}.Encode()}
	}
	if !rule.admits(profile.Role) {
		return Decision{Outcome: RedirectForbidden, Target: ForbiddenRoute}
	}
	return Decision{Outcome: Allow}
}

// NavItems lists the labelled routes role may open, in table order.
func (t *Table) NavItems(role model.Role) []NavItem {
	items := []NavItem{}
	for _, route := range t.order {
		r := t.rules[route]
		if r.Label == "" || r.Public || !r.admits(role) {
			continue
		}
		items = append(items, NavItem{Route: r.Route, Label: r.Label})
	}
	return items
}

// lookup finds the rule with the longest path-segment prefix of route.
// "/" only matches the dashboard itself; other unknown routes get the
// default protected rule.
func (t *Table) lookup(route string) Rule {
	for p := route; p != "/"; p = path.Dir(p) {
		if r, ok := t.rules[p]; ok {
			return r
		}
	}
	if route == "/" {
		if r, ok := t.rules["/"]; ok {
			return r
		}
	}
	return t.fallback
}

// maxUnescape bounds repeated percent-decoding of a route.
const maxUnescape = 3

// normalize strips query and fragment, percent-decodes, lower-cases and
// cleans the path. Route matching is case-insensitive.
func normalize(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	for range maxUnescape {
		decoded, err := url.PathUnescape(route)
		if err != nil || decoded == route {
			break
		}
		route = decoded
	}
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	route = strings.ToLower(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return path.Clean(route)
}
