package luau

import "strings"

// Role is the kind of Knit module: a client controller or a server service.
type Role int

const (
	// RoleService is a server-side Knit service.
	RoleService Role = iota

	// RoleController is a client-side Knit controller.
	RoleController
)

func (r Role) String() string {
	if r == RoleController {
		return "Controller"
	}
	return "Service"
}

// Getter returns the Knit function that resolves a module of this role.
func (r Role) Getter() string {
	return "Get" + r.String()
}

// RoleOf derives the role from a module name or file path.
func RoleOf(name string) Role {
	if strings.Contains(name, "Controller") {
		return RoleController
	}
	return RoleService
}
