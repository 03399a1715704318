// Package authz derives and checks the path permission map: the mapping
// from a navigable route to the roles that may visit it. The map is a
// convenience cache for navigation-level gating; server-side checks stay
// the source of truth.
package authz

// Requirement describes who may visit a path. An empty Roles slice means
// any authenticated user; a path with no Requirement at all is public.
type Requirement struct {
	Roles []string `json:"roles,omitempty"`
}

// PathPermissionMap maps a route path to its access requirement
type PathPermissionMap map[string]Requirement

// MenuEntry is one node of a menu tree as seen by the map builder
type MenuEntry struct {
	Path     string      `json:"path"`
	Roles    []string    `json:"roles,omitempty"`
	Children []MenuEntry `json:"children,omitempty"`
}

// Build derives a PathPermissionMap from a menu tree. Every menu path
// gets an entry carrying the roles granted that menu; paths absent from
// the tree stay absent from the map and therefore default-allow.
func Build(menus []MenuEntry) PathPermissionMap {
	m := make(PathPermissionMap)
	addEntries(m, menus)
	return m
}

func addEntries(m PathPermissionMap, menus []MenuEntry) {
	for _, menu := range menus {
		if menu.Path != "" {
			m[menu.Path] = Requirement{Roles: menu.Roles}
		}
		addEntries(m, menu.Children)
	}
}

// Allowed reports whether a user holding the given role names and
// permission codes may visit path. Paths without an entry are public.
// A requirement without roles admits any authenticated user; otherwise
// at least one overlap between granted and the required roles is needed.
func Allowed(path string, granted []string, m PathPermissionMap) bool {
	req, ok := m[path]
	if !ok {
		return true
	}
	if len(req.Roles) == 0 {
		return true
	}
	for _, required := range req.Roles {
		for _, g := range granted {
			if g == required {
				return true
			}
		}
	}
	return false
}

// Merge combines permission maps; later entries win on path conflicts
func Merge(maps ...PathPermissionMap) PathPermissionMap {
	out := make(PathPermissionMap)
	for _, m := range maps {
		for path, req := range m {
			out[path] = req
		}
	}
	return out
}
