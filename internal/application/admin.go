package application

import "strings"

// AdminAuthorizer decides whether an identifier may read admin reports.
type AdminAuthorizer interface {
	IsAdmin(identifier string) bool
}

// AllowList is an exact-match set of admin identifiers.
type AllowList map[string]struct{}

func NewAllowList(ids []string) AllowList {
	al := make(AllowList, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			al[id] = struct{}{}
		}
	}
	return al
}

func (a AllowList) IsAdmin(identifier string) bool {
	if identifier == "" {
		return false
	}
	_, ok := a[identifier]
	return ok
}
