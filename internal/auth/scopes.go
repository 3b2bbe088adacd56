package auth

import "strings"

// Scope represents a granted capability.
type Scope string

const (
	// ScopeNormalize allows submitting snapshots for normalization.
	ScopeNormalize Scope = "normalize"
	// ScopeMappingsRead allows reading the canonical mapping table.
	ScopeMappingsRead Scope = "mappings:read"
)

// ParseScopes splits a space-separated scope claim into known scopes.
func ParseScopes(value string) []Scope {
	var scopes []Scope
	for _, part := range strings.Fields(value) {
		switch Scope(part) {
		case ScopeNormalize, ScopeMappingsRead:
			scopes = append(scopes, Scope(part))
		}
	}
	return scopes
}

// HasScope reports whether the granted set includes the required scope.
// Normalize implies mappings:read; a caller trusted to submit snapshots may
// read the table it is normalized against.
func HasScope(granted []Scope, required Scope) bool {
	for _, s := range granted {
		if s == required {
			return true
		}
		if s == ScopeNormalize && required == ScopeMappingsRead {
			return true
		}
	}
	return false
}
