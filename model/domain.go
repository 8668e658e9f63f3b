package model

import "regexp"

var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`)

// IsValidDomain reports whether s is a syntactically valid DNS domain
// name, the form the miner's DOMAIN environment variable must take.
func IsValidDomain(s string) bool {
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	return domainPattern.MatchString(s)
}
