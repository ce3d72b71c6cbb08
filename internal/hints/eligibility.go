package hints

import (
	"unicode"
	"unicode/utf8"
)

// commonMethods are names whose single argument's role is obvious from the
// method name itself.
var commonMethods = [...]string{
	"get", "set", "contains", "append",
	"print", "println",
	"charAt", "startsWith", "indexOf",
}

// IsEligible reports whether calls to target may receive hints at all
func IsEligible(target *Target) bool {
	if target == nil {
		return false
	}
	return !IsSetter(target) && !IsCommonName(target.Name)
}

// IsSetter reports whether target looks like a one-argument setX method
func IsSetter(target *Target) bool {
	name := target.Name
	if len(target.Parameters) != 1 || len(name) <= 3 || name[:3] != "set" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[3:])
	return unicode.IsUpper(r)
}

// IsCommonName reports whether name is one of the well-known method names
func IsCommonName(name string) bool {
	for _, common := range commonMethods {
		if name == common {
			return true
		}
	}
	return false
}
