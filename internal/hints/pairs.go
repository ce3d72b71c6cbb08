package hints

import "strings"

type namePair struct {
	first, second string
}

// conventionalPairs are parameter name pairs whose argument order is
// conventional enough that labels add nothing. Order matters.
var conventionalPairs = [...]namePair{
	{"begin", "end"},
	{"start", "end"},
	{"first", "last"},
	{"first", "second"},
	{"from", "to"},
	{"key", "value"},
	{"min", "max"},
}

// SuppressAll reports whether a call with argCount arguments to a target
// with the given parameters should get no hints because its two
// parameters form a conventional pair. Matching is case-insensitive
// substring containment, so "endurance" counts as "end".
func SuppressAll(argCount int, params []Parameter) bool {
	if argCount != 2 || len(params) != 2 {
		return false
	}
	return isConventionalPair(params[0].Name, params[1].Name)
}

func isConventionalPair(first, second string) bool {
	if first == "" || second == "" {
		return false
	}
	first, second = strings.ToLower(first), strings.ToLower(second)
	for _, pair := range conventionalPairs {
		if strings.Contains(first, pair.first) && strings.Contains(second, pair.second) {
			return true
		}
	}
	return false
}
