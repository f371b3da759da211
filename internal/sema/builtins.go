package sema

import "strings"

// mutatingMethods take `&mut self` on std receivers.
var mutatingMethods = map[string]struct{}{
	"push": {}, "push_str": {}, "pop": {}, "clear": {}, "insert": {},
	"remove": {}, "truncate": {}, "extend": {}, "sort": {}, "drain": {},
	"retain": {}, "append": {}, "reverse": {}, "dedup": {},
}

// consumingMethod reports whether a std method takes `self` by value.
func consumingMethod(name string) bool {
	switch name {
	case "into", "unwrap", "expect", "unwrap_or", "unwrap_or_default", "unwrap_or_else":
		return true
	}
	return strings.HasPrefix(name, "into_")
}
