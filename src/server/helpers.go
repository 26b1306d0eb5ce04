package server

import "strings"

// -----------------------------------------------------------------------------

// symbolSet builds a subscription filter. An empty list subscribes to all.
func symbolSet(symbols []string) map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// -----------------------------------------------------------------------------

func matches(filter map[string]struct{}, symbol string) bool {
	if filter == nil {
		return true
	}
	_, ok := filter[symbol]
	return ok
}
