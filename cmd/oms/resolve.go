package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
)

// resolveChoice maps typed input onto one of choices: an exact case-insensitive match wins,
// then a unique prefix, then the closest fuzzy match. Ties are reported as ambiguous.
func resolveChoice(input string, choices []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty value")
	}
	for _, c := range choices {
		if strings.EqualFold(c, input) {
			return c, nil
		}
	}
	var prefixed []string
	for _, c := range choices {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(input)) {
			prefixed = append(prefixed, c)
		}
	}
	switch len(prefixed) {
	case 0:
	case 1:
		return prefixed[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous: %s", input, strings.Join(prefixed, ", "))
	}
	ranks := fuzzy.RankFindNormalizedFold(input, choices)
	if len(ranks) == 0 {
		return "", fmt.Errorf("%q matches none of: %s", input, strings.Join(choices, ", "))
	}
	sort.Sort(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		candidates := make([]string, 0, len(ranks))
		for _, r := range ranks {
			if r.Distance != ranks[0].Distance {
				break
			}
			candidates = append(candidates, r.Target)
		}
		return "", fmt.Errorf("%q is ambiguous: %s", input, strings.Join(candidates, ", "))
	}
	return ranks[0].Target, nil
}

// resolveFilter resolves value against the options of the filter key. Filters without options
// accept any value.
func resolveFilter(def listing.Definition, key, value string) (string, error) {
	fd, ok := def.FilterDefinition(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", listing.ErrUnknownFilter, key)
	}
	if len(fd.Options) == 0 {
		return strings.TrimSpace(value), nil
	}
	resolved, err := resolveChoice(value, fd.Options)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return resolved, nil
}

func resolveSortField(def listing.Definition, field string) (string, error) {
	resolved, err := resolveChoice(field, def.SortFields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", listing.ErrUnknownSortField, err)
	}
	return resolved, nil
}
