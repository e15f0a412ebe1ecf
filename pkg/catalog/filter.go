package catalog

import "strings"

// Filter narrows items to the visible subset (names take precedence over ids,
// both case-insensitive), then applies each non-empty filter dimension as an
// OR-within, AND-across predicate. An item with no tokens for a dimension
// never matches a non-empty selection on that dimension.
func Filter(items []Item, filters AppliedFilters, visibleNames, visibleIds []string) []Item {
	if len(visibleNames) > 0 {
		nameSet := lowerSet(visibleNames)
		var visible []Item
		for _, item := range items {
			if nameSet[strings.ToLower(item.Name)] {
				visible = append(visible, item)
			}
		}
		items = visible
	} else if len(visibleIds) > 0 {
		idSet := lowerSet(visibleIds)
		var visible []Item
		for _, item := range items {
			if idSet[strings.ToLower(item.Id)] {
				visible = append(visible, item)
			}
		}
		items = visible
	}

	if len(filters.Functions) == 0 && len(filters.Platforms) == 0 &&
		len(filters.InstallTypes) == 0 && len(filters.PurchaseOptions) == 0 {
		return items
	}

	var filtered []Item
	for _, item := range items {
		if !matchesDimension(item.Functions, filters.Functions) {
			continue
		}
		if !matchesDimension(item.SupportedPlatforms, filters.Platforms) {
			continue
		}
		if !matchesDimension(item.InstallTypes, filters.InstallTypes) {
			continue
		}
		if !matchesDimension(item.PurchaseOptions, filters.PurchaseOptions) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// matchesDimension reports whether the item tokens share at least one value
// with the selection. An empty selection imposes no constraint.
func matchesDimension(itemTokens, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		for _, have := range itemTokens {
			if have == want {
				return true
			}
		}
	}
	return false
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed != "" {
			set[trimmed] = true
		}
	}
	return set
}
