package dto

import "learnandtry-be/pkg/catalog"

// SortToolsRequest asks for the visible slice of the catalog ordered by
// relevance to the query. VisibleTools (names) takes precedence over
// VisibleIds when both are present.
type SortToolsRequest struct {
	Query        string                 `json:"query" validate:"max=2000"`
	Filters      catalog.AppliedFilters `json:"filters"`
	VisibleTools []string               `json:"visible_tools"`
	VisibleIds   []string               `json:"visible_ids"`
}

// ToolRecord is the wire shape of one catalog item. Field names follow the
// webapp's tool panel, which mixes snake_case and camelCase.
type ToolRecord struct {
	Id                 string   `json:"id"`
	ToolName           string   `json:"tool_name"`
	Company            string   `json:"company"`
	Description        string   `json:"description"`
	WebsiteUrl         string   `json:"website_url"`
	Functions          []string `json:"functions"`
	SupportedPlatforms []string `json:"supportedPlatforms"`
	InstallTypes       []string `json:"installTypes"`
	PurchaseOptions    []string `json:"purchaseOptions"`
}

type SortToolsResponse struct {
	Tools   []ToolRecord `json:"tools"`
	Success bool         `json:"success"`
	Sorted  bool         `json:"sorted,omitempty"`
	Error   string       `json:"error,omitempty"`
}
