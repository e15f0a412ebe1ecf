package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Canonical filter token vocabularies. Filter values outside these lists are
// never stored in conversation state or matched against the catalog.
var (
	KnownFunctions = []string{"reading", "cognitive", "vision", "physical", "hearing", "speech"}
	KnownPlatforms = []string{"windows", "macos", "chromeos", "ipados", "ios", "android"}
)

// Item is a single read-only catalog record. Identity is Id; name+company is
// only used by validation tooling and is not trusted as a key.
type Item struct {
	Id                   string   `json:"id"`
	Name                 string   `json:"name"`
	Company              string   `json:"company"`
	Description          string   `json:"description"`
	VendorProductPageUrl string   `json:"vendorProductPageUrl"`
	Functions            []string `json:"functions"`
	SupportedPlatforms   []string `json:"supportedPlatforms"`
	InstallTypes         []string `json:"installTypes"`
	PurchaseOptions      []string `json:"purchaseOptions"`
}

// AppliedFilters holds the four filter dimensions accumulated during a
// conversation. Each dimension is OR-matched within and AND-combined across.
type AppliedFilters struct {
	Platforms       []string `json:"platforms"`
	Functions       []string `json:"functions"`
	InstallTypes    []string `json:"installTypes"`
	PurchaseOptions []string `json:"purchaseOptions"`
}

// Store reads the tool catalog from a JSON file. The file is re-read on every
// call; there is intentionally no caching layer between requests.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() ([]Item, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return items, nil
}

// CountMatching returns the number of catalog items surviving the filters.
// Errors degrade to a zero count; the caller only uses this for messaging.
func (s *Store) CountMatching(filters AppliedFilters) int {
	items, err := s.Load()
	if err != nil {
		return 0
	}
	return len(Filter(items, filters, nil, nil))
}

// NormalizeTokens returns the values that appear in the allowed vocabulary,
// preserving the vocabulary's order. Used to sanitize model output before it
// reaches conversation state.
func NormalizeTokens(values []string, allowed []string) []string {
	present := make(map[string]bool, len(values))
	for _, v := range values {
		present[v] = true
	}

	var out []string
	for _, token := range allowed {
		if present[token] {
			out = append(out, token)
		}
	}
	return out
}
