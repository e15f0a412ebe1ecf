package service

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnandtry-be/internal/dto"
	"learnandtry-be/internal/pkg/logger"
	"learnandtry-be/pkg/catalog"
	"learnandtry-be/pkg/ranking"
)

const testCatalog = `[
  {
    "id": "reader",
    "name": "Screen Reader",
    "company": "Acme",
    "description": "reads the screen aloud",
    "vendorProductPageUrl": "https://example.com/reader",
    "functions": ["vision"],
    "supportedPlatforms": ["windows"],
    "installTypes": ["installed"],
    "purchaseOptions": ["free"]
  },
  {
    "id": "captions",
    "name": "Caption App",
    "company": "Acme",
    "description": "shows captions for audio",
    "vendorProductPageUrl": "https://example.com/captions",
    "functions": ["hearing"],
    "supportedPlatforms": ["android"],
    "installTypes": ["installed"],
    "purchaseOptions": ["free"]
  }
]`

type stubEmbedder struct {
	vectors map[string][]float64
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vec, ok := s.vectors[text]
	if !ok {
		return nil, errors.New("no vector for text")
	}
	return vec, nil
}

func newRankingServiceForTest(t *testing.T, catalogPath string, embedder *stubEmbedder) IRankingService {
	t.Helper()
	testLogger := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	store := catalog.NewStore(catalogPath)
	ranker := ranking.NewRanker(embedder, discardStdLogger())
	return NewRankingService(store, ranker, testLogger)
}

func discardStdLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))
	return path
}

func TestSortToolsMissingQuery(t *testing.T) {
	path := writeTestCatalog(t)
	svc := newRankingServiceForTest(t, path, &stubEmbedder{})

	res := svc.SortTools(context.Background(), &dto.SortToolsRequest{Query: "   "})
	assert.False(t, res.Success)
	assert.False(t, res.Sorted)
	assert.Equal(t, "No tools to sort or no query provided", res.Error)
	// tools still come back, in catalog order
	require.Len(t, res.Tools, 2)
	assert.Equal(t, "reader", res.Tools[0].Id)
}

func TestSortToolsCatalogLoadFailure(t *testing.T) {
	svc := newRankingServiceForTest(t, filepath.Join(t.TempDir(), "missing.json"), &stubEmbedder{})

	res := svc.SortTools(context.Background(), &dto.SortToolsRequest{Query: "reading help"})
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to load catalog", res.Error)
	assert.Empty(t, res.Tools)
}

func TestSortToolsSortedByRelevance(t *testing.T) {
	path := writeTestCatalog(t)
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"I cannot hear videos":                 {0, 1},
		"Screen Reader reads the screen aloud": {1, 0},
		"Caption App shows captions for audio": {0, 1},
	}}
	svc := newRankingServiceForTest(t, path, embedder)

	res := svc.SortTools(context.Background(), &dto.SortToolsRequest{Query: "I cannot hear videos"})
	require.True(t, res.Success)
	assert.True(t, res.Sorted)
	require.Len(t, res.Tools, 2)
	assert.Equal(t, "captions", res.Tools[0].Id)
	assert.Equal(t, "Caption App", res.Tools[0].ToolName)
	assert.Equal(t, "https://example.com/captions", res.Tools[0].WebsiteUrl)
}

func TestSortToolsRespectsFiltersAndVisibility(t *testing.T) {
	path := writeTestCatalog(t)
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"anything":                             {1, 0},
		"Screen Reader reads the screen aloud": {1, 0},
		"Caption App shows captions for audio": {1, 0},
	}}
	svc := newRankingServiceForTest(t, path, embedder)

	res := svc.SortTools(context.Background(), &dto.SortToolsRequest{
		Query:   "anything",
		Filters: catalog.AppliedFilters{Functions: []string{"hearing"}},
	})
	require.True(t, res.Success)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, "captions", res.Tools[0].Id)

	res = svc.SortTools(context.Background(), &dto.SortToolsRequest{
		Query:      "anything",
		VisibleIds: []string{"reader"},
	})
	require.True(t, res.Success)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, "reader", res.Tools[0].Id)
}
