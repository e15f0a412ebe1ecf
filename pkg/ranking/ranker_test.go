package ranking

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnandtry-be/pkg/catalog"
)

type fakeEmbedder struct {
	vectors map[string][]float64
	failOn  map[string]bool
	failAll bool
	calls   map[string]int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vectors: map[string][]float64{},
		failOn:  map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls[text]++
	if f.failAll || f.failOn[text] {
		return nil, errors.New("embedding unavailable")
	}
	vec, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("no vector registered")
	}
	return vec, nil
}

func itemText(item catalog.Item) string {
	return item.Name + " " + item.Description
}

func newTestRanker(embedder *fakeEmbedder) *Ranker {
	return NewRanker(embedder, log.New(io.Discard, "", 0))
}

func TestRankOrdersBySimilarity(t *testing.T) {
	near := catalog.Item{Id: "near", Name: "Near", Description: "close match"}
	far := catalog.Item{Id: "far", Name: "Far", Description: "unrelated"}

	embedder := newFakeEmbedder()
	embedder.vectors["query"] = []float64{1, 0}
	embedder.vectors[itemText(near)] = []float64{1, 0}
	embedder.vectors[itemText(far)] = []float64{0, 1}

	results := newTestRanker(embedder).Rank(context.Background(), "query", []catalog.Item{far, near}, catalog.AppliedFilters{})
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Item.Id)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.InDelta(t, 0.0, results[1].Score, 1e-9)
}

func TestRankDeterministic(t *testing.T) {
	a := catalog.Item{Id: "a", Name: "A", Description: "x"}
	b := catalog.Item{Id: "b", Name: "B", Description: "y"}

	embedder := newFakeEmbedder()
	embedder.vectors["q"] = []float64{1, 1}
	embedder.vectors[itemText(a)] = []float64{1, 0}
	embedder.vectors[itemText(b)] = []float64{0.9, 0.1}

	ranker := newTestRanker(embedder)
	first := ranker.Rank(context.Background(), "q", []catalog.Item{a, b}, catalog.AppliedFilters{})
	second := ranker.Rank(context.Background(), "q", []catalog.Item{a, b}, catalog.AppliedFilters{})
	require.Len(t, first, 2)
	assert.Equal(t, first[0].Item.Id, second[0].Item.Id)
	assert.Equal(t, first[1].Item.Id, second[1].Item.Id)
}

// Equal scores keep catalog order.
func TestRankTieKeepsInputOrder(t *testing.T) {
	a := catalog.Item{Id: "a", Name: "Same", Description: "text"}
	b := catalog.Item{Id: "b", Name: "Same", Description: "text"}

	embedder := newFakeEmbedder()
	embedder.vectors["q"] = []float64{1, 0}
	embedder.vectors[itemText(a)] = []float64{1, 0}

	results := newTestRanker(embedder).Rank(context.Background(), "q", []catalog.Item{a, b}, catalog.AppliedFilters{})
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Item.Id)
	assert.Equal(t, "b", results[1].Item.Id)
}

func TestRankOverlapBonus(t *testing.T) {
	matching := catalog.Item{
		Id: "m", Name: "Match", Description: "same",
		SupportedPlatforms: []string{"ios", "android"},
		Functions:          []string{"vision"},
	}
	plain := catalog.Item{Id: "p", Name: "Match", Description: "same"}

	embedder := newFakeEmbedder()
	embedder.vectors["q"] = []float64{1, 0}
	embedder.vectors[itemText(matching)] = []float64{1, 0}

	filters := catalog.AppliedFilters{
		Platforms: []string{"ios", "android"},
		Functions: []string{"vision"},
	}
	results := newTestRanker(embedder).Rank(context.Background(), "q", []catalog.Item{plain, matching}, filters)
	require.Len(t, results, 2)

	// full platform overlap and full function overlap each add 0.12
	assert.Equal(t, "m", results[0].Item.Id)
	assert.InDelta(t, 1.0+0.12+0.12, results[0].Score, 1e-9)
	assert.InDelta(t, 1.0, results[1].Score, 1e-9)
}

func TestRankPartialOverlapBonus(t *testing.T) {
	item := catalog.Item{
		Id: "half", Name: "Half", Description: "match",
		SupportedPlatforms: []string{"ios"},
	}

	embedder := newFakeEmbedder()
	embedder.vectors["q"] = []float64{1, 0}
	embedder.vectors[itemText(item)] = []float64{1, 0}

	filters := catalog.AppliedFilters{Platforms: []string{"ios", "windows"}}
	results := newTestRanker(embedder).Rank(context.Background(), "q", []catalog.Item{item}, filters)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0+0.06, results[0].Score, 1e-9)
}

func TestRankItemEmbedFailureScoresZero(t *testing.T) {
	good := catalog.Item{Id: "good", Name: "Good", Description: "ok"}
	broken := catalog.Item{Id: "broken", Name: "Broken", Description: "boom"}

	embedder := newFakeEmbedder()
	embedder.vectors["q"] = []float64{1, 0}
	embedder.vectors[itemText(good)] = []float64{1, 0}
	embedder.failOn[itemText(broken)] = true

	results := newTestRanker(embedder).Rank(context.Background(), "q", []catalog.Item{broken, good}, catalog.AppliedFilters{})
	require.Len(t, results, 2)
	assert.Equal(t, "good", results[0].Item.Id)
	assert.Equal(t, "broken", results[1].Item.Id)
	assert.Zero(t, results[1].Score)
}

func TestRankQueryEmbedFailureKeepsOrder(t *testing.T) {
	a := catalog.Item{Id: "a", Name: "A", Description: "x"}
	b := catalog.Item{Id: "b", Name: "B", Description: "y"}

	embedder := newFakeEmbedder()
	embedder.failAll = true

	results := newTestRanker(embedder).Rank(context.Background(), "q", []catalog.Item{a, b}, catalog.AppliedFilters{})
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Item.Id)
	assert.Equal(t, "b", results[1].Item.Id)
	assert.Zero(t, results[0].Score)
	assert.Zero(t, results[1].Score)
}

func TestRankCachesItemEmbeddings(t *testing.T) {
	item := catalog.Item{Id: "cached", Name: "Cached", Description: "text"}

	embedder := newFakeEmbedder()
	embedder.vectors["q"] = []float64{1, 0}
	embedder.vectors[itemText(item)] = []float64{1, 0}

	ranker := newTestRanker(embedder)
	ranker.Rank(context.Background(), "q", []catalog.Item{item}, catalog.AppliedFilters{})
	ranker.Rank(context.Background(), "q", []catalog.Item{item}, catalog.AppliedFilters{})

	assert.Equal(t, 1, embedder.calls[itemText(item)], "item should be embedded once")
	assert.Equal(t, 2, embedder.calls["q"], "query is embedded per request")
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	assert.Zero(t, cosineSimilarity([]float64{0, 0}, []float64{1, 2}))
	assert.Zero(t, cosineSimilarity(nil, nil))
}
