package ranking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"math"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"learnandtry-be/pkg/catalog"
	"learnandtry-be/pkg/embedding"
)

const overlapBonus = 0.12

// Result pairs a catalog item with its relevance score for one query.
type Result struct {
	Item  catalog.Item
	Score float64
}

// Ranker orders catalog items by semantic similarity to a query, with small
// bonuses for overlap with the user's selected platforms and functions.
// Item embeddings are cached by content hash, so repeated sorts over the same
// catalog only pay for the query embedding.
type Ranker struct {
	provider embedding.Provider
	cache    *gocache.Cache
	logger   *log.Logger
}

func NewRanker(provider embedding.Provider, logger *log.Logger) *Ranker {
	return &Ranker{
		provider: provider,
		cache:    gocache.New(time.Hour, 10*time.Minute),
		logger:   logger,
	}
}

// Rank scores items against the query and returns them in descending score
// order. Ties keep their input order. If the query itself cannot be embedded,
// all items come back unscored in their original order; if a single item
// fails, only that item scores 0.0.
func (r *Ranker) Rank(ctx context.Context, query string, items []catalog.Item, filters catalog.AppliedFilters) []Result {
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = Result{Item: item}
	}

	queryVec, err := r.provider.Embed(ctx, query)
	if err != nil {
		r.logger.Printf("[ERROR] Query embedding failed, returning unsorted: %v", err)
		return results
	}

	for i := range results {
		item := results[i].Item
		itemVec, err := r.embedItem(ctx, item)
		if err != nil {
			r.logger.Printf("[WARN] Embedding failed for item %s: %v", item.Id, err)
			continue
		}

		score := cosineSimilarity(queryVec, itemVec)
		score += overlapShare(filters.Platforms, item.SupportedPlatforms) * overlapBonus
		score += overlapShare(filters.Functions, item.Functions) * overlapBonus
		results[i].Score = score
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func (r *Ranker) embedItem(ctx context.Context, item catalog.Item) ([]float64, error) {
	text := item.Name + " " + item.Description
	key := embedKey(item.Id, text)
	if cached, found := r.cache.Get(key); found {
		return cached.([]float64), nil
	}

	vec, err := r.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, vec, gocache.DefaultExpiration)
	return vec, nil
}

// embedKey hashes the embedded text so catalog edits invalidate the entry.
func embedKey(id, text string) string {
	sum := sha256.Sum256([]byte(text))
	return id + ":" + hex.EncodeToString(sum[:8])
}

// overlapShare is the fraction of the selected tokens the item carries. An
// empty selection contributes nothing.
func overlapShare(selected, itemTokens []string) float64 {
	if len(selected) == 0 {
		return 0
	}
	have := make(map[string]bool, len(itemTokens))
	for _, t := range itemTokens {
		have[t] = true
	}
	matched := 0
	for _, s := range selected {
		if have[s] {
			matched++
		}
	}
	return float64(matched) / float64(len(selected))
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
