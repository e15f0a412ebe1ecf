package service

import (
	"context"
	"strings"

	"learnandtry-be/internal/dto"
	"learnandtry-be/internal/pkg/logger"
	"learnandtry-be/pkg/catalog"
	"learnandtry-be/pkg/ranking"
)

type IRankingService interface {
	SortTools(ctx context.Context, req *dto.SortToolsRequest) *dto.SortToolsResponse
}

type rankingService struct {
	store  *catalog.Store
	ranker *ranking.Ranker
	logger logger.ILogger
}

func NewRankingService(
	store *catalog.Store,
	ranker *ranking.Ranker,
	logger logger.ILogger,
) IRankingService {
	return &rankingService{
		store:  store,
		ranker: ranker,
		logger: logger,
	}
}

// SortTools loads the catalog fresh, restricts it to the caller's visible set
// and filters, then orders it by relevance to the query. A missing query or
// an empty visible set comes back unsorted with success=false, not as an
// HTTP error.
func (s *rankingService) SortTools(ctx context.Context, req *dto.SortToolsRequest) *dto.SortToolsResponse {
	items, err := s.store.Load()
	if err != nil {
		s.logger.Error("RANKING", "Failed to load catalog", map[string]interface{}{
			"error": err.Error(),
		})
		return &dto.SortToolsResponse{
			Tools:   []dto.ToolRecord{},
			Success: false,
			Error:   "Failed to load catalog",
		}
	}

	filtered := catalog.Filter(items, req.Filters, req.VisibleTools, req.VisibleIds)

	if strings.TrimSpace(req.Query) == "" || len(filtered) == 0 {
		return &dto.SortToolsResponse{
			Tools:   toRecords(filtered),
			Success: false,
			Error:   "No tools to sort or no query provided",
		}
	}

	results := s.ranker.Rank(ctx, req.Query, filtered, req.Filters)

	records := make([]dto.ToolRecord, len(results))
	for i, res := range results {
		records[i] = toRecord(res.Item)
	}

	s.logger.Info("RANKING", "Tools sorted", map[string]interface{}{
		"query_length": len(req.Query),
		"tool_count":   len(records),
	})

	return &dto.SortToolsResponse{
		Tools:   records,
		Success: true,
		Sorted:  true,
	}
}

func toRecords(items []catalog.Item) []dto.ToolRecord {
	records := make([]dto.ToolRecord, len(items))
	for i, item := range items {
		records[i] = toRecord(item)
	}
	return records
}

func toRecord(item catalog.Item) dto.ToolRecord {
	return dto.ToolRecord{
		Id:                 item.Id,
		ToolName:           item.Name,
		Company:            item.Company,
		Description:        item.Description,
		WebsiteUrl:         item.VendorProductPageUrl,
		Functions:          item.Functions,
		SupportedPlatforms: item.SupportedPlatforms,
		InstallTypes:       item.InstallTypes,
		PurchaseOptions:    item.PurchaseOptions,
	}
}
