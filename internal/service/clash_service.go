package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/termgrid/timetable-api/internal/dto"
	"github.com/termgrid/timetable-api/internal/timetable"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
)

type clashCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool)
}

// ClashServiceConfig tunes caching behaviour.
type ClashServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ClashService turns grid snapshots into clash groups and render hints.
// Detection itself is pure; the service adds snapshot assembly, duplicate
// merging and response caching.
type ClashService struct {
	cache   clashCache
	metrics cacheMetrics
	logger  *zap.Logger
	cfg     ClashServiceConfig
}

// NewClashService constructs a ClashService.
func NewClashService(cache clashCache, metrics cacheMetrics, cfg ClashServiceConfig, logger *zap.Logger) *ClashService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ClashService{cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Compute runs clash detection over the request snapshot. Identical
// snapshots hit the cache; the computation is deterministic, so cached
// responses are exact.
func (s *ClashService) Compute(ctx context.Context, req dto.ComputeClashesRequest) (*dto.ComputeClashesResponse, error) {
	key, err := s.cacheKey(req)
	if err != nil {
		return nil, appErrors.Wrap(err, "CLASH_SNAPSHOT_INVALID", http.StatusBadRequest, "snapshot could not be encoded")
	}

	if s.cfg.CacheEnabled && s.cache != nil {
		var cached dto.ComputeClashesResponse
		cacheErr := s.cache.Get(ctx, key, &cached)
		if cacheErr == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return &cached, nil
		}
		if !errors.Is(cacheErr, appErrors.ErrCacheMiss) {
			s.logger.Warn("clash cache read failed", zap.Error(cacheErr))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
	}

	items := s.assembleItems(req)
	result := timetable.ComputeClashes(items)
	response := buildClashResponse(items, result)

	if s.cfg.CacheEnabled && s.cache != nil {
		if cacheErr := s.cache.Set(ctx, key, response, s.cfg.CacheTTL); cacheErr != nil {
			s.logger.Warn("clash cache write failed", zap.Error(cacheErr))
		}
	}

	return response, nil
}

// assembleItems maps the wire snapshot onto scheduled items, merging
// duplicate periods of the same class into one card with combined
// locations.
func (s *ClashService) assembleItems(req dto.ComputeClashesRequest) []timetable.ScheduledItem {
	items := make([]timetable.ScheduledItem, 0, len(req.Classes)+len(req.Events))
	merged := make(map[string]int)

	for _, period := range req.Classes {
		item := timetable.ScheduledItem{
			Kind:       timetable.KindClass,
			ID:         period.ClassID,
			CourseCode: period.CourseCode,
			Activity:   period.Activity,
			Interval: timetable.TimeInterval{
				Day:   period.Day,
				Start: period.Start,
				End:   period.End,
				Weeks: period.Weeks,
			},
			Locations: period.Locations,
		}
		mergeKey := fmt.Sprintf("%s|%s|%d|%v|%v", period.CourseCode, period.Activity, period.Day, period.Start, period.End)
		if idx, ok := merged[mergeKey]; ok {
			items[idx].Locations = append(items[idx].Locations, period.Locations...)
			continue
		}
		merged[mergeKey] = len(items)
		items = append(items, item)
	}

	for _, event := range req.Events {
		items = append(items, timetable.ScheduledItem{
			Kind: timetable.KindEvent,
			ID:   event.EventID,
			Interval: timetable.TimeInterval{
				Day:   event.Day,
				Start: event.Start,
				End:   event.End,
			},
		})
	}

	return items
}

func buildClashResponse(items []timetable.ScheduledItem, result timetable.ClashResult) *dto.ComputeClashesResponse {
	response := &dto.ComputeClashesResponse{
		Groups: []dto.ClashGroupResponse{},
		Hints:  []dto.PeriodHintResponse{},
	}

	days := make([]int, 0, len(result.Groups))
	for day := range result.Groups {
		days = append(days, day)
	}
	sort.Ints(days)
	for _, day := range days {
		for _, group := range result.Groups[day] {
			ids := make([]string, 0, len(group.Items))
			for _, member := range group.Items {
				ids = append(ids, member.ID)
			}
			response.Groups = append(response.Groups, dto.ClashGroupResponse{Day: day, ItemIDs: ids})
		}
	}

	warned := make(map[string]bool)
	for _, warning := range result.Warnings {
		warned[warning.ItemID] = true
		response.Warnings = append(response.Warnings, dto.IntegrityWarningResponse{
			ItemID: warning.ItemID,
			Reason: warning.Reason,
		})
	}

	for _, item := range items {
		if warned[item.ID] {
			continue
		}
		hint := result.HintFor(item)
		interval := item.Interval.Normalized()
		response.Hints = append(response.Hints, dto.PeriodHintResponse{
			ID:           item.ID,
			Day:          interval.Day,
			Start:        interval.Start,
			WidthPercent: hint.WidthPercent,
			SlotIndex:    hint.SlotIndex,
			Border:       string(hint.Border),
		})
	}

	return response
}

// cacheKey hashes the canonical JSON encoding of the snapshot. Field order
// in Go structs is fixed, so equal snapshots always produce equal keys.
func (s *ClashService) cacheKey(req dto.ComputeClashesRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return "clash:snapshot:" + hex.EncodeToString(sum[:]), nil
}
