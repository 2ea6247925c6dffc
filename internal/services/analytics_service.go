package services

import (
	"context"
	"fmt"
	"time"

	"roomledger/internal/cache"
	"roomledger/internal/core"
	"roomledger/internal/docstore"
)

const analyticsCachePrefix = "monthly:"

// AnalyticsService computes monthly spending reports. Reports are
// cached and the whole cache is dropped whenever the expense
// collection changes.
type AnalyticsService struct {
	store   docstore.Store
	reports *cache.LRUCache[core.MonthlyReport]
}

func NewAnalyticsService(store docstore.Store, hub *docstore.Hub) *AnalyticsService {
	s := &AnalyticsService{
		store:   store,
		reports: cache.NewLRUCache[core.MonthlyReport](24, 5*time.Minute),
	}
	hub.Subscribe(docstore.CollectionExpenses, func() {
		s.reports.InvalidatePrefix(analyticsCachePrefix)
	})
	return s
}

// MonthlyReport returns the report for one calendar month (1-12).
func (s *AnalyticsService) MonthlyReport(ctx context.Context, year int, month time.Month) (core.MonthlyReport, error) {
	if month < time.January || month > time.December {
		return core.MonthlyReport{}, core.ErrInvalidDate
	}

	key := fmt.Sprintf("%s%d-%d", analyticsCachePrefix, year, month)
	if report, ok := s.reports.Get(key); ok {
		return report, nil
	}

	docs, err := s.store.List(ctx, docstore.CollectionExpenses, docstore.Descending)
	if err != nil {
		return core.MonthlyReport{}, fmt.Errorf("list expenses: %w", err)
	}
	expenses, err := decodeAll[core.Expense](docs, func(e *core.Expense, id string) { e.ID = id })
	if err != nil {
		return core.MonthlyReport{}, err
	}

	report := core.BuildMonthlyReport(expenses, year, month)
	s.reports.Set(key, report)
	return report, nil
}

// CacheSize reports the number of cached reports.
func (s *AnalyticsService) CacheSize() int {
	return s.reports.Size()
}

// RegisterCaches adds the report cache to a cleanup manager.
func (s *AnalyticsService) RegisterCaches(m *cache.Manager) {
	m.Register(s.reports)
}
