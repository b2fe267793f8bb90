package service

import (
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
)

// SiteStats is shown on the public site.
type SiteStats struct {
	TotalViews    int64 `json:"total_views"`
	TodayViews    int64 `json:"today_views"`
	ArtworksCount int64 `json:"artworks"`
	ArtistsCount  int64 `json:"artists"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	Artists          int64 `json:"artists"`
	Artworks         int64 `json:"artworks"`
	ArtworksSold     int64 `json:"artworks_sold"`
	Orders           int64 `json:"orders"`
	NewOrders        int64 `json:"new_orders"`
	ProcessingOrders int64 `json:"processing_orders"`
	Messages         int64 `json:"messages"`
	UnreadMessages   int64 `json:"unread_messages"`
	PendingApps      int64 `json:"pending_applications"`
	TotalViews       int64 `json:"total_views"`
	TodayViews       int64 `json:"today_views"`
}

type StatsService interface {
	RecordView() error
	SiteStats() (*SiteStats, error)
	Dashboard() (*Dashboard, error)
}

type statsService struct {
	pageViewRepo    repository.PageViewRepository
	artistRepo      repository.ArtistRepository
	artworkRepo     repository.ArtworkRepository
	orderRepo       repository.OrderRepository
	messageRepo     repository.MessageRepository
	applicationRepo repository.ApplicationRepository
	now             func() time.Time
}

func NewStatsService(
	pageViewRepo repository.PageViewRepository,
	artistRepo repository.ArtistRepository,
	artworkRepo repository.ArtworkRepository,
	orderRepo repository.OrderRepository,
	messageRepo repository.MessageRepository,
	applicationRepo repository.ApplicationRepository,
) StatsService {
	return &statsService{
		pageViewRepo:    pageViewRepo,
		artistRepo:      artistRepo,
		artworkRepo:     artworkRepo,
		orderRepo:       orderRepo,
		messageRepo:     messageRepo,
		applicationRepo: applicationRepo,
		now:             time.Now,
	}
}

// RecordView adds one view to today's counter.
func (s *statsService) RecordView() error {
	return s.pageViewRepo.Increment(s.now())
}

func (s *statsService) views() (total, today int64, err error) {
	if total, err = s.pageViewRepo.Total(); err != nil {
		return 0, 0, err
	}
	if today, err = s.pageViewRepo.CountFor(s.now()); err != nil {
		return 0, 0, err
	}
	return total, today, nil
}

func (s *statsService) SiteStats() (*SiteStats, error) {
	stats := &SiteStats{}
	var err error
	if stats.TotalViews, stats.TodayViews, err = s.views(); err != nil {
		return nil, err
	}
	if stats.ArtworksCount, err = s.artworkRepo.CountPublic(); err != nil {
		return nil, err
	}
	if stats.ArtistsCount, err = s.artistRepo.CountByStatus(model.ArtistStatusActive); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *statsService) Dashboard() (*Dashboard, error) {
	d := &Dashboard{}
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&d.Artists, func() (int64, error) { return s.artistRepo.CountByStatus(model.ArtistStatusActive) }},
		{&d.Artworks, func() (int64, error) {
			return s.artworkRepo.CountByStatus(
				model.ArtworkStatusListed, model.ArtworkStatusOrdered,
				model.ArtworkStatusSold, model.ArtworkStatusDelivered,
			)
		}},
		{&d.ArtworksSold, func() (int64, error) {
			return s.artworkRepo.CountByStatus(model.ArtworkStatusSold, model.ArtworkStatusDelivered)
		}},
		{&d.Orders, func() (int64, error) { return s.orderRepo.CountByStatus() }},
		{&d.NewOrders, func() (int64, error) { return s.orderRepo.CountByStatus(model.OrderStatusPlaced) }},
		{&d.ProcessingOrders, func() (int64, error) {
			return s.orderRepo.CountByStatus(model.OrderStatusSeen, model.OrderStatusContacted, model.OrderStatusSold)
		}},
		{&d.Messages, func() (int64, error) { return s.messageRepo.CountByStatus() }},
		{&d.UnreadMessages, func() (int64, error) { return s.messageRepo.CountByStatus(model.MessageStatusUnread) }},
		{&d.PendingApps, func() (int64, error) { return s.applicationRepo.CountByStatus(model.ApplicationStatusPending) }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	var err error
	if d.TotalViews, d.TodayViews, err = s.views(); err != nil {
		return nil, err
	}
	return d, nil
}
