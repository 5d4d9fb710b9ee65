package report

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
)

const cacheTTL = 5 * time.Minute

// Service serves aggregate reports, cached briefly since they run
// multi-table scans.
type Service struct {
	repo  repository.ReportRepository
	cache *cache.Cache
}

func NewService(repo repository.ReportRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, 10*time.Minute),
	}
}

func rangeKey(name string, from, to time.Time) string {
	return fmt.Sprintf("%s:%s:%s", name, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (s *Service) Revenue(ctx context.Context, from, to time.Time) (*model.RevenueReport, error) {
	key := rangeKey("revenue", from, to)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.RevenueReport), nil
	}

	report, err := s.repo.Revenue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, report, cache.DefaultExpiration)
	return report, nil
}

func (s *Service) AppointmentVolume(ctx context.Context, from, to time.Time) ([]*model.AppointmentVolumeRow, error) {
	key := rangeKey("volume", from, to)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.AppointmentVolumeRow), nil
	}

	rows, err := s.repo.AppointmentVolume(ctx, from, to)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, rows, cache.DefaultExpiration)
	return rows, nil
}

func (s *Service) DoctorLoad(ctx context.Context, from, to time.Time) ([]*model.DoctorLoadRow, error) {
	key := rangeKey("doctor_load", from, to)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.DoctorLoadRow), nil
	}

	rows, err := s.repo.DoctorLoad(ctx, from, to)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, rows, cache.DefaultExpiration)
	return rows, nil
}

// LowStock is not cached: callers use it to act on current quantities.
func (s *Service) LowStock(ctx context.Context) ([]*model.LowStockRow, error) {
	return s.repo.LowStock(ctx)
}
