package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/service/report"
)

type fakeReportRepo struct {
	revenueCalls  int
	lowStockCalls int
}

func (f *fakeReportRepo) Revenue(ctx context.Context, from, to time.Time) (*model.RevenueReport, error) {
	f.revenueCalls++
	return &model.RevenueReport{TotalBilled: 4500}, nil
}

func (f *fakeReportRepo) AppointmentVolume(ctx context.Context, from, to time.Time) ([]*model.AppointmentVolumeRow, error) {
	return nil, nil
}

func (f *fakeReportRepo) DoctorLoad(ctx context.Context, from, to time.Time) ([]*model.DoctorLoadRow, error) {
	return nil, nil
}

func (f *fakeReportRepo) LowStock(ctx context.Context) ([]*model.LowStockRow, error) {
	f.lowStockCalls++
	return []*model.LowStockRow{{Name: "Gauze"}}, nil
}

func TestRevenueIsCachedPerRange(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := report.NewService(repo)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	first, err := svc.Revenue(context.Background(), from, to)
	require.NoError(t, err)
	second, err := svc.Revenue(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.revenueCalls)

	// A different range misses the cache.
	_, err = svc.Revenue(context.Background(), from.AddDate(0, -1, 0), to)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.revenueCalls)
}

func TestLowStockIsNotCached(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := report.NewService(repo)

	for i := 0; i < 3; i++ {
		rows, err := svc.LowStock(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
	}
	assert.Equal(t, 3, repo.lowStockCalls)
}
