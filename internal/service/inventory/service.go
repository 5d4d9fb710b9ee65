package inventory

import (
	"context"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/internal/service/audit"
)

// Service covers the inventory catalog. Stock movement goes through the
// stock workflows.
type Service struct {
	repo    repository.InventoryRepository
	auditor audit.Recorder
}

func NewService(repo repository.InventoryRepository, auditor audit.Recorder) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, req *model.CreateInventoryItemRequest) (*model.InventoryItem, error) {
	item := &model.InventoryItem{
		Name:             req.Name,
		Category:         req.Category,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
		ReorderThreshold: req.ReorderThreshold,
		UnitPrice:        req.UnitPrice,
		SupplierInfo:     req.SupplierInfo,
		ExpiryDate:       req.ExpiryDate,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "create", "inventory", item.ID, item.Name)
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.InventoryItem, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.InventoryFilters) ([]*model.InventoryItem, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateInventoryItemRequest) (*model.InventoryItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.ReorderThreshold != nil {
		item.ReorderThreshold = *req.ReorderThreshold
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.SupplierInfo != nil {
		item.SupplierInfo = *req.SupplierInfo
	}
	if req.ExpiryDate != nil {
		item.ExpiryDate = req.ExpiryDate
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.auditor.Record(ctx, "update", "inventory", item.ID, item.Name)
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditor.Record(ctx, "delete", "inventory", id, "")
	return nil
}
