package repositories

import (
	"context"
	"errors"

	"github.com/northlane/billingctl/features/plans/data/models"
	"github.com/northlane/billingctl/features/plans/domain/entities"
	"github.com/northlane/billingctl/features/plans/domain/repositories"
	"github.com/northlane/billingctl/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type planRepositoryImpl struct {
	generic *repository.Generic[models.PlanModel]
}

// NewPlanRepository creates a PlanRepository backed by the generic GORM repository.
func NewPlanRepository(db *gorm.DB) repositories.PlanRepository {
	return &planRepositoryImpl{generic: repository.New[models.PlanModel](db)}
}

func (r *planRepositoryImpl) Create(ctx context.Context, plan *entities.Plan) error {
	model := &models.PlanModel{}
	model.FromEntity(plan)
	if err := r.generic.Create(ctx, model); err != nil {
		return err
	}
	*plan = *model.ToEntity()
	return nil
}

func (r *planRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	model, err := r.generic.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *planRepositoryImpl) GetByTitle(ctx context.Context, title string) (*entities.Plan, error) {
	model, err := r.generic.FindOne(ctx, "title = ?", title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

func (r *planRepositoryImpl) GetMany(ctx context.Context, filters entities.ListFilters) ([]entities.Plan, error) {
	query := make(map[string]interface{})
	if filters.IsArchive != nil {
		query["is_archive"] = *filters.IsArchive
	}

	rows, err := r.generic.GetMany(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]entities.Plan, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToEntity()
	}
	return out, nil
}

func (r *planRepositoryImpl) Update(ctx context.Context, plan *entities.Plan) error {
	model := &models.PlanModel{}
	model.FromEntity(plan)
	if err := r.generic.Update(ctx, model); err != nil {
		return err
	}
	*plan = *model.ToEntity()
	return nil
}

func (r *planRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.generic.Delete(ctx, id)
}
