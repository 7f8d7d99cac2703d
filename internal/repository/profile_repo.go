package repository

import (
	"context"

	"ledgerai/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository stores the singleton business profile (id "main").
type ProfileRepository interface {
	Get(ctx context.Context) (*model.BusinessProfile, error)
	Save(ctx context.Context, p *model.BusinessProfile) error
}

type profileRepo struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepo{db: db} }

func (r *profileRepo) Get(ctx context.Context) (*model.BusinessProfile, error) {
	var p model.BusinessProfile
	err := r.db.WithContext(ctx).First(&p, "id = ?", model.ProfileID).Error
	return &p, err
}

func (r *profileRepo) Save(ctx context.Context, p *model.BusinessProfile) error {
	p.ID = model.ProfileID
	return r.db.WithContext(ctx).Save(p).Error
}
