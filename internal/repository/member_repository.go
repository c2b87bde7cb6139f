package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"recon-tracker/internal/model"
)

// MemberRepository handles CRUD for team members.
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, member *model.TeamMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Save(ctx context.Context, member *model.TeamMember) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id uint) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) ListAll(ctx context.Context) ([]model.TeamMember, error) {
	var members []model.TeamMember
	if err := r.db.WithContext(ctx).Order("name").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *MemberRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.TeamMember{}, id).Error; err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.TeamMember{}).Count(&n).Error
	return n, err
}
