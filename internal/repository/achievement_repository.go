package repository

import (
	"github.com/kvizarena/api/internal/model"
	"gorm.io/gorm"
)

type AchievementRepository interface {
	// Seed inserts missing badge definitions; existing rows are untouched.
	Seed(achievements []model.Achievement) error
	// GrantedIDs returns the set of badge ids the user already earned.
	GrantedIDs(userID uint) (map[string]bool, error)
	// GrantAll inserts the grants in a single transaction, all or nothing.
	GrantAll(grants []model.UserAchievement) error
	FindAllByUser(userID uint) ([]model.UserAchievement, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Seed(achievements []model.Achievement) error {
	for i := range achievements {
		if err := r.db.FirstOrCreate(&achievements[i], model.Achievement{ID: achievements[i].ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *achievementRepository) GrantedIDs(userID uint) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}
	granted := make(map[string]bool, len(ids))
	for _, id := range ids {
		granted[id] = true
	}
	return granted, nil
}

func (r *achievementRepository) GrantAll(grants []model.UserAchievement) error {
	if len(grants) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&grants).Error
	})
}

func (r *achievementRepository) FindAllByUser(userID uint) ([]model.UserAchievement, error) {
	var grants []model.UserAchievement
	err := r.db.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Find(&grants).Error
	return grants, err
}
