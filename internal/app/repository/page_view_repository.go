package repository

import (
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PageViewRepository interface {
	Increment(day time.Time) error
	CountFor(day time.Time) (int64, error)
	Total() (int64, error)
}

type pageViewRepository struct {
	db *gorm.DB
}

func NewPageViewRepository(db *gorm.DB) PageViewRepository {
	return &pageViewRepository{db: db}
}

// Increment creates the day's row or adds one to it in a single upsert.
func (r *pageViewRepository) Increment(day time.Time) error {
	view := model.PageView{ViewDate: day.Format(model.PageViewDateLayout), ViewCount: 1}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "view_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"view_count": gorm.Expr("page_views.view_count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&view).Error
	if err != nil {
		logger.Error("Failed to record page view", err, map[string]interface{}{
			"view_date": view.ViewDate,
		})
		return err
	}
	return nil
}

func (r *pageViewRepository) CountFor(day time.Time) (int64, error) {
	var view model.PageView
	err := r.db.Where("view_date = ?", day.Format(model.PageViewDateLayout)).Limit(1).Find(&view).Error
	if err != nil {
		return 0, err
	}
	return view.ViewCount, nil
}

func (r *pageViewRepository) Total() (int64, error) {
	var total int64
	err := r.db.Model(&model.PageView{}).Select("COALESCE(SUM(view_count), 0)").Scan(&total).Error
	return total, err
}
