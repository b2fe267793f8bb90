package model

import "time"

// PageViewDateLayout is the calendar-day key format of PageView.ViewDate.
const PageViewDateLayout = "2006-01-02"

// PageView is a per-day visit counter.
type PageView struct {
	ViewDate  string    `gorm:"type:varchar(10);primaryKey" json:"view_date"`
	ViewCount int64     `gorm:"not null;default:0" json:"view_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PageView) TableName() string {
	return "page_views"
}
