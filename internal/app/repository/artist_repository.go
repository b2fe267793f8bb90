package repository

import (
	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArtistFilter struct {
	Search string
	// Status restricts to one status. When nil, deleted artists are excluded.
	Status *model.ArtistStatus
	Sort   SortKey
	Page   Page
}

// ArtistOption is a lightweight row for admin pickers.
type ArtistOption struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type ArtistRepository interface {
	WithTx(tx *gorm.DB) ArtistRepository
	Create(artist *model.Artist) error
	BulkCreate(artists []model.Artist, batchSize int) error
	FindByID(id string) (*model.Artist, error)
	FindByEmail(email string) (*model.Artist, error)
	LockByID(id string) (*model.Artist, error)
	EmailTaken(email, excludeID string) (bool, error)
	List(filter ArtistFilter) ([]model.Artist, int64, error)
	ListOptions() ([]ArtistOption, error)
	Update(artist *model.Artist) error
	SoftDelete(id string) (bool, error)
	AdjustUploaded(id string, delta int) error
	AdjustSold(id string, delta int) error
	ReconcileCounters() (int64, error)
	CountByStatus(status model.ArtistStatus) (int64, error)
}

type artistRepository struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) WithTx(tx *gorm.DB) ArtistRepository {
	return &artistRepository{db: tx}
}

func (r *artistRepository) Create(artist *model.Artist) error {
	logger.Debug("Creating artist in database", map[string]interface{}{
		"email": artist.Email,
	})

	if err := r.db.Create(artist).Error; err != nil {
		logger.Error("Failed to create artist in database", err, map[string]interface{}{
			"email": artist.Email,
		})
		return err
	}

	logger.Debug("Artist created in database", map[string]interface{}{
		"artist_id": artist.ID,
	})
	return nil
}

func (r *artistRepository) BulkCreate(artists []model.Artist, batchSize int) error {
	if len(artists) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(artists, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create artists", err, map[string]interface{}{
			"count": len(artists),
		})
		return err
	}
	return nil
}

func (r *artistRepository) FindByID(id string) (*model.Artist, error) {
	var artist model.Artist
	if err := r.db.First(&artist, "id = ?", id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find artist by ID in database", err, map[string]interface{}{
				"artist_id": id,
			})
		}
		return nil, err
	}
	return &artist, nil
}

func (r *artistRepository) FindByEmail(email string) (*model.Artist, error) {
	var artist model.Artist
	if err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&artist).Error; err != nil {
		return nil, err
	}
	return &artist, nil
}

// LockByID loads the artist with a row lock; only meaningful inside a transaction.
func (r *artistRepository) LockByID(id string) (*model.Artist, error) {
	var artist model.Artist
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&artist, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// EmailTaken reports whether another artist row already uses email. Deleted
// artists keep their email, so they count as well.
func (r *artistRepository) EmailTaken(email, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&model.Artist{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check artist email", err)
		return false, err
	}
	return count > 0, nil
}

func (r *artistRepository) applyFilter(query *gorm.DB, filter ArtistFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("artists.status = ?", *filter.Status)
	} else {
		query = query.Where("artists.status <> ?", model.ArtistStatusDeleted)
	}
	if q := NormalizeSearch(filter.Search); q != "" {
		query = query.Where(
			likeAny("artists.full_name", "artists.email", "artists.city", "artists.district"),
			repeatArg(containsPattern(q), 4)...,
		)
	}
	return query
}

func (r *artistRepository) List(filter ArtistFilter) ([]model.Artist, int64, error) {
	logger.Debug("Listing artists with filter", map[string]interface{}{
		"search": filter.Search,
		"status": filter.Status,
		"sort":   filter.Sort,
		"page":   filter.Page.Number,
	})

	var total int64
	if err := r.applyFilter(r.db.Model(&model.Artist{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count artists", err)
		return nil, 0, err
	}

	query := r.applyFilter(r.db.Model(&model.Artist{}), filter).Clauses(artistOrder(filter.Sort))
	query = filter.Page.apply(query)

	var artists []model.Artist
	if err := query.Find(&artists).Error; err != nil {
		logger.Error("Failed to list artists", err)
		return nil, 0, err
	}
	return artists, total, nil
}

func (r *artistRepository) ListOptions() ([]ArtistOption, error) {
	var options []ArtistOption
	err := r.db.Model(&model.Artist{}).
		Select("id", "full_name").
		Where("status = ?", model.ArtistStatusActive).
		Order("full_name ASC").
		Scan(&options).Error
	if err != nil {
		logger.Error("Failed to list artist options", err)
		return nil, err
	}
	return options, nil
}

func (r *artistRepository) Update(artist *model.Artist) error {
	logger.Debug("Updating artist in database", map[string]interface{}{
		"artist_id": artist.ID,
	})

	err := r.db.Model(&model.Artist{}).Where("id = ?", artist.ID).Select(
		"full_name", "age", "started_art_since", "college_school", "city", "district",
		"email", "phone", "socials", "bio", "profile_picture", "updated_at",
	).Updates(artist).Error
	if err != nil {
		logger.Error("Failed to update artist in database", err, map[string]interface{}{
			"artist_id": artist.ID,
		})
		return err
	}
	return nil
}

// SoftDelete flips an active artist to deleted. It returns false when no
// non-deleted artist with that id exists.
func (r *artistRepository) SoftDelete(id string) (bool, error) {
	result := r.db.Model(&model.Artist{}).
		Where("id = ? AND status <> ?", id, model.ArtistStatusDeleted).
		Update("status", model.ArtistStatusDeleted)
	if result.Error != nil {
		logger.Error("Failed to soft delete artist", result.Error, map[string]interface{}{
			"artist_id": id,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AdjustUploaded moves arts_uploaded by delta in a single statement, never
// letting it drop below zero.
func (r *artistRepository) AdjustUploaded(id string, delta int) error {
	return r.adjustCounter("arts_uploaded", id, delta)
}

// AdjustSold moves arts_sold by delta, floored at zero.
func (r *artistRepository) AdjustSold(id string, delta int) error {
	return r.adjustCounter("arts_sold", id, delta)
}

func (r *artistRepository) adjustCounter(column, id string, delta int) error {
	if delta == 0 {
		return nil
	}
	var expr clause.Expr
	if delta > 0 {
		expr = gorm.Expr(column+" + ?", delta)
	} else {
		expr = gorm.Expr("CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END", delta, delta)
	}

	result := r.db.Model(&model.Artist{}).Where("id = ?", id).UpdateColumn(column, expr)
	if result.Error != nil {
		logger.Error("Failed to adjust artist counter", result.Error, map[string]interface{}{
			"artist_id": id,
			"column":    column,
			"delta":     delta,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

const reconcileCountersSQL = `
UPDATE artists SET
	arts_uploaded = (SELECT COUNT(*) FROM artworks WHERE artworks.artist_id = artists.id AND artworks.status <> ?),
	arts_sold = (SELECT COUNT(*) FROM artworks WHERE artworks.artist_id = artists.id AND artworks.status IN (?, ?))
WHERE arts_uploaded <> (SELECT COUNT(*) FROM artworks WHERE artworks.artist_id = artists.id AND artworks.status <> ?)
	OR arts_sold <> (SELECT COUNT(*) FROM artworks WHERE artworks.artist_id = artists.id AND artworks.status IN (?, ?))`

// ReconcileCounters recomputes the materialized counters from the artworks
// table and returns how many artist rows had drifted.
func (r *artistRepository) ReconcileCounters() (int64, error) {
	result := r.db.Exec(reconcileCountersSQL,
		model.ArtworkStatusDeleted, model.ArtworkStatusSold, model.ArtworkStatusDelivered,
		model.ArtworkStatusDeleted, model.ArtworkStatusSold, model.ArtworkStatusDelivered,
	)
	if result.Error != nil {
		logger.Error("Failed to reconcile artist counters", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *artistRepository) CountByStatus(status model.ArtistStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Artist{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
