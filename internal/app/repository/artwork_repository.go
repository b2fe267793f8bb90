package repository

import (
	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArtworkFilter drives both the public gallery and the admin artwork table.
type ArtworkFilter struct {
	Search   string
	Category string
	ArtistID string
	// Status restricts to one status. When nil, deleted artworks are excluded.
	Status *model.ArtworkStatus
	// PublicOnly keeps listed artworks whose artist is active.
	PublicOnly bool
	Sort       SortKey
	Page       Page
}

type ArtworkRepository interface {
	WithTx(tx *gorm.DB) ArtworkRepository
	Create(artwork *model.Artwork) error
	FindByID(id string) (*model.Artwork, error)
	LockByID(id string) (*model.Artwork, error)
	FindByIDs(ids []string) ([]model.Artwork, error)
	List(filter ArtworkFilter) ([]model.Artwork, int64, error)
	QuickSearch(q string, limit int) ([]model.Artwork, error)
	Latest(limit int) ([]model.Artwork, error)
	RelatedByArtist(artistID, excludeID string, limit int) ([]model.Artwork, error)
	Categories() ([]string, error)
	Update(artwork *model.Artwork) error
	SetStatus(id string, status model.ArtworkStatus) error
	CountByStatus(statuses ...model.ArtworkStatus) (int64, error)
	CountPublic() (int64, error)
}

type artworkRepository struct {
	db *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) ArtworkRepository {
	return &artworkRepository{db: db}
}

func (r *artworkRepository) WithTx(tx *gorm.DB) ArtworkRepository {
	return &artworkRepository{db: tx}
}

func (r *artworkRepository) Create(artwork *model.Artwork) error {
	logger.Debug("Creating artwork in database", map[string]interface{}{
		"name":      artwork.Name,
		"artist_id": artwork.ArtistID,
		"category":  artwork.Category,
	})

	if err := r.db.Create(artwork).Error; err != nil {
		logger.Error("Failed to create artwork in database", err, map[string]interface{}{
			"name":      artwork.Name,
			"artist_id": artwork.ArtistID,
		})
		return err
	}
	return nil
}

func (r *artworkRepository) FindByID(id string) (*model.Artwork, error) {
	var artwork model.Artwork
	if err := r.db.Preload("Artist").First(&artwork, "id = ?", id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find artwork by ID in database", err, map[string]interface{}{
				"artwork_id": id,
			})
		}
		return nil, err
	}
	return &artwork, nil
}

// LockByID loads the artwork row with a row lock and without the artist;
// only meaningful inside a transaction.
func (r *artworkRepository) LockByID(id string) (*model.Artwork, error) {
	var artwork model.Artwork
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&artwork, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &artwork, nil
}

func (r *artworkRepository) FindByIDs(ids []string) ([]model.Artwork, error) {
	var artworks []model.Artwork
	if len(ids) == 0 {
		return artworks, nil
	}
	if err := r.db.Preload("Artist").Where("id IN ?", ids).Find(&artworks).Error; err != nil {
		logger.Error("Failed to find artworks by IDs in database", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return artworks, nil
}

// joined starts an artworks query joined to the owning artist.
func (r *artworkRepository) joined() *gorm.DB {
	return r.db.Model(&model.Artwork{}).Joins("JOIN artists ON artists.id = artworks.artist_id")
}

func (r *artworkRepository) publicScope(query *gorm.DB) *gorm.DB {
	return query.
		Where("artworks.status = ?", model.ArtworkStatusListed).
		Where("artists.status = ?", model.ArtistStatusActive)
}

func (r *artworkRepository) applyFilter(query *gorm.DB, filter ArtworkFilter) *gorm.DB {
	switch {
	case filter.PublicOnly:
		query = r.publicScope(query)
	case filter.Status != nil:
		query = query.Where("artworks.status = ?", *filter.Status)
	default:
		query = query.Where("artworks.status <> ?", model.ArtworkStatusDeleted)
	}

	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("artworks.category = ?", filter.Category)
	}
	if filter.ArtistID != "" {
		query = query.Where("artworks.artist_id = ?", filter.ArtistID)
	}
	if q := NormalizeSearch(filter.Search); q != "" {
		query = query.Where(
			likeAny("artworks.name", "artworks.description", "artworks.category", "artists.full_name"),
			repeatArg(containsPattern(q), 4)...,
		)
	}
	return query
}

func (r *artworkRepository) List(filter ArtworkFilter) ([]model.Artwork, int64, error) {
	logger.Debug("Listing artworks with filter", map[string]interface{}{
		"search":      filter.Search,
		"category":    filter.Category,
		"artist_id":   filter.ArtistID,
		"public_only": filter.PublicOnly,
		"sort":        filter.Sort,
		"page":        filter.Page.Number,
	})

	var total int64
	if err := r.applyFilter(r.joined(), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count artworks", err)
		return nil, 0, err
	}

	query := r.applyFilter(r.joined(), filter).
		Select("artworks.*").
		Preload("Artist").
		Clauses(artworkOrder(filter.Sort, NormalizeSearch(filter.Search)))
	query = filter.Page.apply(query)

	var artworks []model.Artwork
	if err := query.Find(&artworks).Error; err != nil {
		logger.Error("Failed to list artworks", err)
		return nil, 0, err
	}

	logger.Debug("Artworks listed", map[string]interface{}{
		"count": len(artworks),
		"total": total,
	})
	return artworks, total, nil
}

func (r *artworkRepository) QuickSearch(q string, limit int) ([]model.Artwork, error) {
	q = NormalizeSearch(q)
	query := r.publicScope(r.joined()).
		Where(likeAny("artworks.name", "artworks.description", "artists.full_name"), repeatArg(containsPattern(q), 3)...).
		Select("artworks.*").
		Preload("Artist").
		Clauses(artworkOrder(SortNewest, q)).
		Limit(limit)

	var artworks []model.Artwork
	if err := query.Find(&artworks).Error; err != nil {
		logger.Error("Failed to search artworks", err, map[string]interface{}{"q": q})
		return nil, err
	}
	return artworks, nil
}

func (r *artworkRepository) Latest(limit int) ([]model.Artwork, error) {
	var artworks []model.Artwork
	err := r.publicScope(r.joined()).
		Select("artworks.*").
		Preload("Artist").
		Clauses(artworkOrder(SortNewest, "")).
		Limit(limit).
		Find(&artworks).Error
	if err != nil {
		logger.Error("Failed to load latest artworks", err)
		return nil, err
	}
	return artworks, nil
}

func (r *artworkRepository) RelatedByArtist(artistID, excludeID string, limit int) ([]model.Artwork, error) {
	var artworks []model.Artwork
	err := r.publicScope(r.joined()).
		Where("artworks.artist_id = ? AND artworks.id <> ?", artistID, excludeID).
		Select("artworks.*").
		Clauses(artworkOrder(SortNewest, "")).
		Limit(limit).
		Find(&artworks).Error
	if err != nil {
		logger.Error("Failed to load related artworks", err, map[string]interface{}{
			"artist_id": artistID,
		})
		return nil, err
	}
	return artworks, nil
}

func (r *artworkRepository) Categories() ([]string, error) {
	var categories []string
	err := r.publicScope(r.joined()).
		Distinct("artworks.category").
		Order("artworks.category ASC").
		Pluck("artworks.category", &categories).Error
	if err != nil {
		logger.Error("Failed to list artwork categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *artworkRepository) Update(artwork *model.Artwork) error {
	logger.Debug("Updating artwork in database", map[string]interface{}{
		"artwork_id": artwork.ID,
	})

	err := r.db.Model(&model.Artwork{}).Where("id = ?", artwork.ID).Select(
		"artist_id", "name", "category", "cost", "image", "description",
		"work_hours", "size", "color_type", "status", "updated_at",
	).Updates(artwork).Error
	if err != nil {
		logger.Error("Failed to update artwork in database", err, map[string]interface{}{
			"artwork_id": artwork.ID,
		})
		return err
	}
	return nil
}

func (r *artworkRepository) SetStatus(id string, status model.ArtworkStatus) error {
	result := r.db.Model(&model.Artwork{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to set artwork status", result.Error, map[string]interface{}{
			"artwork_id": id,
			"status":     status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *artworkRepository) CountByStatus(statuses ...model.ArtworkStatus) (int64, error) {
	var count int64
	query := r.db.Model(&model.Artwork{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *artworkRepository) CountPublic() (int64, error) {
	var count int64
	err := r.publicScope(r.joined()).Count(&count).Error
	return count, err
}
