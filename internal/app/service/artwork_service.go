package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/chitram/chitram-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	QuickSearchMinLength = 2
	QuickSearchLimit     = 20
	LatestLimit          = 20
	RelatedLimit         = 4
)

type ArtworkInput struct {
	ArtistID    string
	Name        string
	Category    string
	Cost        float64
	Description string
	WorkHours   int
	Size        string
	ColorType   model.ColorType
	// Status is only honoured by Update; empty keeps the current status.
	Status model.ArtworkStatus
}

type ArtworkQuery struct {
	Search   string
	Category string
	ArtistID string
	Status   string
	Sort     string
	Page     int
}

// ArtworkDetail is the public artwork page.
type ArtworkDetail struct {
	Artwork *model.Artwork  `json:"artwork"`
	Related []model.Artwork `json:"related"`
}

type ArtworkService interface {
	Create(ctx context.Context, input ArtworkInput, image *Upload) (*model.Artwork, error)
	Update(ctx context.Context, id string, input ArtworkInput, image *Upload) (*model.Artwork, CascadeResult, error)
	Delete(id string) error
	Get(id string) (*model.Artwork, error)
	GetPublic(id string) (*ArtworkDetail, error)
	List(query ArtworkQuery) (*Paginated[model.Artwork], error)
	Catalog(query ArtworkQuery) (*Paginated[model.Artwork], error)
	QuickSearch(q string) ([]model.Artwork, error)
	Latest() ([]model.Artwork, error)
	Categories() ([]string, error)
}

type artworkService struct {
	artworkRepo repository.ArtworkRepository
	artistRepo  repository.ArtistRepository
	store       storage.Storage
	publisher   events.Publisher
	db          *gorm.DB
}

func NewArtworkService(
	artworkRepo repository.ArtworkRepository,
	artistRepo repository.ArtistRepository,
	store storage.Storage,
	publisher events.Publisher,
	db *gorm.DB,
) ArtworkService {
	return &artworkService{
		artworkRepo: artworkRepo,
		artistRepo:  artistRepo,
		store:       store,
		publisher:   publisher,
		db:          db,
	}
}

func (in *ArtworkInput) normalize() {
	in.ArtistID = strings.TrimSpace(in.ArtistID)
	in.Name = util.SanitizeText(in.Name)
	in.Category = strings.ToLower(util.SanitizeText(in.Category))
	in.Description = util.SanitizeText(in.Description)
	in.Size = util.SanitizeText(in.Size)
	if in.ColorType == "" {
		in.ColorType = model.ColorTypeColor
	}
}

func (in *ArtworkInput) validate() error {
	if err := requireFields("name", in.Name, "artist_id", in.ArtistID, "category", in.Category); err != nil {
		return err
	}
	if in.Cost <= 0 {
		return validationError("cost must be greater than zero")
	}
	if in.WorkHours < 0 {
		return validationError("work_hours cannot be negative")
	}
	if !in.ColorType.Valid() {
		return validationError("color_type must be black_and_white or color")
	}
	return nil
}

func (in *ArtworkInput) apply(artwork *model.Artwork) {
	artwork.ArtistID = in.ArtistID
	artwork.Name = in.Name
	artwork.Category = in.Category
	artwork.Cost = in.Cost
	artwork.Description = in.Description
	artwork.WorkHours = in.WorkHours
	artwork.Size = in.Size
	artwork.ColorType = in.ColorType
}

// requireActiveArtist checks the owner outside any transaction so that no
// file is uploaded for an artwork that cannot be created.
func (s *artworkService) requireActiveArtist(id string) error {
	artist, err := s.artistRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtistNotFound
		}
		return err
	}
	if !artist.IsActive() {
		return ErrArtistNotFound
	}
	return nil
}

// lockArtists row-locks the given artists in id order and requires the
// artist named by mustBeActive to be active.
func lockArtists(artists repository.ArtistRepository, ids []string, mustBeActive string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			continue
		}
		artist, err := artists.LockByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArtistNotFound
			}
			return err
		}
		if id == mustBeActive && !artist.IsActive() {
			return ErrArtistNotFound
		}
	}
	return nil
}

// Create stores the image, then inserts the artwork and bumps the owner's
// counter in one transaction.
func (s *artworkService) Create(ctx context.Context, input ArtworkInput, image *Upload) (*model.Artwork, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, validationError("image is required")
	}
	if err := image.validate(storage.MaxArtworkImageSize); err != nil {
		return nil, err
	}
	if err := s.requireActiveArtist(input.ArtistID); err != nil {
		return nil, err
	}

	imageKey, err := saveUpload(ctx, s.store, storage.FolderArtworks, image)
	if err != nil {
		return nil, err
	}

	artwork := &model.Artwork{Image: imageKey, Status: model.ArtworkStatusListed}
	input.apply(artwork)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		artists := s.artistRepo.WithTx(tx)
		if err := lockArtists(artists, []string{artwork.ArtistID}, artwork.ArtistID); err != nil {
			return err
		}
		if err := s.artworkRepo.WithTx(tx).Create(artwork); err != nil {
			return err
		}
		return artists.AdjustUploaded(artwork.ArtistID, 1)
	})
	if err != nil {
		discardUpload(ctx, s.store, imageKey)
		return nil, err
	}

	logger.Info("Artwork created", map[string]interface{}{
		"artwork_id": artwork.ID,
		"artist_id":  artwork.ArtistID,
	})
	events.Emit(ctx, s.publisher, events.ArtworkCreated, map[string]interface{}{
		"artwork_id": artwork.ID,
		"artist_id":  artwork.ArtistID,
		"name":       artwork.Name,
	})
	return s.Get(artwork.ID)
}

// Update applies field changes, an optional status change and an optional
// owner reassignment. The artwork row is re-read under a lock so the status
// and owner the counters move from are the committed ones.
func (s *artworkService) Update(ctx context.Context, id string, input ArtworkInput, image *Upload) (*model.Artwork, CascadeResult, error) {
	var result CascadeResult

	current, err := s.Get(id)
	if err != nil {
		return nil, result, err
	}
	if current.Status == model.ArtworkStatusDeleted {
		return nil, result, ErrArtworkNotFound
	}

	input.normalize()
	if err := input.validate(); err != nil {
		return nil, result, err
	}
	if input.Status != "" && (!input.Status.Valid() || input.Status == model.ArtworkStatusDeleted) {
		return nil, result, ErrInvalidStatus
	}
	if image != nil {
		if err := image.validate(storage.MaxArtworkImageSize); err != nil {
			return nil, result, err
		}
	}
	if input.ArtistID != current.ArtistID {
		if err := s.requireActiveArtist(input.ArtistID); err != nil {
			return nil, result, err
		}
	}

	var newImage string
	if image != nil {
		if newImage, err = saveUpload(ctx, s.store, storage.FolderArtworks, image); err != nil {
			return nil, result, err
		}
	}

	var (
		oldImage string
		updated  model.Artwork
		oldOwner string
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		artworks := s.artworkRepo.WithTx(tx)
		artists := s.artistRepo.WithTx(tx)

		locked, err := artworks.LockByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArtworkNotFound
			}
			return err
		}
		if locked.Status == model.ArtworkStatusDeleted {
			return ErrArtworkNotFound
		}

		oldImage = locked.Image
		oldOwner = locked.ArtistID
		oldSold := locked.Status.CountsAsSold()

		updated = *locked
		input.apply(&updated)
		if input.Status != "" {
			updated.Status = input.Status
		}
		if newImage != "" {
			updated.Image = newImage
		}
		newOwner, newSold := updated.ArtistID, updated.Status.CountsAsSold()

		mustBeActive := ""
		if newOwner != oldOwner {
			mustBeActive = newOwner
		}
		if err := lockArtists(artists, []string{oldOwner, newOwner}, mustBeActive); err != nil {
			return err
		}
		if err := artworks.Update(&updated); err != nil {
			return err
		}
		return moveCounters(artists, oldOwner, newOwner, oldSold, newSold)
	})
	if err != nil {
		discardUpload(ctx, s.store, newImage)
		return nil, result, err
	}

	replaceFile(ctx, s.store, oldImage, newImage, &result)

	logger.Info("Artwork updated", map[string]interface{}{
		"artwork_id":     id,
		"status":         updated.Status,
		"reassigned":     updated.ArtistID != oldOwner,
		"image_replaced": newImage != "",
	})

	artwork, err := s.Get(id)
	if err != nil {
		return nil, result, err
	}
	return artwork, result, nil
}

// moveCounters shifts arts_uploaded and arts_sold between owners after a
// reassignment or a sold-state change.
func moveCounters(artists repository.ArtistRepository, oldOwner, newOwner string, oldSold, newSold bool) error {
	if oldOwner != newOwner {
		if err := artists.AdjustUploaded(oldOwner, -1); err != nil {
			return err
		}
		if err := artists.AdjustUploaded(newOwner, 1); err != nil {
			return err
		}
		if oldSold {
			if err := artists.AdjustSold(oldOwner, -1); err != nil {
				return err
			}
		}
		if newSold {
			return artists.AdjustSold(newOwner, 1)
		}
		return nil
	}

	switch {
	case !oldSold && newSold:
		return artists.AdjustSold(newOwner, 1)
	case oldSold && !newSold:
		return artists.AdjustSold(newOwner, -1)
	}
	return nil
}

// Delete soft-deletes the artwork and decrements the owner's counters in the
// same transaction.
func (s *artworkService) Delete(id string) error {
	var artistID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		artworks := s.artworkRepo.WithTx(tx)
		artists := s.artistRepo.WithTx(tx)

		artwork, err := artworks.LockByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArtworkNotFound
			}
			return err
		}
		if artwork.Status == model.ArtworkStatusDeleted {
			return ErrArtworkNotFound
		}
		artistID = artwork.ArtistID

		if err := lockArtists(artists, []string{artistID}, ""); err != nil {
			return err
		}
		if err := artworks.SetStatus(id, model.ArtworkStatusDeleted); err != nil {
			return err
		}
		if err := artists.AdjustUploaded(artistID, -1); err != nil {
			return err
		}
		if artwork.Status.CountsAsSold() {
			return artists.AdjustSold(artistID, -1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Artwork soft deleted", map[string]interface{}{
		"artwork_id": id,
		"artist_id":  artistID,
	})
	return nil
}

// Get resolves an artwork of any status.
func (s *artworkService) Get(id string) (*model.Artwork, error) {
	artwork, err := s.artworkRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtworkNotFound
		}
		return nil, err
	}
	return artwork, nil
}

func (s *artworkService) GetPublic(id string) (*ArtworkDetail, error) {
	artwork, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if artwork.Status != model.ArtworkStatusListed || artwork.Artist == nil || !artwork.Artist.IsActive() {
		return nil, ErrArtworkNotFound
	}

	related, err := s.artworkRepo.RelatedByArtist(artwork.ArtistID, artwork.ID, RelatedLimit)
	if err != nil {
		return nil, err
	}
	if related == nil {
		related = []model.Artwork{}
	}
	return &ArtworkDetail{Artwork: artwork, Related: related}, nil
}

func (s *artworkService) filter(query ArtworkQuery) repository.ArtworkFilter {
	return repository.ArtworkFilter{
		Search:   query.Search,
		Category: strings.ToLower(strings.TrimSpace(query.Category)),
		ArtistID: strings.TrimSpace(query.ArtistID),
		Sort:     repository.ParseSort(query.Sort),
		Page:     repository.NewPage(query.Page),
	}
}

func (s *artworkService) List(query ArtworkQuery) (*Paginated[model.Artwork], error) {
	filter := s.filter(query)
	if query.Status != "" && query.Status != "all" {
		status := model.ArtworkStatus(query.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}
	return s.list(filter)
}

// Catalog lists listed artworks of active artists.
func (s *artworkService) Catalog(query ArtworkQuery) (*Paginated[model.Artwork], error) {
	filter := s.filter(query)
	filter.PublicOnly = true
	return s.list(filter)
}

func (s *artworkService) list(filter repository.ArtworkFilter) (*Paginated[model.Artwork], error) {
	artworks, total, err := s.artworkRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return newPaginated(artworks, total, filter.Page), nil
}

func (s *artworkService) QuickSearch(q string) ([]model.Artwork, error) {
	q = repository.NormalizeSearch(q)
	if len([]rune(q)) < QuickSearchMinLength {
		return []model.Artwork{}, nil
	}
	artworks, err := s.artworkRepo.QuickSearch(q, QuickSearchLimit)
	if err != nil {
		return nil, err
	}
	if artworks == nil {
		artworks = []model.Artwork{}
	}
	return artworks, nil
}

func (s *artworkService) Latest() ([]model.Artwork, error) {
	artworks, err := s.artworkRepo.Latest(LatestLimit)
	if err != nil {
		return nil, err
	}
	if artworks == nil {
		artworks = []model.Artwork{}
	}
	return artworks, nil
}

func (s *artworkService) Categories() ([]string, error) {
	categories, err := s.artworkRepo.Categories()
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
