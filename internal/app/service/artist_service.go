package service

import (
	"context"
	"errors"
	"strings"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
	apperrors "github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/chitram/chitram-backend/pkg/util"
	"gorm.io/gorm"
)

type ArtistInput struct {
	FullName        string
	Age             int
	StartedArtSince string
	CollegeSchool   string
	City            string
	District        string
	Email           string
	Phone           string
	Socials         model.Socials
	Bio             string
}

type ArtistQuery struct {
	Search string
	Status string
	Sort   string
	Page   int
}

// ArtistProfile is the public artist page.
type ArtistProfile struct {
	Artist   *model.Artist   `json:"artist"`
	Artworks []model.Artwork `json:"artworks"`
}

// publicArtistArtworks caps the artworks shown on a public artist page.
const publicArtistArtworks = 100

type ArtistService interface {
	Create(ctx context.Context, input ArtistInput, photo *Upload) (*model.Artist, error)
	Update(ctx context.Context, id string, input ArtistInput, photo *Upload) (*model.Artist, CascadeResult, error)
	Delete(id string) error
	Get(id string) (*model.Artist, error)
	GetPublic(id string) (*ArtistProfile, error)
	List(query ArtistQuery) (*Paginated[model.Artist], error)
	ListPublic(query ArtistQuery) (*Paginated[model.Artist], error)
	Options() ([]repository.ArtistOption, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}

type artistService struct {
	artistRepo  repository.ArtistRepository
	artworkRepo repository.ArtworkRepository
	store       storage.Storage
	publisher   events.Publisher
}

func NewArtistService(
	artistRepo repository.ArtistRepository,
	artworkRepo repository.ArtworkRepository,
	store storage.Storage,
	publisher events.Publisher,
) ArtistService {
	return &artistService{
		artistRepo:  artistRepo,
		artworkRepo: artworkRepo,
		store:       store,
		publisher:   publisher,
	}
}

func (in *ArtistInput) normalize() {
	in.FullName = util.SanitizeText(in.FullName)
	in.StartedArtSince = util.SanitizeText(in.StartedArtSince)
	in.CollegeSchool = util.SanitizeText(in.CollegeSchool)
	in.City = util.SanitizeText(in.City)
	in.District = util.SanitizeText(in.District)
	in.Email = util.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Socials = in.Socials.Clean()
	in.Bio = util.SanitizeText(in.Bio)
}

func (in *ArtistInput) validate() error {
	if err := requireFields("full_name", in.FullName, "email", in.Email); err != nil {
		return err
	}
	if in.Age <= 0 {
		return validationError("age is required")
	}
	if !util.IsValidEmail(in.Email) {
		return validationError("email is not a valid address")
	}
	return nil
}

func (in *ArtistInput) apply(artist *model.Artist) {
	artist.FullName = in.FullName
	artist.Age = in.Age
	artist.StartedArtSince = in.StartedArtSince
	artist.CollegeSchool = in.CollegeSchool
	artist.City = in.City
	artist.District = in.District
	artist.Email = in.Email
	artist.Phone = in.Phone
	artist.Socials = in.Socials
	artist.Bio = in.Bio
}

func (s *artistService) checkEmail(email, excludeID string) error {
	taken, err := s.artistRepo.EmailTaken(email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}
	return nil
}

func (s *artistService) Create(ctx context.Context, input ArtistInput, photo *Upload) (*model.Artist, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if photo != nil {
		if err := photo.validate(storage.MaxProfilePhotoSize); err != nil {
			return nil, err
		}
	}
	if err := s.checkEmail(input.Email, ""); err != nil {
		return nil, err
	}

	var (
		photoKey string
		err      error
	)
	if photo != nil {
		if photoKey, err = saveUpload(ctx, s.store, storage.FolderProfiles, photo); err != nil {
			return nil, err
		}
	}

	artist := &model.Artist{ProfilePicture: photoKey, Status: model.ArtistStatusActive}
	input.apply(artist)
	if err := s.artistRepo.Create(artist); err != nil {
		discardUpload(ctx, s.store, photoKey)
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	logger.Info("Artist created", map[string]interface{}{
		"artist_id": artist.ID,
	})
	events.Emit(ctx, s.publisher, events.ArtistCreated, map[string]string{
		"artist_id": artist.ID,
		"full_name": artist.FullName,
	})
	return artist, nil
}

// Update saves profile changes. A new photo is uploaded first, the row is
// committed with the new key, and only then is the old photo deleted.
func (s *artistService) Update(ctx context.Context, id string, input ArtistInput, photo *Upload) (*model.Artist, CascadeResult, error) {
	var result CascadeResult

	artist, err := s.artistRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, result, ErrArtistNotFound
		}
		return nil, result, err
	}
	if !artist.IsActive() {
		return nil, result, ErrArtistNotFound
	}

	input.normalize()
	if err := input.validate(); err != nil {
		return nil, result, err
	}
	if photo != nil {
		if err := photo.validate(storage.MaxProfilePhotoSize); err != nil {
			return nil, result, err
		}
	}
	if err := s.checkEmail(input.Email, id); err != nil {
		return nil, result, err
	}

	oldPhoto := artist.ProfilePicture
	var newPhoto string
	if photo != nil {
		if newPhoto, err = saveUpload(ctx, s.store, storage.FolderProfiles, photo); err != nil {
			return nil, result, err
		}
		artist.ProfilePicture = newPhoto
	}

	input.apply(artist)
	if err := s.artistRepo.Update(artist); err != nil {
		discardUpload(ctx, s.store, newPhoto)
		if apperrors.IsUniqueViolation(err) {
			return nil, result, ErrDuplicateEmail
		}
		return nil, result, err
	}

	replaceFile(ctx, s.store, oldPhoto, newPhoto, &result)

	logger.Info("Artist updated", map[string]interface{}{
		"artist_id":     id,
		"photo_changed": newPhoto != "",
	})

	updated, err := s.artistRepo.FindByID(id)
	if err != nil {
		return nil, result, err
	}
	return updated, result, nil
}

// Delete soft-deletes the artist. Their artworks stay in place and drop out
// of public listings through the active-artist filter.
func (s *artistService) Delete(id string) error {
	ok, err := s.artistRepo.SoftDelete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrArtistNotFound
	}
	logger.Info("Artist soft deleted", map[string]interface{}{
		"artist_id": id,
	})
	return nil
}

// Get resolves an artist of any status, so historical references still load.
func (s *artistService) Get(id string) (*model.Artist, error) {
	artist, err := s.artistRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return artist, nil
}

func (s *artistService) GetPublic(id string) (*ArtistProfile, error) {
	artist, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !artist.IsActive() {
		return nil, ErrArtistNotFound
	}

	artworks, _, err := s.artworkRepo.List(repository.ArtworkFilter{
		ArtistID:   id,
		PublicOnly: true,
		Sort:       repository.SortNewest,
		Page:       repository.Page{Number: 1, Size: publicArtistArtworks},
	})
	if err != nil {
		return nil, err
	}
	if artworks == nil {
		artworks = []model.Artwork{}
	}
	return &ArtistProfile{Artist: artist, Artworks: artworks}, nil
}

func (s *artistService) List(query ArtistQuery) (*Paginated[model.Artist], error) {
	filter := repository.ArtistFilter{
		Search: query.Search,
		Sort:   repository.ParseSort(query.Sort),
		Page:   repository.NewPage(query.Page),
	}
	if query.Status != "" && query.Status != "all" {
		status := model.ArtistStatus(query.Status)
		if status != model.ArtistStatusActive && status != model.ArtistStatusDeleted {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	artists, total, err := s.artistRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return newPaginated(artists, total, filter.Page), nil
}

func (s *artistService) ListPublic(query ArtistQuery) (*Paginated[model.Artist], error) {
	query.Status = string(model.ArtistStatusActive)
	return s.List(query)
}

func (s *artistService) Options() ([]repository.ArtistOption, error) {
	options, err := s.artistRepo.ListOptions()
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = []repository.ArtistOption{}
	}
	return options, nil
}

// ReconcileCounters recomputes every artist's materialized counters.
func (s *artistService) ReconcileCounters(ctx context.Context) (int64, error) {
	fixed, err := s.artistRepo.ReconcileCounters()
	if err != nil {
		return 0, err
	}
	if fixed > 0 {
		logger.Warn("Artist counters had drifted and were corrected", map[string]interface{}{
			"artists": fixed,
		})
	} else {
		logger.Info("Artist counters are consistent", nil)
	}
	events.Emit(ctx, s.publisher, events.CountersReconciled, map[string]int64{"corrected": fixed})
	return fixed, nil
}
