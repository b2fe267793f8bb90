package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
	apperrors "github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/chitram/chitram-backend/pkg/util"
	"gorm.io/gorm"
)

type ApplicationInput struct {
	FullName      string
	Age           int
	StartedArtAt  string
	SchoolCollege string
	City          string
	District      string
	Email         string
	Phone         string
	Socials       model.Socials
	Message       string
	Bio           string
}

// ReviewResult is the outcome of an application status change.
type ReviewResult struct {
	Application   *model.Application `json:"application"`
	Artist        *model.Artist      `json:"artist,omitempty"`
	ArtistCreated bool               `json:"artist_created"`
	Cascade       CascadeResult      `json:"cascade"`
}

type ApplicationService interface {
	Submit(ctx context.Context, input ApplicationInput, photo *Upload) (*model.Application, error)
	List(status string, page int) (*Paginated[model.Application], error)
	Get(id string) (*model.Application, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, rejectionReason *string, reviewer string) (*ReviewResult, error)
	Delete(ctx context.Context, id string) (CascadeResult, error)
}

type applicationService struct {
	applicationRepo repository.ApplicationRepository
	artistRepo      repository.ArtistRepository
	store           storage.Storage
	publisher       events.Publisher
}

func NewApplicationService(
	applicationRepo repository.ApplicationRepository,
	artistRepo repository.ArtistRepository,
	store storage.Storage,
	publisher events.Publisher,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		artistRepo:      artistRepo,
		store:           store,
		publisher:       publisher,
	}
}

func (in *ApplicationInput) normalize() {
	in.FullName = util.SanitizeText(in.FullName)
	in.StartedArtAt = util.SanitizeText(in.StartedArtAt)
	in.SchoolCollege = util.SanitizeText(in.SchoolCollege)
	in.City = util.SanitizeText(in.City)
	in.District = util.SanitizeText(in.District)
	in.Email = util.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Socials = in.Socials.Clean()
	in.Message = util.SanitizeText(in.Message)
	in.Bio = util.SanitizeText(in.Bio)
}

func (in *ApplicationInput) validate() error {
	if err := requireFields("full_name", in.FullName, "city", in.City, "district", in.District, "email", in.Email); err != nil {
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

func (s *applicationService) Submit(ctx context.Context, input ApplicationInput, photo *Upload) (*model.Application, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if photo != nil {
		if err := photo.validate(storage.MaxApplicationPhotoSize); err != nil {
			return nil, err
		}
	}

	exists, err := s.applicationRepo.EmailExists(input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Application rejected: email already applied", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrDuplicateEmail
	}

	var photoKey string
	if photo != nil {
		if photoKey, err = saveUpload(ctx, s.store, storage.FolderApplications, photo); err != nil {
			return nil, err
		}
	}

	application := &model.Application{
		FullName:       input.FullName,
		Age:            input.Age,
		StartedArtAt:   input.StartedArtAt,
		SchoolCollege:  input.SchoolCollege,
		City:           input.City,
		District:       input.District,
		Email:          input.Email,
		Phone:          input.Phone,
		Socials:        input.Socials,
		Message:        input.Message,
		Bio:            input.Bio,
		ProfilePicture: photoKey,
		Status:         model.ApplicationStatusPending,
	}
	if err := s.applicationRepo.Create(application); err != nil {
		discardUpload(ctx, s.store, photoKey)
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	logger.Info("Artist application submitted", map[string]interface{}{
		"application_id": application.ID,
		"email":          application.Email,
	})
	events.Emit(ctx, s.publisher, events.ApplicationSubmitted, map[string]string{
		"application_id": application.ID,
		"full_name":      application.FullName,
	})
	return application, nil
}

func (s *applicationService) List(status string, page int) (*Paginated[model.Application], error) {
	var filter *model.ApplicationStatus
	if status != "" && status != "all" {
		st := model.ApplicationStatus(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		filter = &st
	}

	p := repository.NewPage(page)
	applications, total, err := s.applicationRepo.List(filter, p)
	if err != nil {
		return nil, err
	}
	return newPaginated(applications, total, p), nil
}

func (s *applicationService) Get(id string) (*model.Application, error) {
	application, err := s.applicationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return application, nil
}

// UpdateStatus records the review. Approval then promotes the applicant to an
// artist as a best-effort cascade: the review stays committed even when the
// artist cannot be created.
func (s *applicationService) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, rejectionReason *string, reviewer string) (*ReviewResult, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	review := repository.ApplicationReview{
		Status:     status,
		ReviewedBy: reviewer,
		ReviewedAt: time.Now(),
	}
	if status == model.ApplicationStatusRejected && rejectionReason != nil {
		reason := util.SanitizeText(*rejectionReason)
		review.RejectionReason = &reason
	}
	if err := s.applicationRepo.UpdateReview(id, review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	application, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Application status updated", map[string]interface{}{
		"application_id": id,
		"status":         status,
		"reviewed_by":    reviewer,
	})

	result := &ReviewResult{Application: application}
	if status == model.ApplicationStatusApproved {
		result.Artist, result.ArtistCreated = s.promote(ctx, application, &result.Cascade)
	}

	events.Emit(ctx, s.publisher, events.ApplicationReviewed, map[string]interface{}{
		"application_id": id,
		"status":         status,
		"artist_created": result.ArtistCreated,
	})
	return result, nil
}

// promote creates the artist for an approved application unless one already
// holds its email.
func (s *applicationService) promote(ctx context.Context, application *model.Application, result *CascadeResult) (*model.Artist, bool) {
	existing, err := s.artistRepo.FindByEmail(application.Email)
	if err == nil {
		result.skipped(EffectArtistCreated, "artist already exists for this email")
		return existing, false
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up artist for approved application", err, map[string]interface{}{
			"application_id": application.ID,
		})
		result.failed(EffectArtistCreated, err)
		return nil, false
	}

	photoKey := s.copyPhoto(ctx, application, result)

	artist := &model.Artist{
		FullName:        application.FullName,
		Age:             application.Age,
		StartedArtSince: application.StartedArtAt,
		CollegeSchool:   application.SchoolCollege,
		City:            application.City,
		District:        application.District,
		Email:           application.Email,
		Phone:           application.Phone,
		Socials:         application.Socials,
		Bio:             application.Bio,
		ProfilePicture:  photoKey,
		Status:          model.ArtistStatusActive,
	}
	if err := s.artistRepo.Create(artist); err != nil {
		discardUpload(ctx, s.store, photoKey)
		if apperrors.IsUniqueViolation(err) {
			// a concurrent approval won the race
			result.skipped(EffectArtistCreated, "artist already exists for this email")
			existing, _ := s.artistRepo.FindByEmail(application.Email)
			return existing, false
		}
		logger.Error("Failed to create artist from application", err, map[string]interface{}{
			"application_id": application.ID,
		})
		result.failed(EffectArtistCreated, err)
		return nil, false
	}

	result.applied(EffectArtistCreated)
	logger.Info("Artist created from approved application", map[string]interface{}{
		"application_id": application.ID,
		"artist_id":      artist.ID,
	})
	events.Emit(ctx, s.publisher, events.ArtistCreated, map[string]string{
		"artist_id": artist.ID,
		"full_name": artist.FullName,
	})
	return artist, true
}

func (s *applicationService) copyPhoto(ctx context.Context, application *model.Application, result *CascadeResult) string {
	if application.ProfilePicture == "" {
		result.skipped(EffectPhotoCopied, "application has no photo")
		return ""
	}

	exists, err := s.store.Exists(ctx, application.ProfilePicture)
	if err != nil {
		result.failed(EffectPhotoCopied, err)
		return ""
	}
	if !exists {
		result.skipped(EffectPhotoCopied, "application photo is missing")
		return ""
	}

	key, err := s.store.Copy(ctx, application.ProfilePicture, storage.FolderProfiles)
	if err != nil {
		logger.Warn("Failed to copy application photo", map[string]interface{}{
			"application_id": application.ID,
			"error":          err.Error(),
		})
		result.failed(EffectPhotoCopied, err)
		return ""
	}
	result.applied(EffectPhotoCopied)
	return key
}

// Delete removes the application row, then its photo as a cascade.
func (s *applicationService) Delete(ctx context.Context, id string) (CascadeResult, error) {
	var result CascadeResult

	application, err := s.Get(id)
	if err != nil {
		return result, err
	}
	if err := s.applicationRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrApplicationNotFound
		}
		return result, err
	}

	logger.Info("Application deleted", map[string]interface{}{
		"application_id": id,
	})

	if application.ProfilePicture == "" {
		result.skipped(EffectPhotoRemoved, "application has no photo")
		return result, nil
	}
	if err := s.store.Delete(ctx, application.ProfilePicture); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			result.skipped(EffectPhotoRemoved, "photo already removed")
			return result, nil
		}
		logger.Warn("Failed to delete application photo", map[string]interface{}{
			"application_id": id,
			"error":          err.Error(),
		})
		result.failed(EffectPhotoRemoved, fmt.Errorf("%w: %v", ErrStorage, err))
		return result, nil
	}
	result.applied(EffectPhotoRemoved)
	return result, nil
}
