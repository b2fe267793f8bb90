package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/service"
	apperrors "github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the JSON error envelope. Validation
// and not-found details are surfaced; storage and persistence failures are
// logged and returned as opaque errors.
func respondError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)
	_ = c.Error(err)

	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
	case errors.Is(err, storage.ErrInvalidContentType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
	case errors.Is(err, service.ErrValidation):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail):
		apperrors.BadRequest(c, apperrors.DuplicateEmail, "An entry with this email already exists")
	case errors.Is(err, service.ErrDuplicateOrderID):
		apperrors.BadRequest(c, apperrors.DuplicateOrderID, "An order with this id already exists")
	case errors.Is(err, service.ErrApplicationNotFound):
		apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application not found")
	case errors.Is(err, service.ErrArtistNotFound):
		apperrors.NotFound(c, apperrors.ArtistNotFound, "Artist not found")
	case errors.Is(err, service.ErrArtworkNotFound):
		apperrors.NotFound(c, apperrors.ArtworkNotFound, "Artwork not found")
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrMessageNotFound):
		apperrors.NotFound(c, apperrors.MessageNotFound, "Message not found")
	case errors.Is(err, service.ErrStorage):
		log.Error("Storage failure: "+action, err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.StorageError, "Failed to store the uploaded file")
	default:
		log.Error("Failed to "+action, err)
		apperrors.InternalError(c, "")
	}
}

// pageParam reads ?page=, defaulting to the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func formInt(c *gin.Context, field string) (int, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", service.ErrValidation, field)
	}
	return n, nil
}

func formFloat(c *gin.Context, field string) (float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", service.ErrValidation, field)
	}
	return n, nil
}

// formSocials collects social links sent as socials[instagram]=... or
// instagram=... form fields.
func formSocials(c *gin.Context) model.Socials {
	socials := model.Socials{}
	if m := c.PostFormMap("socials"); len(m) > 0 {
		for k, v := range m {
			socials[k] = strings.TrimSpace(v)
		}
	}
	for _, network := range model.SocialNetworks {
		if v := strings.TrimSpace(c.PostForm(network)); v != "" {
			socials[network] = v
		}
	}
	return socials.Clean()
}

// formUpload opens the named multipart file. A missing file yields a nil
// upload; the returned closer is always safe to call.
func formUpload(c *gin.Context, field string) (*service.Upload, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("%w: could not read %s: %v", service.ErrValidation, field, err)
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("%w: could not open %s: %v", service.ErrValidation, field, err)
	}
	contentType, err := detectContentType(file)
	if err != nil {
		file.Close()
		return nil, noop, err
	}
	upload := &service.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}
	return upload, func() { file.Close() }, nil
}

// detectContentType sniffs the leading bytes of the upload. The declared part
// header and filename are ignored.
func detectContentType(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: could not read upload: %v", service.ErrValidation, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: could not read upload: %v", service.ErrValidation, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// media fills the transient URL fields from stored keys.
type media struct {
	store storage.Storage
}

func (m media) artwork(a *model.Artwork) {
	if a == nil {
		return
	}
	a.ImageURL = m.store.URL(a.Image)
	m.artist(a.Artist)
}

func (m media) artworks(list []model.Artwork) {
	for i := range list {
		m.artwork(&list[i])
	}
}

func (m media) artist(a *model.Artist) {
	if a == nil {
		return
	}
	a.ProfilePictureURL = m.store.URL(a.ProfilePicture)
}

func (m media) artists(list []model.Artist) {
	for i := range list {
		m.artist(&list[i])
	}
}

func (m media) application(a *model.Application) {
	if a == nil {
		return
	}
	a.ProfilePictureURL = m.store.URL(a.ProfilePicture)
}

func (m media) applications(list []model.Application) {
	for i := range list {
		m.application(&list[i])
	}
}
