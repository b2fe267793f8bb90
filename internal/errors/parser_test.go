package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"nil error", nil, "", InternalServerError},
		{"record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), "get artist", ResourceNotFound},
		{"postgres duplicate email", errors.New(`ERROR: duplicate key value violates unique constraint "idx_artists_email"`), "create artist", DuplicateEmail},
		{"sqlite duplicate order id", errors.New("UNIQUE constraint failed: orders.order_id"), "create order", DuplicateOrderID},
		{"foreign key", errors.New("violates foreign key constraint fk_artworks_artist"), "create artwork", ResourceNotFound},
		{"timeout", errors.New("dial tcp: i/o timeout"), "list", InternalExternalAPI},
		{"unknown", errors.New("syntax error"), "update order", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
			assert.NotContains(t, info.Message, "constraint")
		})
	}
}

func TestParseError_NotFoundMessageUsesContext(t *testing.T) {
	assert.Equal(t, "Artwork not found", ParseError(gorm.ErrRecordNotFound, "get artwork").Message)
	assert.Equal(t, "Artist not found", ParseError(gorm.ErrRecordNotFound, "get artist").Message)
}

func TestParseAndRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ParseAndRespond(c, gorm.ErrRecordNotFound, "get order")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"RESOURCE_NOT_FOUND","message":"Order not found"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}
