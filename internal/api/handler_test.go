package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalcrm/internal/errs"
)

func TestInvoiceFilename(t *testing.T) {
	assert.Equal(t, "invoice_JUANP_20240115_AB12.txt", invoiceFilename("JUANP_20240115_AB12"))
}

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", errs.NewValidationError("currency", "unknown currency"), http.StatusBadRequest},
		{"not found", errs.NewNotFoundError("order", 42), http.StatusNotFound},
		{"invariant", errs.NewInvariantViolation("totals diverged", nil), http.StatusInternalServerError},
		{"unclassified", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestActingUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(header string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set("X-User-ID", header)
		}
		return c
	}

	user := actingUser(newCtx("42"))
	require.NotNil(t, user)
	assert.Equal(t, int64(42), *user)

	assert.Nil(t, actingUser(newCtx("")))
	assert.Nil(t, actingUser(newCtx("not-a-number")))
}

func TestGenerateInvoiceRecordsAudit(t *testing.T) {
	// Requires a database-backed OrderService; the endpoint only leaves a
	// DOCUMENT_UPLOAD entry and returns the mock attachment
	t.Skip("Integration test - requires database")
}
