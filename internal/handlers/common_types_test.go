package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janakural/internal/repositories"
	"github.com/janakural/internal/services"
	"github.com/janakural/pkg/utils"
)

func TestNewPagination(t *testing.T) {
	p := newPagination(41, 2, 20)
	assert.Equal(t, int64(41), p.TotalItems)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 20, p.PageSize)

	assert.Equal(t, int64(0), newPagination(0, 1, 20).TotalPages)
	assert.Equal(t, int64(0), newPagination(5, 1, 0).TotalPages)
}

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{services.ErrIssueNotFound, http.StatusNotFound, "Issue not found"},
		{fmt.Errorf("load: %w", services.ErrAdministratorNotFound), http.StatusNotFound, "Administrator not found"},
		{repositories.ErrAdministratorExists, http.StatusConflict, repositories.ErrAdministratorExists.Error()},
		{services.ErrCannotModifySelf, http.StatusForbidden, services.ErrCannotModifySelf.Error()},
		{services.ErrInvalidCategory, http.StatusBadRequest, "Invalid request parameters"},
		{utils.ErrInvalidPhoneNumberFormat, http.StatusBadRequest, "Invalid request parameters"},
		{errors.New("disk full"), http.StatusInternalServerError, "fallback"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondServiceError(c, tc.err, "fallback")

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		var body utils.APIErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.msg, body.Error)
	}
}
