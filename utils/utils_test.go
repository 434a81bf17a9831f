package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"impactplanner/apperrors"
	"impactplanner/models"
	"impactplanner/utils"

	"github.com/stretchr/testify/require"
)

func TestHandleServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidation("next task must stay first"), http.StatusBadRequest},
		{"not found", apperrors.NewNotFound("job", "abc"), http.StatusNotFound},
		{"store unavailable", &apperrors.StoreUnavailableError{Op: "read jobs", Err: errors.New("timeout")}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			utils.HandleServiceError(recorder, tc.err)
			require.Equal(t, tc.want, recorder.Code)

			var response models.MessageResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
			require.Equal(t, tc.want, response.StatusCode)
			require.NotEmpty(t, response.Message)
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		body := bytes.NewBufferString(`{"title":"write tests"}`)
		request := httptest.NewRequest(http.MethodPost, "/", body)
		recorder := httptest.NewRecorder()

		var req models.CreateTaskRequest
		require.NoError(t, utils.DecodeAndValidate(recorder, request, &req))
		require.Equal(t, "write tests", req.Title)
	})

	t.Run("malformed json", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{"))
		recorder := httptest.NewRecorder()

		var req models.CreateTaskRequest
		require.Error(t, utils.DecodeAndValidate(recorder, request, &req))
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing required field", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"notes":"no title"}`))
		recorder := httptest.NewRecorder()

		var req models.CreateTaskRequest
		require.Error(t, utils.DecodeAndValidate(recorder, request, &req))
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var response models.ValidationResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		require.NotNil(t, response.Errors)
	})
}
