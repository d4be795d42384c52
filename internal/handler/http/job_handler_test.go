package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
	"go.uber.org/mock/gomock"

	"github.com/yokitheyo/mediacompressor/internal/domain"
	"github.com/yokitheyo/mediacompressor/internal/dto"
	"github.com/yokitheyo/mediacompressor/internal/mocks"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func serve(t *testing.T, jobs domain.JobService, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	NewRouter(jobs).ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := serve(t, mocks.NewMockJobService(ctrl), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := serve(t, mocks.NewMockJobService(ctrl), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestGetJob(t *testing.T) {
	tests := []struct {
		name       string
		job        *domain.CompressionJob
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "found",
			job:        &domain.CompressionJob{MediaID: "42", Status: domain.JobCompleted, Outcome: "compressed", Attempts: 1},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			err:        domain.ErrJobNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "ledger disabled",
			err:        domain.ErrLedgerDisabled,
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "ledger_disabled",
		},
		{
			name:       "database error",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jobs := mocks.NewMockJobService(ctrl)
			jobs.EXPECT().GetJob(gomock.Any(), "42").Return(tt.job, tt.err)

			rec := serve(t, jobs, "/jobs/42")
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantError != "" {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantError, resp.Error)
				return
			}

			var resp dto.JobResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "42", resp.MediaID)
			assert.Equal(t, "completed", resp.Status)
			assert.Equal(t, "compressed", resp.Outcome)
		})
	}
}
