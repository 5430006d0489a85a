package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/quarterly-synth/pkg/document"
	"github.com/de-tools/quarterly-synth/pkg/models/api"
	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/de-tools/quarterly-synth/pkg/services/preview"
	"github.com/go-chi/chi/v5"
	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) Calendar() *domain.Calendar {
	return m.Called().Get(0).(*domain.Calendar)
}

func (m *mockExplorer) ListBusinessUnits(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockExplorer) GetEnterprise(ctx context.Context, period string) (*document.Object, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Object), args.Error(1)
}

func (m *mockExplorer) GetBusinessUnit(ctx context.Context, unit, period string) (*document.Object, error) {
	args := m.Called(ctx, unit, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Object), args.Error(1)
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/periods", h.ListPeriods)
	r.Get("/enterprise/{period}", h.GetEnterprise)
	r.Get("/business-units", h.ListBusinessUnits)
	r.Get("/business-units/{unit}/{period}", h.GetBusinessUnit)
	return r
}

func get(t *testing.T, handler http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestHandler_ListPeriods(t *testing.T) {
	exp := new(mockExplorer)
	exp.On("Calendar").Return(domain.DefaultCalendar())

	code, body := get(t, newRouter(NewHandler(exp)), "/periods")

	assert.Equal(t, http.StatusOK, code)
	var periods []api.Period
	require.NoError(t, json.Unmarshal([]byte(body), &periods))
	require.Len(t, periods, 5)
	assert.Equal(t, "Q4-2024", periods[4].Label)
	assert.True(t, periods[4].Target)
}

func TestHandler_ListBusinessUnits(t *testing.T) {
	exp := new(mockExplorer)
	exp.On("ListBusinessUnits", mock.Anything).Return([]string{"cards", "treasury"}, nil)

	code, body := get(t, newRouter(NewHandler(exp)), "/business-units")

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"id": "cards"}, {"id": "treasury"}]`, body)
}

func TestHandler_Documents(t *testing.T) {
	doc, err := document.Parse([]byte(`{"quarter": "Q4-2024", "name": "Cards"}`))
	require.NoError(t, err)

	tests := []struct {
		name           string
		path           string
		setupMocks     func(*mockExplorer)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "enterprise",
			path: "/enterprise/q4-2024",
			setupMocks: func(m *mockExplorer) {
				m.On("GetEnterprise", mock.Anything, "q4-2024").Return(doc, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "{\n  \"quarter\": \"Q4-2024\",\n  \"name\": \"Cards\"\n}",
		},
		{
			name: "business unit",
			path: "/business-units/cards/q4-2024",
			setupMocks: func(m *mockExplorer) {
				m.On("GetBusinessUnit", mock.Anything, "cards", "q4-2024").Return(doc, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "{\n  \"quarter\": \"Q4-2024\",\n  \"name\": \"Cards\"\n}",
		},
		{
			name: "unknown period",
			path: "/enterprise/q9-2030",
			setupMocks: func(m *mockExplorer) {
				m.On("GetEnterprise", mock.Anything, "q9-2030").
					Return(nil, fmt.Errorf("%w: %q", domain.ErrUnknownPeriod, "q9-2030"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "unknown unit",
			path: "/business-units/loans/q4-2024",
			setupMocks: func(m *mockExplorer) {
				m.On("GetBusinessUnit", mock.Anything, "loans", "q4-2024").Return(nil, preview.ErrUnitNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "malformed baseline",
			path: "/business-units/cards/q1-2024",
			setupMocks: func(m *mockExplorer) {
				m.On("GetBusinessUnit", mock.Anything, "cards", "q1-2024").
					Return(nil, fmt.Errorf("cards-q3-2024.json: %w", document.ErrMalformed))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := new(mockExplorer)
			tt.setupMocks(exp)

			code, body := get(t, newRouter(NewHandler(exp)), tt.path)

			assert.Equal(t, tt.expectedStatus, code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, strings.TrimRight(body, "\n"))
			} else {
				var apiErr api.Error
				require.NoError(t, json.Unmarshal([]byte(body), &apiErr))
				assert.NotEmpty(t, apiErr.Message)
			}
			exp.AssertExpectations(t)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("disk on fire")))
}
