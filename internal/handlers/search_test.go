package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"vectorvision/internal/retrieval"
	"vectorvision/internal/retrieval/mocks"
	"vectorvision/internal/service"
)

func TestSearchHandler_Text(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockService)
		expectedStatus int
		expectedPaths  []string
	}{
		{
			name: "ranked results",
			body: `{"text": "red"}`,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().QueryByText(gomock.Any(), "red").Return(retrieval.QueryResult{
					{Path: "/photos/a.png", Rank: 0, Distance: 0},
					{Path: "/photos/sub/c.jpg", Rank: 1, Distance: 0.2},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedPaths:  []string{"/photos/a.png", "/photos/sub/c.jpg"},
		},
		{
			name: "empty text",
			body: `{"text": ""}`,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().QueryByText(gomock.Any(), "").Return(retrieval.QueryResult{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedPaths:  []string{},
		},
		{
			name: "index unavailable",
			body: `{"text": "red"}`,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().QueryByText(gomock.Any(), "red").
					Return(nil, service.IndexUnavailable(errors.New("connection refused"), "search"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "embedding failure",
			body: `{"text": "red"}`,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().QueryByText(gomock.Any(), "red").
					Return(nil, service.EmbeddingFailure(errors.New("timeout"), "query text"))
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "invalid body",
			body:           `text=red`,
			setupMock:      func(*mocks.MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/search/text", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			NewSearchHandler(svc).Text(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.expectedPaths == nil {
				return
			}

			var resp SearchResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			got := resp.Results.Paths()
			if len(got) != len(tt.expectedPaths) {
				t.Fatalf("paths = %v, want %v", got, tt.expectedPaths)
			}
			for i := range got {
				if got[i] != tt.expectedPaths[i] {
					t.Errorf("paths[%d] = %q, want %q", i, got[i], tt.expectedPaths[i])
				}
			}
		})
	}
}

func TestSearchHandler_Image(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockService)
		expectedStatus int
		expectedCode   service.Code
	}{
		{
			name: "found",
			body: `{"image_path": "/photos/a.png"}`,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().QueryByImage(gomock.Any(), "/photos/a.png").
					Return(retrieval.QueryResult{{Path: "/photos/a.png"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing image",
			body: `{"image_path": "/nope.png"}`,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().QueryByImage(gomock.Any(), "/nope.png").
					Return(nil, service.InvalidQueryInput(errors.New("no such file"), "/nope.png"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeQueryInvalidInput,
		},
		{
			name: "index unavailable",
			body: `{"image_path": "/photos/a.png"}`,
			setupMock: func(m *mocks.MockService) {
				m.EXPECT().QueryByImage(gomock.Any(), "/photos/a.png").
					Return(nil, service.IndexUnavailable(errors.New("connection refused"), "search"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   service.CodeIndexUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/search/image", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			NewSearchHandler(svc).Image(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedCode == "" {
				return
			}
			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.expectedCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.expectedCode)
			}
		})
	}
}
