package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/handler"
	service_mocks "github.com/Astemirdum/library-management/library/internal/handler/mocks"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var (
	loanID    = uuid.MustParse("5d3a1f9e-2c41-4b8e-9d0a-7a1c2e3f4b5c")
	studentID = uuid.MustParse("83575e12-7ce0-48ee-9931-51919ff3c9ee")
	assetID   = uuid.MustParse("f7cdc58f-2caf-4b15-9727-f89dcc629b27")
	created   = time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
)

type request struct {
	method      string
	target      string
	body        string
	contentType string
}

type response struct {
	expectedCode int
	expectedBody string
}

type testCase struct {
	name         string
	mockBehavior func(r *service_mocks.MockLibraryService)
	request      request
	response     response
}

func run(t *testing.T, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))
			e := h.NewRouter()

			r := httptest.NewRequest(tt.request.method, tt.request.target, strings.NewReader(tt.request.body))
			ct := tt.request.contentType
			if ct == "" {
				ct = echo.MIMEApplicationJSON
			}
			r.Header.Set(echo.HeaderContentType, ct)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Root(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name:         "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			request:      request{method: http.MethodGet, target: "/api/v1/"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"status":"Success","message":"It's ok!"}`,
			},
		},
	})
}

func TestHandler_CreateLoan(t *testing.T) {
	t.Parallel()
	loan := model.Loan{
		ID:        loanID,
		Student:   studentID,
		Asset:     assetID,
		Period:    created.Add(model.LoanPeriod),
		CreatedAt: created,
	}
	reqBody := `{"student":"` + studentID.String() + `","asset":"` + assetID.String() + `"}`
	req := model.CreateLoanRequest{Student: studentID.String(), Asset: assetID.String()}

	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().CreateLoan(gomock.Any(), req).Return(loan, nil)
			},
			request: request{method: http.MethodPost, target: "/api/v1/loans", body: reqBody},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"created":{"id":"5d3a1f9e-2c41-4b8e-9d0a-7a1c2e3f4b5c","student":"83575e12-7ce0-48ee-9931-51919ff3c9ee","asset":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","period":"2024-06-30T00:00:00Z","created_at":"2024-06-20T00:00:00Z"},"status":"Success"}`,
			},
		},
		{
			name: "err. asset already on loan",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().CreateLoan(gomock.Any(), req).Return(model.Loan{}, errors.Wrap(errs.ErrConflict, "asset already on loan"))
			},
			request: request{method: http.MethodPost, target: "/api/v1/loans", body: reqBody},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"status":"Error","message":"asset already on loan: resource not available"}`,
			},
		},
		{
			name: "err. unknown student",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().CreateLoan(gomock.Any(), req).Return(model.Loan{}, errs.ErrNotFound)
			},
			request: request{method: http.MethodPost, target: "/api/v1/loans", body: reqBody},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"status":"Error","message":"not found"}`,
			},
		},
		{
			name:         "err. validation",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			request:      request{method: http.MethodPost, target: "/api/v1/loans", body: `{"student":"abc"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"status":"Error","message":"validation failed","errors":[{"field":"student","message":"student must be a valid id"},{"field":"asset","message":"asset is required"}]}`,
			},
		},
		{
			name:         "err. malformed body",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			request:      request{method: http.MethodPost, target: "/api/v1/loans", body: `{"student":`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"status":"Error","message":"invalid request body"}`,
			},
		},
	})
}

func TestHandler_UpdateLoan(t *testing.T) {
	t.Parallel()
	otherAsset := uuid.New()
	req := model.UpdateLoanRequest{Asset: otherAsset.String()}

	due := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	okReq := model.UpdateLoanRequest{Asset: otherAsset.String(), Period: &model.Date{Time: due}}
	updated := model.Loan{
		ID:        loanID,
		Student:   studentID,
		Asset:     otherAsset,
		Period:    due,
		CreatedAt: created,
	}

	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UpdateLoan(gomock.Any(), loanID, okReq).Return(updated, nil)
			},
			request: request{
				method: http.MethodPut,
				target: "/api/v1/loans/" + loanID.String(),
				body:   `{"asset":"` + otherAsset.String() + `","period":"2024-07-15"}`,
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"status":"Success","updated":{"id":"5d3a1f9e-2c41-4b8e-9d0a-7a1c2e3f4b5c","student":"83575e12-7ce0-48ee-9931-51919ff3c9ee","asset":"` + otherAsset.String() + `","period":"2024-07-15T00:00:00Z","created_at":"2024-06-20T00:00:00Z"}}`,
			},
		},
		{
			name: "err. target asset taken",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UpdateLoan(gomock.Any(), loanID, req).Return(model.Loan{}, errs.ErrConflict)
			},
			request: request{method: http.MethodPut, target: "/api/v1/loans/" + loanID.String(), body: `{"asset":"` + otherAsset.String() + `"}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"status":"Error","message":"resource not available"}`,
			},
		},
		{
			name:         "err. malformed id",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			request:      request{method: http.MethodPut, target: "/api/v1/loans/123", body: `{}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"status":"Error","message":"invalid id"}`,
			},
		},
	})
}

func TestHandler_DeleteLoan(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteLoan(gomock.Any(), loanID).Return(model.Loan{ID: loanID}, nil)
			},
			request: request{method: http.MethodDelete, target: "/api/v1/loans/" + loanID.String()},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"status":"Success","message":"loan deleted"}`,
			},
		},
		{
			name: "err. not found",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteLoan(gomock.Any(), loanID).Return(model.Loan{}, errs.ErrNotFound)
			},
			request: request{method: http.MethodDelete, target: "/api/v1/loans/" + loanID.String()},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"status":"Error","message":"not found"}`,
			},
		},
	})
}

func TestHandler_ListAssets(t *testing.T) {
	t.Parallel()
	asset := model.Asset{
		ID:              assetID,
		Asset:           "Clean Code",
		PublicationDate: time.Date(2008, 8, 1, 0, 0, 0, 0, time.UTC),
		Image:           model.DefaultImage,
		Author: model.Author{
			Name:         "Robert C. Martin",
			DateOfBirth:  time.Date(1952, 12, 5, 0, 0, 0, 0, time.UTC),
			PlaceOfBirth: "USA",
		},
		CreatedAt: created,
	}
	run(t, []testCase{
		{
			name: "available",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListAvailableAssets(gomock.Any()).Return([]model.Asset{asset}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/assets"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"assets":[{"id":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","asset":"Clean Code","publicationDate":"2008-08-01T00:00:00Z","image":"default.png","author":{"name":"Robert C. Martin","dateOfBirth":"1952-12-05T00:00:00Z","placeOfBirth":"USA"},"created_at":"2024-06-20T00:00:00Z"}],"status":"Success"}`,
			},
		},
		{
			name: "nothing on loan",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListLoanedAssets(gomock.Any()).Return(nil, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/assets/loans"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"assets":[],"status":"Success"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListAvailableAssets(gomock.Any()).Return(nil, errors.New("db internal"))
			},
			request: request{method: http.MethodGet, target: "/api/v1/assets"},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"status":"Error","message":"db internal"}`,
			},
		},
	})
}

func TestHandler_DeleteAsset(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteAsset(gomock.Any(), assetID).Return(nil)
			},
			request: request{method: http.MethodDelete, target: "/api/v1/assets/" + assetID.String()},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"status":"Success","message":"asset deleted"}`,
			},
		},
		{
			name:         "err. malformed id",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			request:      request{method: http.MethodDelete, target: "/api/v1/assets/not-an-id"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"status":"Error","message":"invalid id"}`,
			},
		},
	})
}

func TestHandler_Students(t *testing.T) {
	t.Parallel()
	programID := uuid.MustParse("0f0e0d0c-0b0a-4908-8706-050403020100")
	student := model.Student{
		ID:             studentID,
		Identification: 1001,
		Name:           "Ana",
		LastNames:      "Lopez",
		Program:        &programID,
		CreatedAt:      created,
	}
	run(t, []testCase{
		{
			name: "find ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().FindStudent(gomock.Any(), int64(1001)).Return(student, nil)
			},
			request: request{method: http.MethodPost, target: "/api/v1/students/find", body: `{"identification":1001}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"status":"Success","student":{"id":"83575e12-7ce0-48ee-9931-51919ff3c9ee","identification":1001,"name":"Ana","lastNames":"Lopez","program":"0f0e0d0c-0b0a-4908-8706-050403020100","created_at":"2024-06-20T00:00:00Z"}}`,
			},
		},
		{
			name: "err. find not found",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().FindStudent(gomock.Any(), int64(42)).Return(model.Student{}, errs.ErrNotFound)
			},
			request: request{method: http.MethodPost, target: "/api/v1/students/find", body: `{"identification":42}`},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"status":"Error","message":"not found"}`,
			},
		},
		{
			name:         "err. create without program",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			request:      request{method: http.MethodPost, target: "/api/v1/students", body: `{"identification":7,"name":"Ana","lastNames":"Lopez"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"status":"Error","message":"validation failed","errors":[{"field":"program","message":"program is required"}]}`,
			},
		},
	})
}

func TestHandler_Programs(t *testing.T) {
	t.Parallel()
	program := model.Program{ID: uuid.MustParse("0f0e0d0c-0b0a-4908-8706-050403020100"), Name: "Software Engineering", CreatedAt: created}
	run(t, []testCase{
		{
			name: "create ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().CreateProgram(gomock.Any(), model.CreateProgramRequest{Name: "Software Engineering"}).Return(program, nil)
			},
			request: request{method: http.MethodPost, target: "/api/v1/programs", body: `{"name":"Software Engineering"}`},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"created":{"id":"0f0e0d0c-0b0a-4908-8706-050403020100","name":"Software Engineering","created_at":"2024-06-20T00:00:00Z"},"status":"Success"}`,
			},
		},
		{
			name:         "err. empty name",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			request:      request{method: http.MethodPost, target: "/api/v1/programs", body: `{"name":""}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"status":"Error","message":"validation failed","errors":[{"field":"name","message":"name is required"}]}`,
			},
		},
		{
			name: "list empty",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListPrograms(gomock.Any()).Return([]model.Program{}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/programs"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"programs":[],"status":"Success"}`,
			},
		},
	})
}

func multipartBody(t *testing.T, field, filename, content string) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.String(), mw.FormDataContentType()
}

func TestHandler_UploadImage(t *testing.T) {
	t.Parallel()
	okBody, okCT := multipartBody(t, "file0", "cover.png", "png")
	bmpBody, bmpCT := multipartBody(t, "file0", "cover.bmp", "bmp")
	wrongBody, wrongCT := multipartBody(t, "image", "cover.png", "png")
	target := "/api/v1/assets/uploads/" + assetID.String()

	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UploadImage(gomock.Any(), assetID, "cover.png", gomock.Any()).
					Return(model.UploadedFile{Filename: "asset-1718841600000-cover.png"}, nil)
			},
			request: request{method: http.MethodPost, target: target, body: okBody, contentType: okCT},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"image":"asset-1718841600000-cover.png","message":"image uploaded","status":"Success"}`,
			},
		},
		{
			name: "err. invalid format",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UploadImage(gomock.Any(), assetID, "cover.bmp", gomock.Any()).
					Return(model.UploadedFile{}, errs.ErrInvalidFormat)
			},
			request: request{method: http.MethodPost, target: target, body: bmpBody, contentType: bmpCT},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"status":"Error","message":"invalid image format"}`,
			},
		},
		{
			name:         "err. no file",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			request:      request{method: http.MethodPost, target: target, body: wrongBody, contentType: wrongCT},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"status":"Error","message":"no file was sent"}`,
			},
		},
	})
}

func TestHandler_GetImage(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "asset-1-cover.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ImagePath(gomock.Any(), "asset-1-cover.png").Return(path, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/assets/uploads/asset-1-cover.png"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: "png-bytes",
			},
		},
		{
			name: "err. missing",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ImagePath(gomock.Any(), "nope.png").Return("", errs.ErrNotFound)
			},
			request: request{method: http.MethodGet, target: "/api/v1/assets/uploads/nope.png"},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"status":"Error","message":"image does not exist"}`,
			},
		},
	})
}

func TestHandler_LoanHistory(t *testing.T) {
	t.Parallel()
	event := model.LoanEvent{
		ID:        uuid.MustParse("11111111-2222-4333-8444-555555555555"),
		LoanID:    loanID,
		Student:   studentID,
		Asset:     assetID,
		Type:      model.LoanReturned,
		Period:    created.Add(model.LoanPeriod),
		Timestamp: created,
	}
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListLoanEvents(gomock.Any()).Return([]model.LoanEvent{event}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/loans/history"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"events":[{"id":"11111111-2222-4333-8444-555555555555","loan":"5d3a1f9e-2c41-4b8e-9d0a-7a1c2e3f4b5c","student":"83575e12-7ce0-48ee-9931-51919ff3c9ee","asset":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","type":"RETURNED","period":"2024-06-30T00:00:00Z","timestamp":"2024-06-20T00:00:00Z"}],"status":"Success"}`,
			},
		},
	})
}
