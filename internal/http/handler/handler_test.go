package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"imagevault/internal/auth"
	"imagevault/internal/http/middleware"
	"imagevault/internal/model"
	"imagevault/internal/service"
	serviceMocks "imagevault/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body failurePayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.False(t, body.Success)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignup(t *testing.T) {
	mockSvc := new(serviceMocks.MockAccountService)
	app := fiber.New()
	app.Post("/signup", Signup(mockSvc))

	body := map[string]string{
		"firstName":       "Alice",
		"lastName":        "Doe",
		"email":           "alice@example.com",
		"password":        "pw",
		"confirmPassword": "pw",
	}

	t.Run("success does not echo the password hash", func(t *testing.T) {
		mockSvc.On("Signup", mock.Anything, service.SignupInput{
			FirstName: "Alice", LastName: "Doe", Email: "alice@example.com",
			Password: "pw", ConfirmPassword: "pw",
		}).Return(&model.User{ID: "user-1", Email: "alice@example.com", Password: "bcrypt-hash", Role: "user"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/signup", body))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res struct {
			Success bool           `json:"success"`
			User    map[string]any `json:"user"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		assert.True(t, res.Success)
		assert.Equal(t, "user-1", res.User["id"])
		// The password hash must never serialize into a response.
		_, leaked := res.User["password"]
		assert.False(t, leaked)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockSvc.On("Signup", mock.Anything, mock.Anything).Return(nil, service.ErrFieldsRequired).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/signup", map[string]string{"email": "alice@example.com"}))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("password mismatch", func(t *testing.T) {
		mockSvc.On("Signup", mock.Anything, mock.Anything).Return(nil, service.ErrPasswordMismatch).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/signup", body))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockSvc.On("Signup", mock.Anything, mock.Anything).Return(nil, service.ErrEmailTaken).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/signup", body))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Signup", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/signup", body))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	mockSvc := new(serviceMocks.MockAccountService)
	app := fiber.New()
	app.Post("/login", Login(mockSvc))

	body := map[string]string{"email": "alice@example.com", "password": "pw"}

	t.Run("success sets session cookie", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "alice@example.com", "pw").
			Return("signed-token", &model.User{ID: "user-1", Email: "alice@example.com", Token: "signed-token"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", body))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		assert.True(t, res.Success)
		assert.Equal(t, "signed-token", res.Token)

		cookies := resp.Cookies()
		require.Len(t, cookies, 1)
		cookie := cookies[0]
		assert.Equal(t, "token", cookie.Name)
		assert.Equal(t, "signed-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		mockSvc.AssertExpectations(t)
	})

	t.Run("cookie outlives token", func(t *testing.T) {
		// The session cookie lasts 3 days while the token inside it
		// expires after 24 hours. This test documents the mismatch.
		mockSvc.On("Login", mock.Anything, "alice@example.com", "pw").
			Return("signed-token", &model.User{ID: "user-1"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", body))

		cookies := resp.Cookies()
		require.Len(t, cookies, 1)
		assert.WithinDuration(t, time.Now().Add(sessionCookieTTL), cookies[0].Expires, time.Minute)
		assert.Greater(t, sessionCookieTTL, auth.TokenExpiry)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "", "").Return("", nil, service.ErrFieldsRequired).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "alice@example.com", "pw").
			Return("", nil, service.ErrUserNotFound).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", body))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "alice@example.com", "pw").
			Return("", nil, service.ErrWrongPassword).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", body))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func multipartUpload(t *testing.T, userID, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("userId", userID))
	part, err := writer.CreateFormFile("imageFile", filename)
	require.NoError(t, err)
	part.Write([]byte(content))
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/imageUpload", UploadImage(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, contentType := multipartUpload(t, "user-1", "selfie.jpg", "jpg bytes")

		mockSvc.On("UploadImage", mock.Anything, "user-1", mock.Anything, "selfie.jpg", int64(9), mock.Anything).
			Return("http://media/host/obj-1", nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/imageUpload", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res struct {
			Success  bool   `json:"success"`
			ImageURL string `json:"imageUrl"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		assert.True(t, res.Success)
		assert.Equal(t, "http://media/host/obj-1", res.ImageURL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/imageUpload", strings.NewReader(""))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unsupported type", func(t *testing.T) {
		body, contentType := multipartUpload(t, "user-1", "report.pdf", "pdf bytes")

		mockSvc.On("UploadImage", mock.Anything, "user-1", mock.Anything, "report.pdf", int64(9), mock.Anything).
			Return("", service.ErrUnsupportedType).Once()

		req := httptest.NewRequest(http.MethodPost, "/imageUpload", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var res failurePayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, service.ErrUnsupportedType.Error(), res.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("link failure", func(t *testing.T) {
		body, contentType := multipartUpload(t, "ghost", "selfie.jpg", "jpg bytes")

		mockSvc.On("UploadImage", mock.Anything, "ghost", mock.Anything, "selfie.jpg", int64(9), mock.Anything).
			Return("", service.ErrUploadFailed).Once()

		req := httptest.NewRequest(http.MethodPost, "/imageUpload", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/deleteImage", DeleteImage(mockSvc))

	body := map[string]string{"userId": "user-1", "documentId": "doc-1"}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("DeleteImage", mock.Anything, "user-1", "doc-1").Return(nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/deleteImage", body))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res struct {
			Success bool `json:"success"`
		}
		json.NewDecoder(resp.Body).Decode(&res)
		assert.True(t, res.Success)
		mockSvc.AssertExpectations(t)
	})

	for _, svcErr := range []error{
		service.ErrDocumentNotFound,
		service.ErrMediaDeleteFailed,
		service.ErrLinkRemovalFailed,
	} {
		t.Run(svcErr.Error(), func(t *testing.T) {
			mockSvc.On("DeleteImage", mock.Anything, "user-1", "doc-1").Return(svcErr).Once()

			resp, _ := app.Test(jsonRequest(http.MethodPost, "/deleteImage", body))

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var res failurePayload
			json.NewDecoder(resp.Body).Decode(&res)
			assert.Equal(t, svcErr.Error(), res.Message)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestProfile(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")

	newApp := func(mockSvc *serviceMocks.MockAccountService) *fiber.App {
		app := fiber.New()
		app.Get("/profile", middleware.Auth(tokens), Profile(mockSvc))
		return app
	}

	t.Run("authenticated", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAccountService)
		app := newApp(mockSvc)

		token, err := tokens.Generate("alice@example.com", "user-1", "user")
		require.NoError(t, err)

		mockSvc.On("Profile", mock.Anything, "user-1").
			Return(&model.User{ID: "user-1", Email: "alice@example.com", Documents: []string{"doc-1"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing token", func(t *testing.T) {
		app := newApp(new(serviceMocks.MockAccountService))

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAccountService)
		app := newApp(mockSvc)

		token, err := tokens.Generate("ghost@example.com", "ghost", "user")
		require.NoError(t, err)

		mockSvc.On("Profile", mock.Anything, "ghost").Return(nil, service.ErrUserNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}
