package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/drive"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/handlers"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/mail"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/repo"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/service"
	httpserver "github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/transport/http"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
	testWebhookSecret = []byte("test-webhook-secret")
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Repo  *repo.GormRepo
	Svc   *service.AuthService
	Drive *drive.Client
	Mail  *mail.Client
}

type envOption func(*testEnv)

func withDrive(c *drive.Client) envOption { return func(e *testEnv) { e.Drive = c } }
func withMail(c *mail.Client) envOption   { return func(e *testEnv) { e.Mail = c } }

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Service{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	store := repo.New(db)
	svc := &service.AuthService{
		Repo:          store,
		JWTSecret:     testJWTSecret,
		RefreshSecret: testRefreshSecret,
	}

	env := &testEnv{
		T:    t,
		E:    echo.New(),
		DB:   db,
		Repo: store,
		Svc:  svc,
	}
	for _, opt := range opts {
		opt(env)
	}

	httpserver.Register(env.E, &httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Svc: svc},
		CatalogHandler: &handlers.CatalogHandler{Repo: store},
		CartHandler:    &handlers.CartHandler{Repo: store},
		OrderHandler:   &handlers.OrderHandler{Repo: store},
		SearchHandler:  &handlers.SearchHandler{},
		WebhookHandler: &handlers.WebhookHandler{
			Repo:   store,
			Secret: testWebhookSecret,
			Drive:  env.Drive,
			Mail:   env.Mail,
		},
		JWTSecret: testJWTSecret,
	})

	return env
}

func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

type sessionBody struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func registerUser(t *testing.T, env *testEnv, name, email, password string) sessionBody {
	t.Helper()

	rec := env.do(http.MethodPost, "/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var s sessionBody
	decode(t, rec, &s)
	require.NotEmpty(t, s.AccessToken)
	require.NotEmpty(t, s.RefreshToken)
	return s
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e errorBody
	decode(t, rec, &e)
	return e.Code
}
