package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kitsu-backend/internal/models"
	"kitsu-backend/internal/service"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Menu    *MenuHandler
	Order   *OrderHandler
	Payment *PaymentHandler
	Admin   *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	// one pooled connection, otherwise every conn sees its own :memory: db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AdminUser{},
		&models.RefreshToken{},
	)
	require.NoError(t, err)

	orderSvc := &service.OrderService{DB: db}

	return &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		Menu:    &MenuHandler{DB: db},
		Order:   &OrderHandler{Svc: orderSvc, UploadDir: t.TempDir()},
		Payment: &PaymentHandler{Svc: &service.PaymentService{DB: db}},
		Admin:   &AdminHandler{Orders: orderSvc, Stats: &service.StatsService{DB: db}},
	}
}

func (env *testEnv) seedMenuItem(name, price string, available bool) models.MenuItem {
	env.T.Helper()

	item := models.MenuItem{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Available: available,
	}
	require.NoError(env.T, env.DB.Create(&item).Error)
	return item
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func (env *testEnv) doFormRequest(path string, fields map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	return env.doUploadRequest(http.MethodPost, path, fields, "", nil)
}

func (env *testEnv) doUploadRequest(method, path string, fields map[string]string, fileField string, fileBody []byte) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, "slip.jpg")
		require.NoError(env.T, err)
		_, err = fw.Write(fileBody)
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())

	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func decodeBody(t *testing.T, r io.Reader, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(dst))
}
