package token

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kitsu-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))
	return db
}

func TestRotateToken(t *testing.T) {
	db := newTestDB(t)
	svc := &TokenService{DB: db, JWTSecret: []byte("jwt_test"), RefreshSecret: []byte("refresh_test")}

	refresh, err := SignRefreshToken(1, "admin", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(db, refresh, 1))

	access, newRefresh, claims, err := svc.RotateToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, newRefresh)
	require.NotEqual(t, refresh, newRefresh)
	require.Equal(t, "admin", claims["role"])

	// old token is revoked after rotation
	_, _, _, err = svc.RotateToken(refresh)
	require.Error(t, err)

	// the replacement still works
	_, _, _, err = svc.RotateToken(newRefresh)
	require.NoError(t, err)
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	db := newTestDB(t)

	access, err := SignAccessToken(1, "admin", []byte("jwt_test"))
	require.NoError(t, err)

	_, err = ValidateRefresh(access, []byte("jwt_test"), db)
	require.Error(t, err)
}

func TestValidateRefreshRevoked(t *testing.T) {
	db := newTestDB(t)
	svc := &TokenService{DB: db, JWTSecret: []byte("jwt_test"), RefreshSecret: []byte("refresh_test")}

	refresh, err := SignRefreshToken(1, "admin", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(db, refresh, 1))
	require.NoError(t, svc.RevokeRefresh(refresh))

	_, err = ValidateRefresh(refresh, svc.RefreshSecret, db)
	require.Error(t, err)
}
