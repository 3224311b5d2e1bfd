package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"kitsu-backend/internal/hash"
	"kitsu-backend/internal/logging"
	"kitsu-backend/internal/models"
	"kitsu-backend/internal/service/token"
)

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	var user models.AdminUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		l.Warn("login_error", "username", req.Username)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_error", "username", req.Username)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	access, err := token.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	refresh, err := token.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := token.SaveRefreshToken(h.DB, refresh, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(token.CreateCookie("accessToken", access, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie("refreshToken", refresh, "/", time.Now().Add(token.RefreshTTL)))

	l.Info("login_success", "username", user.Username)
	return c.JSON(http.StatusOK, echo.Map{"username": user.Username, "role": user.Role})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie("refreshToken"); err == nil {
		svc := token.TokenService{DB: h.DB, JWTSecret: h.JWTSecret, RefreshSecret: h.RefreshSecret}
		if err := svc.RevokeRefresh(ck.Value); err != nil {
			logging.FromContext(c.Request().Context()).Warn("logout_revoke_error", "error", err)
		}
	}

	c.SetCookie(token.CreateCookie("accessToken", "", "/", time.Unix(0, 0)))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", time.Unix(0, 0)))

	return c.NoContent(http.StatusNoContent)
}
