package handler

import (
	"errors"
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

// /auth のAPI
type AuthHandler struct {
	authUC  *usecase.AuthUsecase
	adminUC *usecase.UserAdminUsecase
}

// DI
func NewAuthHandler(authUC *usecase.AuthUsecase, adminUC *usecase.UserAdminUsecase) *AuthHandler {
	return &AuthHandler{
		authUC:  authUC,
		adminUC: adminUC,
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc, admin echo.MiddlewareFunc) {
	e.POST("/auth/register", h.register)
	e.POST("/auth/login", h.login)
	e.POST("/auth/refresh", h.refresh)

	//自分のrefresh tokenの破棄
	e.POST("/auth/revoke", h.revokeSelf, auth)

	//管理系
	g := e.Group("/auth", auth, admin)
	g.POST("/revoke/:username", h.revokeUser)
	g.GET("/users", h.listUsers)
	g.DELETE("/users/:username", h.deleteUser)
	g.GET("/roles", h.listRoles)
	g.POST("/roles", h.createRole)
	g.DELETE("/roles/:name", h.deleteRole)
	g.POST("/roles/assign", h.assignRole)
}

// 認証系エラーをHTTPコードへ変換
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, validator.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	case errors.Is(err, usecase.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, usecase.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
	case errors.Is(err, usecase.ErrInvalidOrExpiredToken):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
	case errors.Is(err, usecase.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.authUC.Register(c.Request().Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.authUC.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.authUC.Refresh(c.Request().Context(), usecase.RefreshInput{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 自分自身のrevoke（bearerのsubで解決）
func (h *AuthHandler) revokeSelf(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.authUC.RevokeByID(c.Request().Context(), userID); err != nil {
		return writeAuthError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// 管理者による任意ユーザーのrevoke
func (h *AuthHandler) revokeUser(c echo.Context) error {
	if err := h.authUC.RevokeByUsername(c.Request().Context(), c.Param("username")); err != nil {
		return writeAuthError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) listUsers(c echo.Context) error {
	users, err := h.adminUC.ListUsers(c.Request().Context())
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AuthHandler) deleteUser(c echo.Context) error {
	if err := h.adminUC.DeleteUser(c.Request().Context(), c.Param("username")); err != nil {
		return writeAuthError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) listRoles(c echo.Context) error {
	roles, err := h.adminUC.ListRoles(c.Request().Context())
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, roles)
}

type createRoleRequest struct {
	Name string `json:"name"`
}

func (h *AuthHandler) createRole(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	role, err := h.adminUC.CreateRole(c.Request().Context(), req.Name)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, role)
}

func (h *AuthHandler) deleteRole(c echo.Context) error {
	if err := h.adminUC.DeleteRole(c.Request().Context(), c.Param("name")); err != nil {
		return writeAuthError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type assignRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AuthHandler) assignRole(c echo.Context) error {
	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.adminUC.AssignRole(c.Request().Context(), req.Email, req.Role); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "role assigned"})
}
