package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/petshop-scheduler/internal/auth"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	issuer *auth.TokenIssuer
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, issuer *auth.TokenIssuer, d *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, issuer: issuer, audit: d}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=6"`
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// --------- Responses ---------

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type TokenResponse struct {
	Refresh string       `json:"refresh"`
	Access  string       `json:"access"`
	User    UserResponse `json:"user"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	username := strings.TrimSpace(req.Username)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		writeError(c, err, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}
	if count > 0 {
		httperr.BadRequest(c, "username_exists", "Usuário já existe.")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err, "failed_to_hash_password", "Erro ao processar senha.")
		return
	}

	user := models.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hashed,
	}

	if err := db.Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.BadRequest(c, "username_exists", "Usuário já existe.")
			return
		}
		writeError(c, err, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}

	recordAudit(h.audit, c, audit.ActionUserRegistered, audit.EntityUser, user.ID, nil)

	h.respondWithTokens(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("username = ?", strings.TrimSpace(req.Username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
			return
		}
		writeError(c, err, "internal_error", "Erro ao autenticar.")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
		return
	}

	h.respondWithTokens(c, http.StatusOK, &user)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, err := h.issuer.Parse(req.Refresh, auth.TypeRefresh)
	if err != nil {
		httperr.Unauthorized(c, "invalid_token", "Token inválido ou expirado.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_token", "Token inválido ou expirado.")
			return
		}
		writeError(c, err, "internal_error", "Erro ao renovar token.")
		return
	}

	h.respondWithTokens(c, http.StatusOK, &user)
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, user *models.User) {
	pair, err := h.issuer.Issue(user)
	if err != nil {
		writeError(c, err, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(status, TokenResponse{
		Refresh: pair.Refresh,
		Access:  pair.Access,
		User:    toUserResponse(user),
	})
}
