package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == nil {
		httperr.Unauthorized(c, "user_not_in_context", "Autenticação necessária.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, *userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "user_not_found", "Usuário não encontrado.")
			return
		}
		writeError(c, err, "internal_error", "Erro ao carregar usuário.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(&user)})
}
