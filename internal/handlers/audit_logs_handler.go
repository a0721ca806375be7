package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
	"github.com/BruksfildServices01/petshop-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: loc}
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// List pages through audit_logs, newest first. page and limit must be
// positive integers when given.
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, ok := queryUint(c, "page")
	if !ok {
		return
	}
	if page == 0 {
		page = 1
	}

	limit, ok := queryUint(c, "limit")
	if !ok {
		return
	}
	if limit == 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		httperr.BadRequest(c, "invalid_limit", "Parâmetro limit deve ser no máximo 200.")
		return
	}

	offset := int(page-1) * int(limit)

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	userID, ok := queryUint(c, "user_id")
	if !ok {
		return
	}
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := timezone.ParseDate(fromStr, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida. Use o formato AAAA-MM-DD.")
			return
		}
		q = q.Where("created_at >= ?", from.UTC())
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := timezone.ParseDate(toStr, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida. Use o formato AAAA-MM-DD.")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
	}

	// --------------------------------------------------
	// Total + página
	// --------------------------------------------------

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		writeError(c, err, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(int(limit)).
		Offset(offset).
		Find(&logs).Error; err != nil {
		writeError(c, err, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, int(page), int(limit), total)
}
