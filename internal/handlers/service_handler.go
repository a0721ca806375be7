package handlers

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/petshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
	"github.com/BruksfildServices01/petshop-scheduler/internal/usecase/dashboard"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	stats *dashboard.GetStats
}

func NewServiceHandler(db *gorm.DB, d *audit.Dispatcher, stats *dashboard.GetStats) *ServiceHandler {
	return &ServiceHandler{db: db, audit: d, stats: stats}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0,lt=1000000"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Active      *bool   `json:"active,omitempty"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0,lt=1000000"`
	DurationMin *int     `json:"duration_min,omitempty" binding:"omitempty,min=1"`
	Active      *bool    `json:"active,omitempty"`
}

var serviceOrderings = map[string]string{
	"name":   "name ASC",
	"-name":  "name DESC",
	"price":  "price ASC",
	"-price": "price DESC",
}

// roundPrice keeps two decimal places, as stored.
func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

// ======================================================
// LIST
// ======================================================

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Service{})

	if c.Query("include_inactive") != "true" {
		q = q.Where("active = ?", true)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := likePattern(search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	order, ok := serviceOrderings[c.Query("ordering")]
	if !ok {
		order = serviceOrderings["name"]
	}

	var services []models.Service
	if err := q.Order(order).Order("id ASC").Find(&services).Error; err != nil {
		writeError(c, err, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, dto.FromServices(services))
}

// ======================================================
// CREATE
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, "invalid_request", "Nome é obrigatório.")
		return
	}

	service := models.Service{
		Name:        name,
		Description: req.Description,
		Price:       roundPrice(req.Price),
		DurationMin: req.DurationMin,
		Active:      true,
	}

	db := h.db.WithContext(c.Request.Context())
	if err := db.Create(&service).Error; err != nil {
		writeError(c, err, "failed_to_create_service", "Erro ao cadastrar serviço.")
		return
	}

	// gorm skips zero values that have a column default, so an inactive
	// service needs a second write.
	if req.Active != nil && !*req.Active {
		if err := db.Model(&service).Update("active", false).Error; err != nil {
			writeError(c, err, "failed_to_create_service", "Erro ao cadastrar serviço.")
			return
		}
		service.Active = false
	}

	recordAudit(h.audit, c, audit.ActionServiceCreated, audit.EntityService, service.ID, nil)
	h.stats.Invalidate(c.Request.Context())

	httpresp.Created(c, dto.FromService(service))
}

// ======================================================
// GET
// ======================================================

func (h *ServiceHandler) Get(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, dto.FromService(*service))
}

// ======================================================
// UPDATE (PUT / PATCH)
// ======================================================

func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_request", "Nome é obrigatório.")
			return
		}
		service.Name = name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = roundPrice(*req.Price)
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(service).Error; err != nil {
		writeError(c, err, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	recordAudit(h.audit, c, audit.ActionServiceUpdated, audit.EntityService, service.ID, nil)
	h.stats.Invalidate(c.Request.Context())

	httpresp.OK(c, dto.FromService(*service))
}

// ======================================================
// DELETE (cascata: agendamentos)
// ======================================================

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.First(&service, id).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", service.ID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Service{}, service.ID).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		writeError(c, err, "failed_to_delete_service", "Erro ao excluir serviço.")
		return
	}

	recordAudit(h.audit, c, audit.ActionServiceDeleted, audit.EntityService, id, nil)
	h.stats.Invalidate(ctx)

	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return nil, false
		}
		writeError(c, err, "failed_to_get_service", "Erro ao carregar serviço.")
		return nil, false
	}

	return &service, true
}
