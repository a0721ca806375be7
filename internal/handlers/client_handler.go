package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/petshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
	"github.com/BruksfildServices01/petshop-scheduler/internal/storage"
	"github.com/BruksfildServices01/petshop-scheduler/internal/usecase/dashboard"
	"github.com/BruksfildServices01/petshop-scheduler/internal/validators"
)

type ClientHandler struct {
	db     *gorm.DB
	loc    *time.Location
	emails validators.EmailChecker
	photos storage.PhotoStore
	audit  *audit.Dispatcher
	stats  *dashboard.GetStats
}

func NewClientHandler(
	db *gorm.DB,
	loc *time.Location,
	emails validators.EmailChecker,
	photos storage.PhotoStore,
	d *audit.Dispatcher,
	stats *dashboard.GetStats,
) *ClientHandler {
	return &ClientHandler{
		db:     db,
		loc:    loc,
		emails: emails,
		photos: photos,
		audit:  d,
		stats:  stats,
	}
}

// --------- Requests ---------

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,max=254"`
	Phone string `json:"phone" binding:"max=20"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Email *string `json:"email,omitempty" binding:"omitempty,max=254"`
	Phone *string `json:"phone,omitempty" binding:"omitempty,max=20"`
}

var clientOrderings = map[string]string{
	"name":           "name ASC",
	"-name":          "name DESC",
	"registered_at":  "created_at ASC",
	"-registered_at": "created_at DESC",
}

// ======================================================
// LIST
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Pets")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := likePattern(search)
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, like,
		)
	}

	order, ok := clientOrderings[c.Query("ordering")]
	if !ok {
		order = clientOrderings["name"]
	}

	var clients []models.Client
	if err := q.Order(order).Order("id ASC").Find(&clients).Error; err != nil {
		writeError(c, err, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, dto.FromClients(clients, h.loc))
}

// ======================================================
// CREATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.emails.Valid(email) {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return
	}

	client := models.Client{
		Name:  strings.TrimSpace(req.Name),
		Email: email,
		Phone: strings.TrimSpace(req.Phone),
	}

	db := h.db.WithContext(c.Request.Context())

	taken, err := h.emailTaken(db, email, 0)
	if err != nil {
		writeError(c, err, "failed_to_create_client", "Erro ao cadastrar cliente.")
		return
	}
	if taken {
		emailConflict(c)
		return
	}

	if err := db.Create(&client).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			emailConflict(c)
			return
		}
		writeError(c, err, "failed_to_create_client", "Erro ao cadastrar cliente.")
		return
	}

	recordAudit(h.audit, c, audit.ActionClientCreated, audit.EntityClient, client.ID, nil)
	h.stats.Invalidate(c.Request.Context())

	httpresp.Created(c, dto.FromClient(client, h.loc))
}

// ======================================================
// GET / DETAILS
// ======================================================

func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, dto.FromClient(*client, h.loc))
}

func (h *ClientHandler) Details(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}

	for i := range client.Pets {
		client.Pets[i].Client = models.Client{ID: client.ID, Name: client.Name}
	}

	httpresp.OK(c, dto.ClientDetailsDTO{
		Client:    dto.FromClient(*client, h.loc),
		TotalPets: len(client.Pets),
		Pets:      dto.FromPets(client.Pets, h.loc),
	})
}

// ======================================================
// UPDATE (PUT / PATCH)
// ======================================================

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_request", "Nome é obrigatório.")
			return
		}
		client.Name = name
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)
		if !h.emails.Valid(email) {
			httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
			return
		}
		if email != client.Email {
			taken, err := h.emailTaken(db, email, client.ID)
			if err != nil {
				writeError(c, err, "failed_to_update_client", "Erro ao atualizar cliente.")
				return
			}
			if taken {
				emailConflict(c)
				return
			}
		}
		client.Email = email
	}

	if err := db.Omit("Pets").Save(client).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			emailConflict(c)
			return
		}
		writeError(c, err, "failed_to_update_client", "Erro ao atualizar cliente.")
		return
	}

	recordAudit(h.audit, c, audit.ActionClientUpdated, audit.EntityClient, client.ID, nil)

	httpresp.OK(c, dto.FromClient(*client, h.loc))
}

// ======================================================
// DELETE (cascata: pets e agendamentos)
// ======================================================

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		photoKeys []string
		petCount  int
	)

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Preload("Pets").First(&client, id).Error; err != nil {
			return err
		}

		petCount = len(client.Pets)
		petIDs := make([]uint, 0, petCount)
		for _, p := range client.Pets {
			petIDs = append(petIDs, p.ID)
			if p.PhotoKey != "" {
				photoKeys = append(photoKeys, p.PhotoKey)
			}
		}

		if len(petIDs) > 0 {
			if err := tx.Where("pet_id IN ?", petIDs).Delete(&models.Appointment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("client_id = ?", client.ID).Delete(&models.Pet{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Client{}, client.ID).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return
		}
		writeError(c, err, "failed_to_delete_client", "Erro ao excluir cliente.")
		return
	}

	deletePhotos(c, h.photos, photoKeys)

	recordAudit(h.audit, c, audit.ActionClientDeleted, audit.EntityClient, id, map[string]any{
		"pets_removed": petCount,
	})
	h.stats.Invalidate(ctx)

	c.Status(http.StatusNoContent)
}

// ======================================================
// HELPERS
// ======================================================

func (h *ClientHandler) load(c *gin.Context) (*models.Client, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var client models.Client
	err := h.db.WithContext(c.Request.Context()).
		Preload("Pets", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&client, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return nil, false
		}
		writeError(c, err, "failed_to_get_client", "Erro ao carregar cliente.")
		return nil, false
	}

	return &client, true
}

func (h *ClientHandler) emailTaken(db *gorm.DB, email string, excludeID uint) (bool, error) {
	q := db.Model(&models.Client{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func emailConflict(c *gin.Context) {
	httperr.Conflict(c, "email_already_exists", "Já existe um cliente com este e-mail.")
}

// deletePhotos is best effort: the rows are already gone.
func deletePhotos(c *gin.Context, store storage.PhotoStore, keys []string) {
	if store == nil {
		return
	}
	for _, key := range keys {
		if err := store.Delete(c.Request.Context(), key); err != nil {
			slog.WarnContext(c.Request.Context(), "photo delete failed", "key", key, "error", err)
		}
	}
}
