package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/petshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petshop-scheduler/internal/imaging"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
	"github.com/BruksfildServices01/petshop-scheduler/internal/storage"
	"github.com/BruksfildServices01/petshop-scheduler/internal/usecase/dashboard"
)

const petDetailsAppointments = 10

type PetHandler struct {
	db     *gorm.DB
	loc    *time.Location
	photos storage.PhotoStore
	audit  *audit.Dispatcher
	stats  *dashboard.GetStats
}

func NewPetHandler(
	db *gorm.DB,
	loc *time.Location,
	photos storage.PhotoStore,
	d *audit.Dispatcher,
	stats *dashboard.GetStats,
) *PetHandler {
	return &PetHandler{
		db:     db,
		loc:    loc,
		photos: photos,
		audit:  d,
		stats:  stats,
	}
}

// --------- Requests ---------

type CreatePetRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Species  string `json:"species" binding:"required"`
	Breed    string `json:"breed" binding:"max=50"`
	ClientID uint   `json:"client_id" binding:"required"`
	Notes    string `json:"notes"`
}

type UpdatePetRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=50"`
	Species  *string `json:"species,omitempty"`
	Breed    *string `json:"breed,omitempty" binding:"omitempty,max=50"`
	ClientID *uint   `json:"client_id,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// ======================================================
// LIST
// ======================================================

func (h *PetHandler) List(c *gin.Context) {
	clientID, ok := queryUint(c, "client_id")
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Preload("Client")

	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	if species := strings.ToLower(strings.TrimSpace(c.Query("species"))); species != "" {
		q = q.Where("species = ?", species)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := likePattern(search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(breed) LIKE ?", like, like)
	}

	var pets []models.Pet
	if err := q.Order("name ASC").Order("id ASC").Find(&pets).Error; err != nil {
		writeError(c, err, "failed_to_list_pets", "Erro ao listar pets.")
		return
	}

	httpresp.List(c, dto.FromPets(pets, h.loc))
}

// ======================================================
// CREATE
// ======================================================

func (h *PetHandler) Create(c *gin.Context) {
	var req CreatePetRequest
	if !bindJSON(c, &req) {
		return
	}

	species := strings.ToLower(strings.TrimSpace(req.Species))
	if !dto.ValidSpecies(species) {
		invalidSpecies(c)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var owner models.Client
	if !h.loadClient(c, db, req.ClientID, &owner) {
		return
	}

	pet := models.Pet{
		Name:     strings.TrimSpace(req.Name),
		Species:  species,
		Breed:    strings.TrimSpace(req.Breed),
		ClientID: owner.ID,
		Notes:    req.Notes,
	}

	if err := db.Omit("Client").Create(&pet).Error; err != nil {
		writeError(c, err, "failed_to_create_pet", "Erro ao cadastrar pet.")
		return
	}
	pet.Client = owner

	recordAudit(h.audit, c, audit.ActionPetCreated, audit.EntityPet, pet.ID, nil)
	h.stats.Invalidate(c.Request.Context())

	httpresp.Created(c, dto.FromPet(pet, h.loc))
}

// ======================================================
// GET / DETAILS
// ======================================================

func (h *PetHandler) Get(c *gin.Context) {
	pet, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, dto.FromPet(*pet, h.loc))
}

// Details returns the pet with its most recent appointments.
func (h *PetHandler) Details(c *gin.Context) {
	pet, ok := h.load(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var total int64
	if err := db.Model(&models.Appointment{}).Where("pet_id = ?", pet.ID).Count(&total).Error; err != nil {
		writeError(c, err, "failed_to_get_pet", "Erro ao carregar pet.")
		return
	}

	var apps []models.Appointment
	if err := db.
		Preload("Service").
		Where("pet_id = ?", pet.ID).
		Order("scheduled_at DESC").
		Limit(petDetailsAppointments).
		Find(&apps).Error; err != nil {
		writeError(c, err, "failed_to_get_pet", "Erro ao carregar pet.")
		return
	}
	for i := range apps {
		apps[i].Pet = *pet
	}

	httpresp.OK(c, dto.PetDetailsDTO{
		Pet:               dto.FromPet(*pet, h.loc),
		TotalAppointments: int(total),
		Appointments:      dto.FromAppointments(apps, h.loc),
	})
}

// ======================================================
// UPDATE (PUT / PATCH)
// ======================================================

func (h *PetHandler) Update(c *gin.Context) {
	pet, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdatePetRequest
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
		pet.Name = name
	}
	if req.Species != nil {
		species := strings.ToLower(strings.TrimSpace(*req.Species))
		if !dto.ValidSpecies(species) {
			invalidSpecies(c)
			return
		}
		pet.Species = species
	}
	if req.Breed != nil {
		pet.Breed = strings.TrimSpace(*req.Breed)
	}
	if req.Notes != nil {
		pet.Notes = *req.Notes
	}
	if req.ClientID != nil && *req.ClientID != pet.ClientID {
		var owner models.Client
		if !h.loadClient(c, db, *req.ClientID, &owner) {
			return
		}
		pet.ClientID = owner.ID
		pet.Client = owner
	}

	if err := db.Omit("Client").Save(pet).Error; err != nil {
		writeError(c, err, "failed_to_update_pet", "Erro ao atualizar pet.")
		return
	}

	recordAudit(h.audit, c, audit.ActionPetUpdated, audit.EntityPet, pet.ID, nil)

	httpresp.OK(c, dto.FromPet(*pet, h.loc))
}

// ======================================================
// DELETE (cascata: agendamentos)
// ======================================================

func (h *PetHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var photoKey string

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pet models.Pet
		if err := tx.First(&pet, id).Error; err != nil {
			return err
		}
		photoKey = pet.PhotoKey

		if err := tx.Where("pet_id = ?", pet.ID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Pet{}, pet.ID).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "pet_not_found", "Pet não encontrado.")
			return
		}
		writeError(c, err, "failed_to_delete_pet", "Erro ao excluir pet.")
		return
	}

	if photoKey != "" {
		deletePhotos(c, h.photos, []string{photoKey})
	}

	recordAudit(h.audit, c, audit.ActionPetDeleted, audit.EntityPet, id, nil)
	h.stats.Invalidate(ctx)

	c.Status(http.StatusNoContent)
}

// ======================================================
// PHOTO
// ======================================================

// UploadPhoto accepts a multipart "photo" field (JPEG, PNG or WebP) and
// stores it as a resized WebP.
func (h *PetHandler) UploadPhoto(c *gin.Context) {
	pet, ok := h.load(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Envie a foto no campo \"photo\".")
		return
	}
	if fh.Size > imaging.MaxUploadBytes {
		photoTooLarge(c)
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, err, "failed_to_read_photo", "Erro ao ler a foto.")
		return
	}
	defer f.Close()

	encoded, err := imaging.ToWebP(f)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		photoTooLarge(c)
		return
	case errors.Is(err, imaging.ErrUnsupportedImage):
		httperr.BadRequest(c, "unsupported_image", "Formato de imagem não suportado. Use JPEG, PNG ou WebP.")
		return
	case err != nil:
		writeError(c, err, "failed_to_process_photo", "Erro ao processar a foto.")
		return
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("pets/%d/%s.webp", pet.ID, uuid.NewString())

	if err := h.photos.Put(ctx, key, storage.Object{Data: encoded, ContentType: imaging.ContentType}); err != nil {
		writeError(c, err, "failed_to_store_photo", "Erro ao salvar a foto.")
		return
	}

	oldKey := pet.PhotoKey
	if err := h.db.WithContext(ctx).Model(&models.Pet{}).Where("id = ?", pet.ID).Update("photo_key", key).Error; err != nil {
		deletePhotos(c, h.photos, []string{key})
		writeError(c, err, "failed_to_store_photo", "Erro ao salvar a foto.")
		return
	}
	pet.PhotoKey = key

	if oldKey != "" {
		deletePhotos(c, h.photos, []string{oldKey})
	}

	recordAudit(h.audit, c, audit.ActionPetPhoto, audit.EntityPet, pet.ID, map[string]any{
		"bytes": len(encoded),
	})

	httpresp.OK(c, dto.FromPet(*pet, h.loc))
}

func (h *PetHandler) GetPhoto(c *gin.Context) {
	pet, ok := h.load(c)
	if !ok {
		return
	}
	if pet.PhotoKey == "" {
		httperr.NotFound(c, "photo_not_found", "Pet sem foto.")
		return
	}

	obj, err := h.photos.Get(c.Request.Context(), pet.PhotoKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httperr.NotFound(c, "photo_not_found", "Pet sem foto.")
			return
		}
		writeError(c, err, "failed_to_get_photo", "Erro ao carregar a foto.")
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

// ======================================================
// HELPERS
// ======================================================

func (h *PetHandler) load(c *gin.Context) (*models.Pet, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var pet models.Pet
	if err := h.db.WithContext(c.Request.Context()).Preload("Client").First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "pet_not_found", "Pet não encontrado.")
			return nil, false
		}
		writeError(c, err, "failed_to_get_pet", "Erro ao carregar pet.")
		return nil, false
	}

	return &pet, true
}

func (h *PetHandler) loadClient(c *gin.Context, db *gorm.DB, id uint, out *models.Client) bool {
	if err := db.First(out, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return false
		}
		writeError(c, err, "failed_to_get_client", "Erro ao carregar cliente.")
		return false
	}
	return true
}

func invalidSpecies(c *gin.Context) {
	httperr.BadRequest(c, "invalid_species", "Espécie inválida. Use dog, cat ou other.")
}

func photoTooLarge(c *gin.Context) {
	httperr.Write(c, http.StatusRequestEntityTooLarge, "photo_too_large", "A foto deve ter no máximo 5 MB.")
}
