package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petshop-scheduler/internal/middleware"
	"github.com/BruksfildServices01/petshop-scheduler/internal/timezone"
	"github.com/BruksfildServices01/petshop-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/usecase/dashboard"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo  domain.Repository
	loc   *time.Location
	audit *audit.Dispatcher
	stats *dashboard.GetStats

	createUC       *appointment.CreateAppointment
	updateUC       *appointment.UpdateAppointment
	changeStatusUC *appointment.ChangeStatus
	availabilityUC *appointment.GetAvailability
	byDateUC       *appointment.ListAppointmentsByDate
	upcomingUC     *appointment.ListUpcoming
}

func NewAppointmentHandler(
	repo domain.Repository,
	loc *time.Location,
	d *audit.Dispatcher,
	stats *dashboard.GetStats,
	createUC *appointment.CreateAppointment,
	updateUC *appointment.UpdateAppointment,
	changeStatusUC *appointment.ChangeStatus,
	availabilityUC *appointment.GetAvailability,
	byDateUC *appointment.ListAppointmentsByDate,
	upcomingUC *appointment.ListUpcoming,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:           repo,
		loc:            loc,
		audit:          d,
		stats:          stats,
		createUC:       createUC,
		updateUC:       updateUC,
		changeStatusUC: changeStatusUC,
		availabilityUC: availabilityUC,
		byDateUC:       byDateUC,
		upcomingUC:     upcomingUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// ScheduledAt is RFC 3339, or a naive "2006-01-02T15:04" read in the shop
// timezone.
type CreateAppointmentRequest struct {
	PetID       uint   `json:"pet_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	ScheduledAt string `json:"scheduled_at" binding:"required"`
	Notes       string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	PetID       *uint   `json:"pet_id,omitempty"`
	ServiceID   *uint   `json:"service_id,omitempty"`
	ScheduledAt *string `json:"scheduled_at,omitempty"`
	Status      *string `json:"status,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func invalidDateTime(c *gin.Context) {
	httperr.BadRequest(c, "invalid_datetime", "Data/hora inválida. Use AAAA-MM-DDTHH:MM.")
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	scheduledAt, err := timezone.ParseDateTime(strings.TrimSpace(req.ScheduledAt), h.loc)
	if err != nil {
		invalidDateTime(c)
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		UserID:      middleware.UserID(c),
		PetID:       req.PetID,
		ServiceID:   req.ServiceID,
		ScheduledAt: scheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		mapCreateErrors(c, err)
		return
	}

	h.stats.Invalidate(c.Request.Context())

	httpresp.Created(c, dto.FromAppointment(*ap, h.loc))
}

// mapCreateErrors reports anything that is not a known business error as a
// generic creation failure instead of a 500.
func mapCreateErrors(c *gin.Context, err error) {
	if writeBusinessError(c, err) {
		return
	}

	slog.ErrorContext(c.Request.Context(), "create appointment failed",
		"error", err,
		"request_id", c.GetString(middleware.ContextRequestID),
	)
	httperr.BadRequest(c, "failed_to_create_appointment", "Não foi possível criar o agendamento.")
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	petID, ok := queryUint(c, "pet_id")
	if !ok {
		return
	}
	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		return
	}

	filter := domain.ListFilter{
		PetID:     petID,
		ServiceID: serviceID,
		Ordering:  c.Query("ordering"),
	}

	if s := strings.TrimSpace(c.Query("status")); s != "" {
		status := domain.Status(s)
		if !status.Valid() {
			writeBusinessError(c, domain.ErrInvalidStatus)
			return
		}
		filter.Status = status
	}

	apps, err := h.repo.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, dto.FromAppointments(apps, h.loc))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ap, err := h.repo.GetAppointment(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed_to_get_appointment", "Erro ao carregar agendamento.")
		return
	}

	httpresp.OK(c, dto.FromAppointment(*ap, h.loc))
}

// ======================================================
// UPDATE (PUT / PATCH)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	in := appointment.UpdateAppointmentInput{
		UserID:    middleware.UserID(c),
		PetID:     req.PetID,
		ServiceID: req.ServiceID,
		Notes:     req.Notes,
	}

	if req.ScheduledAt != nil {
		t, err := timezone.ParseDateTime(strings.TrimSpace(*req.ScheduledAt), h.loc)
		if err != nil {
			invalidDateTime(c)
			return
		}
		in.ScheduledAt = &t
	}

	if req.Status != nil {
		status := domain.Status(strings.TrimSpace(*req.Status))
		in.Status = &status
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err, "failed_to_update_appointment", "Erro ao atualizar agendamento.")
		return
	}

	h.stats.Invalidate(c.Request.Context())

	httpresp.OK(c, dto.FromAppointment(*ap, h.loc))
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteAppointment(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed_to_delete_appointment", "Erro ao excluir agendamento.")
		return
	}

	recordAudit(h.audit, c, audit.ActionAppointmentDeleted, audit.EntityAppointment, id, nil)
	h.stats.Invalidate(c.Request.Context())

	c.Status(http.StatusNoContent)
}

// ======================================================
// STATUS (confirm / cancel / complete)
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.changeStatus(c, domain.StatusConfirmed)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.changeStatus(c, domain.StatusCancelled)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.changeStatus(c, domain.StatusCompleted)
}

func (h *AppointmentHandler) changeStatus(c *gin.Context, target domain.Status) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ap, err := h.changeStatusUC.Execute(c.Request.Context(), id, target, middleware.UserID(c))
	if err != nil {
		writeError(c, err, "failed_to_update_status", "Erro ao alterar status do agendamento.")
		return
	}

	h.stats.Invalidate(c.Request.Context())

	httpresp.OK(c, gin.H{
		"status":      ap.Status,
		"message":     "Agendamento " + strings.ToLower(target.Display()) + ".",
		"appointment": dto.FromAppointment(*ap, h.loc),
	})
}

// ======================================================
// AVAILABILITY / AGENDA
// ======================================================

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	dateStr := strings.TrimSpace(c.Query("date"))
	serviceRaw := strings.TrimSpace(c.Query("service_id"))

	if dateStr == "" || serviceRaw == "" {
		httperr.BadRequest(c, "missing_parameters", "Parâmetros date e service_id são obrigatórios.")
		return
	}

	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		return
	}

	availability, err := h.availabilityUC.Execute(c.Request.Context(), dateStr, serviceID)
	if err != nil {
		writeError(c, err, "failed_to_get_availability", "Erro ao calcular horários disponíveis.")
		return
	}

	httpresp.OK(c, availability)
}

func (h *AppointmentHandler) Today(c *gin.Context) {
	apps, err := h.byDateUC.Today(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}
	httpresp.List(c, apps)
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	apps, err := h.upcomingUC.Execute(c.Request.Context(), appointment.UpcomingLimit)
	if err != nil {
		writeError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}
	httpresp.List(c, apps)
}
