package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/middleware"
)

// ======================================================
// REQUEST HELPERS
// ======================================================

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// queryUint returns 0 when the parameter is absent; ok is false (and a 400
// has been written) when it is present but not a positive integer.
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro "+name+" inválido.")
		return 0, false
	}
	return uint(v), true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "invalid_request",
			"message":    "Dados inválidos.",
			"details":    err.Error(),
		})
		return false
	}
	return true
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// ======================================================
// ERRORS
// ======================================================

type errorInfo struct {
	status  int
	message string
}

var businessErrors = map[string]errorInfo{
	"double_booking":        {http.StatusConflict, "Já existe um agendamento para este serviço neste horário."},
	"out_of_hours":          {http.StatusBadRequest, "Agendamentos só podem ser feitos entre 08:00 e 18:00."},
	"past_date":             {http.StatusBadRequest, "Não é possível agendar para uma data passada."},
	"closed_day":            {http.StatusBadRequest, "A loja não abre neste dia da semana."},
	"invalid_date":          {http.StatusBadRequest, "Data inválida. Use o formato AAAA-MM-DD."},
	"invalid_status":        {http.StatusBadRequest, "Status inválido."},
	"appointment_not_found": {http.StatusNotFound, "Agendamento não encontrado."},
	"pet_not_found":         {http.StatusNotFound, "Pet não encontrado."},
	"service_not_found":     {http.StatusNotFound, "Serviço não encontrado."},
	"client_not_found":      {http.StatusNotFound, "Cliente não encontrado."},
}

// writeBusinessError writes the mapped response for a known business error
// and reports whether it did.
func writeBusinessError(c *gin.Context, err error) bool {
	code := httperr.CodeOf(err)
	info, ok := businessErrors[code]
	if !ok {
		return false
	}
	httperr.Write(c, info.status, code, info.message)
	return true
}

func writeError(c *gin.Context, err error, code, message string) {
	if writeBusinessError(c, err) {
		return
	}
	slog.ErrorContext(c.Request.Context(), message,
		"error_code", code,
		"error", err,
		"request_id", c.GetString(middleware.ContextRequestID),
	)
	httperr.Internal(c, code, message)
}

// ======================================================
// AUDIT
// ======================================================

func recordAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	d.Dispatch(audit.Event{
		UserID:   middleware.UserID(c),
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	})
}
