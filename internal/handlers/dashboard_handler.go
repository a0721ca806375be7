package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petshop-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/usecase/dashboard"
)

type DashboardHandler struct {
	stats    *dashboard.GetStats
	upcoming *appointment.ListUpcoming
}

func NewDashboardHandler(stats *dashboard.GetStats, upcoming *appointment.ListUpcoming) *DashboardHandler {
	return &DashboardHandler{stats: stats, upcoming: upcoming}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	s, err := h.stats.Execute(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed_to_load_stats", "Erro ao carregar estatísticas.")
		return
	}
	httpresp.OK(c, s)
}

func (h *DashboardHandler) Upcoming(c *gin.Context) {
	apps, err := h.upcoming.Execute(c.Request.Context(), appointment.DashboardUpcomingLimit)
	if err != nil {
		writeError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}
	httpresp.List(c, apps)
}
