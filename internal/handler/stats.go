package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/service"
	"github.com/maxviazov/member-search-service/pkg/response"
)

// StatsHandler serves the analytical member queries.
type StatsHandler struct {
	svc service.MemberService
}

func NewStatsHandler(svc service.MemberService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/stats")
	{
		g.GET("/ages", h.ages)
		g.GET("/teams", h.teams)
		g.GET("/age-bands", h.ageBands)
		g.GET("/oldest", h.oldest)
		g.GET("/above-average", h.aboveAverage)
	}
}

func (h *StatsHandler) ages(c *gin.Context) {
	out, err := h.svc.AgeSummary(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *StatsHandler) teams(c *gin.Context) {
	out, err := h.svc.TeamAverageAges(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if out == nil {
		out = []model.TeamAverageAge{}
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *StatsHandler) ageBands(c *gin.Context) {
	out, err := h.svc.AgeBands(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if out == nil {
		out = []model.AgeBand{}
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *StatsHandler) oldest(c *gin.Context) {
	out, err := h.svc.OldestMembers(c.Request.Context())
	writeMembers(c, out, err)
}

func (h *StatsHandler) aboveAverage(c *gin.Context) {
	out, err := h.svc.MembersAtLeastAverageAge(c.Request.Context())
	writeMembers(c, out, err)
}

func writeMembers(c *gin.Context, out []model.Member, err error) {
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if out == nil {
		out = []model.Member{}
	}
	response.WriteData(c, http.StatusOK, out)
}
