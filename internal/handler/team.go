package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/member-search-service/internal/service"
	"github.com/maxviazov/member-search-service/pkg/response"
)

type TeamHandler struct {
	svc service.TeamService
}

func NewTeamHandler(svc service.TeamService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/teams")
	{
		g.POST("", h.create)
		g.GET("/:team_id", h.getByID)
		g.GET("", h.list)
	}
}

type createTeamRequest struct {
	Name string `json:"name"`
}

func (h *TeamHandler) create(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// parser details stay internal
		response.WriteError(c, service.NewInvalidInput([]service.FieldError{{Field: "body", Message: "malformed JSON"}}))
		return
	}
	team, err := h.svc.CreateTeam(c.Request.Context(), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, team)
}

func (h *TeamHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "team_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	team, err := h.svc.GetTeam(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, team)
}

func (h *TeamHandler) list(c *gin.Context) {
	var ferrs []service.FieldError
	page := parsePage(c, &ferrs)
	if err := service.NewInvalidInput(ferrs); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListTeams(c.Request.Context(), page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
