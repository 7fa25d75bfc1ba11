package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/member-search-service/internal/model"
	"github.com/maxviazov/member-search-service/internal/repository"
	"github.com/maxviazov/member-search-service/internal/service"
	"github.com/maxviazov/member-search-service/pkg/response"
)

type MemberHandler struct {
	svc service.MemberService
}

func NewMemberHandler(svc service.MemberService) *MemberHandler { return &MemberHandler{svc: svc} }

// Register mounts the v1 member routes. The paged searches live under v2 and v3.
func (h *MemberHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/members")
	{
		g.POST("", h.create)
		g.GET("/:member_id", h.getByID)
		g.GET("", h.search)
	}
}

type createMemberRequest struct {
	Username *string `json:"username"`
	Age      *int    `json:"age"`
	TeamID   *int64  `json:"team_id"`
}

func (h *MemberHandler) create(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.NewInvalidInput([]service.FieldError{{Field: "body", Message: "malformed JSON"}}))
		return
	}
	if req.Age == nil {
		response.WriteError(c, service.NewInvalidInput([]service.FieldError{{Field: "age", Message: "is required"}}))
		return
	}
	m, err := h.svc.CreateMember(c.Request.Context(), service.CreateMemberInput{
		Username: req.Username,
		Age:      *req.Age,
		TeamID:   req.TeamID,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, m)
}

func (h *MemberHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "member_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	m, err := h.svc.GetMember(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MemberHandler) search(c *gin.Context) {
	var ferrs []service.FieldError
	cond := parseCondition(c, &ferrs)
	if err := service.NewInvalidInput(ferrs); err != nil {
		response.WriteError(c, err)
		return
	}
	items, err := h.svc.SearchMembers(c.Request.Context(), cond)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if items == nil {
		items = []model.MemberTeam{}
	}
	response.WriteData(c, http.StatusOK, items)
}

func (h *MemberHandler) searchPage(c *gin.Context) {
	h.pageWith(c, h.svc.SearchMembersPage)
}

func (h *MemberHandler) searchPageOptimized(c *gin.Context) {
	h.pageWith(c, h.svc.SearchMembersPageOptimized)
}

type pageSearch func(context.Context, model.MemberSearchCondition, repository.Page) (repository.PageResult[model.MemberTeam], error)

func (h *MemberHandler) pageWith(c *gin.Context, run pageSearch) {
	var ferrs []service.FieldError
	cond := parseCondition(c, &ferrs)
	page := parsePage(c, &ferrs)
	page.Sort = parseSort(c, &ferrs)
	if err := service.NewInvalidInput(ferrs); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := run(c.Request.Context(), cond, page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if res.Items == nil {
		res.Items = []model.MemberTeam{}
	}
	response.WriteData(c, http.StatusOK, res)
}
