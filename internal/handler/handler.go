package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/maxviazov/member-search-service/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, teamSvc service.TeamService, memberSvc service.MemberService) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	members := NewMemberHandler(memberSvc)

	v1 := r.Group(APIV1Prefix)
	{
		health := v1.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewTeamHandler(teamSvc).Register(v1)
		members.Register(v1)
		NewStatsHandler(memberSvc).Register(v1)
	}
	r.Group(APIV2Prefix).GET("/members", members.searchPage)
	r.Group(APIV3Prefix).GET("/members", members.searchPageOptimized)
}
