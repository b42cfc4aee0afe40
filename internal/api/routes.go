// internal/api/routes.go
// Central route registration for all API endpoints

package api

import (
	"errors"
	"net/http"

	"cup-planner/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterTournamentRoutes registers tournament structure and schedule routes
func RegisterTournamentRoutes(router *gin.RouterGroup, services *services.Container) {
	tournaments := router.Group("/tournaments")
	{
		tournaments.GET("", HandleListTournaments(services.Tournament))
		tournaments.POST("", HandleCreateTournament(services.Tournament))
		tournaments.GET("/:id", HandleGetTournament(services.Tournament))
		tournaments.PUT("/:id", HandleUpdateTournament(services.Tournament))
		tournaments.DELETE("/:id", HandleDeleteTournament(services.Tournament))

		tournaments.POST("/:id/stages", HandleAddStage(services.Tournament))
		tournaments.POST("/:id/pitches", HandleAddPitch(services.Tournament))
		tournaments.POST("/:id/registrations", HandleRegisterTeam(services.Tournament))

		// Schedule generation and reads
		tournaments.POST("/:id/schedule/generate", HandleGenerateSchedule(services.Schedule))
		tournaments.POST("/:id/schedule/preview", HandlePreviewSchedule(services.Schedule))
		tournaments.DELETE("/:id/schedule", HandleClearSchedule(services.Schedule))
		tournaments.GET("/:id/schedule", HandleGetSchedule(services.Match))
	}

	groups := router.Group("/groups")
	{
		groups.POST("/:groupId/teams", HandleAssignTeam(services.Tournament))
		groups.GET("/:groupId/standings", HandleGetStandings(services.Match))
	}

	stages := router.Group("/stages")
	{
		stages.POST("/:stageId/groups", HandleAddGroup(services.Tournament))
	}
}

// RegisterMatchRoutes registers match and result routes
func RegisterMatchRoutes(router *gin.RouterGroup, services *services.Container) {
	matches := router.Group("/matches")
	{
		matches.GET("/:id", HandleGetMatch(services.Match))
		matches.POST("/:id/start", HandleStartMatch(services.Match))
		matches.POST("/:id/result", HandleEnterResult(services.Match))
		matches.PUT("/:id/result", HandleUpdateResult(services.Match))
		matches.DELETE("/:id/result", HandleDeleteResult(services.Match))
	}
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound),
		err.Error() == "tournament not found",
		err.Error() == "match not found",
		err.Error() == "stage not found",
		err.Error() == "group not found",
		err.Error() == "registration not found",
		err.Error() == "pitch not found":
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrScoreOutOfRange),
		errors.Is(err, services.ErrNoStages),
		errors.Is(err, services.ErrNoPitches):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrScheduleLocked),
		errors.Is(err, services.ErrStageHasMatches),
		errors.Is(err, services.ErrResultExists),
		errors.Is(err, services.ErrResultMissing),
		errors.Is(err, services.ErrMatchNotSchedulable):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
