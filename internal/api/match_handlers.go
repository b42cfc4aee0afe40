// internal/api/match_handlers.go
// Match and result HTTP handlers

package api

import (
	"net/http"

	"cup-planner/internal/services"

	"github.com/gin-gonic/gin"
)

// HandleGetMatch returns a single match
func HandleGetMatch(svc *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		match, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, match)
	}
}

// HandleGetSchedule returns all matches of a tournament in schedule order
func HandleGetSchedule(svc *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		matches, err := svc.GetByTournamentID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"matches": matches})
	}
}

// HandleStartMatch marks a match as in progress
func HandleStartMatch(svc *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.StartMatch(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleEnterResult records a first result and propagates it
func HandleEnterResult(svc *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.EnterResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		match, err := svc.EnterResult(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, match)
	}
}

// HandleUpdateResult replaces an existing result and repropagates it
func HandleUpdateResult(svc *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.EnterResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		match, err := svc.UpdateResult(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, match)
	}
}

// HandleDeleteResult removes a result and clears downstream slots
func HandleDeleteResult(svc *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteResult(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleGetStandings returns the current table for a group
func HandleGetStandings(svc *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		standings, err := svc.GetGroupStandings(c.Request.Context(), c.Param("groupId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"standings": standings})
	}
}
