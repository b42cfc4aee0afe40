// internal/api/tournament_handlers.go
// Tournament structure and schedule HTTP handlers

package api

import (
	"net/http"
	"strconv"

	"cup-planner/internal/services"

	"github.com/gin-gonic/gin"
)

// HandleListTournaments lists tournaments with pagination
func HandleListTournaments(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		tournaments, err := svc.List(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tournaments": tournaments})
	}
}

// HandleCreateTournament creates a tournament with its pitches
func HandleCreateTournament(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreateTournamentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		tournament, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tournament)
	}
}

// HandleGetTournament returns a tournament with stages, groups and pitches
func HandleGetTournament(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tournament, err := svc.GetWithDetails(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tournament)
	}
}

// HandleUpdateTournament updates tournament metadata and timing
func HandleUpdateTournament(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreateTournamentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		tournament, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tournament)
	}
}

// HandleDeleteTournament removes a tournament
func HandleDeleteTournament(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleAddStage appends a stage to a tournament
func HandleAddStage(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreateStageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		stage, err := svc.AddStage(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, stage)
	}
}

// HandleAddGroup appends a group to a stage
func HandleAddGroup(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreateGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		group, err := svc.AddGroup(c.Request.Context(), c.Param("stageId"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, group)
	}
}

// HandleAddPitch adds a pitch to a tournament
func HandleAddPitch(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreatePitchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		pitch, err := svc.AddPitch(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, pitch)
	}
}

// HandleRegisterTeam adds a team registration
func HandleRegisterTeam(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			TeamName     string `json:"team_name" binding:"required,min=1,max=255"`
			SeedPosition *int   `json:"seed_position,omitempty"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		reg, err := svc.RegisterTeam(c.Request.Context(), c.Param("id"), req.TeamName, req.SeedPosition)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reg)
	}
}

// HandleAssignTeam assigns a registration to a group with a seed
func HandleAssignTeam(svc *services.TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RegistrationID string `json:"registration_id" binding:"required"`
			SeedPosition   *int   `json:"seed_position,omitempty"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.AssignTeam(c.Request.Context(), c.Param("groupId"), req.RegistrationID, req.SeedPosition); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleGenerateSchedule runs the engine and persists the schedule
func HandleGenerateSchedule(svc *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.GenerateScheduleRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		response, err := svc.Generate(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}

		status := http.StatusOK
		if !response.Success {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, response)
	}
}

// HandlePreviewSchedule runs the engine without persisting
func HandlePreviewSchedule(svc *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.GenerateScheduleRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		response, err := svc.Preview(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

// HandleClearSchedule removes every match of a tournament
func HandleClearSchedule(svc *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
