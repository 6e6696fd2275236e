package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/cup-simulator/middleware"
	"github.com/Dosada05/cup-simulator/models"
	"github.com/Dosada05/cup-simulator/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

func urlParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if v == "" {
		return "", errors.New("missing " + name + " in URL")
	}
	return v, nil
}

// CreateHandler godoc
// @Summary Create a tournament and draw the regional qualifiers
// @Tags tournaments
// @Accept json
// @Produce json
// @Param input body services.CreateTournamentInput true "Tournament name and optional team subset"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary List stored tournaments
// @Tags tournaments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Get the full tournament aggregate
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListQualifierGroupsHandler godoc
// @Summary List the qualifier groups, optionally of one region
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param region query string false "Region, e.g. europe or north_america"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string "Unknown region"
// @Router /tournaments/{tournamentID}/qualifiers [get]
func (h *TournamentHandler) ListQualifierGroupsHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		region := models.Region(r.URL.Query().Get("region"))
		return h.tournamentService.ListQualifierGroups(r.Context(), id, region)
	}, "groups")
}

// DeleteHandler godoc
// @Summary Delete a tournament and its records
// @Tags tournaments
// @Param tournamentID path string true "Tournament ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	operator, err := middleware.OperatorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "tournament deleted by operator",
		slog.String("tournament_id", id),
		slog.String("operator", operator.Subject))
	w.WriteHeader(http.StatusNoContent)
}

// stageHandler wraps a tournament-level operation that returns the updated aggregate.
func (h *TournamentHandler) stageHandler(op func(r *http.Request, id string) (interface{}, error), key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlParam(r, "tournamentID")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		result, err := op(r, id)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, jsonResponse{key: result}); err != nil {
			serverErrorResponse(w, r, err)
		}
	}
}

// RegenerateQualifiersHandler godoc
// @Summary Redraw the qualifier groups
// @Tags draws
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "A qualifier match has been played"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/qualifiers/draw [post]
func (h *TournamentHandler) RegenerateQualifiersHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.RegenerateQualifierDraw(r.Context(), id)
	}, "tournament")
}

// StartWorldCupHandler godoc
// @Summary Close the qualifiers and draw the World Cup groups
// @Tags stages
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/world-cup [post]
func (h *TournamentHandler) StartWorldCupHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.StartWorldCup(r.Context(), id)
	}, "tournament")
}

// @Summary Redraw the World Cup groups
// @Tags draws
// @Param tournamentID path string true "Tournament ID"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/world-cup/draw [post]
func (h *TournamentHandler) RegenerateWorldCupHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.RegenerateWorldCupDraw(r.Context(), id)
	}, "tournament")
}

// @Summary Close the World Cup groups and build the opening knockout round
// @Tags stages
// @Param tournamentID path string true "Tournament ID"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/knockout [post]
func (h *TournamentHandler) StartKnockoutHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.StartKnockout(r.Context(), id)
	}, "tournament")
}

// @Summary Rebuild the opening knockout round
// @Tags draws
// @Param tournamentID path string true "Tournament ID"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/knockout/draw [post]
func (h *TournamentHandler) RegenerateKnockoutHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.RegenerateKnockout(r.Context(), id)
	}, "tournament")
}

// @Summary Run the next legal stage transition
// @Tags stages
// @Param tournamentID path string true "Tournament ID"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/advance [post]
func (h *TournamentHandler) AdvanceHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.Advance(r.Context(), id)
	}, "tournament")
}

// @Summary Simulate every remaining match of the stage in progress
// @Tags simulation
// @Param tournamentID path string true "Tournament ID"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/simulate-stage [post]
func (h *TournamentHandler) SimulateStageHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.SimulateStage(r.Context(), id)
	}, "tournament")
}

// @Summary Simulate every pending match of the current knockout round
// @Tags simulation
// @Param tournamentID path string true "Tournament ID"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/knockout/simulate-round [post]
func (h *TournamentHandler) SimulateKnockoutRoundHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.SimulateKnockoutRound(r.Context(), id)
	}, "matches")
}

// @Summary Export the tournament snapshot to object storage
// @Tags export
// @Param tournamentID path string true "Tournament ID"
// @Failure 503 {object} map[string]string "Export is not configured"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/export [post]
func (h *TournamentHandler) ExportHandler() http.HandlerFunc {
	return h.stageHandler(func(r *http.Request, id string) (interface{}, error) {
		return h.tournamentService.ExportSnapshot(r.Context(), id)
	}, "export")
}

// RecordGroupResultHandler godoc
// @Summary Record a group match result
// @Tags results
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param groupID path string true "Group ID"
// @Param matchID path string true "Match ID"
// @Param input body services.GroupResultInput true "Score"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Match already played or stage closed"
// @Failure 422 {object} map[string]string "Negative or missing score"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/groups/{groupID}/matches/{matchID}/result [post]
func (h *TournamentHandler) RecordGroupResultHandler(w http.ResponseWriter, r *http.Request) {
	id, groupID, matchID, err := groupMatchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.GroupResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.tournamentService.RecordGroupResult(r.Context(), id, groupID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func groupMatchParams(r *http.Request) (id, groupID, matchID string, err error) {
	if id, err = urlParam(r, "tournamentID"); err != nil {
		return
	}
	if groupID, err = urlParam(r, "groupID"); err != nil {
		return
	}
	matchID, err = urlParam(r, "matchID")
	return
}

// @Summary Simulate the remaining matches of one group
// @Tags simulation
// @Param tournamentID path string true "Tournament ID"
// @Param groupID path string true "Group ID"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/groups/{groupID}/simulate [post]
func (h *TournamentHandler) SimulateGroupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groupID, err := urlParam(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.SimulateGroup(r.Context(), id, groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SimulateGroupMatchHandler godoc
// @Summary Simulate one group match with the match-outcome service
// @Tags simulation
// @Param tournamentID path string true "Tournament ID"
// @Param groupID path string true "Group ID"
// @Param matchID path string true "Match ID"
// @Failure 409 {object} map[string]string "Match already played or stage closed"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/groups/{groupID}/matches/{matchID}/simulate [post]
func (h *TournamentHandler) SimulateGroupMatchHandler(w http.ResponseWriter, r *http.Request) {
	id, groupID, matchID, err := groupMatchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.tournamentService.SimulateGroupMatch(r.Context(), id, groupID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordKnockoutResultHandler godoc
// @Summary Record a knockout match result
// @Description Penalties are required when normal time ends level.
// @Tags results
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Knockout match ID"
// @Param input body services.KnockoutResultInput true "Score and optional shoot-out"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string "Level score without a decisive shoot-out"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/knockout/matches/{matchID}/result [post]
func (h *TournamentHandler) RecordKnockoutResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := urlParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.KnockoutResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.tournamentService.RecordKnockoutResult(r.Context(), id, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, r, err)
	}
}
