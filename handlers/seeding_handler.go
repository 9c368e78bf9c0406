package handlers

import (
	"net/http"

	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/services"
)

type SeedingHandler struct {
	seedingService services.SeedingService
}

func NewSeedingHandler(ss services.SeedingService) *SeedingHandler {
	return &SeedingHandler{seedingService: ss}
}

type seedsInput struct {
	Seeds []models.SeedAssignment `json:"seeds"`
}

func (h *SeedingHandler) GetSeeds(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participants, err := h.seedingService.GetSeeds(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReplaceSeeds godoc
// @Summary Replace the seeding of an event
// @Description Participants left out of the list lose their seed. Seeds must run 1..k without gaps.
// @Tags seeding
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body seedsInput true "Seed assignments"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Bracket already generated"
// @Failure 422 {object} map[string]string "Invalid seeding"
// @Security BearerAuth
// @Router /events/{eventID}/seeding [put]
func (h *SeedingHandler) ReplaceSeeds(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input seedsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.seedingService.ReplaceSeeds(r.Context(), actor, eventID, input.Seeds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Preview godoc
// @Summary Preview the draw for stored or proposed seeds
// @Description GET previews the stored seeding; POST previews the seeds in the body without saving them.
// @Tags seeding
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body seedsInput false "Proposed seeds"
// @Success 200 {object} services.BracketPreview
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string "Invalid seeding"
// @Failure 429 {object} map[string]string
// @Router /events/{eventID}/seeding/preview [get]
// @Router /events/{eventID}/seeding/preview [post]
func (h *SeedingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var seeds []models.SeedAssignment
	if r.Method == http.MethodPost {
		var input seedsInput
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		seeds = input.Seeds
		if seeds == nil {
			seeds = []models.SeedAssignment{}
		}
	}

	preview, err := h.seedingService.Preview(r.Context(), eventID, seeds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, preview, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
