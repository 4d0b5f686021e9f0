package handlers

import (
	"errors"
	"net/http"

	"github.com/velmark/archery-federation/brackets"
	"github.com/velmark/archery-federation/services"
)

type MatchHandler struct {
	bracketService services.BracketService
	matchService   services.MatchService
}

func NewMatchHandler(bracketService services.BracketService, matchService services.MatchService) *MatchHandler {
	return &MatchHandler{
		bracketService: bracketService,
		matchService:   matchService,
	}
}

// GenerateBracket rebuilds the elimination bracket of one category from its
// confirmed registrations, discarding any previous bracket.
func (h *MatchHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	var input struct {
		EventID    int                `json:"event_id"`
		CategoryID int                `json:"category_id"`
		ByePolicy  brackets.ByePolicy `json:"bye_policy"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.EventID < 1 || input.CategoryID < 1 {
		badRequestResponse(w, r, errors.New("event_id and category_id are required"))
		return
	}

	view, err := h.bracketService.Generate(r.Context(), input.EventID, input.CategoryID, currentUserID(r), input.ByePolicy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.GetBracket(r.Context(), eventID, categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.MatchResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordResult(r.Context(), matchID, currentUserID(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
