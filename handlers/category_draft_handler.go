package handlers

import (
	"net/http"

	"github.com/velmark/archery-federation/services"
)

type CategoryDraftHandler struct {
	draftService services.CategoryDraftService
}

func NewCategoryDraftHandler(draftService services.CategoryDraftService) *CategoryDraftHandler {
	return &CategoryDraftHandler{draftService: draftService}
}

// ListDraft returns the draft in display order, or the deduplicated tile
// preview when ?preview=true is set.
func (h *CategoryDraftHandler) ListDraft(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if r.URL.Query().Get("preview") == "true" {
		tiles, err := h.draftService.PreviewTiles(r.Context(), eventID, currentUserID(r))
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, jsonResponse{"tiles": tiles}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	cats, err := h.draftService.List(r.Context(), eventID, currentUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"categories": cats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CategoryDraftHandler) AddToDraft(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CategoryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cat, err := h.draftService.Add(r.Context(), eventID, currentUserID(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"category": cat}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CategoryDraftHandler) GenerateIntoDraft(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GenerateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cats, err := h.draftService.Generate(r.Context(), eventID, currentUserID(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"categories": cats, "count": len(cats)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CategoryDraftHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	draftID, err := getIDFromURL(r, "draftID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cat, err := h.draftService.BeginEdit(r.Context(), eventID, currentUserID(r), draftID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"category": cat}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CategoryDraftHandler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CategoryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cat, err := h.draftService.CommitEdit(r.Context(), eventID, currentUserID(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"category": cat}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CategoryDraftHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.draftService.CancelEdit(r.Context(), eventID, currentUserID(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryDraftHandler) RemoveFromDraft(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	draftID, err := getIDFromURL(r, "draftID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.draftService.Remove(r.Context(), eventID, currentUserID(r), draftID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryDraftHandler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cats, err := h.draftService.Publish(r.Context(), eventID, currentUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"categories": cats, "count": len(cats)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CategoryDraftHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.draftService.Discard(r.Context(), eventID, currentUserID(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
