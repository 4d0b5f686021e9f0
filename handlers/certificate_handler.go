package handlers

import (
	"net/http"

	"github.com/velmark/archery-federation/services"
)

type CertificateHandler struct {
	certificateService services.CertificateService
}

func NewCertificateHandler(certificateService services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService}
}

func (h *CertificateHandler) Upload(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	athleteID, err := getIDFromURL(r, "athleteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, err := fileFromMultipart(r, "certificate")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	cert, err := h.certificateService.Upload(r.Context(), eventID, athleteID, currentUserID(r), contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"certificate": cert}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CertificateHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	certs, err := h.certificateService.ListByEvent(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"certificates": certs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CertificateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	certificateID, err := getIDFromURL(r, "certificateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.certificateService.Delete(r.Context(), certificateID, currentUserID(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
