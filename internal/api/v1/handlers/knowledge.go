package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/parleyhq/parley/internal/services"
	"github.com/parleyhq/parley/pkg/httpext"
	"github.com/rs/zerolog/log"
)

type createKnowledgeBaseRequest struct {
	Name         string `json:"name"`
	Prompt       string `json:"prompt"`
	CustomerName string `json:"customer_name,omitempty"`
}

// HandleCreateKnowledgeBase registers a knowledge base with the provider.
func HandleCreateKnowledgeBase(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	knowledgeService := svc.GetKnowledgeService()
	if knowledgeService == nil {
		httpext.JsonError(w, "Knowledge service unavailable", http.StatusServiceUnavailable)
		return
	}

	var req createKnowledgeBaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		httpext.JsonError(w, "Knowledge base name is required", http.StatusBadRequest)
		return
	}

	kb, err := knowledgeService.Create(req.Name, req.Prompt, req.CustomerName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create knowledge base")
		httpext.JsonError(w, "Failed to create knowledge base", http.StatusBadGateway)
		return
	}

	httpext.Json(w, http.StatusCreated, kb)
}

// HandleListKnowledgeBases lists provider knowledge bases.
func HandleListKnowledgeBases(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	knowledgeService := svc.GetKnowledgeService()
	if knowledgeService == nil {
		httpext.JsonError(w, "Knowledge service unavailable", http.StatusServiceUnavailable)
		return
	}

	kbs, err := knowledgeService.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list knowledge bases")
		httpext.JsonError(w, "Failed to list knowledge bases", http.StatusBadGateway)
		return
	}

	httpext.JsonOK(w, kbs)
}

// HandleDeleteKnowledgeBase deletes a provider knowledge base by id.
func HandleDeleteKnowledgeBase(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	knowledgeService := svc.GetKnowledgeService()
	if knowledgeService == nil {
		httpext.JsonError(w, "Knowledge service unavailable", http.StatusServiceUnavailable)
		return
	}

	if err := knowledgeService.Delete(mux.Vars(r)["id"]); err != nil {
		log.Error().Err(err).Msg("Failed to delete knowledge base")
		httpext.JsonError(w, "Failed to delete knowledge base", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
