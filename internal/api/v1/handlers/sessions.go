package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	v1mware "github.com/parleyhq/parley/internal/api/v1/middleware"
	"github.com/parleyhq/parley/internal/conversation"
	"github.com/parleyhq/parley/internal/services"
	"github.com/parleyhq/parley/internal/services/avatar"
	"github.com/parleyhq/parley/pkg/httpext"
	"github.com/rs/zerolog/log"
)

type createSessionResponse struct {
	Session *avatar.SessionData `json:"session"`
	Token   string              `json:"token"`
}

// HandleCreateSession creates and starts a provider session, then issues a
// local session token bound to it.
func HandleCreateSession(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	avatarService := svc.GetAvatarService()
	if avatarService == nil {
		httpext.JsonError(w, "Avatar service unavailable", http.StatusServiceUnavailable)
		return
	}

	var req avatar.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	data, err := avatarService.StartSession(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start avatar session")
		httpext.JsonError(w, "Failed to start session", http.StatusBadGateway)
		return
	}

	token, _, err := svc.GetSessionService().IssueToken(data.SessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", data.SessionID).Msg("Failed to issue session token")
		httpext.JsonError(w, "Failed to issue session token", http.StatusInternalServerError)
		return
	}

	httpext.Json(w, http.StatusCreated, createSessionResponse{Session: data, Token: token})
}

// HandleCloseSession stops the provider session and tears the local state
// down: conversation log cleared, reconciler flags reset, token revoked.
func HandleCloseSession(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	avatarService := svc.GetAvatarService()
	if avatarService == nil {
		httpext.JsonError(w, "Avatar service unavailable", http.StatusServiceUnavailable)
		return
	}

	sessionID := mux.Vars(r)["id"]
	if !avatarService.HasSession(sessionID) {
		httpext.JsonError(w, "Unknown session", http.StatusNotFound)
		return
	}

	if err := avatarService.CloseSession(sessionID); err != nil {
		// Local teardown still proceeds; the provider session may already be gone.
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to stop provider session")
	}

	svc.GetReconciler().Reset()
	svc.GetConversationLog().Clear()

	if claims := v1mware.GetSessionClaims(r); claims != nil {
		if err := svc.GetSessionService().RevokeSession(claims.SessionID); err != nil {
			log.Error().Err(err).Msg("Failed to revoke session token")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSpeak dispatches a speech task on an active session.
func HandleSpeak(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	avatarService := svc.GetAvatarService()
	if avatarService == nil {
		httpext.JsonError(w, "Avatar service unavailable", http.StatusServiceUnavailable)
		return
	}

	sessionID := mux.Vars(r)["id"]

	var req avatar.SpeakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := avatarService.Speak(sessionID, req); err != nil {
		var validationErr *conversation.ValidationError
		if errors.As(err, &validationErr) {
			httpext.JsonError(w, validationErr.Error(), http.StatusBadRequest)
			return
		}
		if !avatarService.HasSession(sessionID) {
			httpext.JsonError(w, "Unknown session", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to dispatch speech task")
		httpext.JsonError(w, "Failed to dispatch speech task", http.StatusBadGateway)
		return
	}

	httpext.JsonOK(w, map[string]bool{"dispatched": true})
}
