package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/parleyhq/parley/internal/conversation"
	"github.com/parleyhq/parley/internal/services"
	"github.com/parleyhq/parley/pkg/httpext"
)

type messagesResponse struct {
	Messages []conversation.Message `json:"messages"`
	Count    int                    `json:"count"`
}

// HandleGetMessages returns the conversation in display order. ?recent=n
// limits to the last n messages (default 10 when the parameter is present but
// empty); ?speaker= filters by party.
func HandleGetMessages(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	convLog := svc.GetConversationLog()

	var messages []conversation.Message
	query := r.URL.Query()

	switch {
	case query.Has("recent"):
		n := 10
		if raw := query.Get("recent"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				httpext.JsonError(w, "Invalid recent parameter", http.StatusBadRequest)
				return
			}
			n = parsed
		}
		messages = convLog.Recent(n)
	case query.Get("speaker") != "":
		speaker := conversation.Speaker(query.Get("speaker"))
		if !speaker.Valid() {
			httpext.JsonError(w, "Unknown speaker", http.StatusBadRequest)
			return
		}
		messages = convLog.BySpeaker(speaker)
	default:
		messages = convLog.Messages()
	}

	if messages == nil {
		messages = []conversation.Message{}
	}
	httpext.JsonOK(w, messagesResponse{Messages: messages, Count: len(messages)})
}

// HandleGetSummary returns per-speaker counts and last activity.
func HandleGetSummary(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	httpext.JsonOK(w, svc.GetConversationLog().Summary())
}

// HandleGetStats returns the derived conversation statistics.
func HandleGetStats(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	httpext.JsonOK(w, conversation.Stats(svc.GetConversationLog().Messages()))
}

// HandleSearch filters messages by content query, optional speaker and an
// inclusive timestamp range.
func HandleSearch(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := query.Get("q")
	if q == "" {
		httpext.JsonError(w, "Missing query parameter q", http.StatusBadRequest)
		return
	}

	opts := conversation.SearchOptions{
		CaseSensitive: query.Get("case_sensitive") == "true",
		ExactMatch:    query.Get("exact") == "true",
	}

	if raw := query.Get("speaker"); raw != "" {
		speaker := conversation.Speaker(raw)
		if !speaker.Valid() {
			httpext.JsonError(w, "Unknown speaker", http.StatusBadRequest)
			return
		}
		opts.Speaker = speaker
	}

	for param, target := range map[string]**time.Time{"after": &opts.After, "before": &opts.Before} {
		if raw := query.Get(param); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				httpext.JsonError(w, "Invalid "+param+" timestamp", http.StatusBadRequest)
				return
			}
			*target = &t
		}
	}

	results := conversation.Search(svc.GetConversationLog().Messages(), q, opts)
	if results == nil {
		results = []conversation.Message{}
	}
	httpext.JsonOK(w, messagesResponse{Messages: results, Count: len(results)})
}

// HandleExport renders the conversation as json, text or csv.
func HandleExport(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = conversation.FormatJSON
	}

	out, err := conversation.Export(svc.GetConversationLog().Messages(), format)
	if err != nil {
		var formatErr *conversation.UnsupportedFormatError
		if errors.As(err, &formatErr) {
			httpext.JsonError(w, formatErr.Error(), http.StatusBadRequest)
			return
		}
		httpext.JsonError(w, "Export failed", http.StatusInternalServerError)
		return
	}

	switch format {
	case conversation.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case conversation.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	default:
		w.Header().Set("Content-Type", "text/plain")
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

// HandleClearConversation empties the log and resets the reconciler flags.
func HandleClearConversation(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	svc.GetReconciler().Reset()
	svc.GetConversationLog().Clear()
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveMessage deletes a single message; a miss is benign.
func HandleRemoveMessage(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	removed := svc.GetConversationLog().Remove(id)
	httpext.JsonOK(w, map[string]bool{"removed": removed})
}

// HandleGetInsights returns stats, keywords and an optional model summary.
func HandleGetInsights(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	insights, err := svc.GetInsightsService().Analyze(r.Context(), svc.GetConversationLog().Messages())
	if err != nil {
		httpext.JsonError(w, "Failed to analyze conversation", http.StatusInternalServerError)
		return
	}
	httpext.JsonOK(w, insights)
}
