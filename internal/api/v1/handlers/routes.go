package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	v1mware "github.com/parleyhq/parley/internal/api/v1/middleware"
	"github.com/parleyhq/parley/internal/services"
)

func RegisterV1Routes(router *mux.Router, svc *services.Services) {
	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()

	// Session bootstrap (no auth required; this is where tokens come from)
	v1.Handle("/sessions", v1mware.RateLimit("session_create")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleCreateSession(svc, w, r)
	}))).Methods("POST")

	// Event ingest socket (token validated inside the handler; browsers pass
	// it as a query parameter)
	v1.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		HandleEvents(svc, w, r)
	})

	// Protected v1 routes (require a session token)
	v1protectedRouter := v1.NewRoute().Subrouter()
	v1protectedRouter.Use(v1mware.RequireAuth(svc.GetSessionService()))

	v1protectedRouter.HandleFunc("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		HandleCloseSession(svc, w, r)
	}).Methods("DELETE")
	v1protectedRouter.Handle("/sessions/{id}/speak", v1mware.RateLimit("speak")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleSpeak(svc, w, r)
	}))).Methods("POST")

	// Conversation read side
	v1conversationRouter := v1protectedRouter.PathPrefix("/conversation").Subrouter()
	v1conversationRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		HandleGetMessages(svc, w, r)
	}).Methods("GET")
	v1conversationRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		HandleClearConversation(svc, w, r)
	}).Methods("DELETE")
	v1conversationRouter.HandleFunc("/summary", func(w http.ResponseWriter, r *http.Request) {
		HandleGetSummary(svc, w, r)
	}).Methods("GET")
	v1conversationRouter.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		HandleGetStats(svc, w, r)
	}).Methods("GET")
	v1conversationRouter.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		HandleSearch(svc, w, r)
	}).Methods("GET")
	v1conversationRouter.HandleFunc("/insights", func(w http.ResponseWriter, r *http.Request) {
		HandleGetInsights(svc, w, r)
	}).Methods("GET")
	v1conversationRouter.Handle("/export", v1mware.RateLimit("conversation_export")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleExport(svc, w, r)
	}))).Methods("GET")
	v1conversationRouter.HandleFunc("/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		HandleRemoveMessage(svc, w, r)
	}).Methods("DELETE")

	// Knowledge base management
	v1knowledgeRouter := v1protectedRouter.PathPrefix("/knowledge-bases").Subrouter()
	v1knowledgeRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		HandleCreateKnowledgeBase(svc, w, r)
	}).Methods("POST")
	v1knowledgeRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		HandleListKnowledgeBases(svc, w, r)
	}).Methods("GET")
	v1knowledgeRouter.HandleFunc("/{id}", func(w http.ResponseWriter, r *http.Request) {
		HandleDeleteKnowledgeBase(svc, w, r)
	}).Methods("DELETE")
}
