package services

import (
	"sync"

	"github.com/parleyhq/parley/internal/conversation"
	"github.com/parleyhq/parley/internal/infrastructure/heygen"
	"github.com/parleyhq/parley/internal/infrastructure/openai"
	"github.com/parleyhq/parley/internal/infrastructure/redis"
	"github.com/parleyhq/parley/internal/services/avatar"
	"github.com/parleyhq/parley/internal/services/insights"
	"github.com/parleyhq/parley/internal/services/knowledge"
	"github.com/parleyhq/parley/internal/services/session"
	"github.com/parleyhq/parley/internal/transcript"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	heygenService    *heygen.Service
	openAIService    *openai.Service
	redisService     *redis.Service
	avatarService    *avatar.Service
	knowledgeService *knowledge.Service
	sessionService   *session.Service
	insightsService  *insights.Service
	conversationLog  *conversation.Log
	reconciler       *transcript.Reconciler
}

// InitializeServices initializes all required services
func InitializeServices() (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	// Infrastructure clients (all optional; dependent services degrade)
	redisService := redis.NewService()
	heygenService := heygen.NewService()
	openAIService := openai.NewService()
	log.Info().Msg("Initializing infrastructure services")

	// The conversation log is the single owned store instance; the reconciler
	// and the read-side handlers share it by injection.
	conversationLog := conversation.NewLog()
	reconciler := transcript.NewReconciler(conversationLog)
	log.Info().Msg("Initializing conversation log and reconciler")

	sessionService := session.NewService(redisService)
	log.Info().Msg("Initializing session service")

	avatarService := avatar.NewService(heygenService)
	knowledgeService := knowledge.NewService(heygenService)
	insightsService := insights.NewService(openAIService)
	log.Info().Msg("Initializing avatar, knowledge and insights services")

	log.Info().Msg("All services initialized successfully")

	return &Services{
		heygenService:    heygenService,
		openAIService:    openAIService,
		redisService:     redisService,
		avatarService:    avatarService,
		knowledgeService: knowledgeService,
		sessionService:   sessionService,
		insightsService:  insightsService,
		conversationLog:  conversationLog,
		reconciler:       reconciler,
	}, nil
}

// GetAvatarService returns the avatar session service
func (s *Services) GetAvatarService() *avatar.Service {
	return s.avatarService
}

// GetKnowledgeService returns the knowledge base service
func (s *Services) GetKnowledgeService() *knowledge.Service {
	return s.knowledgeService
}

// GetSessionService returns the session token service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetInsightsService returns the conversation insights service
func (s *Services) GetInsightsService() *insights.Service {
	return s.insightsService
}

// GetConversationLog returns the shared conversation log
func (s *Services) GetConversationLog() *conversation.Log {
	return s.conversationLog
}

// GetReconciler returns the transcript reconciler
func (s *Services) GetReconciler() *transcript.Reconciler {
	return s.reconciler
}

// GetHeyGenService returns the provider client
func (s *Services) GetHeyGenService() *heygen.Service {
	return s.heygenService
}
