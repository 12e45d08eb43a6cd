package bootstrap

import (
	"log"

	"ai-coursechat-be/internal/config"
	"ai-coursechat-be/internal/controller"
	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/internal/repository/unitofwork"
	"ai-coursechat-be/internal/service"
	"ai-coursechat-be/pkg/embedding"
	"ai-coursechat-be/pkg/llm/anthropic"
	"ai-coursechat-be/pkg/rag/generator"
	"ai-coursechat-be/pkg/rag/search"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	CourseController controller.ICourseController

	// Exposed for graceful shutdown
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	completionProvider := anthropic.NewAnthropicProvider(
		cfg.Ai.AnthropicAPIKey,
		cfg.Ai.AnthropicModel,
		cfg.Ai.AnthropicBaseURL,
	)
	log.Printf("[INFO] Using Completion Provider: ANTHROPIC (%s)", cfg.Ai.AnthropicModel)

	// 3. Retrieval + Generation
	contentStore := search.NewStore(uowFactory, embeddingProvider, cfg.Search.TopK, sysLogger)
	gen := generator.NewGenerator(completionProvider, sysLogger)

	// 4. Services
	chatService := service.NewChatService(uowFactory, gen, contentStore, sysLogger)
	courseService := service.NewCourseService(uowFactory)

	// 5. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService),
		CourseController: controller.NewCourseController(courseService),
		Logger:           sysLogger,
	}
}
