package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "picbook/docs"
	"picbook/internal/config"
	"picbook/internal/handler"
	mediaHandler "picbook/internal/handler/media"
	storyHandler "picbook/internal/handler/story"
	"picbook/internal/pkg/cache"
	"picbook/internal/pkg/mongodb"
	"picbook/internal/pkg/storage"
	"picbook/internal/pkg/storagefactory"
	storyRepo "picbook/internal/repository/story"
	"picbook/internal/server/middleware"
	"picbook/internal/service/media"
	"picbook/internal/service/story"
)

// defaultJobTimeout 未配置 media.job_timeout 时的异步任务超时
const defaultJobTimeout = 30 * time.Minute

// Server HTTP 服务器
type Server struct {
	cfg      *config.Config
	engine   *gin.Engine
	mongo    *mongodb.Client
	redis    *cache.RedisCache
	storage  storage.Storage
	storySvc story.Service
	mediaSvc media.Service
}

// New 创建服务器实例
// MongoDB 和 Redis 可选：连接失败时告警并继续，对应功能降级
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	if err := ensureDirs(&cfg.Media); err != nil {
		return nil, err
	}

	store, err := storagefactory.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	log.Info().Str("type", store.GetStorageType()).Msg("storage ready")

	// 初始化 MongoDB (可选)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			if err := mongodb.EnsureIndexes(ctx, mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	llm, err := NewLLMProvider(ctx, &cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	images, err := NewImageProvider(&cfg.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to create image provider: %w", err)
	}
	speech, err := NewSpeechSynthesizer(&cfg.TTS, speechDir(&cfg.Media))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech synthesizer: %w", err)
	}

	var repo storyRepo.StoryRepository
	if mongoClient != nil {
		repo = storyRepo.NewStoryRepo(mongoClient.Database())
	} else {
		log.Warn().Msg("MongoDB not configured, stories will not be persisted")
	}

	var jobs *media.JobRunner
	if redisCache != nil {
		timeout := cfg.Media.JobTimeout
		if timeout <= 0 {
			timeout = defaultJobTimeout
		}
		jobs = media.NewJobRunner(media.NewRedisJobStore(redisCache), timeout)
	} else {
		log.Warn().Msg("Redis not configured, async media jobs disabled")
	}

	var mediaOpts []media.ServiceOption
	if len(cfg.Media.InputRoots) > 0 {
		mediaOpts = append(mediaOpts, media.WithLocalInputs(cfg.Media.InputRoots...))
	}

	storyOpts := story.Options{
		ImageModels: cfg.Image.Models,
		DefaultSeed: cfg.Image.DefaultSeed,
	}
	if redisCache != nil {
		storyOpts.Cache = redisCache
	}

	srv := &Server{
		cfg:      cfg,
		engine:   gin.New(),
		mongo:    mongoClient,
		redis:    redisCache,
		storage:  store,
		storySvc: story.NewService(llm, images, store, repo, storyOpts),
		mediaSvc: media.NewService(NewMediaTool(&cfg.Media), speech, store, NewScratch(&cfg.Media), jobs, mediaOpts...),
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	deps := map[string]handler.Pinger{}
	if s.mongo != nil {
		deps["mongo"] = s.mongo
	}
	if s.redis != nil {
		deps["redis"] = s.redis
	}
	healthHandler := handler.NewHealthHandler(deps)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 本地存储的产物通过 /static 访问
	if s.cfg.Storage.Type == "local" && s.cfg.Storage.Local != nil {
		baseURL := s.cfg.Storage.Local.BaseURL
		if baseURL == "" {
			baseURL = storagefactory.DefaultBaseURL
		}
		s.engine.Static(baseURL, s.cfg.Storage.Local.BasePath)
	}

	storyHdl := storyHandler.NewHandler(s.storySvc)
	mediaHdl := mediaHandler.NewHandler(s.mediaSvc, s.storySvc, s.storage)

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		storyGroup := v1.Group("/story")
		{
			storyGroup.POST("/generate-story", storyHdl.GenerateStory)
			storyGroup.POST("/generate-image-descriptions", storyHdl.GenerateImageDescriptions)
			storyGroup.POST("/split-text", storyHdl.SplitText)
			storyGroup.GET("/art-styles", storyHdl.ListArtStyles)
			storyGroup.GET("/story-types", storyHdl.ListStoryTypes)
			storyGroup.GET("/age-ranges", storyHdl.ListAgeRanges)
		}

		imageGroup := v1.Group("/image")
		{
			imageGroup.POST("/generate-images-from-prompts", storyHdl.GenerateImages)
			imageGroup.GET("/aspect-ratios", storyHdl.ListAspectRatios)
			imageGroup.GET("/image-models", storyHdl.ListImageModels)
			imageGroup.POST("/upload", mediaHdl.UploadImage)
		}

		speechGroup := v1.Group("/speech")
		{
			speechGroup.POST("/generate", mediaHdl.GenerateSpeech)
			speechGroup.GET("/download/:filename", mediaHdl.DownloadSpeech)
			speechGroup.GET("/emotions", mediaHdl.ListEmotions)
			speechGroup.POST("/generate_paragraph_audio", mediaHdl.GenerateParagraphAudio)
			speechGroup.POST("/generate_paragraph_video", mediaHdl.GenerateParagraphVideo)
			speechGroup.GET("/jobs/:job_id", mediaHdl.GetJob)
			speechGroup.GET("/jobs/:job_id/watch", mediaHdl.WatchJob)
		}

		v1.GET("/stories", storyHdl.ListStories)
		v1.GET("/stories/:id", storyHdl.GetStory)
		v1.DELETE("/stories/:id", storyHdl.DeleteStory)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return err
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
