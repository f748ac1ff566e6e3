package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/goprofile/internal/backend/blobdir"
	"github.com/jo-hoe/goprofile/internal/backend/cache"
	"github.com/jo-hoe/goprofile/internal/backend/database"
	"github.com/jo-hoe/goprofile/internal/backend/imageprocessing"
	"github.com/jo-hoe/goprofile/internal/backend/photoupload"
)

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	directory       *blobdir.Directory
	userCache       cache.UserListCache
	pipeline        *photoupload.Pipeline
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		return nil, err
	}

	directory, err := blobdir.New(config.UploadFolder)
	if err != nil {
		_ = databaseService.Close()
		return nil, err
	}

	invoker, err := imageprocessing.NewCommandInvokerFromConfigs(config.ImageCommands())
	if err != nil {
		_ = databaseService.Close()
		return nil, fmt.Errorf("failed to build image commands: %w", err)
	}

	userCache, err := cache.NewUserListCache(config.Cache.Type, config.Cache.Address, config.Cache.TTL)
	if err != nil {
		_ = databaseService.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	slog.Info("core service initialized",
		"upload_folder", directory.Root(),
		"image_commands", invoker.CommandNames(),
		"cache", config.Cache.Type)

	return &CoreService{
		config:          config,
		databaseService: databaseService,
		directory:       directory,
		userCache:       userCache,
		pipeline: photoupload.NewPipeline(databaseService, directory, invoker,
			photoupload.WithMaxFileSize(config.MaxFileSize)),
	}, nil
}

// UploadFolder returns the absolute directory holding profile photos
func (service *CoreService) UploadFolder() string {
	return service.directory.Root()
}

// IsReady reports whether the user store answers
func (service *CoreService) IsReady() bool {
	return service.databaseService.DoesDatabaseExist()
}

// ListUsernames returns every username, served from the cache when possible
func (service *CoreService) ListUsernames(ctx context.Context) ([]string, error) {
	if usernames, ok, err := service.userCache.Get(ctx); err != nil {
		slog.Warn("user list cache read failed, falling back to database", "error", err)
	} else if ok {
		return usernames, nil
	}

	users, err := service.databaseService.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	usernames := make([]string, 0, len(users))
	for _, user := range users {
		usernames = append(usernames, user.Username)
	}

	if err := service.userCache.Set(ctx, usernames); err != nil {
		slog.Warn("user list cache write failed", "error", err)
	}
	return usernames, nil
}

// CreateUser adds a user row and drops the cached listing
func (service *CoreService) CreateUser(ctx context.Context, username string) (*database.User, error) {
	user, err := service.databaseService.CreateUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := service.userCache.Invalidate(ctx); err != nil {
		slog.Warn("user list cache invalidation failed", "error", err)
	}
	slog.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// UploadProfilePhoto runs the photo upload pipeline for one user
func (service *CoreService) UploadProfilePhoto(ctx context.Context, userID int64, upload *photoupload.Upload) (*photoupload.Result, error) {
	return service.pipeline.Upload(ctx, userID, upload)
}

func (service *CoreService) Close() error {
	return errors.Join(service.userCache.Close(), service.databaseService.Close())
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}
