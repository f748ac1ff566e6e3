package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jo-hoe/goprofile/internal/backend/database"
	"github.com/jo-hoe/goprofile/internal/backend/photoupload"
	"github.com/jo-hoe/goprofile/internal/common"
)

const (
	photoFormField = "photo"
	uploadsRoute   = "/uploads"
)

// UserService is the part of the core service the HTTP layer depends on
type UserService interface {
	ListUsernames(ctx context.Context) ([]string, error)
	UploadProfilePhoto(ctx context.Context, userID int64, upload *photoupload.Upload) (*photoupload.Result, error)
	UploadFolder() string
	IsReady() bool
}

type APIService struct {
	service          UserService
	maxContentLength int64
}

type UserResponse struct {
	Username string `json:"username"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PhotoUploadRequest struct {
	UserID int64 `param:"user_id" validate:"min=1"`
}

func NewAPIService(service UserService, maxContentLength int64) *APIService {
	return &APIService{
		service:          service,
		maxContentLength: maxContentLength,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	if e.Validator == nil {
		e.Validator = common.NewGenericEchoValidator()
	}

	e.GET("/probe", s.probeHandler)

	api := e.Group("/api")
	if s.maxContentLength > 0 {
		api.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
			Limit: strconv.FormatInt(s.maxContentLength, 10),
		}))
	}
	api.GET("/users", s.listUsersHandler)
	api.POST("/users/:user_id/photo", s.uploadPhotoHandler)

	e.Static(uploadsRoute, s.service.UploadFolder())
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if !s.service.IsReady() {
		slog.Warn("probeHandler: database is not reachable")
		return ctx.String(http.StatusServiceUnavailable, "database unavailable")
	}
	return ctx.String(http.StatusOK, "API Service is running")
}

func (s *APIService) listUsersHandler(ctx echo.Context) error {
	usernames, err := s.service.ListUsernames(ctx.Request().Context())
	if err != nil {
		slog.Error("listUsersHandler: failed to list users", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	users := make([]UserResponse, 0, len(usernames))
	for _, username := range usernames {
		users = append(users, UserResponse{Username: username})
	}
	return ctx.JSON(http.StatusOK, users)
}

func (s *APIService) uploadPhotoHandler(ctx echo.Context) error {
	var request PhotoUploadRequest
	// an id that is not a positive integer cannot name a user
	if err := (&echo.DefaultBinder{}).BindPathParams(ctx, &request); err != nil {
		return echo.ErrNotFound
	}
	if err := ctx.Validate(&request); err != nil {
		return echo.ErrNotFound
	}

	upload, closeUpload, err := openUpload(ctx)
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		// body limit exceeded while the form was being read
		return httpErr
	case errors.Is(err, errMalformedForm):
		slog.Info("uploadPhotoHandler: rejecting malformed multipart body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "malformed multipart body").SetInternal(err)
	case err != nil:
		slog.Error("uploadPhotoHandler: failed to open uploaded file", "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process image"})
	}
	defer closeUpload()

	result, err := s.service.UploadProfilePhoto(ctx.Request().Context(), request.UserID, upload)
	if err != nil {
		return uploadErrorResponse(ctx, request.UserID, err)
	}
	return ctx.JSON(http.StatusOK, result)
}

var errMalformedForm = errors.New("malformed multipart form")

// openUpload returns a nil upload when the request is not multipart or has no
// photo field. Read errors raised by middleware are passed through untouched.
func openUpload(ctx echo.Context) (*photoupload.Upload, func(), error) {
	noop := func() {}

	header, err := ctx.FormFile(photoFormField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return nil, noop, err
	}
	if err != nil {
		return nil, noop, fmt.Errorf("%w: %w", errMalformedForm, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	closeFile := func() {
		if cerr := file.Close(); cerr != nil {
			slog.Error("uploadPhotoHandler: failed to close uploaded file reader", "error", cerr, "filename", header.Filename)
		}
	}
	return newUpload(header, file), closeFile, nil
}

func newUpload(header *multipart.FileHeader, file multipart.File) *photoupload.Upload {
	return &photoupload.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
}

func uploadErrorResponse(ctx echo.Context, userID int64, err error) error {
	switch {
	case errors.Is(err, photoupload.ErrMissingFile):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "No photo provided"})
	case errors.Is(err, photoupload.ErrUnsupportedType):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid file type"})
	case errors.Is(err, photoupload.ErrFileTooLarge):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "File too large"})
	case errors.Is(err, photoupload.ErrUserNotFound), errors.Is(err, database.ErrUserNotFound):
		return echo.ErrNotFound
	default:
		slog.Error("uploadPhotoHandler: upload failed",
			"status", http.StatusInternalServerError, "user_id", userID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process image"})
	}
}
