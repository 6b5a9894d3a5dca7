package api

import (
	"context"
	"io/fs"
	"sync"
	"time"

	"svgshare/internal/auth"
	"svgshare/internal/config"
	"svgshare/internal/database"
	"svgshare/internal/models"
	"svgshare/internal/ratelimit"
	"svgshare/internal/storage"
	"svgshare/internal/websocket"

	gorillaws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const backgroundTimeout = 5 * time.Second

// Store is the part of database.Store the handlers depend on.
type Store interface {
	Ping(ctx context.Context) error

	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetOrCreateUser(ctx context.Context, arg database.CreateUserParams) (*models.User, bool, error)
	GetUserWithUsage(ctx context.Context, id int64) (*models.UserWithUsage, error)
	ListUsers(ctx context.Context, arg database.ListUsersParams) ([]models.UserWithUsage, int64, error)
	UpdateUserStatus(ctx context.Context, id int64, status string) (*models.User, error)
	UpdateUserQuota(ctx context.Context, id int64, limit int64) (*models.User, error)
	GetStorageUsed(ctx context.Context, userID int64) (int64, error)

	CreateFile(ctx context.Context, arg database.CreateFileParams) (*models.File, error)
	ListFilesByUser(ctx context.Context, userID int64) ([]models.FileWithShare, error)
	GetFileByID(ctx context.Context, id, ownerID int64) (*models.File, error)
	RenameFile(ctx context.Context, id, ownerID int64, filename string) (*models.File, error)
	UpdateFileContent(ctx context.Context, arg database.UpdateFileContentParams) (*models.File, error)
	DeleteFile(ctx context.Context, id, ownerID int64) (bool, error)

	UpsertShare(ctx context.Context, arg database.UpsertShareParams) (*models.Share, bool, error)
	GetPublicShare(ctx context.Context, shareID string) (*models.PublicShare, error)
	IncrementVisitCount(ctx context.Context, shareID string) error
}

var _ Store = (*database.Store)(nil)

type Deps struct {
	Config   *config.Config
	Store    Store
	Storage  storage.Storage
	Provider auth.Provider
	Hub      *websocket.Hub
	// Limiter may be nil, which disables rate limiting.
	Limiter  ratelimit.Limiter
	Logger   logrus.FieldLogger
	Registry *prometheus.Registry
	Assets   fs.FS
}

type Server struct {
	config   *config.Config
	store    Store
	storage  storage.Storage
	provider auth.Provider
	wsHub    *websocket.Hub
	upgrader *gorillaws.Upgrader
	limiter  ratelimit.Limiter
	logger   logrus.FieldLogger
	registry *prometheus.Registry
	metrics  *metrics
	assets   fs.FS
	cookie   auth.CookieConfig

	tasks sync.WaitGroup
}

func NewServer(deps Deps) *Server {
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &Server{
		config:   deps.Config,
		store:    deps.Store,
		storage:  deps.Storage,
		provider: deps.Provider,
		wsHub:    deps.Hub,
		upgrader: websocket.NewUpgrader(deps.Config.CORS.AllowedOrigins),
		limiter:  deps.Limiter,
		logger:   deps.Logger,
		registry: registry,
		metrics:  newMetrics(registry),
		assets:   deps.Assets,
		cookie: auth.CookieConfig{
			Name:   deps.Config.Session.CookieName,
			Secure: deps.Config.Session.SecureCookie,
			TTL:    deps.Config.Session.TTL,
		},
	}
}

// background runs fn after the response has been written. Failures are only
// logged.
func (s *Server) background(parent context.Context, name string, fn func(ctx context.Context) error) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.WithError(err).WithField("task", name).Warn("background task failed")
		}
	}()
}

// Wait blocks until every background task has finished.
func (s *Server) Wait() {
	s.tasks.Wait()
}

func (s *Server) publish(userID int64, event websocket.Event) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.Publish(userID, event)
}
