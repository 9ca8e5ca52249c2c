package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/auth"
	"classroom-service/internal/config"
	"classroom-service/internal/domain"
	"classroom-service/internal/infra/blob"
	"classroom-service/internal/infra/memory"
	"classroom-service/internal/infra/postgres"
	rediscache "classroom-service/internal/infra/redis"
	"classroom-service/internal/logging"
	transport "classroom-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "load sample accounts and content before serving")
	return cmd
}

// backend holds the persistence layer selected by configuration.
type backend struct {
	users     app.UserStore
	quizzes   app.Store[domain.Quiz]
	videos    app.Store[domain.Video]
	notes     app.Store[domain.Note]
	questions app.Store[domain.ImportantQuestion]
	results   app.ResultStore
	loader    app.QuizLoader
	close     func()
}

// openBackend uses Postgres when a URL is configured and in-memory stores
// otherwise.
func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	if cfg.Postgres.URL == "" {
		quizzes := memory.NewStore[domain.Quiz]()
		return &backend{
			users:     memory.NewUserStore(),
			quizzes:   quizzes,
			videos:    memory.NewStore[domain.Video](),
			notes:     memory.NewStore[domain.Note](),
			questions: memory.NewStore[domain.ImportantQuestion](),
			results:   memory.NewResultStore(),
			loader:    memory.NewStoreQuizLoader(quizzes),
			close:     func() {},
		}, nil
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, err
	}
	db := postgres.Open(cfg.Postgres.URL)
	return &backend{
		users:     postgres.NewUserStore(db),
		quizzes:   postgres.NewStore[domain.Quiz](db),
		videos:    postgres.NewStore[domain.Video](db),
		notes:     postgres.NewStore[domain.Note](db),
		questions: postgres.NewStore[domain.ImportantQuestion](db),
		results:   postgres.NewResultStore(db),
		loader:    postgres.NewQuizLoader(pool),
		close: func() {
			pool.Close()
			_ = db.Close()
		},
	}, nil
}

type services struct {
	auth      *app.AuthService
	quizzes   *app.QuizService
	results   *app.ResultService
	videos    *app.VideoService
	notes     *app.NoteService
	questions *app.ImportantQuestionService
	feed      *app.ResultFeed
	blobs     app.BlobStore
	issuer    *auth.Issuer
	close     func()
}

func newServices(ctx context.Context, cfg config.Config, b *backend, redisClient *redis.Client) (*services, error) {
	blobs, err := blob.NewFSStore(cfg.Blob.BasePath, cfg.Server.PublicURL)
	if err != nil {
		return nil, err
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	var feeds app.FeedRegistry
	closeFeeds := func() {}
	if redisClient != nil {
		quizRepo = rediscache.NewQuizRepository(redisClient, b.loader, quizTTL)
		shared, err := rediscache.NewFeedRegistry(ctx, redisClient)
		if err != nil {
			return nil, err
		}
		feeds = shared
		closeFeeds = func() { _ = shared.Close() }
	} else {
		quizRepo = memory.NewQuizRepository(b.loader, quizTTL)
		feeds = memory.NewFeedRegistry()
	}

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 7*24*time.Hour))
	feed := app.NewResultFeed(feeds)
	return &services{
		auth:    app.NewAuthService(b.users, issuer, cfg.Auth.BcryptCost),
		quizzes: app.NewQuizService(b.quizzes, quizRepo, b.users),
		results: app.NewResultService(quizRepo, b.quizzes, b.results, b.users,
			app.WithStrictQuestionIDs(cfg.Quiz.StrictQuestionIDs),
			app.WithResultFeed(feed),
		),
		videos:    app.NewVideoService(b.videos, b.users, blobs),
		notes:     app.NewNoteService(b.notes, b.users, blobs),
		questions: app.NewImportantQuestionService(b.questions, b.users),
		feed:      feed,
		blobs:     blobs,
		issuer:    issuer,
		close:     closeFeeds,
	}, nil
}

func runServer(ctx context.Context, configPath, portFlag string, seed bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := logging.Logger()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}
	if cfg.Auth.JWTSecret == config.Default().Auth.JWTSecret {
		log.Warn("using the default JWT secret; set JWT_SECRET in production")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	svc, err := newServices(ctx, cfg, b, redisClient)
	if err != nil {
		return err
	}
	defer svc.close()
	if seed {
		if err := seedData(ctx, b, svc); err != nil {
			return err
		}
	}

	maxBytes := cfg.Server.UploadMaxBytes
	router := transport.NewRouter(transport.RouterConfig{
		Authenticator:  auth.NewAuthenticator(svc.issuer, b.users),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   maxBytes,
		Auth:           transport.NewAuthHandler(svc.auth),
		Quizzes:        transport.NewQuizHandler(svc.quizzes, svc.results, maxBytes),
		Results:        transport.NewResultHandler(svc.results),
		Videos:         transport.NewVideoHandler(svc.videos, maxBytes),
		Notes:          transport.NewNoteHandler(svc.notes, maxBytes),
		Questions:      transport.NewQuestionHandler(svc.questions),
		Uploads:        transport.NewUploadsHandler(svc.blobs),
		Live:           transport.NewWSHandler(svc.feed),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 60*time.Second),
	}

	go func() {
		log.WithField("port", finalPort).Info("starting classroom service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
