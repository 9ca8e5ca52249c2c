package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"classroom-service/internal/infra/postgres"
	pgmigrations "classroom-service/internal/infra/postgres/migrations"
	infraredis "classroom-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun/migrate"
	"golang.org/x/crypto/bcrypt"
)

type noTokens struct{}

func (noTokens) Issue(domain.User) (string, error) { return "token", nil }

func TestSubmitQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	db := postgres.Open(pgURL)
	defer db.Close()
	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	users := postgres.NewUserStore(db)
	quizzes := postgres.NewStore[domain.Quiz](db)
	results := postgres.NewResultStore(db)
	quizRepo := infraredis.NewQuizRepository(redisClient, postgres.NewQuizLoader(pool), 5*time.Minute)

	authService := app.NewAuthService(users, noTokens{}, bcrypt.MinCost)
	teacher := signup(t, ctx, authService, "Tess", "tess@example.com", domain.RoleTeacher)
	student := signup(t, ctx, authService, "Stu", "stu@example.com", domain.RoleStudent)

	_, err = authService.Signup(ctx, app.SignupInput{Name: "Again", Email: "TESS@example.com", Password: "pw", Role: "student"})
	if err != domain.ErrUserExists {
		t.Fatalf("expected duplicate email rejected, got %v", err)
	}

	quizService := app.NewQuizService(quizzes, quizRepo, users)
	quiz, err := quizService.Create(ctx, teacher.ID, app.QuizInput{
		Title:     "Arithmetic",
		Questions: app.QuestionList{question("q1", 3), question("q2", 1)},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	resultService := app.NewResultService(quizRepo, quizzes, results, users)
	result, err := resultService.Submit(ctx, quiz.ID, student.ID, []domain.Answer{
		{QuestionID: "q1", AnswerIndex: 3},
		{QuestionID: "q2", AnswerIndex: 0},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 50 {
		t.Fatalf("expected 50, got %v", result.Score)
	}

	// The answer key is now cached; editing the quiz must drop it.
	replaced := app.QuestionList{question("q1", 0), question("q2", 0)}
	if _, err := quizService.Update(ctx, quiz.ID, teacher.ID, app.QuizPatch{Questions: &replaced}); err != nil {
		t.Fatalf("update quiz: %v", err)
	}
	result, err = resultService.Submit(ctx, quiz.ID, student.ID, []domain.Answer{
		{QuestionID: "q1", AnswerIndex: 0},
		{QuestionID: "q2", AnswerIndex: 0},
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if result.Score != 100 {
		t.Fatalf("expected 100 after update, got %v", result.Score)
	}

	teacherResults, err := resultService.ListForTeacher(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("list for teacher: %v", err)
	}
	if len(teacherResults) != 2 || teacherResults[0].Student.Name != "Stu" || teacherResults[0].Score != 100 {
		t.Fatalf("unexpected teacher results %+v", teacherResults)
	}

	if err := quizService.Delete(ctx, quiz.ID, teacher.ID); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	if _, err := resultService.Submit(ctx, quiz.ID, student.ID, nil); err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz not found after delete, got %v", err)
	}
	mine, err := resultService.ListForStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("list for student: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected results to outlive the quiz, got %d", len(mine))
	}
}

func signup(t *testing.T, ctx context.Context, auth *app.AuthService, name, email string, role domain.Role) domain.User {
	t.Helper()
	session, err := auth.Signup(ctx, app.SignupInput{Name: name, Email: email, Password: "password123", Role: string(role)})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return session.User
}

func question(id string, correct int) app.QuestionInput {
	return app.QuestionInput{ID: id, Text: "question " + id, Options: []string{"a", "b", "c", "d"}, CorrectAnswer: &correct}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "classroom", "POSTGRES_PASSWORD": "classpass", "POSTGRES_DB": "classroom"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://classroom:classpass@%s:%s/classroom?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	db := postgres.Open(dsn)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
