package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"classroom-service/internal/logging"
	"github.com/spf13/cobra"
)

const seedPassword = "password123"

// NewSeedCmd loads sample accounts and content into the configured database.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create sample teacher and student accounts with demo content",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured; use start --seed for in-memory data")
			}
			if err := runMigrations(ctx, cfg); err != nil {
				return err
			}
			b, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer b.close()

			svc, err := newServices(ctx, cfg, b, nil)
			if err != nil {
				return err
			}
			defer svc.close()
			return seedData(ctx, b, svc)
		},
	}
}

// seedData creates the demo accounts once. Content is only added when the
// teacher account is new.
func seedData(ctx context.Context, b *backend, svc *services) error {
	log := logging.Logger()

	teacher, created, err := seedUser(ctx, b, svc, "Demo Teacher", "teacher@example.com", domain.RoleTeacher)
	if err != nil {
		return err
	}
	if _, _, err := seedUser(ctx, b, svc, "Demo Student", "student@example.com", domain.RoleStudent); err != nil {
		return err
	}
	if !created {
		log.Info("seed data already present")
		return nil
	}

	if _, err := svc.videos.Create(ctx, teacher.ID, app.VideoInput{
		Title:       "Welcome to the course",
		Description: "A short tour of the course material.",
		Tags:        "intro, orientation",
	}, &app.Upload{Filename: "welcome.txt", Body: strings.NewReader("Welcome! Replace this file with a real recording.\n")}); err != nil {
		return fmt.Errorf("seed video: %w", err)
	}
	if _, err := svc.notes.Create(ctx, teacher.ID, app.NoteInput{
		Title:   "Order of operations",
		Content: "Parentheses, exponents, multiplication and division, addition and subtraction.",
		Tags:    "math",
	}, nil); err != nil {
		return fmt.Errorf("seed note: %w", err)
	}
	if _, err := svc.questions.Create(ctx, teacher.ID, app.ImportantQuestionInput{
		Question:    "What is a prime number?",
		Explanation: "A natural number greater than 1 whose only divisors are 1 and itself.",
		Subject:     "Math",
	}); err != nil {
		return fmt.Errorf("seed question: %w", err)
	}

	correct := 3
	quiz, err := svc.quizzes.Create(ctx, teacher.ID, app.QuizInput{
		Title:       "Algebra Warmup",
		Description: "One question to check the submission flow.",
		Questions: app.QuestionList{
			{Text: "What is 2 + 2?", Options: []string{"1", "2", "3", "4"}, CorrectAnswer: &correct},
		},
	})
	if err != nil {
		return fmt.Errorf("seed quiz: %w", err)
	}

	log.WithField("quiz_id", quiz.ID).Info("seed data created")
	return nil
}

func seedUser(ctx context.Context, b *backend, svc *services, name, email string, role domain.Role) (domain.User, bool, error) {
	session, err := svc.auth.Signup(ctx, app.SignupInput{
		Name:     name,
		Email:    email,
		Password: seedPassword,
		Role:     string(role),
	})
	switch {
	case err == nil:
		return session.User, true, nil
	case errors.Is(err, domain.ErrUserExists):
		user, err := b.users.GetByEmail(ctx, email)
		return user, false, err
	default:
		return domain.User{}, false, fmt.Errorf("seed %s: %w", email, err)
	}
}
