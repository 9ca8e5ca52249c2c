package postgres

import (
	"context"
	"strings"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

// UserStore is a bun-backed implementation of app.UserStore.
type UserStore struct {
	db bun.IDB
}

func NewUserStore(db bun.IDB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user domain.User) error {
	user.Email = strings.ToLower(user.Email)
	if _, err := s.db.NewInsert().Model(&user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

func (s *UserStore) Get(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := s.db.NewSelect().Model(&user).Where("u.id = ?", id).Scan(ctx)
	return user, notFound(err, domain.ErrUserNotFound)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := s.db.NewSelect().Model(&user).Where("u.email = ?", strings.ToLower(email)).Scan(ctx)
	return user, notFound(err, domain.ErrUserNotFound)
}

func (s *UserStore) GetMany(ctx context.Context, ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []domain.User
	if err := s.db.NewSelect().Model(&users).Where("u.id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *UserStore) Update(ctx context.Context, user domain.User) error {
	res, err := s.db.NewUpdate().Model(&user).
		Column("name", "bio", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return checkAffected(res, domain.ErrUserNotFound)
}
