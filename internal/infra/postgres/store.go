package postgres

import (
	"context"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

// Store is a bun-backed implementation of app.Store for any content table
// with id, teacher_id and created_at columns.
type Store[T domain.Record] struct {
	db bun.IDB
}

func NewStore[T domain.Record](db bun.IDB) *Store[T] {
	return &Store[T]{db: db}
}

func (s *Store[T]) Create(ctx context.Context, rec T) error {
	_, err := s.db.NewInsert().Model(&rec).Exec(ctx)
	return err
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	err := s.db.NewSelect().Model(&rec).Where("?TableAlias.id = ?", id).Scan(ctx)
	if err != nil {
		var zero T
		return zero, notFound(err, domain.ErrNotFound)
	}
	return rec, nil
}

func (s *Store[T]) GetMany(ctx context.Context, ids []string) (map[string]T, error) {
	out := make(map[string]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var recs []T
	if err := s.db.NewSelect().Model(&recs).Where("?TableAlias.id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, err
	}
	for _, rec := range recs {
		out[rec.RecordID()] = rec
	}
	return out, nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	recs := []T{}
	err := s.db.NewSelect().Model(&recs).Order("created_at DESC").Scan(ctx)
	return recs, err
}

func (s *Store[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	recs := []T{}
	err := s.db.NewSelect().Model(&recs).
		Where("?TableAlias.teacher_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)
	return recs, err
}

func (s *Store[T]) Update(ctx context.Context, rec T) error {
	res, err := s.db.NewUpdate().Model(&rec).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	return checkAffected(res, domain.ErrNotFound)
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	return checkAffected(res, domain.ErrNotFound)
}
