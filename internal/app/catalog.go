package app

import (
	"context"
	"errors"
	"fmt"

	"classroom-service/internal/domain"
)

// catalog holds the read and ownership logic shared by every content service.
type catalog[T domain.Record] struct {
	store    Store[T]
	users    UserStore
	notFound error
	setOwner func(*T, domain.UserRef)
	// ownerEmail includes the owner's email in populated references.
	ownerEmail bool
}

func (c catalog[T]) get(ctx context.Context, id string) (T, error) {
	rec, err := c.store.Get(ctx, id)
	if err != nil {
		var zero T
		if errors.Is(err, domain.ErrNotFound) {
			return zero, c.notFound
		}
		return zero, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

// owned loads id and fails with domain.ErrForbidden unless callerID owns it.
func (c catalog[T]) owned(ctx context.Context, id, callerID string) (T, error) {
	rec, err := c.get(ctx, id)
	if err != nil {
		return rec, err
	}
	if !domain.OwnedBy(rec, callerID) {
		var zero T
		return zero, domain.ErrForbidden
	}
	return rec, nil
}

func (c catalog[T]) list(ctx context.Context) ([]T, error) {
	recs, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return c.withOwners(ctx, recs)
}

func (c catalog[T]) getPopulated(ctx context.Context, id string) (T, error) {
	rec, err := c.get(ctx, id)
	if err != nil {
		return rec, err
	}
	recs, err := c.withOwners(ctx, []T{rec})
	if err != nil {
		var zero T
		return zero, err
	}
	return recs[0], nil
}

// withOwners resolves owner display names. Owners that no longer exist keep
// a bare id reference.
func (c catalog[T]) withOwners(ctx context.Context, recs []T) ([]T, error) {
	if len(recs) == 0 {
		return recs, nil
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.OwnerID())
	}
	owners, err := c.users.GetMany(ctx, uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve owners: %w", err)
	}
	for i := range recs {
		ref := domain.UserRef{ID: recs[i].OwnerID()}
		if owner, ok := owners[ref.ID]; ok {
			ref = owner.Ref(c.ownerEmail)
		}
		c.setOwner(&recs[i], ref)
	}
	return recs, nil
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
