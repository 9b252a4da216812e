package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
)

type userRepo struct{ s *Store }

func emailTaken(d *state, email string) bool {
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r userRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.write(ctx, func(d *state) error {
		if emailTaken(d, user.Email) {
			return fmt.Errorf("user email %s: %w", user.Email, domainRepo.ErrDuplicateKey)
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		now := time.Now()
		user.CreatedAt, user.UpdatedAt = now, now
		d.users[user.ID] = *user
		return nil
	})
}

func (r userRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *state) {
		if u, ok := d.users[id]; ok {
			out = &u
		}
	})
	return out, ctx.Err()
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *state) {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				out = &u
				return
			}
		}
	})
	return out, ctx.Err()
}

func (r userRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]entity.User, error) {
	var out []entity.User
	r.s.read(func(d *state) {
		for _, u := range d.users {
			if u.ShopID == shopID {
				out = append(out, u)
			}
		}
	})
	slices.SortFunc(out, func(a, b entity.User) int { return strings.Compare(a.Email, b.Email) })
	return out, ctx.Err()
}

func (r userRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(d *state) error {
		u, ok := d.users[id]
		if !ok {
			return nil
		}
		now := time.Now()
		u.LastLoginAt = &now
		d.users[id] = u
		return nil
	})
}

type shopRepo struct{ s *Store }

func (r shopRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	return r.s.FindShop(ctx, id)
}

func (r shopRepo) GetBySlug(ctx context.Context, slug string) (*entity.Shop, error) {
	var out *entity.Shop
	r.s.read(func(d *state) {
		for _, shop := range d.shops {
			if shop.Slug == slug {
				out = &shop
				return
			}
		}
	})
	return out, ctx.Err()
}

func (r shopRepo) CreateWithOwner(ctx context.Context, shop *entity.Shop, owner *entity.User) error {
	return r.s.write(ctx, func(d *state) error {
		for _, existing := range d.shops {
			if existing.Slug == shop.Slug {
				return fmt.Errorf("shop slug %s: %w", shop.Slug, domainRepo.ErrDuplicateKey)
			}
		}
		if owner != nil && emailTaken(d, owner.Email) {
			return fmt.Errorf("user email %s: %w", owner.Email, domainRepo.ErrDuplicateKey)
		}
		now := time.Now()
		if shop.ID == uuid.Nil {
			shop.ID = uuid.New()
		}
		shop.CreatedAt, shop.UpdatedAt = now, now
		if owner != nil {
			if owner.ID == uuid.Nil {
				owner.ID = uuid.New()
			}
			owner.ShopID = shop.ID
			owner.CreatedAt, owner.UpdatedAt = now, now
			shop.OwnerID = &owner.ID
			d.users[owner.ID] = *owner
		}
		d.shops[shop.ID] = *shop
		return nil
	})
}

func (r shopRepo) Update(ctx context.Context, shop *entity.Shop) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.shops[shop.ID]; !ok {
			return fmt.Errorf("shop %s not found", shop.ID)
		}
		shop.UpdatedAt = time.Now()
		d.shops[shop.ID] = *shop
		return nil
	})
}

type idempotencyRepo struct{ s *Store }

func idempotencyKey(shopID uuid.UUID, key string) string {
	return shopID.String() + "|" + key
}

func (r idempotencyRepo) GetByKey(ctx context.Context, shopID uuid.UUID, key string) (*entity.IdempotencyKey, error) {
	var out *entity.IdempotencyKey
	r.s.read(func(d *state) {
		if k, ok := d.idempotency[idempotencyKey(shopID, key)]; ok {
			out = &k
		}
	})
	return out, ctx.Err()
}

func (r idempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.s.write(ctx, func(d *state) error {
		k := idempotencyKey(ikey.ShopID, ikey.Key)
		if existing, ok := d.idempotency[k]; ok && !existing.IsExpired() {
			return fmt.Errorf("idempotency key %s: %w", ikey.Key, domainRepo.ErrDuplicateKey)
		}
		if ikey.ID == uuid.Nil {
			ikey.ID = uuid.New()
		}
		ikey.CreatedAt = time.Now()
		d.idempotency[k] = *ikey
		return nil
	})
}

func (r idempotencyRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var removed int64
	err := r.s.write(ctx, func(d *state) error {
		for k, v := range d.idempotency {
			if v.IsExpired() {
				delete(d.idempotency, k)
				removed++
			}
		}
		return nil
	})
	return removed, err
}
