package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anurag24-26/openup/internal/bucket/domain"
	"github.com/anurag24-26/openup/internal/bucket/media"
	"github.com/anurag24-26/openup/internal/bucket/store"
	"github.com/anurag24-26/openup/pkg/idx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

var (
	ErrMissingField = errors.New("missing_field")
	ErrUnknownUser  = errors.New("unknown_user")
	ErrItemNotFound = errors.New("item_not_found")
	ErrUploadFailed = errors.New("upload_failed")
)

// ItemService owns the item submission pipeline and the completion
// transition. A submission is one logical unit: resolve the owner, ingest
// the image if one was supplied, persist the record. The upload fully
// completes (or fails) before anything is written; a failed upload means
// zero new records.
type ItemService struct {
	Store    store.Store
	Uploader media.Uploader
}

// SubmitRequest carries the fields of one submission. Owner may be a user
// ID or a username. Image is the raw buffer captured at the boundary; nil
// or empty means the item has no image.
type SubmitRequest struct {
	Owner       string
	Text        string
	Description string
	Image       []byte
	ImageMIME   string
}

// Submit runs the item submission pipeline and returns the persisted item.
func (s *ItemService) Submit(ctx context.Context, req SubmitRequest) (domain.Item, error) {
	log := slogx.FromContext(ctx)

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return domain.Item{}, ErrMissingField
	}

	owner, err := s.resolveOwner(ctx, req.Owner)
	if err != nil {
		return domain.Item{}, err
	}

	// The upload is awaited before any record write. It is the slowest and
	// most failure-prone step, so it runs outside the transaction below.
	imageURL := ""
	if len(req.Image) > 0 {
		if s.Uploader == nil {
			log.Warn("image submitted but no object store is configured", "owner_id", owner.ID)
			return domain.Item{}, ErrUploadFailed
		}
		imageURL, err = s.Uploader.Ingest(ctx, req.Image, req.ImageMIME)
		if err != nil {
			log.Warn("image ingestion failed, aborting submission",
				"owner_id", owner.ID, "err", err)
			return domain.Item{}, ErrUploadFailed
		}
	}

	now := time.Now().UTC()
	item := domain.Item{
		ID:          idx.New().String(),
		Text:        req.Text,
		Description: strings.TrimSpace(req.Description),
		Image:       imageURL,
		OwnerID:     owner.ID,
		CreatedBy:   owner.Username,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check the owner inside the transaction so the FK insert can't
		// race a concurrent delete.
		if _, err := tx.Users().GetUserByID(ctx, owner.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnknownUser
			}
			return err
		}
		return tx.Items().CreateItem(ctx, item)
	})
	if err != nil {
		return domain.Item{}, err
	}

	log.Info("item created", "item_id", item.ID, "owner_id", owner.ID, "has_image", imageURL != "")
	return item, nil
}

// MarkComplete flips an item to completed. Idempotent: completing an
// already-completed item returns it unchanged with no error.
func (s *ItemService) MarkComplete(ctx context.Context, itemID string) (domain.Item, error) {
	var item domain.Item

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		it, err := tx.Items().GetItemByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		if it.Completed {
			item = it
			return nil
		}

		if err := tx.Items().MarkItemCompleted(ctx, itemID); err != nil {
			return err
		}

		item, err = tx.Items().GetItemByID(ctx, itemID)
		return err
	})
	if err != nil {
		return domain.Item{}, err
	}

	return item, nil
}

// List returns every item, newest first.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	return s.Store.Items().ListItems(ctx)
}

// GroupedByUser returns every user with their items. Users who have posted
// nothing appear with an empty group.
func (s *ItemService) GroupedByUser(ctx context.Context) ([]domain.UserItems, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]domain.UserItems, 0, len(users))
	for _, u := range users {
		items, err := s.Store.Items().ListItemsByOwner(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.Item{}
		}
		groups = append(groups, domain.UserItems{User: u, Items: items})
	}
	return groups, nil
}

// resolveOwner accepts a user ID or a username and returns the user record.
func (s *ItemService) resolveOwner(ctx context.Context, owner string) (domain.User, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return domain.User{}, ErrMissingField
	}

	if _, err := idx.Parse(owner); err == nil {
		u, err := s.Store.Users().GetUserByID(ctx, owner)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
		// Fall through: a ULID-shaped username is unusual but legal.
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, owner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnknownUser
		}
		return domain.User{}, err
	}
	return u, nil
}
