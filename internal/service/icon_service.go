package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/repository"
	"github.com/lysokunvoath/grex/internal/storage"
	"github.com/pkg/errors"
)

// ObjectStore is the subset of storage.S3Storage used for group icons.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) (storage.ObjectStat, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, storage.ObjectStat, error)
	DeleteObject(ctx context.Context, key string) error
}

type IconService struct {
	groups *GroupService
	repo   repository.GroupRepositoryInterface
	store  ObjectStore
}

func NewIconService(groups *GroupService, repo repository.GroupRepositoryInterface, store ObjectStore) *IconService {
	return &IconService{groups: groups, repo: repo, store: store}
}

// UploadIcon normalizes the image, stores it and points the group at it.
// Owner only.
func (s *IconService) UploadIcon(ctx context.Context, groupID, userID uuid.UUID, r io.Reader) (*models.Group, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	group, err := s.groups.ownedGroup(groupID, userID, "change the icon")
	if err != nil {
		return nil, err
	}

	png, err := storage.ProcessGroupIcon(r, storage.DefaultIconOptions())
	if err != nil {
		return nil, errors.WithMessage(ErrValidation, err.Error())
	}

	key := storage.IconKey(groupID)
	if _, err := s.store.PutObject(ctx, key, bytes.NewReader(png), int64(len(png)), "image/png"); err != nil {
		return nil, errors.Wrap(err, "store icon")
	}

	oldKey := strings.TrimSpace(group.Icon)
	if err := s.repo.SetIcon(groupID, key); err != nil {
		// Drop the new object so it does not linger unreferenced.
		_ = s.store.DeleteObject(ctx, key)
		return nil, translate(err, "update group")
	}
	group.Icon = key

	if oldKey != "" && oldKey != key {
		if err := s.store.DeleteObject(ctx, oldKey); err != nil {
			slog.Warn("failed to delete previous group icon", "group_id", groupID, "key", oldKey, "error", err)
		}
	}
	return group, nil
}

// OpenIcon streams the group's icon to any user who can see the group.
func (s *IconService) OpenIcon(ctx context.Context, groupID, userID uuid.UUID) (io.ReadCloser, storage.ObjectStat, error) {
	if s.store == nil {
		return nil, storage.ObjectStat{}, ErrStorageUnavailable
	}
	group, err := s.groups.GetGroup(groupID, userID)
	if err != nil {
		return nil, storage.ObjectStat{}, err
	}
	if group.Icon == "" || !storage.IsIconKey(groupID, group.Icon) {
		return nil, storage.ObjectStat{}, errors.WithMessage(ErrNotFound, "group has no icon")
	}
	return s.store.GetObject(ctx, group.Icon)
}
