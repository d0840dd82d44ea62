package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
	"task_analytics/pkg/apierrors"

	"gorm.io/gorm"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type CreateTagInput struct {
	Name  string
	Color string
}

type UpdateTagInput struct {
	ID    uint
	Name  *string
	Color *string
}

type TagService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, in CreateTagInput) (*models.Tag, error)
	UpdateTag(ctx context.Context, userID string, in UpdateTagInput) (*models.Tag, error)
	DeleteTag(ctx context.Context, userID string, id uint) error

	ListTaskTags(ctx context.Context, userID string, taskID uint) ([]models.Tag, error)
	AttachTag(ctx context.Context, userID string, taskID, tagID uint) (*models.TaskTag, error)
	DetachTag(ctx context.Context, userID string, taskID, tagID uint) error
}

type tagService struct {
	store *repository.Store
	now   Clock
}

func NewTagService(store *repository.Store, clock Clock) TagService {
	return &tagService{store: store, now: orSystemClock(clock)}
}

func (s *tagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.store.Tags.List(ctx)
}

func validateTag(name, color string) error {
	if name == "" {
		return invalid(apierrors.MsgNameRequired, "name is required")
	}
	if !colorPattern.MatchString(color) {
		return invalid(apierrors.MsgInvalidColor, "color must be #RRGGBB")
	}
	return nil
}

func (s *tagService) CreateTag(ctx context.Context, in CreateTagInput) (*models.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateTag(name, in.Color); err != nil {
		return nil, err
	}

	now := s.now()
	tag := &models.Tag{Name: name, Color: in.Color, CreatedAt: now, UpdatedAt: now}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := ensureNameFree(ctx, tx, name, 0); err != nil {
			return err
		}
		return tx.Tags.Create(ctx, tag)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrTagNameTaken
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) UpdateTag(ctx context.Context, userID string, in UpdateTagInput) (*models.Tag, error) {
	var tag *models.Tag
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		tag, err = loadModifiableTag(ctx, tx, in.ID, userID)
		if err != nil {
			return err
		}

		name, color := tag.Name, tag.Color
		if in.Name != nil {
			name = strings.TrimSpace(*in.Name)
		}
		if in.Color != nil {
			color = *in.Color
		}
		if err := validateTag(name, color); err != nil {
			return err
		}
		if name != tag.Name {
			if err := ensureNameFree(ctx, tx, name, tag.ID); err != nil {
				return err
			}
		}

		tag.Name, tag.Color = name, color
		tag.UpdatedAt = s.now()
		return tx.Tags.Save(ctx, tag)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrTagNameTaken
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, userID string, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := loadModifiableTag(ctx, tx, id, userID); err != nil {
			return err
		}
		return tx.Tags.Delete(ctx, id)
	})
}

// ensureNameFree fails with ErrTagNameTaken when another tag already has the
// exact name. The unique index still backs this up under concurrent inserts.
func ensureNameFree(ctx context.Context, store *repository.Store, name string, self uint) error {
	existing, err := store.Tags.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return ErrTagNameTaken
	}
	return nil
}

func (s *tagService) ListTaskTags(ctx context.Context, userID string, taskID uint) ([]models.Tag, error) {
	if _, err := loadOwnedTask(ctx, s.store, taskID, userID, false); err != nil {
		return nil, err
	}
	return s.store.Tags.ListByTask(ctx, taskID)
}

func (s *tagService) AttachTag(ctx context.Context, userID string, taskID, tagID uint) (*models.TaskTag, error) {
	link := &models.TaskTag{TaskID: taskID, TagID: tagID}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := loadOwnedTask(ctx, tx, taskID, userID, true); err != nil {
			return err
		}
		if _, err := tx.Tags.GetByID(ctx, tagID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTagNotFound
			}
			return err
		}
		linked, err := tx.Tags.HasLink(ctx, taskID, tagID)
		if err != nil {
			return err
		}
		if linked {
			return ErrTaskTagExists
		}
		return tx.Tags.Attach(ctx, link)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrTaskTagExists
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (s *tagService) DetachTag(ctx context.Context, userID string, taskID, tagID uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := loadOwnedTask(ctx, tx, taskID, userID, true); err != nil {
			return err
		}
		removed, err := tx.Tags.Detach(ctx, taskID, tagID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrTaskTagNotFound
		}
		return nil
	})
}
