// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"

	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/domain/repository"
	"sabor/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// cartRepository implements the domain.CartRepository interface using GORM.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// CreateLine persists a new cart line.
func (repo *cartRepository) CreateLine(ctx context.Context, line *entity.CartLine) error {
	lineM, err := fromCartLineDomain(line)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(lineM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// The same configuration was inserted concurrently; the caller
			// retries as an update.
			return domainerrors.ErrConflict.WrapMessage("cart line already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("cart owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart line")
	}

	line.ID = lineM.ID
	line.CreatedAt = lineM.CreatedAt
	line.UpdatedAt = lineM.UpdatedAt

	return nil
}

// FindLineByKey retrieves a user's cart line by its deterministic key.
func (repo *cartRepository) FindLineByKey(ctx context.Context, userID uuid.UUID, key string) (*entity.CartLine, error) {
	var lineM model.CartLineModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND line_key = ?", userID, key).
		First(&lineM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartLineNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart line")
	}

	return toCartLineDomain(&lineM)
}

// FindLinesByUser retrieves all cart lines for a user, oldest first.
func (repo *cartRepository) FindLinesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartLine, error) {
	var lineMs []model.CartLineModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lineMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cart lines")
	}

	lines := make([]*entity.CartLine, 0, len(lineMs))
	for i := range lineMs {
		line, mapErr := toCartLineDomain(&lineMs[i])
		if mapErr != nil {
			return nil, mapErr
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// UpdateLine updates an existing cart line. The row is addressed by its
// primary key rather than the line key: a note change re-keys the line, so
// line.Key may already hold the new value.
func (repo *cartRepository) UpdateLine(ctx context.Context, line *entity.CartLine) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartLineModel{}).
		Where("id = ? AND user_id = ?", line.ID, line.UserID).
		Updates(map[string]any{
			"line_key": line.Key,
			"quantity": line.Quantity,
			"note":     line.Note,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart line")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartLineNotFound
	}

	return nil
}

// DeleteLineByKey removes a single line from a user's cart.
func (repo *cartRepository) DeleteLineByKey(ctx context.Context, userID uuid.UUID, key string) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND line_key = ?", userID, key).
		Delete(&model.CartLineModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cart line")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartLineNotFound
	}

	return nil
}

// DeleteLinesByUser empties a user's cart.
func (repo *cartRepository) DeleteLinesByUser(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartLineModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to empty cart")
	}

	return nil
}

// toCartLineDomain converts a GORM CartLineModel to a domain CartLine entity.
func toCartLineDomain(data *model.CartLineModel) (*entity.CartLine, error) {
	if data == nil {
		return nil, nil
	}

	selections := entity.AddOnSelection{}
	if len(data.Selections) > 0 {
		if err := json.Unmarshal(data.Selections, &selections); err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "corrupt cart line selections")
		}
	}

	return &entity.CartLine{
		ID:         data.ID,
		UserID:     data.UserID,
		Key:        data.LineKey,
		StoreSlug:  data.StoreSlug,
		StoreName:  data.StoreName,
		ItemID:     data.ItemID,
		ItemName:   data.ItemName,
		UnitPrice:  data.UnitPrice,
		Quantity:   data.Quantity,
		Selections: selections,
		Note:       data.Note,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}, nil
}

// fromCartLineDomain converts a domain CartLine entity to a GORM CartLineModel.
func fromCartLineDomain(data *entity.CartLine) (*model.CartLineModel, error) {
	if data == nil {
		return nil, nil
	}

	selections, err := json.Marshal(data.Selections)
	if err != nil {
		return nil, errors.Wrap(err, "marshal cart line selections")
	}

	return &model.CartLineModel{
		ID:         data.ID,
		UserID:     data.UserID,
		LineKey:    data.Key,
		StoreSlug:  data.StoreSlug,
		StoreName:  data.StoreName,
		ItemID:     data.ItemID,
		ItemName:   data.ItemName,
		UnitPrice:  data.UnitPrice,
		Quantity:   data.Quantity,
		Selections: datatypes.JSON(selections),
		Note:       data.Note,
	}, nil
}
