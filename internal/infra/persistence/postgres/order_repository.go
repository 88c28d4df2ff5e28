// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"sabor/internal/domain/entity"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/domain/repository"
	"sabor/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// CreateOrder persists a new order together with its lines.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderM, err := fromOrderDomain(order)
	if err != nil {
		return err
	}
	if orderM.PlacedAt.IsZero() {
		orderM.PlacedAt = time.Now()
	}

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("order owner does not exist")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrOrderCreationFailed.WrapMessage("order violates a data constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.PlacedAt = orderM.PlacedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// FindOrderByID retrieves an order with its lines by its unique ID.
func (repo *orderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&orderM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM)
}

// FindOrdersByUser retrieves a page of a user's orders, newest first.
func (repo *orderRepository) FindOrdersByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	var orderMs []model.OrderModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("placed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orderMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders by user")
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for i := range orderMs {
		order, mapErr := toOrderDomain(&orderMs[i])
		if mapErr != nil {
			return nil, mapErr
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateOrderStatus advances the lifecycle state of an order.
func (repo *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// CountOrdersByUser returns the total number of orders a user has placed.
func (repo *orderRepository) CountOrdersByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count orders")
	}

	return count, nil
}

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) (*entity.Order, error) {
	if data == nil {
		return nil, nil
	}

	var lines []entity.OrderLine
	if err := json.Unmarshal(data.Lines, &lines); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "corrupt order lines")
	}

	return &entity.Order{
		ID:          data.ID,
		UserID:      data.UserID,
		StoreSlug:   data.StoreSlug,
		StoreName:   data.StoreName,
		Status:      entity.OrderStatus(data.Status),
		Subtotal:    data.Subtotal,
		DeliveryFee: data.DeliveryFee,
		GrandTotal:  data.GrandTotal,
		AddressText: data.AddressText,
		Lines:       lines,
		PlacedAt:    data.PlacedAt,
		UpdatedAt:   data.UpdatedAt,
	}, nil
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) (*model.OrderModel, error) {
	if data == nil {
		return nil, nil
	}

	lines, err := json.Marshal(data.Lines)
	if err != nil {
		return nil, errors.Wrap(err, "marshal order lines")
	}

	return &model.OrderModel{
		ID:          data.ID,
		UserID:      data.UserID,
		StoreSlug:   data.StoreSlug,
		StoreName:   data.StoreName,
		Status:      string(data.Status),
		Subtotal:    data.Subtotal,
		DeliveryFee: data.DeliveryFee,
		GrandTotal:  data.GrandTotal,
		AddressText: data.AddressText,
		Lines:       datatypes.JSON(lines),
		PlacedAt:    data.PlacedAt,
	}, nil
}
