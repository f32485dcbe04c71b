// internal/service/order/infrastructure/mysql.go
package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"oms/internal/service/order/domain"
)

// NewDB opens the MySQL connection once for the process lifetime and fails
// fast when the store is unreachable.
func NewDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql connection")
	}
	if err := db.AutoMigrate(&OrderModel{}, &OrderItemModel{}, &OrderReceiptModel{}); err != nil {
		return nil, errors.Wrap(err, "migrate order schema")
	}
	return db, nil
}

// CloseDB releases the underlying connection pool on shutdown.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GormOrderRepository is the MySQL implementation of domain.OrderRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and its items in one transaction; gorm cascades
// the association inserts inside the same transaction as the parent row.
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(err, "create order")
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Receipt").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "find order")
	}
	return toDomainOrder(&model), nil
}

func (r *GormOrderRepository) CountByStatus(ctx context.Context, status *domain.Status) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&OrderModel{})
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count orders")
	}
	return total, nil
}

func (r *GormOrderRepository) ListByStatus(ctx context.Context, status *domain.Status, offset, limit int) ([]domain.Order, error) {
	query := r.db.WithContext(ctx).Model(&OrderModel{})
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var models []OrderModel
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	orders := make([]domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, *toDomainOrder(&models[i]))
	}
	return orders, nil
}

// UpdateStatus writes the status column in a single guarded statement; MySQL
// row locking serializes it against a concurrent MarkPaid transaction.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	result := r.db.WithContext(ctx).Model(&OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "update order status")
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkPaid applies the payment outcome and the receipt in one transaction.
// The paid fields are only written while paid is still false, so redelivery
// keeps the original paidAt and charge id; the receipt insert is ignored when
// a receipt for the order already exists.
func (r *GormOrderRepository) MarkPaid(ctx context.Context, id, chargeID, receiptURL string, paidAt time.Time) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists OrderModel
		if err := tx.Select("id").Where("id = ?", id).First(&exists).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return errors.Wrap(err, "load order for reconciliation")
		}

		result := tx.Model(&OrderModel{}).
			Where("id = ? AND paid = ?", id, false).
			Updates(map[string]interface{}{
				"status":           string(domain.StatusPaid),
				"paid":             true,
				"paid_at":          paidAt,
				"stripe_charge_id": chargeID,
				"updated_at":       paidAt,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "mark order paid")
		}

		receipt := OrderReceiptModel{OrderID: id, ReceiptURL: receiptURL}
		if err := tx.Where(OrderReceiptModel{OrderID: id}).FirstOrCreate(&receipt).Error; err != nil {
			return errors.Wrap(err, "upsert order receipt")
		}

		err := tx.Preload("Items").Preload("Receipt").Where("id = ?", id).First(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDomainOrder(&model), nil
}
