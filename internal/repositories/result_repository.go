package repositories

import (
	"context"
	"errors"
	"fmt"

	"fraudguard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrResultNotFound = errors.New("scored transaction not found")

// ResultRepository persists scored transactions.
type ResultRepository interface {
	Save(ctx context.Context, result *models.ScoredTransaction) error
	GetByID(ctx context.Context, transactionID string) (*models.ScoredTransaction, error)
	ListByOriginator(ctx context.Context, nameOrig string, limit, offset int) ([]models.ScoredTransaction, error)
}

type resultRepository struct {
	db    *gorm.DB
	table string
}

func NewResultRepository(db *gorm.DB, table string) ResultRepository {
	if table == "" {
		table = "fraud-results"
	}
	return &resultRepository{db: db, table: table}
}

// Save inserts the row once. Writing the same transactionId again is a no-op,
// which keeps retried writes of one scoring attempt idempotent.
func (r *resultRepository) Save(ctx context.Context, result *models.ScoredTransaction) error {
	if result == nil || result.TransactionID == "" {
		return errors.New("scored transaction requires an id")
	}
	err := r.db.WithContext(ctx).
		Table(r.table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(result).Error
	if err != nil {
		return fmt.Errorf("failed to store scored transaction %s: %w", result.TransactionID, err)
	}
	return nil
}

func (r *resultRepository) GetByID(ctx context.Context, transactionID string) (*models.ScoredTransaction, error) {
	var result models.ScoredTransaction
	err := r.db.WithContext(ctx).
		Table(r.table).
		Where(`"transactionId" = ?`, transactionID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get scored transaction: %w", err)
	}
	return &result, nil
}

func (r *resultRepository) ListByOriginator(ctx context.Context, nameOrig string, limit, offset int) ([]models.ScoredTransaction, error) {
	var results []models.ScoredTransaction
	err := r.db.WithContext(ctx).
		Table(r.table).
		Where(`"nameOrig" = ?`, nameOrig).
		Order("cold_path_processed_utc DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scored transactions: %w", err)
	}
	return results, nil
}
