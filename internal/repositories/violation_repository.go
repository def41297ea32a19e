package repositories

import (
	"context"
	"fmt"
	"time"

	"fraudguard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ViolationRepository archives declined transactions for audit.
type ViolationRepository interface {
	Archive(ctx context.Context, tx *models.Transaction, verdict models.RuleVerdict) (*models.Violation, error)
	ListByParties(ctx context.Context, nameOrig, nameDest string, limit, offset int) ([]models.Violation, error)
}

type violationRepository struct {
	db    *gorm.DB
	table string
	now   func() time.Time
}

func NewViolationRepository(db *gorm.DB, table string) ViolationRepository {
	if table == "" {
		table = "violations"
	}
	return &violationRepository{db: db, table: table, now: time.Now}
}

func (r *violationRepository) Archive(ctx context.Context, tx *models.Transaction, verdict models.RuleVerdict) (*models.Violation, error) {
	ruleResult, err := models.ToJSON(verdict)
	if err != nil {
		return nil, err
	}
	payload, err := models.ToJSON(tx)
	if err != nil {
		return nil, err
	}

	v := &models.Violation{
		ID:         uuid.NewString(),
		NameOrig:   tx.NameOrig,
		NameDest:   tx.NameDest,
		Type:       tx.Type,
		Amount:     tx.Amount,
		RuleResult: ruleResult,
		Payload:    payload,
		ArchivedAt: r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Table(r.table).Create(v).Error; err != nil {
		return nil, fmt.Errorf("failed to archive violation for %s: %w", tx.NameOrig, err)
	}
	return v, nil
}

// ListByParties returns archived violations, newest first; an empty nameDest
// matches any destination.
func (r *violationRepository) ListByParties(ctx context.Context, nameOrig, nameDest string, limit, offset int) ([]models.Violation, error) {
	q := r.db.WithContext(ctx).Table(r.table).Where("name_orig = ?", nameOrig)
	if nameDest != "" {
		q = q.Where("name_dest = ?", nameDest)
	}
	var out []models.Violation
	if err := q.Order("archived_at DESC").Order("id").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	return out, nil
}
