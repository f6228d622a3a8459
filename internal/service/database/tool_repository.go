package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS catalog_tools (
		id             TEXT PRIMARY KEY,
		position       INTEGER NOT NULL,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		category       TEXT NOT NULL,
		affiliate_link TEXT NOT NULL,
		price_model    TEXT NOT NULL,
		rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
		monthly_visits TEXT NOT NULL DEFAULT '',
		image_url      TEXT NOT NULL,
		features       TEXT NOT NULL DEFAULT '[]',
		offer          TEXT,
		synced_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// ToolRepository stores the last successfully synced catalog so a restart
// without Notion access still serves it.
type ToolRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewToolRepository(db *sql.DB, logger *zap.Logger) *ToolRepository {
	return &ToolRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ToolRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create catalog_tools: %w", err)
	}
	return nil
}

// ReplaceAll overwrites the snapshot with tools inside one transaction.
// position records the source order.
func (r *ToolRepository) ReplaceAll(ctx context.Context, tools []domain.Tool) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Warn("Snapshot rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM catalog_tools`); err != nil {
		return fmt.Errorf("failed to clear catalog_tools: %w", err)
	}

	query := `
		INSERT INTO catalog_tools (
			id, position, name, description, category, affiliate_link,
			price_model, rating, monthly_visits, image_url, features, offer
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for i, t := range tools {
		features, mErr := json.Marshal(nonNil(t.Features))
		if mErr != nil {
			err = fmt.Errorf("failed to encode features for %s: %w", t.ID, mErr)
			return err
		}

		offer := sql.NullString{}
		if t.Offer != nil {
			offer = sql.NullString{String: *t.Offer, Valid: true}
		}

		if _, err = tx.ExecContext(ctx, query,
			t.ID, i, t.Name, t.Description, string(t.Category), t.AffiliateLink,
			string(t.PriceModel), t.Rating, t.MonthlyVisits, t.ImageURL, string(features), offer,
		); err != nil {
			return fmt.Errorf("failed to insert tool %s: %w", t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	r.logger.Info("Catalog snapshot saved", zap.Int("tools", len(tools)))
	return nil
}

// LoadAll returns the stored snapshot in source order. An empty table yields
// an empty slice.
func (r *ToolRepository) LoadAll(ctx context.Context) ([]domain.Tool, error) {
	query := `
		SELECT id, name, description, category, affiliate_link, price_model,
		       rating, monthly_visits, image_url, features, offer
		FROM catalog_tools
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog_tools: %w", err)
	}
	defer rows.Close()

	tools := make([]domain.Tool, 0)
	for rows.Next() {
		var (
			t            domain.Tool
			category     string
			priceModel   string
			featuresJSON []byte
			offer        sql.NullString
		)

		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &category, &t.AffiliateLink,
			&priceModel, &t.Rating, &t.MonthlyVisits, &t.ImageURL, &featuresJSON, &offer); err != nil {
			r.logger.Warn("Failed to scan tool row", zap.Error(err))
			continue
		}

		t.Category = domain.Category(category)
		t.PriceModel = domain.PriceModel(priceModel)
		if len(featuresJSON) > 0 {
			if err := json.Unmarshal(featuresJSON, &t.Features); err != nil {
				r.logger.Warn("Failed to decode features", zap.String("id", t.ID), zap.Error(err))
			}
		}
		if offer.Valid {
			t.Offer = domain.StringPtr(offer.String)
		}

		tools = append(tools, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog_tools: %w", err)
	}
	return tools, nil
}

func nonNil(features []string) []string {
	if features == nil {
		return []string{}
	}
	return features
}
