package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/napolitain/solver-blueprint/internal/models"
)

// Repository persists search results and run history
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over an open, migrated connection
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Lookup returns the cached result for bp at horizon, if any
func (r *Repository) Lookup(ctx context.Context, bp *models.Blueprint, horizon int) (models.Result, bool, error) {
	var rec ResultRecord
	err := r.db.WithContext(ctx).
		Where("fingerprint = ? AND horizon = ?", bp.Fingerprint(), horizon).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Result{}, false, nil
	}
	if err != nil {
		return models.Result{}, false, fmt.Errorf("failed to look up result: %w", err)
	}

	var schedule []models.BuildStep
	if rec.Schedule != "" {
		if err := json.Unmarshal([]byte(rec.Schedule), &schedule); err != nil {
			return models.Result{}, false, fmt.Errorf("corrupt schedule for %s: %w", rec.Fingerprint, err)
		}
	}

	return models.Result{
		BlueprintID: bp.ID,
		Horizon:     rec.Horizon,
		Yield:       rec.Yield,
		Schedule:    schedule,
		Stats:       models.SearchStats{Nodes: rec.Nodes},
		DurationNS:  rec.DurationNS,
		Cached:      true,
	}, true, nil
}

// Save stores or replaces the result for bp
func (r *Repository) Save(ctx context.Context, bp *models.Blueprint, res models.Result) error {
	schedule, err := json.Marshal(res.Schedule)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}

	rec := ResultRecord{
		Fingerprint: bp.Fingerprint(),
		Horizon:     res.Horizon,
		Yield:       res.Yield,
		Schedule:    string(schedule),
		Nodes:       res.Stats.Nodes,
		DurationNS:  res.DurationNS,
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}, {Name: "horizon"}},
		DoUpdates: clause.AssignmentColumns([]string{"yield", "schedule", "nodes", "duration_ns"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// SaveRun records a scored batch and returns its generated id
func (r *Repository) SaveRun(ctx context.Context, mode string, horizon, blueprints, score int, elapsed time.Duration) (string, error) {
	rec := RunRecord{
		ID:         uuid.NewString(),
		Mode:       mode,
		Horizon:    horizon,
		Blueprints: blueprints,
		Score:      score,
		DurationNS: elapsed.Nanoseconds(),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return rec.ID, nil
}

// RecentRuns returns up to limit runs, newest first
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
