package db

import (
	"fmt"

	"blueprint-browser/catalog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FetchLog stores catalog fetch attempts. It implements catalog.AttemptRecorder.
type FetchLog struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewFetchLog(conn *gorm.DB, log *zap.SugaredLogger) *FetchLog {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FetchLog{db: conn, log: log}
}

// RecordAttempt persists a. A write failure is logged and otherwise ignored:
// the history must never break a load.
func (f *FetchLog) RecordAttempt(a catalog.Attempt) {
	row := FetchAttempt{
		Tier:       string(a.Tier),
		URL:        a.URL,
		StatusCode: a.StatusCode,
		Records:    a.Records,
		Error:      a.Err,
		DurationMS: a.Duration.Milliseconds(),
		AttemptAt:  a.At,
	}
	if err := f.db.Create(&row).Error; err != nil {
		f.log.Warnw("Failed to save fetch attempt", zap.String("url", a.URL), zap.Error(err))
	}
}

// Recent returns up to limit attempts, newest first.
func (f *FetchLog) Recent(limit int) ([]FetchAttempt, error) {
	var attempts []FetchAttempt
	q := f.db.Order("attempt_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to query fetch history: %w", err)
	}
	return attempts, nil
}

// TierStats summarizes the attempts made against one tier.
type TierStats struct {
	Tier      string
	Attempts  int64
	Failures  int64
	AvgMillis float64
}

// Stats aggregates the whole history per tier, ordered by tier name.
func (f *FetchLog) Stats() ([]TierStats, error) {
	var stats []TierStats
	err := f.db.Model(&FetchAttempt{}).
		Select("tier, COUNT(*) AS attempts, SUM(CASE WHEN error <> '' THEN 1 ELSE 0 END) AS failures, AVG(duration_ms) AS avg_millis").
		Group("tier").
		Order("tier").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate fetch history: %w", err)
	}
	return stats, nil
}
