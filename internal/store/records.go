package store

import "time"

// ResultRecord is a cached optimum for one cost table and horizon. The optimum does
// not depend on the blueprint id or the search options, so neither is part of the key.
type ResultRecord struct {
	ID          uint   `gorm:"primaryKey"`
	Fingerprint string `gorm:"size:64;not null;uniqueIndex:idx_result_key"`
	Horizon     int    `gorm:"not null;uniqueIndex:idx_result_key"`
	Yield       int    `gorm:"not null"`
	Schedule    string `gorm:"type:text"` // JSON encoded []models.BuildStep
	Nodes       int
	DurationNS  int64  `gorm:"column:duration_ns"`
	CreatedAt   time.Time
}

// TableName overrides the table name
func (ResultRecord) TableName() string {
	return "search_results"
}

// RunRecord is one scored batch
type RunRecord struct {
	ID         string `gorm:"primaryKey;size:36"`
	Mode       string `gorm:"size:16;not null"`
	Horizon    int
	Blueprints int
	Score      int
	DurationNS int64  `gorm:"column:duration_ns"`
	CreatedAt  time.Time
}

// TableName overrides the table name
func (RunRecord) TableName() string {
	return "runs"
}
