package model

import "time"

// RunStatus represents the state of a linkage run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run summarizes one execution of the join.
type Run struct {
	ID             string    `json:"id"`
	Status         RunStatus `json:"status"`
	Rows           int       `json:"rows"`
	SalesMatches   int       `json:"sales_matches"`
	RatingsMatches int       `json:"ratings_matches"`
	Threshold      float64   `json:"threshold"`
	MinScore       float64   `json:"min_score"`
	Output         string    `json:"output"`
	CreatedAt      time.Time `json:"created_at"`
}
