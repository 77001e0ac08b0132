package analysis

import (
	"encoding/json"
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Status enum
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Severity enum untuk gap
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityImportant  Severity = "important"
	SeverityNiceToHave Severity = "nice_to_have"
)

// Strength value object
type Strength struct {
	Title       string `json:"title"`
	Score       int    `json:"score"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

// Gap value object
type Gap struct {
	Title           string   `json:"title"`
	Severity        Severity `json:"severity"`
	Score           int      `json:"score"`
	Issue           string   `json:"issue"`
	Impact          string   `json:"impact"`
	MissingElements []string `json:"missing_elements"`
	TimeToFix       string   `json:"time_to_fix"`
	Priority        string   `json:"priority"`
}

// Recommendations: three time-boxed action lists
type Recommendations struct {
	ThisWeek      []string `json:"this_week"`
	NextWeek      []string `json:"next_week"`
	FollowingWeek []string `json:"following_week"`
}

// FinancialConcern value object
type FinancialConcern struct {
	Title          string `json:"title"`
	Issue          string `json:"issue"`
	Impact         string `json:"impact"`
	Recommendation string `json:"recommendation"`
}

type FinancialAnalysis struct {
	OverallScore      int                `json:"overall_score"`
	Strengths         []string           `json:"strengths"`
	Concerns          []FinancialConcern `json:"concerns"`
	BreakEvenAnalysis string             `json:"break_even_analysis,omitempty"`
}

type MarketConcern struct {
	Title          string `json:"title"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
}

type MarketAnalysis struct {
	Score     int             `json:"score"`
	Strengths []string        `json:"strengths"`
	Concerns  []MarketConcern `json:"concerns"`
}

// Aggregate Root: Record
// Created once by the submitter, mutated once by the enrichment worker.
// Report fields stay nil while status is processing.
type Record struct {
	ID                AnalysisID         `json:"id"`
	UserID            string             `json:"user_id"`
	FileName          string             `json:"file_name"`
	FilePath          string             `json:"file_path"`
	FileSize          int64              `json:"file_size"`
	FileType          string             `json:"file_type"`
	Status            Status             `json:"status"`
	OverallScore      *int               `json:"overall_score,omitempty"`
	DimensionalScores map[string]int     `json:"dimensional_scores,omitempty"`
	Strengths         []Strength         `json:"strengths,omitempty"`
	Gaps              []Gap              `json:"gaps,omitempty"`
	Recommendations   *Recommendations   `json:"recommendations,omitempty"`
	FinancialAnalysis *FinancialAnalysis `json:"financial_analysis,omitempty"`
	MarketAnalysis    *MarketAnalysis    `json:"market_analysis,omitempty"`
	FullReport        json.RawMessage    `json:"full_report,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// Complete writes the parsed report onto the record and flips status.
// This is the pipeline's single commit point; a second call fully
// overwrites the first.
func (r *Record) Complete(rep *Report, raw []byte, now time.Time) {
	score := rep.OverallScore
	r.Status = StatusCompleted
	r.OverallScore = &score
	r.DimensionalScores = rep.DimensionalScores
	r.Strengths = rep.Strengths
	r.Gaps = rep.Gaps
	r.Recommendations = &rep.Recommendations
	r.FinancialAnalysis = &rep.FinancialAnalysis
	r.MarketAnalysis = &rep.MarketAnalysis
	r.FullReport = json.RawMessage(raw)
	r.UpdatedAt = now
}
