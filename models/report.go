package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportCategory is the kind of environmental issue being reported.
type ReportCategory string

const (
	CategoryPollution     ReportCategory = "pollution"
	CategoryHazardous     ReportCategory = "hazardous"
	CategoryWaste         ReportCategory = "waste"
	CategoryDeforestation ReportCategory = "deforestation"
	CategoryOther         ReportCategory = "other"
)

// ReportSeverity is how urgent the reporter judged the issue.
type ReportSeverity string

const (
	SeverityLow      ReportSeverity = "low"
	SeverityMedium   ReportSeverity = "medium"
	SeverityHigh     ReportSeverity = "high"
	SeverityCritical ReportSeverity = "critical"
)

// ReportStatus tracks moderation of a report.
type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusVerified ReportStatus = "verified"
	StatusResolved ReportStatus = "resolved"
)

var (
	ReportCategories = []ReportCategory{CategoryPollution, CategoryHazardous, CategoryWaste, CategoryDeforestation, CategoryOther}
	ReportSeverities = []ReportSeverity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	ReportStatuses   = []ReportStatus{StatusPending, StatusVerified, StatusResolved}
)

// Report is an environmental issue submitted from the reporting form.
type Report struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Category    ReportCategory     `json:"category" bson:"category"`
	Severity    ReportSeverity     `json:"severity" bson:"severity"`
	Latitude    float64            `json:"latitude" bson:"latitude"`
	Longitude   float64            `json:"longitude" bson:"longitude"`
	Photos      []string           `json:"photos" bson:"photos"`
	Status      ReportStatus       `json:"status" bson:"status"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ReportFilter narrows a report listing. Empty fields match everything.
type ReportFilter struct {
	Category ReportCategory
	Severity ReportSeverity
	Status   ReportStatus
}

// Matches reports whether r passes every non-empty field of f.
func (f ReportFilter) Matches(r Report) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Severity != "" && r.Severity != f.Severity {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// ReportStats are the counts shown on the reporting dashboard.
type ReportStats struct {
	Total      int64                    `json:"total"`
	ByCategory map[ReportCategory]int64 `json:"byCategory"`
	BySeverity map[ReportSeverity]int64 `json:"bySeverity"`
	ByStatus   map[ReportStatus]int64   `json:"byStatus"`
}

// NewReportStats returns stats with every known key present and zeroed.
func NewReportStats() ReportStats {
	s := ReportStats{
		ByCategory: make(map[ReportCategory]int64, len(ReportCategories)),
		BySeverity: make(map[ReportSeverity]int64, len(ReportSeverities)),
		ByStatus:   make(map[ReportStatus]int64, len(ReportStatuses)),
	}
	for _, c := range ReportCategories {
		s.ByCategory[c] = 0
	}
	for _, v := range ReportSeverities {
		s.BySeverity[v] = 0
	}
	for _, st := range ReportStatuses {
		s.ByStatus[st] = 0
	}
	return s
}

// Add counts one report.
func (s *ReportStats) Add(r Report) {
	s.Total++
	s.ByCategory[r.Category]++
	s.BySeverity[r.Severity]++
	s.ByStatus[r.Status]++
}

func IsValidCategory(v string) bool {
	for _, c := range ReportCategories {
		if string(c) == v {
			return true
		}
	}
	return false
}

func IsValidSeverity(v string) bool {
	for _, s := range ReportSeverities {
		if string(s) == v {
			return true
		}
	}
	return false
}

func IsValidStatus(v string) bool {
	for _, s := range ReportStatuses {
		if string(s) == v {
			return true
		}
	}
	return false
}
