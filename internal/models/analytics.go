package models

// StudyDay is one sampled point in the 30-day study-hours series.
type StudyDay struct {
	Date  string `json:"date"`
	Hours int    `json:"hours"`
}

// CategoryHours aggregates study time for a single course category.
type CategoryHours struct {
	Category string `json:"category"`
	Hours    int    `json:"hours"`
}

// CompletionRate is a per-course completion percentage.
type CompletionRate struct {
	CourseName           string `json:"course_name"`
	CompletionPercentage int    `json:"completion_percentage"`
}

// HeatmapDay is one cell of the yearly activity heatmap, levels 0-3.
type HeatmapDay struct {
	Date     string `json:"date"`
	Activity int    `json:"activity"`
}

// Charts groups the sampled and fixed series rendered by the analytics page.
type Charts struct {
	StudyHoursLast30Days []StudyDay       `json:"study_hours_last_30_days"`
	HoursByCategory      []CategoryHours  `json:"hours_by_category"`
	CompletionRates      []CompletionRate `json:"completion_rates"`
	ActivityHeatmap      []HeatmapDay     `json:"activity_heatmap"`
}

// Achievement is a named milestone; unlocked is monotonic.
type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// AnalyticsSnapshot is the read-only derived progress summary fetched once
// per session.
type AnalyticsSnapshot struct {
	TotalStudyHours  int           `json:"total_study_hours"`
	CoursesCompleted int           `json:"courses_completed"`
	CurrentStreak    int           `json:"current_streak"`
	LongestStreak    int           `json:"longest_streak"`
	Charts           Charts        `json:"charts"`
	Achievements     []Achievement `json:"achievements"`
}

// Clone returns a deep copy of the snapshot.
func (a AnalyticsSnapshot) Clone() AnalyticsSnapshot {
	out := a
	out.Charts.StudyHoursLast30Days = append([]StudyDay(nil), a.Charts.StudyHoursLast30Days...)
	out.Charts.HoursByCategory = append([]CategoryHours(nil), a.Charts.HoursByCategory...)
	out.Charts.CompletionRates = append([]CompletionRate(nil), a.Charts.CompletionRates...)
	out.Charts.ActivityHeatmap = append([]HeatmapDay(nil), a.Charts.ActivityHeatmap...)
	out.Achievements = append([]Achievement(nil), a.Achievements...)
	return out
}
