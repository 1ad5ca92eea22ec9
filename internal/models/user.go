package models

// Preferences holds per-user notification and scheduling settings.
type Preferences struct {
	NotificationsEnabled bool     `json:"notifications_enabled"`
	PreferredStudyTimes  []string `json:"preferred_study_times"`
}

// User represents the learner that owns the current session.
type User struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	AvatarURL        string      `json:"avatar_url"`
	EnrollmentStatus string      `json:"enrollment_status"`
	CurrentStreak    int         `json:"current_streak"`
	TotalCourses     int         `json:"total_courses"`
	Preferences      Preferences `json:"preferences"`
}

// Clone returns a deep copy so callers can never alias store-owned state.
func (u User) Clone() User {
	out := u
	out.Preferences.PreferredStudyTimes = append([]string(nil), u.Preferences.PreferredStudyTimes...)
	return out
}
