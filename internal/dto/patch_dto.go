package dto

import "github.com/avirmadani/skolasync/internal/models"

// AssignmentPatch describes a partial update to a single assignment. Nil
// fields are left untouched by the shallow merge.
type AssignmentPatch struct {
	AssignmentName    *string                  `json:"assignment_name" validate:"omitempty,min=3"`
	DueDate           *string                  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status            *models.AssignmentStatus `json:"status" validate:"omitempty"`
	PointsEarned      *int                     `json:"points_earned" validate:"omitempty,gte=0"`
	SubmissionHistory []models.Submission      `json:"submission_history" validate:"omitempty,dive"`
}

// IsEmpty reports whether the patch would change nothing.
func (p AssignmentPatch) IsEmpty() bool {
	return p.AssignmentName == nil && p.DueDate == nil && p.Status == nil &&
		p.PointsEarned == nil && p.SubmissionHistory == nil
}

// Apply shallow-merges the patch into a copy of the given assignment.
func (p AssignmentPatch) Apply(assignment models.Assignment) models.Assignment {
	out := assignment.Clone()
	if p.AssignmentName != nil {
		out.AssignmentName = *p.AssignmentName
	}
	if p.DueDate != nil {
		out.DueDate = *p.DueDate
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.PointsEarned != nil {
		earned := *p.PointsEarned
		out.PointsEarned = &earned
	}
	if p.SubmissionHistory != nil {
		out.SubmissionHistory = append([]models.Submission(nil), p.SubmissionHistory...)
	}
	return out
}

// ProfilePatch describes a partial update to the session user.
type ProfilePatch struct {
	Name                 *string  `json:"name" validate:"omitempty,min=2"`
	Email                *string  `json:"email" validate:"omitempty,email"`
	AvatarURL            *string  `json:"avatar_url" validate:"omitempty,url"`
	NotificationsEnabled *bool    `json:"notifications_enabled"`
	PreferredStudyTimes  []string `json:"preferred_study_times" validate:"omitempty,dive,oneof=Morning Afternoon Evening Night"`
}

// IsEmpty reports whether the patch would change nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.AvatarURL == nil &&
		p.NotificationsEnabled == nil && p.PreferredStudyTimes == nil
}

// Apply shallow-merges the patch into a copy of the given user.
func (p ProfilePatch) Apply(user models.User) models.User {
	out := user.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.AvatarURL != nil {
		out.AvatarURL = *p.AvatarURL
	}
	if p.NotificationsEnabled != nil {
		out.Preferences.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.PreferredStudyTimes != nil {
		out.Preferences.PreferredStudyTimes = append([]string(nil), p.PreferredStudyTimes...)
	}
	return out
}
