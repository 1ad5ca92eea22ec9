package models

import "time"

// AssignmentStatus enumerates the lifecycle states of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusNotStarted AssignmentStatus = "Not Started"
	AssignmentStatusInProgress AssignmentStatus = "In Progress"
	AssignmentStatusSubmitted  AssignmentStatus = "Submitted"
	AssignmentStatusGraded     AssignmentStatus = "Graded"
	AssignmentStatusOverdue    AssignmentStatus = "Overdue"
	AssignmentStatusUpcoming   AssignmentStatus = "Upcoming"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusNotStarted, AssignmentStatusInProgress, AssignmentStatusSubmitted,
		AssignmentStatusGraded, AssignmentStatusOverdue, AssignmentStatusUpcoming:
		return true
	}
	return false
}

// Submission is one append-only entry in an assignment's submission history.
type Submission struct {
	ID          string            `json:"id"`
	SubmittedAt time.Time         `json:"submitted_at"`
	FileURL     string            `json:"file_url"`
	Feedback    string            `json:"feedback"`
	Rubric      map[string]string `json:"rubric"`
}

// Assignment represents one tracked piece of coursework.
type Assignment struct {
	ID                string           `json:"id"`
	CourseName        string           `json:"course_name"`
	AssignmentName    string           `json:"assignment_name"`
	Description       string           `json:"description"`
	DueDate           string           `json:"due_date"`
	Status            AssignmentStatus `json:"status"`
	PointsPossible    int              `json:"points_possible"`
	PointsEarned      *int             `json:"points_earned"`
	SubmissionHistory []Submission     `json:"submission_history"`
}

// IsPastDue returns true when the due date has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	due, err := time.Parse("2006-01-02", a.DueDate)
	if err != nil {
		return false
	}
	return reference.After(due.Add(24 * time.Hour))
}

// Clone returns a deep copy so callers can never alias store-owned state.
func (a Assignment) Clone() Assignment {
	out := a
	if a.PointsEarned != nil {
		earned := *a.PointsEarned
		out.PointsEarned = &earned
	}
	if a.SubmissionHistory != nil {
		out.SubmissionHistory = make([]Submission, 0, len(a.SubmissionHistory))
		for _, entry := range a.SubmissionHistory {
			cloned := entry
			if entry.Rubric != nil {
				cloned.Rubric = make(map[string]string, len(entry.Rubric))
				for k, v := range entry.Rubric {
					cloned.Rubric[k] = v
				}
			}
			out.SubmissionHistory = append(out.SubmissionHistory, cloned)
		}
	}
	return out
}

// CloneAssignments deep-copies an assignment slice.
func CloneAssignments(assignments []Assignment) []Assignment {
	if assignments == nil {
		return nil
	}
	out := make([]Assignment, 0, len(assignments))
	for _, assignment := range assignments {
		out = append(out, assignment.Clone())
	}
	return out
}
