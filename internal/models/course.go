package models

// Course represents an enrolled or recommended course.
type Course struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	InstructorName     string   `json:"instructor_name"`
	Rating             float64  `json:"rating"`
	ThumbnailURL       string   `json:"thumbnail_url"`
	ProgressPercentage int      `json:"progress_percentage"`
	LessonsCompleted   int      `json:"lessons_completed"`
	TotalLessons       int      `json:"total_lessons"`
	TimeRemaining      string   `json:"time_remaining"`
	Difficulty         string   `json:"difficulty"`
	Category           string   `json:"category"`
	Prerequisites      []string `json:"prerequisites"`
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	out := c
	out.Prerequisites = append([]string(nil), c.Prerequisites...)
	return out
}

// CloneCourses deep-copies a course slice.
func CloneCourses(courses []Course) []Course {
	if courses == nil {
		return nil
	}
	out := make([]Course, 0, len(courses))
	for _, course := range courses {
		out = append(out, course.Clone())
	}
	return out
}
