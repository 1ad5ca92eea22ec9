package backend

import (
	"fmt"
	"time"

	"github.com/avirmadani/skolasync/internal/models"
)

func seedUser(userID string) models.User {
	return models.User{
		ID:               userID,
		Name:             "Student User",
		Email:            fmt.Sprintf("%s@example.com", userID),
		AvatarURL:        "https://placehold.co/100x100/A0D2DB/000000?text=SU",
		EnrollmentStatus: "Active",
		CurrentStreak:    7,
		TotalCourses:     3,
		Preferences: models.Preferences{
			NotificationsEnabled: true,
			PreferredStudyTimes:  []string{"Morning", "Evening"},
		},
	}
}

func seedCourses() []models.Course {
	return []models.Course{
		{
			ID: "1", Title: "React Fundamentals", InstructorName: "Jane Doe", Rating: 4.8,
			ThumbnailURL:       "https://placehold.co/400x225/A0D2DB/000000?text=React",
			ProgressPercentage: 80, LessonsCompleted: 7, TotalLessons: 12, TimeRemaining: "2 hrs",
			Difficulty: "Beginner", Category: "Programming", Prerequisites: []string{},
		},
		{
			ID: "2", Title: "Advanced Tailwind CSS", InstructorName: "John Smith", Rating: 4.9,
			ThumbnailURL:       "https://placehold.co/400x225/A2B4AB/000000?text=Tailwind",
			ProgressPercentage: 45, LessonsCompleted: 9, TotalLessons: 20, TimeRemaining: "30 min",
			Difficulty: "Intermediate", Category: "Design", Prerequisites: []string{},
		},
		{
			ID: "3", Title: "Data Structures in JS", InstructorName: "Sarah Lee", Rating: 4.7,
			ThumbnailURL:       "https://placehold.co/400x225/9F7AEA/000000?text=Data+Structures",
			ProgressPercentage: 15, LessonsCompleted: 2, TotalLessons: 15, TimeRemaining: "5 hrs",
			Difficulty: "Advanced", Category: "Programming", Prerequisites: []string{},
		},
	}
}

// seedAssignments builds the default coursework relative to the server clock.
// Unsubmitted work whose due date has already passed is seeded as Overdue.
func seedAssignments(now time.Time) []models.Assignment {
	ninetyFive := 95
	assignments := []models.Assignment{
		{
			ID: "1", CourseName: "React Fundamentals", AssignmentName: "Create your first component",
			DueDate: now.AddDate(0, 0, 3).Format("2006-01-02"), Status: models.AssignmentStatusInProgress,
			PointsPossible: 100, SubmissionHistory: []models.Submission{},
			Description: "Build a basic React component that displays a welcome message and a counter.",
		},
		{
			ID: "2", CourseName: "Advanced Tailwind CSS", AssignmentName: "Responsive Layout Exercise",
			DueDate: now.AddDate(0, 0, -4).Format("2006-01-02"), Status: models.AssignmentStatusSubmitted,
			PointsPossible: 100, PointsEarned: &ninetyFive,
			SubmissionHistory: []models.Submission{
				{
					ID:          "seed-2-1",
					SubmittedAt: now.AddDate(0, 0, -5),
					FileURL:     "#",
					Feedback:    "Great work! The layout is fully responsive.",
					Rubric:      map[string]string{},
				},
			},
			Description: "Create a responsive landing page using Tailwind CSS utility classes.",
		},
		{
			ID: "3", CourseName: "Data Structures in JS", AssignmentName: "Implement a linked list",
			DueDate: now.AddDate(0, 0, -2).Format("2006-01-02"), Status: models.AssignmentStatusNotStarted,
			PointsPossible: 100, SubmissionHistory: []models.Submission{},
			Description: "Write a class for a singly linked list with methods for insertion and deletion.",
		},
	}

	for i := range assignments {
		switch assignments[i].Status {
		case models.AssignmentStatusNotStarted, models.AssignmentStatusInProgress, models.AssignmentStatusUpcoming:
			if assignments[i].IsPastDue(now) {
				assignments[i].Status = models.AssignmentStatusOverdue
			}
		}
	}
	return assignments
}

func seedRecommendations() []models.Course {
	return []models.Course{
		{
			ID: "4", Title: "Intro to UI/UX", InstructorName: "Anna Williams", Rating: 4.6,
			ThumbnailURL: "https://placehold.co/400x225/9F7AEA/000000?text=UI%2FUX",
			TotalLessons: 10, TimeRemaining: "8 hrs",
			Difficulty: "Beginner", Category: "Design", Prerequisites: []string{},
		},
		{
			ID: "5", Title: "Python for Data Science", InstructorName: "Chris Evans", Rating: 5.0,
			ThumbnailURL: "https://placehold.co/400x225/A2B4AB/000000?text=Python",
			TotalLessons: 15, TimeRemaining: "10 hrs",
			Difficulty: "Intermediate", Category: "Programming", Prerequisites: []string{},
		},
	}
}

// seedAnalytics builds the fixed analytics totals plus chart series. The two
// daily series are sampled from the supplied source, everything else is fixed.
func (s *Server) seedAnalytics(now time.Time) models.AnalyticsSnapshot {
	studyHours := make([]models.StudyDay, 0, 30)
	for i := 0; i < 30; i++ {
		studyHours = append(studyHours, models.StudyDay{
			Date:  now.AddDate(0, 0, -(29 - i)).Format("Jan 2"),
			Hours: s.rng.Intn(3) + 1,
		})
	}

	heatmap := make([]models.HeatmapDay, 0, 365)
	for i := 0; i < 365; i++ {
		heatmap = append(heatmap, models.HeatmapDay{
			Date:     now.AddDate(0, 0, -(364 - i)).Format("2006-01-02"),
			Activity: s.rng.Intn(4),
		})
	}

	return models.AnalyticsSnapshot{
		TotalStudyHours:  125,
		CoursesCompleted: 5,
		CurrentStreak:    7,
		LongestStreak:    21,
		Charts: models.Charts{
			StudyHoursLast30Days: studyHours,
			HoursByCategory: []models.CategoryHours{
				{Category: "Programming", Hours: 80},
				{Category: "Design", Hours: 30},
				{Category: "Business", Hours: 15},
			},
			CompletionRates: []models.CompletionRate{
				{CourseName: "React Fundamentals", CompletionPercentage: 80},
				{CourseName: "Advanced Tailwind CSS", CompletionPercentage: 45},
				{CourseName: "Data Structures in JS", CompletionPercentage: 15},
			},
			ActivityHeatmap: heatmap,
		},
		Achievements: []models.Achievement{
			{Name: "First Course Completed", Description: "Complete your first course", Unlocked: true},
			{Name: "7-Day Streak", Description: "Log in for 7 consecutive days", Unlocked: true},
			{Name: "High Scorer", Description: "Achieve an average grade of 90% or higher on assignments", Unlocked: false},
			{Name: "Master of React", Description: "Complete all React courses", Unlocked: false},
		},
	}
}
