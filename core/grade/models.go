package grade

import "time"

type (
	// Grade is a graded submission for either an assignment or a quiz.
	// Exactly one of AssignmentID and QuizID is set.
	Grade struct {
		ID           string    `json:"id"`
		UserID       string    `json:"studentId"`
		AssignmentID *string   `json:"assignmentId,omitempty"`
		QuizID       *string   `json:"quizId,omitempty"`
		Score        float64   `json:"score"`
		MaxScore     float64   `json:"maxScore"`
		Feedback     string    `json:"feedback,omitempty"`
		GradedAt     time.Time `json:"gradedAt"` // UTC

		// joined for responses
		AssignmentTitle string `json:"assignmentTitle,omitempty"`
		QuizTitle       string `json:"quizTitle,omitempty"`
		CourseTitle     string `json:"courseTitle,omitempty"`
	}

	// Stats summarizes a student's grades.
	Stats struct {
		TotalGrades       int     `json:"totalGrades"`
		AveragePercentage float64 `json:"averagePercentage"`
		AssignmentGrades  int     `json:"assignmentGrades"`
		QuizGrades        int     `json:"quizGrades"`
	}
)
