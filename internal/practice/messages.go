package practice

import "github.com/abhisek/quizkit/internal/grading"

// gradedMsg carries the grading result for a short answer.
type gradedMsg struct {
	Index  int
	Result grading.Result
}
