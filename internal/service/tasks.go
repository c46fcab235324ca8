package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/worklog/internal/database"
	"github.com/jask/worklog/internal/database/repository"
)

// ErrEmptyTask is returned when a task description is blank.
var ErrEmptyTask = errors.New("task description is empty")

const similarityWindow = 200 // most recent tasks compared on save

// TaskService saves and lists tasks.
type TaskService struct {
	Tasks *repository.TaskRepo
	// Similarity is the largest normalised edit distance (0..1) at which an
	// existing task is reported as similar to a new one. Zero reports exact
	// matches only (ignoring case); a negative value disables the check.
	// The configured default is 0.2.
	Similarity float64
}

// SaveResult describes a saved task.
type SaveResult struct {
	Task    repository.Task
	Similar *repository.Task
}

// Save stores a new task. The closest recent task within the similarity
// threshold is returned alongside it; it is informational, not a rejection.
func (s *TaskService) Save(ctx context.Context, description string) (SaveResult, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return SaveResult{}, ErrEmptyTask
	}

	var similar *repository.Task
	if s.Similarity >= 0 {
		recent, err := s.Tasks.List(ctx, repository.TaskFilters{Limit: similarityWindow})
		if err != nil {
			return SaveResult{}, fmt.Errorf("list recent tasks: %w", err)
		}
		similar = closestTask(desc, recent, s.Similarity)
	}

	t := repository.Task{ID: uuid.NewString(), Description: desc, CreatedAt: database.Now()}
	if err := s.Tasks.Insert(ctx, t); err != nil {
		return SaveResult{}, fmt.Errorf("insert task: %w", err)
	}
	return SaveResult{Task: t, Similar: similar}, nil
}

// List returns all tasks, newest first.
func (s *TaskService) List(ctx context.Context) ([]repository.Task, error) {
	tasks, err := s.Tasks.List(ctx, repository.TaskFilters{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func closestTask(desc string, candidates []repository.Task, threshold float64) *repository.Task {
	var best *repository.Task
	var bestScore float64
	for i := range candidates {
		score := distanceRatio(desc, candidates[i].Description)
		if score > threshold {
			continue
		}
		if best == nil || score < bestScore {
			best, bestScore = &candidates[i], score
		}
	}
	return best
}

// distanceRatio is the case-insensitive edit distance divided by the longer
// length: 0 for identical strings, 1 for nothing in common.
func distanceRatio(a, b string) float64 {
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
