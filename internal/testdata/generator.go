package testdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/worklog/internal/database/repository"
)

var verbs = []string{"Write", "Review", "Fix", "Plan", "Email", "Update", "Book", "Draft"}

var objects = []string{
	"weekly report",
	"pull request for the importer",
	"flaky login test",
	"sprint retro notes",
	"dentist appointment",
	"quarterly budget spreadsheet",
	"onboarding doc for the new hire, including the bits about local setup and access requests",
	"release checklist",
}

// Seed inserts n sample tasks spread over the last two weeks, ending at now.
// Passing the same seed yields the same descriptions.
func Seed(ctx context.Context, tasks *repository.TaskRepo, n int, seed int64, now time.Time) error {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		t := repository.Task{
			ID:          uuid.NewString(),
			Description: verbs[rng.Intn(len(verbs))] + " " + objects[rng.Intn(len(objects))],
			CreatedAt:   now.Add(-time.Duration(rng.Intn(14*24*60)) * time.Minute).UTC(),
		}
		if err := tasks.Insert(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
