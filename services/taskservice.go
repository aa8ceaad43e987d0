package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"teamhub/model"
)

var (
	ErrUnknownDependency = errors.New("dependency does not exist in this team")
	ErrSelfDependency    = errors.New("a task cannot depend on itself")
	ErrEndBeforeStart    = errors.New("end must not be before start")
)

// DeriveProgress maps now onto the [start, end] window as a percentage:
// 0 before start, 100 at or after end, linear and rounded in between.
func DeriveProgress(start, end, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	if !now.Before(end) {
		return 100
	}
	elapsed := now.Sub(start)
	total := end.Sub(start)
	progress := int(math.Round(100 * float64(elapsed) / float64(total)))
	return min(max(progress, 0), 100)
}

// RefreshProgress recomputes the progress of tasks that do not carry an
// explicit value.
func RefreshProgress(task *model.ProjectTask, now time.Time) {
	if task.AutoProgress {
		task.Progress = DeriveProgress(task.Start, task.End, now)
	}
}

var taskDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTaskDate accepts RFC 3339 timestamps and plain dates (UTC midnight).
func ParseTaskDate(value string) (time.Time, error) {
	for _, layout := range taskDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use RFC 3339 or YYYY-MM-DD", value)
}

func ValidTaskType(taskType string) bool {
	return taskType == model.TaskTypeTask || taskType == model.TaskTypeMilestone
}

// ValidateSchedule checks that end does not precede start.
func ValidateSchedule(start, end time.Time) error {
	if end.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// NormalizeDependencies removes duplicates from deps and checks that each one
// names another task of the team.
func NormalizeDependencies(taskID string, deps []string, teamTasks []model.ProjectTask) ([]string, error) {
	normalized := make([]string, 0, len(deps))
	for _, dep := range deps {
		if dep == taskID {
			return nil, ErrSelfDependency
		}
		if slices.Contains(normalized, dep) {
			continue
		}
		if !slices.ContainsFunc(teamTasks, func(t model.ProjectTask) bool { return t.TaskID == dep }) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDependency, dep)
		}
		normalized = append(normalized, dep)
	}
	return normalized, nil
}

// StripDependency removes taskID from the dependency lists of tasks and
// returns the tasks that changed.
func StripDependency(tasks []model.ProjectTask, taskID string) []*model.ProjectTask {
	var changed []*model.ProjectTask
	for i := range tasks {
		if !slices.Contains(tasks[i].Dependencies, taskID) {
			continue
		}
		tasks[i].Dependencies = slices.DeleteFunc(tasks[i].Dependencies, func(id string) bool { return id == taskID })
		changed = append(changed, &tasks[i])
	}
	return changed
}

// SortTasks orders tasks by display order, then start, then creation time.
func SortTasks(tasks []model.ProjectTask) {
	slices.SortStableFunc(tasks, func(a, b model.ProjectTask) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
