package clinical

import (
	"strconv"
	"strings"
	"time"

	"ward-rounds/internal/apperr"
	"ward-rounds/internal/models"
)

// DeriveTaskStatus classifies a task against now. concluido is terminal and is never derived from time.
func DeriveTaskStatus(current models.TaskStatus, deadline, now time.Time) models.TaskStatus {
	if current == models.TaskStatusDone {
		return current
	}
	if deadline.After(now) {
		return models.TaskStatusOnTime
	}
	return models.TaskStatusOverdue
}

// EvaluateTask returns a copy of task with its status re-derived.
// overdue_since is stamped the first time the task is found overdue.
func EvaluateTask(task models.Task, now time.Time) models.Task {
	next := task
	next.Status = DeriveTaskStatus(task.Status, task.Deadline, now)
	if next.Status == models.TaskStatusOverdue && next.OverdueSince == nil {
		since := now.UTC()
		next.OverdueSince = &since
	}
	return next
}

// DueForEvaluation reports whether a sweep at now should re-derive the task.
// Fresh alerts stay untouched until the triage window has elapsed since creation.
func DueForEvaluation(task models.Task, now time.Time, triageWindow time.Duration) bool {
	switch task.Status {
	case models.TaskStatusDone:
		return false
	case models.TaskStatusAlert:
		return !now.Before(task.CreatedAt.Add(triageWindow))
	}
	return true
}

// ParseDeadline parses an RFC3339 timestamp and returns it in UTC.
func ParseDeadline(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperr.Validation("deadline", "must be an RFC3339 timestamp, got %q", raw)
	}
	return t.UTC(), nil
}

// ParseDeadlineOption reads the hour count from an option such as "2 horas".
func ParseDeadlineOption(option string) (time.Duration, error) {
	fields := strings.Fields(option)
	if len(fields) == 0 {
		return 0, apperr.Validation("deadline_option", "is required")
	}
	hours, err := strconv.Atoi(fields[0])
	if err != nil || hours <= 0 {
		return 0, apperr.Validation("deadline_option", "must start with a positive hour count, got %q", option)
	}
	return time.Duration(hours) * time.Hour, nil
}

// ValidateJustification checks that text can be attached to task and returns it trimmed.
func ValidateJustification(task models.Task, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperr.Validation("justification", "must not be empty")
	}
	if task.Status != models.TaskStatusOverdue && task.OverdueSince == nil {
		return "", apperr.Validation("justification", "only overdue tasks can be justified")
	}
	return trimmed, nil
}
