package services

import (
	"time"

	"compsite/utils"
)

// timestampLayouts are the accepted timestamp formats. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp reads an ISO-8601 timestamp and normalises it to UTC
func ParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// validateSubmission rejects incomplete submissions before any side effect happens
func validateSubmission(submission CompetitionSubmission) (startAt, endAt time.Time, err error) {
	verr := &ValidationError{}

	if submission.Title == "" {
		verr.add("title", "required")
	} else if utils.Slugify(submission.Title) == "" {
		verr.add("title", "must contain at least one letter or digit")
	}
	if submission.Description == "" {
		verr.add("description", "required")
	}

	startAt = parseRequiredTimestamp(verr, "start_at", submission.StartAt)
	endAt = parseRequiredTimestamp(verr, "end_at", submission.EndAt)

	// A puzzle needs both its question and its answer
	switch {
	case submission.PuzzleQuestion != "" && submission.PuzzleAnswer == "":
		verr.add("puzzle_answer", "required when a puzzle question is set")
	case submission.PuzzleQuestion == "" && submission.PuzzleAnswer != "":
		verr.add("puzzle_question", "required when a puzzle answer is set")
	}

	if submission.Image == nil || len(submission.Image.Data) == 0 {
		verr.add("image_file", "image file is required and cannot be empty")
	}

	return startAt, endAt, verr.orNil()
}

func parseRequiredTimestamp(verr *ValidationError, field, value string) time.Time {
	if value == "" {
		verr.add(field, "required")
		return time.Time{}
	}
	t, ok := ParseTimestamp(value)
	if !ok {
		verr.add(field, "must be an ISO-8601 timestamp")
	}
	return t
}
