package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both unknown and unpublished competitions, which readers must not tell apart
	ErrNotFound = errors.New("competition not found or not published")
	// ErrNoPuzzle is returned when an answer is submitted to a competition without a puzzle
	ErrNoPuzzle = errors.New("this competition does not have a puzzle")
	// ErrImageNotFound is returned when no image is stored under the requested key
	ErrImageNotFound = errors.New("image not found")
	// ErrStorage wraps every record store and image store failure
	ErrStorage = errors.New("storage failure")
	// ErrSlugTaken is a storage failure caused by another competition owning the slug
	ErrSlugTaken = errors.New("a competition with this slug already exists")
)

// ValidationError lists the rejected fields of a submission with a message for each
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid submission: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = message
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
