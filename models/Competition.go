package models

import "time"

// PuzzleTypeText is the only puzzle type currently supported: a free-text question
const PuzzleTypeText = "text"

// Competition lifecycle statuses, derived from the start and end timestamps
const (
    StatusUpcoming = "upcoming"
    StatusLive     = "live"
    StatusEnded    = "ended"
)

// Competition represents a raffle competition, optionally gated by a puzzle question.
// PuzzleHashedAnswer holds the SHA-256 digest of the answer, never the plaintext.
type Competition struct {
    ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
    Slug               string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
    Title              string    `gorm:"type:varchar(255);not null" json:"title"`
    Description        string    `gorm:"type:text;not null" json:"description"`
    ImageReference     string    `gorm:"type:varchar(512);not null;column:image_reference" json:"image_reference"`
    StartAt            time.Time `gorm:"not null;column:start_at" json:"start_at"`
    EndAt              time.Time `gorm:"not null;column:end_at;index" json:"end_at"`
    PuzzleType         *string   `gorm:"type:varchar(32);column:puzzle_type" json:"puzzle_type"`
    PuzzleQuestion     *string   `gorm:"type:text;column:puzzle_question" json:"puzzle_question"`
    PuzzleHashedAnswer *string   `gorm:"type:char(64);column:puzzle_hashed_answer" json:"-"`
    Published          bool      `gorm:"not null;default:false;index" json:"published"`
    CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
    UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// HasPuzzle reports whether an answer digest is configured
func (c *Competition) HasPuzzle() bool {
    return c.PuzzleHashedAnswer != nil && *c.PuzzleHashedAnswer != ""
}

// Status returns the lifecycle status of the competition at the given instant
func (c *Competition) Status(now time.Time) string {
    switch {
    case now.Before(c.StartAt):
        return StatusUpcoming
    case now.Before(c.EndAt):
        return StatusLive
    default:
        return StatusEnded
    }
}

// EndsIn returns the time left before the competition ends, never negative
func (c *Competition) EndsIn(now time.Time) time.Duration {
    if left := c.EndAt.Sub(now); left > 0 {
        return left
    }
    return 0
}

// PublicCompetition is the shape served to unauthenticated readers.
// It has no field for the answer digest.
type PublicCompetition struct {
    ID             uint      `json:"id"`
    Slug           string    `json:"slug"`
    Title          string    `json:"title"`
    Description    string    `json:"description"`
    ImageReference string    `json:"image_reference"`
    StartAt        time.Time `json:"start_at"`
    EndAt          time.Time `json:"end_at"`
    PuzzleType     *string   `json:"puzzle_type"`
    PuzzleQuestion *string   `json:"puzzle_question"`
    Published      bool      `json:"published"`
    Status         string    `json:"status"`
    EndsInSeconds  int64     `json:"ends_in_seconds"`
    CreatedAt      time.Time `json:"created_at"`
    UpdatedAt      time.Time `json:"updated_at"`
}

// Public strips the competition down to its public shape
func (c *Competition) Public(now time.Time) PublicCompetition {
    return PublicCompetition{
        ID:             c.ID,
        Slug:           c.Slug,
        Title:          c.Title,
        Description:    c.Description,
        ImageReference: c.ImageReference,
        StartAt:        c.StartAt,
        EndAt:          c.EndAt,
        PuzzleType:     c.PuzzleType,
        PuzzleQuestion: c.PuzzleQuestion,
        Published:      c.Published,
        Status:         c.Status(now),
        EndsInSeconds:  int64(c.EndsIn(now) / time.Second),
        CreatedAt:      c.CreatedAt,
        UpdatedAt:      c.UpdatedAt,
    }
}
