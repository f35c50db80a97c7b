package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"compsite/database"
	"compsite/metrics"
	"compsite/models"
	"compsite/storage"
	"compsite/utils"

	"go.uber.org/zap"
)

// ImageKeyPrefix is the object store folder holding competition images
const ImageKeyPrefix = "competition-images/"

// cleanupTimeout bounds the compensating image deletion, which outlives the request context
const cleanupTimeout = 10 * time.Second

// CompetitionStore is the durable record store behind the competition service
type CompetitionStore interface {
	Insert(ctx context.Context, competition *models.Competition) error
	ListPublished(ctx context.Context) ([]models.Competition, error)
	ListAll(ctx context.Context) ([]models.Competition, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Competition, error)
	FindPuzzleBySlug(ctx context.Context, slug string) (*models.Competition, error)
}

// Publisher is notified of newly created published competitions
type Publisher interface {
	PublishCompetition(competition models.PublicCompetition)
}

// CompetitionService creates, lists and fetches competitions and checks puzzle answers
type CompetitionService struct {
	Store     CompetitionStore
	Images    storage.BlobStore
	Publisher Publisher
	Now       func() time.Time
	Logger    *zap.Logger
}

// ImageUpload is the image file sent with a new competition
type ImageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// CompetitionSubmission is the admin form for a new competition. Timestamps are ISO-8601 strings.
type CompetitionSubmission struct {
	Title          string
	Description    string
	StartAt        string
	EndAt          string
	Published      bool
	PuzzleQuestion string
	PuzzleAnswer   string
	Image          *ImageUpload
}

// CreateResult is the receipt of a successful creation
type CreateResult struct {
	ID       uint   `json:"id"`
	Slug     string `json:"slug"`
	ImageKey string `json:"image_reference"`
}

// Create validates the submission, uploads the image and inserts the competition row.
// The image is uploaded first and deleted again if the row is never written.
func (s *CompetitionService) Create(ctx context.Context, submission CompetitionSubmission) (*CreateResult, error) {
	startAt, endAt, err := validateSubmission(submission)
	if err != nil {
		metrics.CompetitionsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	// Step 1: Derive the slug and the image key
	slug := utils.Slugify(submission.Title)
	imageKey := ImageKey(slug, s.now(), submission.Image.Filename)

	// Step 2: Upload the image before any row exists
	if err := s.Images.Put(ctx, imageKey, submission.Image.Data, submission.Image.ContentType); err != nil {
		metrics.CompetitionsCreated.WithLabelValues("upload_failed").Inc()
		s.logger().Error("image upload failed", zap.String("key", imageKey), zap.Error(err))
		return nil, fmt.Errorf("%w: upload image: %v", ErrStorage, err)
	}

	// From here on the image must not outlive a failed creation
	committed := false
	defer func() {
		if !committed {
			s.discardImage(ctx, imageKey)
		}
	}()

	// Step 3: Assemble the record, hashing the puzzle answer
	competition := models.Competition{
		Slug:           slug,
		Title:          submission.Title,
		Description:    submission.Description,
		ImageReference: imageKey,
		StartAt:        startAt,
		EndAt:          endAt,
		Published:      submission.Published,
	}
	if submission.PuzzleQuestion != "" {
		puzzleType := models.PuzzleTypeText
		question := submission.PuzzleQuestion
		digest := utils.HashAnswer(submission.PuzzleAnswer)
		competition.PuzzleType = &puzzleType
		competition.PuzzleQuestion = &question
		competition.PuzzleHashedAnswer = &digest
	}

	// Step 4: Insert the row, the last write of the sequence
	if err := s.Store.Insert(ctx, &competition); err != nil {
		metrics.CompetitionsCreated.WithLabelValues("insert_failed").Inc()
		s.logger().Error("competition insert failed", zap.String("slug", slug), zap.Error(err))
		if errors.Is(err, database.ErrDuplicateSlug) {
			return nil, fmt.Errorf("%w: %w", ErrStorage, ErrSlugTaken)
		}
		return nil, fmt.Errorf("%w: insert competition: %v", ErrStorage, err)
	}
	committed = true

	metrics.CompetitionsCreated.WithLabelValues("created").Inc()
	s.logger().Info("competition created",
		zap.Uint("id", competition.ID),
		zap.String("slug", slug),
		zap.Bool("published", competition.Published))

	if competition.Published && s.Publisher != nil {
		s.Publisher.PublishCompetition(competition.Public(s.now()))
	}

	return &CreateResult{ID: competition.ID, Slug: slug, ImageKey: imageKey}, nil
}

// ListPublished returns the published competitions, soonest-ending first
func (s *CompetitionService) ListPublished(ctx context.Context) ([]models.PublicCompetition, error) {
	competitions, err := s.Store.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list published competitions: %v", ErrStorage, err)
	}
	return s.toPublic(competitions), nil
}

// ListAll returns every competition, including unpublished ones, newest first
func (s *CompetitionService) ListAll(ctx context.Context) ([]models.PublicCompetition, error) {
	competitions, err := s.Store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list competitions: %v", ErrStorage, err)
	}
	return s.toPublic(competitions), nil
}

// GetPublished returns the published competition with the slug
func (s *CompetitionService) GetPublished(ctx context.Context, slug string) (*models.PublicCompetition, error) {
	competition, err := s.Store.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: get competition: %v", ErrStorage, err)
	}
	if competition == nil {
		return nil, ErrNotFound
	}
	public := competition.Public(s.now())
	return &public, nil
}

// VerifyAnswer checks a submitted answer against the puzzle of a published competition.
// Attempts are neither recorded nor limited.
func (s *CompetitionService) VerifyAnswer(ctx context.Context, slug, answer string) (bool, error) {
	competition, err := s.Store.FindPuzzleBySlug(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("%w: get puzzle: %v", ErrStorage, err)
	}
	if competition == nil {
		return false, ErrNotFound
	}
	if !competition.HasPuzzle() {
		return false, ErrNoPuzzle
	}

	isCorrect := utils.VerifyAnswer(answer, *competition.PuzzleHashedAnswer)
	if isCorrect {
		metrics.AnswerChecks.WithLabelValues("correct").Inc()
	} else {
		metrics.AnswerChecks.WithLabelValues("incorrect").Inc()
	}
	return isCorrect, nil
}

// FetchImage returns the stored image; the caller closes its body
func (s *CompetitionService) FetchImage(ctx context.Context, key string) (*storage.Object, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return nil, &ValidationError{Fields: map[string]string{"key": "image key is required"}}
	}

	object, err := s.Images.Get(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get image: %v", ErrStorage, err)
	}
	return object, nil
}

// ImageKey builds the object key of a competition image:
// competition-images/<slug>-<epoch millis>.<extension of the uploaded file>
func ImageKey(slug string, createdAt time.Time, filename string) string {
	extension := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		extension = filename[i+1:]
	}
	return fmt.Sprintf("%s%s-%d.%s", ImageKeyPrefix, slug, createdAt.UnixMilli(), extension)
}

// discardImage deletes an uploaded image after a failed creation. Failures are only logged.
func (s *CompetitionService) discardImage(ctx context.Context, key string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.Images.Delete(cleanupCtx, key); err != nil {
		metrics.ImageCleanups.WithLabelValues("failed").Inc()
		s.logger().Warn("failed to clean up competition image", zap.String("key", key), zap.Error(err))
		return
	}
	metrics.ImageCleanups.WithLabelValues("deleted").Inc()
	s.logger().Info("cleaned up competition image", zap.String("key", key))
}

func (s *CompetitionService) toPublic(competitions []models.Competition) []models.PublicCompetition {
	now := s.now()
	public := make([]models.PublicCompetition, 0, len(competitions))
	for i := range competitions {
		public = append(public, competitions[i].Public(now))
	}
	return public
}

func (s *CompetitionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *CompetitionService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}
