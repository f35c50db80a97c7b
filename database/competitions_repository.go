package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"compsite/metrics"
	"compsite/models"

	"gorm.io/gorm"
)

// ErrDuplicateSlug is returned by Insert when another competition already uses the slug
var ErrDuplicateSlug = errors.New("slug already exists")

const competitionsTable = "competitions"

// publicColumns is every competition column except the answer digest
var publicColumns = []string{
	"id", "slug", "title", "description", "image_reference",
	"start_at", "end_at", "puzzle_type", "puzzle_question",
	"published", "created_at", "updated_at",
}

// CompetitionRepository reads and writes competition rows through gorm
type CompetitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

// Insert writes a new competition row; ID and timestamps are assigned by the store
func (r *CompetitionRepository) Insert(ctx context.Context, competition *models.Competition) error {
	defer metrics.RecordDBOperation("insert", competitionsTable, time.Now())

	err := r.db.WithContext(ctx).Create(competition).Error
	if isDuplicateKey(err) {
		return ErrDuplicateSlug
	}
	return err
}

// ListPublished returns the published competitions, soonest-ending first, without digests
func (r *CompetitionRepository) ListPublished(ctx context.Context) ([]models.Competition, error) {
	defer metrics.RecordDBOperation("list_published", competitionsTable, time.Now())

	competitions := []models.Competition{}
	err := r.db.WithContext(ctx).
		Select(publicColumns).
		Where("published = ?", true).
		Order("end_at ASC").
		Find(&competitions).Error
	return competitions, err
}

// ListAll returns every competition, newest first, without digests
func (r *CompetitionRepository) ListAll(ctx context.Context) ([]models.Competition, error) {
	defer metrics.RecordDBOperation("list_all", competitionsTable, time.Now())

	competitions := []models.Competition{}
	err := r.db.WithContext(ctx).
		Select(publicColumns).
		Order("created_at DESC").
		Order("id DESC").
		Find(&competitions).Error
	return competitions, err
}

// FindPublishedBySlug returns the published competition with the slug, or nil when there is none
func (r *CompetitionRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.Competition, error) {
	defer metrics.RecordDBOperation("find_published", competitionsTable, time.Now())

	return r.takePublished(ctx, publicColumns, slug)
}

// FindPuzzleBySlug returns the answer digest holder of a published competition, or nil when there is none
func (r *CompetitionRepository) FindPuzzleBySlug(ctx context.Context, slug string) (*models.Competition, error) {
	defer metrics.RecordDBOperation("find_puzzle", competitionsTable, time.Now())

	return r.takePublished(ctx, []string{"id", "slug", "puzzle_type", "puzzle_hashed_answer"}, slug)
}

func (r *CompetitionRepository) takePublished(ctx context.Context, columns []string, slug string) (*models.Competition, error) {
	var competition models.Competition
	err := r.db.WithContext(ctx).
		Select(columns).
		Where("slug = ? AND published = ?", slug, true).
		Take(&competition).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &competition, nil
}

// Drivers without error translation still report unique violations in the message
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
