package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"compsite/models"
	"compsite/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 12, 10, 9, 30, 0, 0, time.UTC)

func newTestService() (*CompetitionService, *memoryStore, *memoryBlobs) {
	store := &memoryStore{}
	blobs := newMemoryBlobs()
	return &CompetitionService{
		Store:  store,
		Images: blobs,
		Now:    func() time.Time { return fixedNow },
		Logger: zap.NewNop(),
	}, store, blobs
}

func validSubmission() CompetitionSubmission {
	return CompetitionSubmission{
		Title:          "Santa's Cash Dash",
		Description:    "x",
		StartAt:        "2025-12-01T00:00:00Z",
		EndAt:          "2025-12-24T18:00:00Z",
		Published:      true,
		PuzzleQuestion: "How many days are in December?",
		PuzzleAnswer:   "31",
		Image: &ImageUpload{
			Data:        []byte("0123456789"),
			ContentType: "image/png",
			Filename:    "santa.png",
		},
	}
}

func TestCreateAndVerifyEndToEnd(t *testing.T) {
	svc, store, blobs := newTestService()
	ctx := context.Background()

	result, err := svc.Create(ctx, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, "santas-cash-dash", result.Slug)
	assert.Equal(t, fmt.Sprintf("competition-images/santas-cash-dash-%d.png", fixedNow.UnixMilli()), result.ImageKey)
	assert.True(t, blobs.has(result.ImageKey))
	assert.Empty(t, blobs.deletes)

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	require.NotNil(t, row.PuzzleHashedAnswer)
	assert.Equal(t, utils.HashAnswer("31"), *row.PuzzleHashedAnswer)
	assert.Equal(t, models.PuzzleTypeText, *row.PuzzleType)
	assert.True(t, row.StartAt.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))

	ok, err := svc.VerifyAnswer(ctx, result.Slug, "31")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyAnswer(ctx, result.Slug, "30")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateWithoutPuzzle(t *testing.T) {
	svc, store, _ := newTestService()
	submission := validSubmission()
	submission.PuzzleQuestion, submission.PuzzleAnswer = "", ""

	_, err := svc.Create(context.Background(), submission)
	require.NoError(t, err)

	row := store.rows[0]
	assert.Nil(t, row.PuzzleType)
	assert.Nil(t, row.PuzzleQuestion)
	assert.Nil(t, row.PuzzleHashedAnswer)
}

func TestCreateValidationHasNoSideEffects(t *testing.T) {
	cases := map[string]struct {
		mutate func(*CompetitionSubmission)
		field  string
	}{
		"missing title":       {func(s *CompetitionSubmission) { s.Title = "" }, "title"},
		"title without slug":  {func(s *CompetitionSubmission) { s.Title = "!!!" }, "title"},
		"missing description": {func(s *CompetitionSubmission) { s.Description = "" }, "description"},
		"missing start":       {func(s *CompetitionSubmission) { s.StartAt = "" }, "start_at"},
		"bad end":             {func(s *CompetitionSubmission) { s.EndAt = "next tuesday" }, "end_at"},
		"missing image":       {func(s *CompetitionSubmission) { s.Image = nil }, "image_file"},
		"empty image":         {func(s *CompetitionSubmission) { s.Image.Data = nil }, "image_file"},
		"question only":       {func(s *CompetitionSubmission) { s.PuzzleAnswer = "" }, "puzzle_answer"},
		"answer only":         {func(s *CompetitionSubmission) { s.PuzzleQuestion = "" }, "puzzle_question"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, store, blobs := newTestService()
			submission := validSubmission()
			tc.mutate(&submission)

			_, err := svc.Create(context.Background(), submission)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
			assert.Empty(t, blobs.puts)
			assert.Empty(t, store.rows)
		})
	}
}

func TestCreateUploadFailureWritesNoRow(t *testing.T) {
	svc, store, blobs := newTestService()
	blobs.putErr = errBoom

	_, err := svc.Create(context.Background(), validSubmission())

	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, store.rows)
	assert.Empty(t, blobs.deletes)
}

func TestCreateInsertFailureDeletesImage(t *testing.T) {
	svc, store, blobs := newTestService()
	store.insertErr = errBoom

	_, err := svc.Create(context.Background(), validSubmission())
	require.ErrorIs(t, err, ErrStorage)

	require.Len(t, blobs.puts, 1)
	assert.Equal(t, blobs.puts, blobs.deletes)
	assert.False(t, blobs.has(blobs.puts[0]))

	// Nothing is visible to readers afterwards
	store.insertErr = nil
	list, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = svc.GetPublished(context.Background(), "santas-cash-dash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCleanupFailureKeepsOriginalError(t *testing.T) {
	svc, store, blobs := newTestService()
	store.insertErr = errBoom
	blobs.deleteErr = fmt.Errorf("bucket offline")

	_, err := svc.Create(context.Background(), validSubmission())

	require.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "boom")
	assert.NotContains(t, err.Error(), "bucket offline")
	assert.Len(t, blobs.deletes, 1)
}

func TestCreateCleanupSurvivesCancelledContext(t *testing.T) {
	svc, store, blobs := newTestService()
	store.insertErr = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Create(ctx, validSubmission())

	require.ErrorIs(t, err, ErrStorage)
	assert.Len(t, blobs.deletes, 1)
}

func TestCreatePanicDeletesImage(t *testing.T) {
	_, _, blobs := newTestService()
	svc := &CompetitionService{
		Store:  &panickingStore{},
		Images: blobs,
		Now:    func() time.Time { return fixedNow },
		Logger: zap.NewNop(),
	}

	assert.Panics(t, func() {
		_, _ = svc.Create(context.Background(), validSubmission())
	})
	require.Len(t, blobs.puts, 1)
	assert.Equal(t, blobs.puts, blobs.deletes)
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc, _, blobs := newTestService()
	_, err := svc.Create(context.Background(), validSubmission())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validSubmission())

	assert.ErrorIs(t, err, ErrSlugTaken)
	assert.ErrorIs(t, err, ErrStorage)
	require.Len(t, blobs.puts, 2)
	assert.Equal(t, []string{blobs.puts[1]}, blobs.deletes)
}

func TestCreatePublishesOnlyPublished(t *testing.T) {
	svc, _, _ := newTestService()
	publisher := &recordingPublisher{}
	svc.Publisher = publisher

	draft := validSubmission()
	draft.Title = "Draft"
	draft.Published = false
	_, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Empty(t, publisher.published)

	_, err = svc.Create(context.Background(), validSubmission())
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "santas-cash-dash", publisher.published[0].Slug)
	assert.Equal(t, models.StatusLive, publisher.published[0].Status)
}

func TestListPublishedOrderingAndStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, c := range []struct{ title, start, end string }{
		{"Third", "2025-12-01T00:00:00Z", "2025-12-30T00:00:00Z"},
		{"First", "2025-11-01T00:00:00Z", "2025-12-05T00:00:00Z"},
		{"Second", "2025-12-20T00:00:00Z", "2025-12-25T00:00:00Z"},
	} {
		submission := validSubmission()
		submission.Title, submission.StartAt, submission.EndAt = c.title, c.start, c.end
		_, err := svc.Create(ctx, submission)
		require.NoError(t, err)
	}

	list, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{list[0].Slug, list[1].Slug, list[2].Slug})
	assert.Equal(t, []string{models.StatusEnded, models.StatusUpcoming, models.StatusLive},
		[]string{list[0].Status, list[1].Status, list[2].Status})
	assert.Zero(t, list[0].EndsInSeconds)
	assert.Equal(t, int64(fixedEndsIn("2025-12-30T00:00:00Z")), list[2].EndsInSeconds)
}

func fixedEndsIn(end string) float64 {
	t, _ := ParseTimestamp(end)
	return t.Sub(fixedNow).Seconds()
}

func TestGetPublishedHidesDrafts(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	draft := validSubmission()
	draft.Published = false
	result, err := svc.Create(ctx, draft)
	require.NoError(t, err)

	_, draftErr := svc.GetPublished(ctx, result.Slug)
	_, missingErr := svc.GetPublished(ctx, "does-not-exist")

	assert.ErrorIs(t, draftErr, ErrNotFound)
	assert.Equal(t, missingErr, draftErr)

	_, err = svc.VerifyAnswer(ctx, result.Slug, "31")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyAnswerWithoutPuzzle(t *testing.T) {
	svc, _, _ := newTestService()
	submission := validSubmission()
	submission.PuzzleQuestion, submission.PuzzleAnswer = "", ""
	result, err := svc.Create(context.Background(), submission)
	require.NoError(t, err)

	_, err = svc.VerifyAnswer(context.Background(), result.Slug, "31")
	assert.ErrorIs(t, err, ErrNoPuzzle)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestReadFailuresAreStorageErrors(t *testing.T) {
	svc, store, _ := newTestService()
	store.readErr = errBoom
	ctx := context.Background()

	_, err := svc.ListPublished(ctx)
	assert.ErrorIs(t, err, ErrStorage)
	_, err = svc.ListAll(ctx)
	assert.ErrorIs(t, err, ErrStorage)
	_, err = svc.GetPublished(ctx, "x")
	assert.ErrorIs(t, err, ErrStorage)
	_, err = svc.VerifyAnswer(ctx, "x", "y")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestListAllIncludesDraftsWithoutDigest(t *testing.T) {
	svc, _, _ := newTestService()
	draft := validSubmission()
	draft.Title = "Draft"
	draft.Published = false
	_, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validSubmission())
	require.NoError(t, err)

	list, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "santas-cash-dash", list[0].Slug)
	assert.False(t, list[1].Published)
}

func TestFetchImage(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()
	require.NoError(t, blobs.Put(ctx, "competition-images/a-1.jpg", []byte("jpeg"), "image/jpeg"))

	obj, err := svc.FetchImage(ctx, "/competition-images/a-1.jpg")
	require.NoError(t, err)
	body, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "jpeg", string(body))
	assert.Equal(t, "image/jpeg", obj.ContentType)

	_, err = svc.FetchImage(ctx, "competition-images/missing.jpg")
	assert.ErrorIs(t, err, ErrImageNotFound)

	var verr *ValidationError
	_, err = svc.FetchImage(ctx, "")
	assert.ErrorAs(t, err, &verr)

	blobs.getErr = errBoom
	_, err = svc.FetchImage(ctx, "competition-images/a-1.jpg")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestImageKey(t *testing.T) {
	at := time.UnixMilli(1733830200123)

	assert.Equal(t, "competition-images/prize-1733830200123.jpeg", ImageKey("prize", at, "photo.final.jpeg"))
	assert.Equal(t, "competition-images/prize-1733830200123.photo", ImageKey("prize", at, "photo"))
}
