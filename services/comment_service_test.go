package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewhub-api/models"
	"reviewhub-api/repositories"
)

func newCommentFixture(t *testing.T) (CommentService, *gorm.DB, *models.Title, *models.Review) {
	t.Helper()

	db := newTestDB(t)
	author := mustCreateUser(t, db, "reviewer", models.RoleUser)

	title := &models.Title{Name: "Solaris", Year: 1972}
	require.NoError(t, db.Create(title).Error)

	review := &models.Review{TitleID: title.ID, AuthorID: author.ID, Text: "x", Score: 5}
	require.NoError(t, db.Create(review).Error)

	svc := NewCommentService(
		repositories.NewCommentRepository(db),
		repositories.NewReviewRepository(db),
	)
	return svc, db, title, review
}

func TestCreateCommentStampsAuthor(t *testing.T) {
	svc, db, title, review := newCommentFixture(t)
	commenter := mustCreateUser(t, db, "commenter", models.RoleUser)

	comment, err := svc.CreateComment(title.ID, review.ID, commenter, models.CreateCommentRequest{Text: "agree"})
	require.NoError(t, err)
	assert.Equal(t, commenter.ID, comment.AuthorID)
	assert.Equal(t, "commenter", comment.View().Author)
}

func TestCommentParentChainMustResolve(t *testing.T) {
	svc, db, title, review := newCommentFixture(t)
	commenter := mustCreateUser(t, db, "commenter", models.RoleUser)

	// Review id under the wrong title is a 404, not a leak.
	otherTitle := &models.Title{Name: "Stalker", Year: 1979}
	require.NoError(t, db.Create(otherTitle).Error)

	_, err := svc.CreateComment(otherTitle.ID, review.ID, commenter, models.CreateCommentRequest{Text: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, _, err = svc.GetComments(title.ID, 9999, models.ListParams{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateAndDeleteComment(t *testing.T) {
	svc, db, title, review := newCommentFixture(t)
	commenter := mustCreateUser(t, db, "commenter", models.RoleUser)

	comment, err := svc.CreateComment(title.ID, review.ID, commenter, models.CreateCommentRequest{Text: "agree"})
	require.NoError(t, err)

	text := "changed my mind"
	updated, err := svc.UpdateComment(title.ID, review.ID, comment.ID, models.UpdateCommentRequest{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, text, updated.Text)

	require.NoError(t, svc.DeleteComment(title.ID, review.ID, comment.ID))

	_, err = svc.GetComment(title.ID, review.ID, comment.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
