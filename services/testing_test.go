package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"reviewhub-api/config"
	"reviewhub-api/models"
)

// newTestDB opens a uniquely named shared in-memory database so each test
// gets isolated state while gorm's connection pool still sees one store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	return db
}

type sentMail struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// fakeNotifier records outgoing mail and can be told to fail.
type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (f *fakeNotifier) Send(subject, body, from string, to []string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{Subject: subject, Body: body, From: from, To: to})
	return nil
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
