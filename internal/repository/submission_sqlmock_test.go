package repository

import (
	"context"
	"testing"
	"time"

	"roastarena/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func arenaRows(id string, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "image_url", "roast_level", "caption", "session_id",
		"roast_count", "created_at", "expires_at",
	}).AddRow(id, "/images/x/master.jpg", "spicy", "", uuid.NewString(),
		0, time.Now().UTC().Add(-time.Hour), expiresAt)
}

// The append must run as one transaction holding the arena row lock: lock,
// insert, counter bump, commit.
func TestSubmissionRepository_Append_TransactionShape(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSubmissionRepository(db)

	arenaID := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "arenas" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(arenaRows(arenaID, time.Now().UTC().Add(time.Hour)))
	mock.ExpectExec(`INSERT INTO "submissions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "arenas" SET "roast_count"=roast_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Append(context.Background(), &models.Submission{
		ID:        uuid.NewString(),
		ArenaID:   arenaID,
		Text:      "a roast",
		Author:    "SmokyWombat12",
		SessionID: uuid.NewString(),
		Score:     55,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Expiry observed under the lock rolls the whole transaction back; neither the
// insert nor the counter bump runs.
func TestSubmissionRepository_Append_ExpiredRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSubmissionRepository(db)

	arenaID := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "arenas" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(arenaRows(arenaID, time.Now().UTC().Add(-time.Minute)))
	mock.ExpectRollback()

	err := repo.Append(context.Background(), &models.Submission{
		ID:        uuid.NewString(),
		ArenaID:   arenaID,
		Text:      "too late",
		Author:    "SmokyWombat12",
		SessionID: uuid.NewString(),
		Score:     55,
		CreatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, ErrArenaExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}
