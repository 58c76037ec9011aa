package archive

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/XavierBriggs/Courtside/pkg/models"
	"github.com/XavierBriggs/Courtside/pkg/testutil"
)

func TestArchiveGame_WritesEverythingInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	writer := NewWriter(db, nil, nil)
	state := testutil.PopulatedGameState()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO games`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO game_players`).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`INSERT INTO game_players`).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`INSERT INTO game_events`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	err = writer.ArchiveGame(context.Background(), state)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveGame_EmptyTemplateIsSkipped(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	writer := NewWriter(db, nil, nil)

	err = writer.ArchiveGame(context.Background(), models.GameState{})
	assert.NoError(t, err)

	// no transaction, no statements
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveGame_RollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	writer := NewWriter(db, nil, nil)
	state := testutil.PopulatedGameState()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO games`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = writer.ArchiveGame(context.Background(), state)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "insert game")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveGame_EmptyEventLogSkipsEventInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	writer := NewWriter(db, nil, nil)
	state := testutil.PopulatedGameState()
	state.Events = nil

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO games`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO game_players`).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`INSERT INTO game_players`).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	err = writer.ArchiveGame(context.Background(), state)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
