package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/relaunchapp/followup-service/internal/entity"
)

func prospectRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "email", "project", "company",
		"first_contact", "followup_stage", "next_followup", "last_contact",
		"status", "created_at", "updated_at",
	})
}

func TestProspectFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewProspectRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM prospects").
		WithArgs("missing").
		WillReturnRows(prospectRows())

	prospect, err := repo.FindByID(context.Background(), "missing")

	assert.Nil(t, prospect)
	assert.ErrorIs(t, err, entity.ErrProspectNotFound)
}

func TestProspectListDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewProspectRepository(db)
	due := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	firstContact := due.AddDate(0, 0, -7)

	rows := prospectRows().
		AddRow("p1", "user-1", "Ada", "ada@example.com", "Engine", "Babbage & Co",
			firstContact, 1, due, nil, entity.StatusPending, firstContact, firstContact).
		AddRow("p2", "user-2", "Grace", "grace@example.com", nil, nil,
			firstContact, 2, due, firstContact, entity.StatusPending, firstContact, firstContact)

	mock.ExpectQuery("SELECT (.+) FROM prospects").
		WithArgs(entity.StatusPending, 3, "2025-06-10").
		WillReturnRows(rows)

	prospects, err := repo.ListDue(context.Background(), entity.StatusPending, 3, due)

	assert.NoError(t, err)
	assert.Len(t, prospects, 2)
	assert.Equal(t, "Ada", prospects[0].Name)
	assert.Empty(t, prospects[1].Project)
	assert.NotNil(t, prospects[1].LastContact)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProspectUpdateAdvancesStageMonotonically(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewProspectRepository(db)
	stage := 2
	status := entity.StatusPending
	lastContact := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	nextFollowup := lastContact.AddDate(0, 0, 3)

	mock.ExpectExec(`UPDATE prospects SET updated_at = NOW\(\), followup_stage = GREATEST\(followup_stage, \$1\)`).
		WithArgs(stage, status, lastContact, "2025-06-13", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(context.Background(), "p1", entity.ProspectUpdate{
		FollowupStage: &stage,
		Status:        &status,
		LastContact:   &lastContact,
		NextFollowup:  &nextFollowup,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProspectUpdateCompletionClearsNextFollowup(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewProspectRepository(db)
	stage := 4
	status := entity.StatusCompleted

	mock.ExpectExec(`UPDATE prospects SET .+ next_followup = NULL WHERE id = \$3`).
		WithArgs(stage, status, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(context.Background(), "p1", entity.ProspectUpdate{
		FollowupStage:     &stage,
		Status:            &status,
		ClearNextFollowup: true,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProspectUpdateUnknownID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewProspectRepository(db)
	status := entity.StatusCompleted

	mock.ExpectExec("UPDATE prospects").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), "missing", entity.ProspectUpdate{Status: &status})

	assert.ErrorIs(t, err, entity.ErrProspectNotFound)
}
