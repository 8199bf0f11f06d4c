package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodtrack/moodtrack/models"
)

func TestUnitOfWorkCommitPersists(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	require.NoError(t, uow.Repository.AddUser(&models.User{}))
	require.NoError(t, uow.Commit())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnitOfWorkRollbackDiscards(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	require.NoError(t, uow.Repository.AddUser(&models.User{}))
	require.NoError(t, uow.Rollback())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnitOfWorkEndRollsBackUncommitted(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	require.NoError(t, uow.Repository.AddUser(&models.User{}))
	uow.End()

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnitOfWorkEndAfterCommitIsNoop(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	require.NoError(t, uow.Repository.AddUser(&models.User{}))
	require.NoError(t, uow.Commit())
	uow.End()

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnitOfWorkIsReusableAfterCommit(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	require.NoError(t, uow.Repository.AddUser(&models.User{}))
	require.NoError(t, uow.Commit())

	require.NoError(t, uow.Begin())
	require.NoError(t, uow.Repository.AddUser(&models.User{}))
	require.NoError(t, uow.Commit())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUnitOfWorkRejectsNestedBegin(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	defer uow.End()

	assert.Error(t, uow.Begin())
}

func TestUnitOfWorkClosedOperationsFail(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	assert.ErrorIs(t, uow.Commit(), ErrNoTransaction)
	assert.ErrorIs(t, uow.Rollback(), ErrNoTransaction)
	assert.ErrorIs(t, uow.Flush(), ErrNoTransaction)
}

func TestUnitOfWorkFlushExposesGeneratedID(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	defer uow.End()

	user := &models.User{}
	require.NoError(t, uow.Repository.AddUser(user))
	require.NoError(t, uow.Flush())
	assert.NotZero(t, user.ID)
}
