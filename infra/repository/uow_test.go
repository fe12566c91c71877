package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/feinledger/fein/pkg/repository"
	accountrepo "github.com/feinledger/fein/pkg/repository/account"
	reportrepo "github.com/feinledger/fein/pkg/repository/report"
	tagrepo "github.com/feinledger/fein/pkg/repository/tag"
	transactionrepo "github.com/feinledger/fein/pkg/repository/transaction"
	userrepo "github.com/feinledger/fein/pkg/repository/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockUoW(t *testing.T) (*UoW, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)
	return NewUoW(db), mock
}

func TestUoW_DoAndGetRepository(t *testing.T) {
	uow, mock := newMockUoW(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		users, err := repository.Get[userrepo.Repository](txUow)
		require.NoError(t, err)
		assert.NotNil(t, users)

		accounts, err := repository.Get[accountrepo.Repository](txUow)
		require.NoError(t, err)
		assert.NotNil(t, accounts)

		txs, err := repository.Get[transactionrepo.Repository](txUow)
		require.NoError(t, err)
		assert.NotNil(t, txs)

		breakdowns, err := repository.Get[transactionrepo.BreakdownRepository](txUow)
		require.NoError(t, err)
		assert.NotNil(t, breakdowns)

		tags, err := repository.Get[tagrepo.Repository](txUow)
		require.NoError(t, err)
		assert.NotNil(t, tags)

		reports, err := repository.Get[reportrepo.Repository](txUow)
		require.NoError(t, err)
		assert.NotNil(t, reports)
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoRollsBackOnError(t *testing.T) {
	uow, mock := newMockUoW(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_GetRepositoryOutsideTransaction(t *testing.T) {
	uow, _ := newMockUoW(t)

	repoAny, err := uow.GetRepository((*accountrepo.Repository)(nil))
	require.NoError(t, err)
	_, ok := repoAny.(accountrepo.Repository)
	assert.True(t, ok)
}

func TestUoW_GetRepositoryUnknownType(t *testing.T) {
	uow, _ := newMockUoW(t)

	_, err := uow.GetRepository((*error)(nil))
	assert.ErrorContains(t, err, "unsupported repository type")
}
