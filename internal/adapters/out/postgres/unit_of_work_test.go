package postgres_test

import (
	"errors"
	"regexp"
	"testing"

	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockFactory(t *testing.T) (*postgres.GormUnitOfWorkFactory, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgresdriver.New(postgresdriver.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return postgres.NewGormUnitOfWorkFactory(db), sqlMock
}

func TestGormUnitOfWork_Lifecycle(t *testing.T) {
	ctx := t.Context()

	t.Run("begin and commit", func(t *testing.T) {
		factory, sqlMock := newMockFactory(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Begin(ctx), "second begin reuses the transaction")
		require.NoError(t, uow.Commit(ctx))
		require.ErrorIs(t, uow.Rollback(ctx), gorm.ErrInvalidTransaction)
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("begin and rollback", func(t *testing.T) {
		factory, sqlMock := newMockFactory(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Rollback(ctx))
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		factory, sqlMock := newMockFactory(t)
		sqlMock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		uow := factory.Create()
		require.EqualError(t, uow.Begin(ctx), "too many connections")
		require.ErrorIs(t, uow.Commit(ctx), gorm.ErrInvalidTransaction)
	})

	t.Run("commit without begin", func(t *testing.T) {
		factory, _ := newMockFactory(t)
		require.ErrorIs(t, factory.Create().Commit(ctx), gorm.ErrInvalidTransaction)
	})
}

func TestGormUnitOfWork_RepositoriesWriteInsideTransaction(t *testing.T) {
	ctx := t.Context()
	factory, sqlMock := newMockFactory(t)

	loc, err := kernel.NewLocation(48.85, 2.35)
	require.NoError(t, err)
	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), loc)
	require.NoError(t, err)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta(`UPDATE "deliveries" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectRollback()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	err = uow.DeliveryRepository().Update(ctx, d)

	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, uow.Rollback(ctx))
	require.NoError(t, sqlMock.ExpectationsWereMet())
}
