package postgres

import (
	"context"
	"database/sql"
	"vize-dostu/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *sqlUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return NewSQLUploadSessionRepository(u.querier())
}

func (u *sqlUnitOfWork) DocumentRepo() port.DocumentRepository {
	return NewSqlDocumentRepository(u.querier())
}

func (u *sqlUnitOfWork) PassportRepo() port.PassportRepository {
	return NewSqlPassportRepository(u.querier())
}

func (u *sqlUnitOfWork) NotificationRepo() port.NotificationRepository {
	return NewSqlNotificationRepository(u.querier())
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
