package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// nowFunc is swappable in tests.
var nowFunc = time.Now

// ErrNoTransaction is returned when Commit, Rollback or Flush is called
// outside an open transaction.
var ErrNoTransaction = errors.New("unit of work: no open transaction")

// UnitOfWork scopes one logical transaction. Begin allocates a fresh
// transaction and a repository bound to it; callers must Commit explicitly and
// defer End, which rolls back anything left uncommitted. At most one
// transaction is open at a time; Begin may be called again after Commit or
// Rollback, nesting is not supported.
type UnitOfWork struct {
	db         *gorm.DB
	tx         *gorm.DB
	Repository *Repository
}

// NewUnitOfWork wraps the shared connection pool. No transaction is open yet.
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Begin opens a transaction and binds the repository to it.
func (u *UnitOfWork) Begin() error {
	if u.tx != nil {
		return errors.New("unit of work: transaction already open")
	}
	tx := u.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	u.Repository = New(tx)
	return nil
}

// Commit persists the pending work and closes the transaction.
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback discards the pending work and closes the transaction.
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Flush surfaces any error the transaction has accumulated. Statements are
// sent to the database eagerly inside the transaction, so writes (including
// generated ids) are already visible to later queries in the same scope; this
// exists to let create-then-read flows fail early instead of at commit.
func (u *UnitOfWork) Flush() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	return u.tx.Error
}

// End rolls back if the caller never committed. Safe to defer unconditionally.
func (u *UnitOfWork) End() {
	if u.tx == nil {
		return
	}
	_ = u.tx.Rollback()
	u.tx = nil
}
