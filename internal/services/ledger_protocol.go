package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
)

// balanceProtocol writes ledger entries together with the account
// adjustments their effects imply. Every operation runs in one database
// transaction, so a failure at any step leaves entries and balances as they
// were. Effects are always recomputed from entry state; nothing remembers
// what was applied last.
type balanceProtocol struct {
	db       *gorm.DB
	accounts AccountServicer
}

func newBalanceProtocol(db *gorm.DB, accounts AccountServicer) *balanceProtocol {
	return &balanceProtocol{db: db, accounts: accounts}
}

func (p *balanceProtocol) apply(tx *gorm.DB, effect models.Effect) error {
	if effect.IsZero() {
		return nil
	}
	_, err := p.accounts.AdjustBalance(tx, effect.AccountID, effect.Delta)
	return err
}

func (p *balanceProtocol) revert(tx *gorm.DB, effect models.Effect) error {
	return p.apply(tx, effect.Negate())
}

// create persists a new entry and applies its effect. A non-nil verify runs
// first in the same transaction.
func (p *balanceProtocol) create(entry models.Entry, verify func(tx *gorm.DB) error) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if verify != nil {
			if err := verify(tx); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return p.apply(tx, entry.Effect())
	})
}

// loader fetches an entry inside the protocol's transaction, locking its row.
type loader[E models.Entry] func(tx *gorm.DB) (E, error)

// updateEntry reverts the stored entry's effect, merges the new fields,
// persists the result and applies the new effect. Revert and apply stay
// separate steps even when both hit the same account.
func updateEntry[E models.Entry](p *balanceProtocol, load loader[E], merge func(E)) (E, error) {
	var updated E
	err := p.db.Transaction(func(tx *gorm.DB) error {
		entry, err := load(tx)
		if err != nil {
			return err
		}

		if err := p.revert(tx, entry.Effect()); err != nil {
			return err
		}

		merge(entry)

		if err := tx.Omit(clause.Associations).Save(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := p.apply(tx, entry.Effect()); err != nil {
			return err
		}

		updated = entry
		return nil
	})
	return updated, err
}

// deleteEntry reverts the stored entry's effect and removes the row.
func deleteEntry[E models.Entry](p *balanceProtocol, load loader[E]) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		entry, err := load(tx)
		if err != nil {
			return err
		}

		if err := p.revert(tx, entry.Effect()); err != nil {
			return err
		}

		if err := tx.Delete(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// lockReference share-locks the row of M matching query, so it cannot be
// deleted or rewritten before the surrounding transaction ends.
func lockReference[M any](tx *gorm.DB, notFound *apperrors.AppError, query string, args ...any) error {
	var row M
	err := tx.Clauses(clause.Locking{Strength: "SHARE"}).Select("id").Where(query, args...).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// forUpdate locks the selected rows until the surrounding transaction ends.
// The sqlite dialect drops the clause; SQLite serialises writers itself.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
