package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/events"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// MoveCommand is the input to the Transaction Executor — the same shape
// backs TOP_UP, BONUS, and PURCHASE, which differ only in which side is the
// treasury wallet (spec §4.2).
type MoveCommand struct {
	IdempotencyKey      string
	Type                entities.TransactionType
	SourceWalletID      uuid.UUID
	DestinationWalletID uuid.UUID
	Amount              valueobjects.Money
	ReferenceID         string
	Metadata            map[string]interface{}
}

// Result bundles the resolved transaction with the ledger entries it
// produced. LedgerEntries is empty when Transaction.IsFailed() — the only
// way a Result carries a failed Transaction is a replay of a FAILED row
// some outer policy persisted outside the Executor; the Executor itself
// never commits one (spec §4.2 step 4, §7).
type Result struct {
	Transaction   *entities.MonetaryTransaction
	LedgerEntries []*entities.LedgerEntry
}

// Executor is the Transaction Executor (spec §4.2): the single code path
// every value movement goes through. It composes the Idempotency Gate, the
// Wallet Locker, and the Ledger Writer under one database transaction so
// that a movement either commits in full — transaction row, both wallet
// balances, both ledger entries — or rolls back entirely, leaving no row
// at all (spec §4.2 step 4, §7).
type Executor struct {
	gate            *IdempotencyGate
	walletLocker    ports.WalletLocker
	walletRepo      ports.WalletRepository
	transactionRepo ports.TransactionRepository
	ledgerEntryRepo ports.LedgerEntryRepository
	eventPublisher  ports.EventPublisher
	uow             ports.UnitOfWork
}

// NewExecutor creates a new Executor.
func NewExecutor(
	walletRepo ports.WalletRepository,
	transactionRepo ports.TransactionRepository,
	ledgerEntryRepo ports.LedgerEntryRepository,
	walletLocker ports.WalletLocker,
	eventPublisher ports.EventPublisher,
	uow ports.UnitOfWork,
) *Executor {
	return &Executor{
		gate:            NewIdempotencyGate(transactionRepo),
		walletLocker:    walletLocker,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		ledgerEntryRepo: ledgerEntryRepo,
		eventPublisher:  eventPublisher,
		uow:             uow,
	}
}

// Execute runs the full movement protocol (spec §4.2):
//
//  1. pre-check the idempotency key outside any lock — cheap rejection of
//     replays and known-bad keys before touching a wallet row
//  2. open the database transaction
//  3. insert the PENDING transaction row — a unique violation here means a
//     concurrent request won the race; reclassify and return its outcome.
//     This runs before any wallet lock is taken, so the race collapses at
//     the cheap unique-constraint check rather than after two racers have
//     already contended on the wallet row (spec §4.1, §4.2 steps 2–3).
//  4. lock both wallets in canonical order (Wallet Locker)
//  5. verify the asset types line up and the source can afford the amount
//     (the balance check is skipped for a treasury source)
//  6. debit the source, credit the destination
//  7. write the two ledger entries (Ledger Writer)
//  8. mark the transaction COMPLETED and persist everything
//  9. publish events
//
// A business-rule failure at step 4 onward (WalletNotFound,
// InsufficientBalance, asset type mismatch) is returned as a Go error,
// which rolls the whole database transaction back: no PENDING row, no
// balance change, no ledger entries survive (spec §4.2 step 4, §7, §8
// scenario 2 — "no transaction row for k2 exists" after a failed
// purchase). The idempotency key is never consumed by a business-rule
// failure, so a corrected retry under the same key can still succeed.
// Execute's error return also covers genuine infrastructure failures
// (lock timeout, storage error, context cancellation) for the same
// reason: nothing survives, the caller is free to retry under the same
// key.
func (e *Executor) Execute(ctx context.Context, cmd MoveCommand) (*Result, error) {
	if existing, err := e.gate.Check(ctx, cmd.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return e.replayResult(ctx, existing), nil
	}

	var result *Result

	err := e.uow.Execute(ctx, func(txCtx context.Context) error {
		txn, err := entities.NewMonetaryTransaction(
			cmd.IdempotencyKey,
			cmd.Type,
			cmd.SourceWalletID,
			cmd.DestinationWalletID,
			cmd.Amount,
			cmd.ReferenceID,
			cmd.Metadata,
		)
		if err != nil {
			return err
		}

		if err := e.transactionRepo.Save(txCtx, txn); err != nil {
			if errors.IsDuplicateKeyRace(err) {
				existing, raceErr := e.gate.CheckRace(txCtx, cmd.IdempotencyKey)
				if raceErr != nil {
					return raceErr
				}
				result = e.replayResult(txCtx, existing)
				return nil
			}
			return fmt.Errorf("insert transaction: %w", err)
		}

		sourceWallet, destWallet, err := e.walletLocker.LockPair(txCtx, cmd.SourceWalletID, cmd.DestinationWalletID)
		if err != nil {
			return fmt.Errorf("lock wallets: %w", err)
		}

		if err := e.applyMovement(txCtx, txn, sourceWallet, destWallet, cmd); err != nil {
			return err
		}

		committed, err := e.seal(txCtx, txn, sourceWallet, destWallet, cmd)
		if err != nil {
			return err
		}
		result = committed
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyMovement runs the business rules and balance mutations (spec §4.2
// steps 4–6: "validate source balance iff validateSourceBalance", debit,
// credit). Any error returned here propagates straight out of the
// surrounding database transaction and rolls it back — there is no
// "apply the rule violation, then seal" branch (spec §4.2 step 4, §7).
func (e *Executor) applyMovement(
	ctx context.Context,
	txn *entities.MonetaryTransaction,
	sourceWallet, destWallet *entities.Wallet,
	cmd MoveCommand,
) error {
	if !sourceWallet.AssetType().Equals(cmd.Amount.Currency()) || !destWallet.AssetType().Equals(cmd.Amount.Currency()) {
		return errors.NewBusinessRuleViolation(
			"ASSET_TYPE_MISMATCH",
			"wallet asset type doesn't match transaction amount",
			nil,
		)
	}

	if !sourceWallet.IsTreasury() {
		sufficient, err := sourceWallet.HasSufficientBalance(cmd.Amount)
		if err != nil {
			return err
		}
		if !sufficient {
			return errors.NewBusinessRuleViolation(
				"INSUFFICIENT_BALANCE",
				"source wallet balance is insufficient for this amount",
				map[string]interface{}{
					"available": sourceWallet.Balance().String(),
					"required":  cmd.Amount.String(),
				},
			)
		}
	}

	if err := sourceWallet.Debit(cmd.Amount); err != nil {
		return err
	}
	return destWallet.Credit(cmd.Amount)
}

// seal finishes a successful movement (spec §4.2 steps 7–9): it writes the
// ledger entries, saves both wallets, marks the transaction COMPLETED, and
// publishes events. Only called once applyMovement has raised no
// business-rule error — a business-rule failure never reaches seal, it
// propagates directly out of Execute's database transaction instead.
func (e *Executor) seal(
	ctx context.Context,
	txn *entities.MonetaryTransaction,
	sourceWallet, destWallet *entities.Wallet,
	cmd MoveCommand,
) (*Result, error) {
	debitEntry, err := entities.NewLedgerEntry(txn.ID(), sourceWallet.ID(), entities.EntryTypeDebit, cmd.Amount, sourceWallet.Balance())
	if err != nil {
		return nil, fmt.Errorf("build debit entry: %w", err)
	}
	creditEntry, err := entities.NewLedgerEntry(txn.ID(), destWallet.ID(), entities.EntryTypeCredit, cmd.Amount, destWallet.Balance())
	if err != nil {
		return nil, fmt.Errorf("build credit entry: %w", err)
	}

	if err := e.ledgerEntryRepo.Insert(ctx, debitEntry); err != nil {
		return nil, fmt.Errorf("write debit entry: %w", err)
	}
	if err := e.ledgerEntryRepo.Insert(ctx, creditEntry); err != nil {
		return nil, fmt.Errorf("write credit entry: %w", err)
	}

	if err := e.walletRepo.Save(ctx, sourceWallet); err != nil {
		return nil, fmt.Errorf("save source wallet: %w", err)
	}
	if err := e.walletRepo.Save(ctx, destWallet); err != nil {
		return nil, fmt.Errorf("save destination wallet: %w", err)
	}

	if err := txn.MarkCompleted(); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}
	if err := e.transactionRepo.Save(ctx, txn); err != nil {
		return nil, fmt.Errorf("save completed transaction: %w", err)
	}

	eventList := []events.DomainEvent{
		events.NewTransactionCreated(txn.ID(), sourceWallet.ID(), destWallet.ID(), string(cmd.Type), cmd.Amount, cmd.IdempotencyKey),
		events.NewWalletDebited(sourceWallet.ID(), cmd.Amount, txn.ID(), sourceWallet.Balance()),
		events.NewWalletCredited(destWallet.ID(), cmd.Amount, txn.ID(), destWallet.Balance()),
		events.NewTransactionCompleted(txn.ID(), sourceWallet.ID(), destWallet.ID(), string(cmd.Type), cmd.Amount),
	}
	if err := e.eventPublisher.PublishBatch(ctx, eventList); err != nil {
		return nil, fmt.Errorf("publish events: %w", err)
	}

	return &Result{Transaction: txn, LedgerEntries: []*entities.LedgerEntry{debitEntry, creditEntry}}, nil
}

// replayResult packages an already-resolved transaction (idempotent replay
// or race loser) as a Result, fetching its ledger entries when completed.
func (e *Executor) replayResult(ctx context.Context, txn *entities.MonetaryTransaction) *Result {
	if !txn.IsCompleted() {
		return &Result{Transaction: txn}
	}
	entries, err := e.ledgerEntryRepo.FindByTransactionID(ctx, txn.ID())
	if err != nil {
		return &Result{Transaction: txn}
	}
	return &Result{Transaction: txn, LedgerEntries: entries}
}
