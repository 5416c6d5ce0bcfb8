package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// JournalOperation identifies the lifecycle transition passing through the
// hook pipeline.
type JournalOperation string

const (
	OperationPost    JournalOperation = "POST"
	OperationUnpost  JournalOperation = "UNPOST"
	OperationUpdate  JournalOperation = "UPDATE"
	OperationDelete  JournalOperation = "DELETE"
	OperationReverse JournalOperation = "REVERSE"
)

// HookContext carries one journal through the pipeline. For updates, Before
// and BeforeLines hold the prior state; for reversals, Journal is the
// reversing journal and Before the original.
type HookContext struct {
	Operation   JournalOperation
	Journal     *domain.Journal
	Lines       []domain.JournalLine
	Before      *domain.Journal
	BeforeLines []domain.JournalLine
	UserID      string
	Now         time.Time
}

// JournalHook is one named stage of the posting lifecycle pipeline.
// BeforeAction failures abort the operation; AfterAction failures are logged
// and swallowed, because by then the primary mutation is already committed.
type JournalHook interface {
	Name() string
	BeforeAction(ctx context.Context, hc *HookContext) error
	AfterAction(ctx context.Context, hc *HookContext) error
}

// HookPipeline runs an ordered list of stages around journal lifecycle
// transitions. Stages are registered once at container construction.
type HookPipeline struct {
	hooks []JournalHook
}

// NewHookPipeline assembles the standard pipeline: validation, audit,
// balance-cache, bank-derivation, in that order.
func NewHookPipeline(accountRepo portsrepo.AccountRepositoryFacade, periodLockRepo portsrepo.PeriodLockRepository, bankRepo portsrepo.BankRepositoryFacade, auditRepo portsrepo.AuditEventRepository) *HookPipeline {
	return &HookPipeline{
		hooks: []JournalHook{
			&validationHook{accountRepo: accountRepo, periodLockRepo: periodLockRepo},
			&auditHook{auditRepo: auditRepo},
			&balanceCacheHook{accountRepo: accountRepo},
			&bankDerivationHook{bankRepo: bankRepo},
		},
	}
}

// RunBefore executes every stage's BeforeAction in order, stopping at the
// first failure.
func (p *HookPipeline) RunBefore(ctx context.Context, hc *HookContext) error {
	for _, hook := range p.hooks {
		if err := hook.BeforeAction(ctx, hc); err != nil {
			return fmt.Errorf("hook %s rejected %s: %w", hook.Name(), hc.Operation, err)
		}
	}
	return nil
}

// RunAfter executes every stage's AfterAction in order. Failures are logged
// and do not stop later stages: the lifecycle transition itself has already
// been persisted.
func (p *HookPipeline) RunAfter(ctx context.Context, hc *HookContext) {
	logger := middleware.GetLoggerFromCtx(ctx)
	for _, hook := range p.hooks {
		if err := hook.AfterAction(ctx, hc); err != nil {
			logger.Error("Lifecycle hook failed after commit",
				slog.String("hook", hook.Name()),
				slog.String("operation", string(hc.Operation)),
				slog.String("journal_id", hc.Journal.JournalID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// validationHook enforces completeness, balance, account integrity, and
// period locks before a transition is persisted.
type validationHook struct {
	accountRepo    portsrepo.AccountRepositoryFacade
	periodLockRepo portsrepo.PeriodLockRepository
}

func (h *validationHook) Name() string { return "validation" }

func (h *validationHook) BeforeAction(ctx context.Context, hc *HookContext) error {
	switch hc.Operation {
	case OperationPost, OperationReverse:
		if err := accounting.ValidateBalance(hc.Lines); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		if err := h.checkAccounts(ctx, hc.Lines); err != nil {
			return err
		}
		return h.checkPeriodOpen(ctx, hc.Journal.PeriodKey())
	case OperationUpdate:
		if err := accounting.ValidateBalance(hc.Lines); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		return h.checkAccounts(ctx, hc.Lines)
	case OperationUnpost:
		return h.checkPeriodOpen(ctx, hc.Journal.PeriodKey())
	default:
		return nil
	}
}

func (h *validationHook) AfterAction(ctx context.Context, hc *HookContext) error {
	return nil
}

func (h *validationHook) checkAccounts(ctx context.Context, lines []domain.JournalLine) error {
	ids := affectedAccountIDs(lines, nil)
	accounts, err := h.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load accounts for validation: %w", err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok || account.IsDeleted {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, id)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return nil
}

func (h *validationHook) checkPeriodOpen(ctx context.Context, period string) error {
	locked, err := h.periodLockRepo.IsPeriodLocked(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to check period lock for %s: %w", period, err)
	}
	if locked {
		return fmt.Errorf("%w: accounting period %s is locked", apperrors.ErrForbidden, period)
	}
	return nil
}

// auditHook appends an audit trail event with before/after JSON snapshots.
type auditHook struct {
	auditRepo portsrepo.AuditEventRepository
}

func (h *auditHook) Name() string { return "audit" }

func (h *auditHook) BeforeAction(ctx context.Context, hc *HookContext) error {
	return nil
}

func (h *auditHook) AfterAction(ctx context.Context, hc *HookContext) error {
	event := domain.AuditEvent{
		AuditEventID: uuid.NewString(),
		JournalID:    hc.Journal.JournalID,
		Action:       auditActionFor(hc.Operation),
		PerformedBy:  hc.UserID,
		PerformedAt:  hc.Now,
		BeforeState:  snapshotJournal(hc.Before, hc.BeforeLines),
		AfterState:   snapshotJournal(hc.Journal, hc.Lines),
	}
	// A reversal's trail belongs to the original journal.
	if hc.Operation == OperationReverse && hc.Before != nil {
		event.JournalID = hc.Before.JournalID
	}
	return h.auditRepo.AppendAuditEvent(ctx, event)
}

func auditActionFor(op JournalOperation) domain.AuditAction {
	switch op {
	case OperationPost:
		return domain.AuditPost
	case OperationUnpost:
		return domain.AuditUnpost
	case OperationUpdate:
		return domain.AuditUpdate
	case OperationDelete:
		return domain.AuditDelete
	case OperationReverse:
		return domain.AuditReverse
	}
	return domain.AuditAction(op)
}

func snapshotJournal(journal *domain.Journal, lines []domain.JournalLine) []byte {
	if journal == nil {
		return nil
	}
	snap := *journal
	snap.Lines = lines
	data, err := json.Marshal(snap)
	if err != nil {
		return nil
	}
	return data
}

// balanceCacheHook rederives the cached account balances for every account
// the transition touched. The cache is purely derived state, so a failure
// here leaves it stale but never wrong in the ledger itself.
type balanceCacheHook struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

func (h *balanceCacheHook) Name() string { return "balance-cache" }

func (h *balanceCacheHook) BeforeAction(ctx context.Context, hc *HookContext) error {
	return nil
}

func (h *balanceCacheHook) AfterAction(ctx context.Context, hc *HookContext) error {
	switch hc.Operation {
	case OperationPost, OperationUnpost, OperationReverse:
	case OperationUpdate:
		// Draft edits only hit balances once posted; recompute just when the
		// monetary content actually moved.
		if !linesAmountsChanged(hc.BeforeLines, hc.Lines) {
			return nil
		}
	default:
		return nil
	}
	ids := affectedAccountIDs(hc.Lines, hc.BeforeLines)
	if len(ids) == 0 {
		return nil
	}
	return h.accountRepo.RecomputeBalances(ctx, ids, hc.UserID, hc.Now)
}

// bankDerivationHook keeps the bank transaction store in step with the book:
// posting derives 1:1 statement-side transactions for lines touching
// bank-backed GL accounts, unposting removes the ones never matched.
type bankDerivationHook struct {
	bankRepo portsrepo.BankRepositoryFacade
}

func (h *bankDerivationHook) Name() string { return "bank-derivation" }

func (h *bankDerivationHook) BeforeAction(ctx context.Context, hc *HookContext) error {
	return nil
}

func (h *bankDerivationHook) AfterAction(ctx context.Context, hc *HookContext) error {
	switch hc.Operation {
	case OperationPost, OperationReverse:
		return h.deriveTransactions(ctx, hc)
	case OperationUnpost:
		return h.bankRepo.DeleteUnmatchedDerivedByJournal(ctx, hc.Journal.JournalID)
	default:
		return nil
	}
}

func (h *bankDerivationHook) deriveTransactions(ctx context.Context, hc *HookContext) error {
	var derived []domain.BankTransaction
	for i := range hc.Lines {
		line := hc.Lines[i]
		bankAccount, err := h.bankRepo.FindBankAccountByGLAccountID(ctx, line.AccountID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return fmt.Errorf("failed to resolve bank account for GL account %s: %w", line.AccountID, err)
		}
		lineID := line.LineID
		txnType := domain.BankDebit
		if line.IsDebit() {
			// A GL debit to the bank-backed account is money in, which the
			// statement side shows as a credit.
			txnType = domain.BankCredit
		}
		derived = append(derived, domain.BankTransaction{
			BankTransactionID: uuid.NewString(),
			BankAccountID:     bankAccount.BankAccountID,
			TransactionDate:   hc.Journal.JournalDate,
			Description:       line.Description,
			Amount:            line.Amount(),
			Type:              txnType,
			Status:            domain.TransactionUnmatched,
			ReferenceNumber:   hc.Journal.ReferenceNumber,
			JournalLineID:     &lineID,
			AuditFields: domain.AuditFields{
				CreatedAt:     hc.Now,
				CreatedBy:     hc.UserID,
				LastUpdatedAt: hc.Now,
				LastUpdatedBy: hc.UserID,
			},
		})
	}
	if len(derived) == 0 {
		return nil
	}
	return h.bankRepo.SaveBankTransactions(ctx, derived)
}

// affectedAccountIDs returns the deduplicated account ids across both line sets.
func affectedAccountIDs(lines, beforeLines []domain.JournalLine) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, line := range append(append([]domain.JournalLine{}, lines...), beforeLines...) {
		if line.AccountID != "" && !seen[line.AccountID] {
			seen[line.AccountID] = true
			ids = append(ids, line.AccountID)
		}
	}
	return ids
}

// linesAmountsChanged reports whether the monetary content of the line sets
// differs: any change in the multiset of (account, debit, credit) counts.
func linesAmountsChanged(before, after []domain.JournalLine) bool {
	if len(before) != len(after) {
		return true
	}
	counts := make(map[string]int, len(before))
	for _, line := range before {
		counts[lineSignature(line)]++
	}
	for _, line := range after {
		key := lineSignature(line)
		counts[key]--
		if counts[key] < 0 {
			return true
		}
	}
	return false
}

func lineSignature(line domain.JournalLine) string {
	return line.AccountID + "|" + line.Debit.String() + "|" + line.Credit.String()
}
