package delivery

import "github.com/storefront/backend/internal/domain/shared"

// Validation rejections surfaced to the caller. None of these are fatal;
// the allocation session is always left in a consistent state.
var (
	ErrInvalidQuantity         = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive number")
	ErrInsufficientBatchStock  = shared.NewDomainError("INSUFFICIENT_BATCH_STOCK", "Requested quantity exceeds the batch's available stock")
	ErrExceedsRequiredQuantity = shared.NewDomainError("EXCEEDS_REQUIRED_QUANTITY", "Requested quantity exceeds the item's remaining need")
	ErrUnknownLineItem         = shared.NewDomainError("UNKNOWN_LINE_ITEM", "Line item is not part of this delivery session")
	ErrBatchMismatch           = shared.NewDomainError("BATCH_MISMATCH", "Batch does not hold this item's product at the sale's shop")
	ErrNothingToSubmit         = shared.NewDomainError("NOTHING_TO_SUBMIT", "No batches selected for delivery")
	ErrSubmissionFailed        = shared.NewDomainError("SUBMISSION_FAILED", "Delivery submission was rejected")
)
