package leaveerrors

import (
	"fmt"
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date range",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Reason is required",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"You already have a leave request for this period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be approved or rejected",
		http.StatusBadRequest,
	)
	ErrSelfReview = apperror.New(
		apperror.CodeForbidden,
		"Managers cannot approve or reject their own leave requests. Please contact an admin.",
		http.StatusForbidden,
	)
	ErrAlreadyReviewed = apperror.New(
		apperror.CodeConflict,
		"Leave request has already been reviewed",
		http.StatusConflict,
	)
	ErrCancelNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leaves can be cancelled",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"Not authorized",
		http.StatusForbidden,
	)
)

// InsufficientBalance reports the available amount so the client can show the
// shortfall.
func InsufficientBalance(leaveType string, available int) *apperror.AppError {
	return apperror.New(
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("Insufficient %s leave balance. Available: %d days", leaveType, available),
		http.StatusBadRequest,
	)
}
