package usererrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"Email already in use",
		http.StatusConflict,
	)
	ErrSelfDelete = apperror.New(
		apperror.CodeInvalidInput,
		"You cannot delete your own account",
		http.StatusBadRequest,
	)
)
