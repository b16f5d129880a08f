package errors

import "net/http"

var (
	ErrTrailNotFound = New(
		"TRAIL_NOT_FOUND",
		"Trail not found",
		http.StatusNotFound,
	)

	ErrLoadFailed = New(
		"LOAD_FAILED",
		"Failed to load source data",
		http.StatusUnprocessableEntity,
	)

	ErrExportFailed = New(
		"EXPORT_FAILED",
		"Failed to export results",
		http.StatusInternalServerError,
	)

	ErrInvalidDateRange = New(
		"INVALID_DATE_RANGE",
		"Invalid date range",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrProviderUnavailable = New(
		"PROVIDER_UNAVAILABLE",
		"Weather provider request failed",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
