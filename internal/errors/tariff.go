package errors

var (
	ErrRateNotFound = &DomainError{
		Code:    "RATE_NOT_FOUND",
		Message: "tariff rate not found",
	}
	ErrCountryNotFound = &DomainError{
		Code:    "COUNTRY_NOT_FOUND",
		Message: "country not found",
	}
	ErrStorageTimeout = &DomainError{
		Code:    "STORAGE_TIMEOUT",
		Message: "storage operation timed out",
	}
	ErrStorageUnavailable = &DomainError{
		Code:    "STORAGE_UNAVAILABLE",
		Message: "storage is unavailable",
	}

	// ErrNoConfiguredRate is a normal resolver outcome, not a failure: the
	// caller falls back to the system default rate and reports the
	// calculation method as "fallback".
	ErrNoConfiguredRate = &DomainError{
		Code:    "NO_CONFIGURED_RATE",
		Message: "no configured rate matches the request",
	}
)
