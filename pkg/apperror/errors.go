package apperror

import "fmt"

// AppError is a structured error carrying a stable machine code.
type AppError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped internal error (not exposed to callers' clients)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ---- Ledger Business Logic (LED) ----

func ErrInsufficientBalance() *AppError {
	return New("LED_001", "Insufficient balance in wallet")
}

func ErrWrongPinCode() *AppError {
	return New("LED_002", "Wrong PIN code")
}

func ErrNotFound(entity string) *AppError {
	return New("LED_003", fmt.Sprintf("%s not found", entity))
}

func ErrInvalidAmount() *AppError {
	return New("LED_004", "Invalid amount")
}

func ErrSameWallet() *AppError {
	return New("LED_005", "Sender and receiver wallets are identical")
}

// ---- Configuration (CFG) ----

// ErrConfiguration signals missing required reference data, e.g. the
// debit wallet. Treated as fatal misconfiguration.
func ErrConfiguration(what string) *AppError {
	return New("CFG_001", fmt.Sprintf("Missing required configuration: %s", what))
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps a storage or infrastructure failure.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", err)
}
