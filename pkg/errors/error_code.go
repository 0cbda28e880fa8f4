package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInvalidWeight        ErrorCode = 104
	ErrCodeInvalidCapital       ErrorCode = 105
	ErrCodeInvalidBar           ErrorCode = 106
	ErrCodeInsufficientData     ErrorCode = 107

	// Data/Resource errors (200-299)
	ErrCodeMissingColumn         ErrorCode = 200
	ErrCodeDataParseFailed       ErrorCode = 201
	ErrCodeDataSourceUnavailable ErrorCode = 202
	ErrCodeQueryFailed           ErrorCode = 203
	ErrCodeNoDataFound           ErrorCode = 204
	ErrCodeWriteFailed           ErrorCode = 205

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeUnknownStrategy      ErrorCode = 400
	ErrCodeStrategyConfigError  ErrorCode = 401
	ErrCodeStrategyRuntimeError ErrorCode = 402

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError ErrorCode = 600
	ErrCodeBacktestStateError  ErrorCode = 601
)
