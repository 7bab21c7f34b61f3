package errors

var (
	ErrUnknown           = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument   = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrThresholdExceeded = New(ERR_THRESHOLD_EXCEEDED, "threshold exceeded")
	ErrNotFound          = New(ERR_NOT_FOUND, "not found")
	ErrProcessing        = New(ERR_PROCESSING, "error processing")
	ErrConfiguration     = New(ERR_CONFIGURATION, "configuration error")
	ErrContextCanceled   = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrBlockNotFound     = New(ERR_BLOCK_NOT_FOUND, "block not found")
	ErrBlockInvalid      = New(ERR_BLOCK_INVALID, "block invalid")
	ErrBlockExists       = New(ERR_BLOCK_EXISTS, "block exists")
	ErrTxNotFound        = New(ERR_TX_NOT_FOUND, "tx not found")
	ErrTxInvalid         = New(ERR_TX_INVALID, "tx invalid")
	ErrServiceError      = New(ERR_SERVICE_ERROR, "service error")
	ErrStorageError      = New(ERR_STORAGE_ERROR, "storage error")
	ErrSpent             = New(ERR_SPENT, "utxo already spent")
	ErrUtxoNotFound      = New(ERR_UTXO_NOT_FOUND, "utxo not found")
	ErrImmatureSpend     = New(ERR_IMMATURE_SPEND, "coinbase output not yet mature")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewThresholdExceededError(message string, params ...interface{}) error {
	return New(ERR_THRESHOLD_EXCEEDED, message, params...)
}

func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}

func NewBlockNotFoundError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_NOT_FOUND, message, params...)
}

func NewBlockInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_INVALID, message, params...)
}

func NewBlockExistsError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_EXISTS, message, params...)
}

func NewTxNotFoundError(message string, params ...interface{}) error {
	return New(ERR_TX_NOT_FOUND, message, params...)
}

func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}

func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}

func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}

func NewSpentError(message string, params ...interface{}) error {
	return New(ERR_SPENT, message, params...)
}

func NewUtxoNotFoundError(message string, params ...interface{}) error {
	return New(ERR_UTXO_NOT_FOUND, message, params...)
}

func NewImmatureSpendError(message string, params ...interface{}) error {
	return New(ERR_IMMATURE_SPEND, message, params...)
}
