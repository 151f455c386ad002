package services

// ServiceError carries a stable error code across the service
// boundary. Controllers map codes to HTTP statuses; anything that is
// not a ServiceError is logged and surfaced as a generic failure.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

var (
	ErrOrderNotFound        = NewServiceError("ORDER_NOT_FOUND", "Order not found")
	ErrProductNotFound      = NewServiceError("PRODUCT_NOT_FOUND", "Product not found")
	ErrMerchantNotFound     = NewServiceError("MERCHANT_NOT_FOUND", "Merchant not found")
	ErrUserNotFound         = NewServiceError("USER_NOT_FOUND", "User not found")
	ErrSettingsNotFound     = NewServiceError("SETTINGS_NOT_FOUND", "Stock settings not found")
	ErrSyncNotEnabled       = NewServiceError("SYNC_NOT_ENABLED", "Stock synchronization not enabled")
	ErrSyncNotConfigured    = NewServiceError("SYNC_NOT_CONFIGURED", "Stock synchronization not configured")
	ErrAlertNotFound        = NewServiceError("ALERT_NOT_FOUND", "Stock alert not found")
	ErrAlertAlreadyResolved = NewServiceError("ALERT_ALREADY_RESOLVED", "Stock alert is already resolved")
	ErrAccessDenied         = NewServiceError("ACCESS_DENIED", "Access denied")
)
