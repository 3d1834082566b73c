// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthAccountSuspended   = "auth.account_suspended"

	// User Management
	KeyUserCreated   = "user.created"
	KeyUserNotFound  = "user.not_found"
	KeyUserSuspended = "user.suspended"

	// Products
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"

	// Sections
	KeySectionCreated   = "section.created"
	KeySectionUpdated   = "section.updated"
	KeySectionDeleted   = "section.deleted"
	KeySectionNotFound  = "section.not_found"
	KeySectionReordered = "section.reordered"

	// Subsections
	KeySubsectionCreated   = "subsection.created"
	KeySubsectionUpdated   = "subsection.updated"
	KeySubsectionDeleted   = "subsection.deleted"
	KeySubsectionNotFound  = "subsection.not_found"
	KeySubsectionReordered = "subsection.reordered"

	// Blocks
	KeyBlockCreated   = "block.created"
	KeyBlockUpdated   = "block.updated"
	KeyBlockDeleted   = "block.deleted"
	KeyBlockNotFound  = "block.not_found"
	KeyBlockReordered = "block.reordered"

	// Content errors
	KeyContentSlugConflict   = "content.slug_conflict"
	KeyContentInvalidReorder = "content.invalid_reorder"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Search
	KeySearchNoResults    = "search.no_results"
	KeySearchResultsFound = "search.results_found"
)
