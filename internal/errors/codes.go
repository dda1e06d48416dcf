package errors

// Error codes sent to clients in the "error" field.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps messages by code.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Businesses (BUSINESS_) ====================
	BusinessNotFound       = "BUSINESS_NOT_FOUND"
	BusinessAlreadyClaimed = "BUSINESS_ALREADY_CLAIMED"
	BusinessDuplicatePlace = "BUSINESS_DUPLICATE_PLACE"
	BusinessInvalidStatus  = "BUSINESS_INVALID_STATUS"
	BusinessInvalidEvent   = "BUSINESS_INVALID_EVENT"

	// ==================== Votes (VOTE_) ====================
	VoteInvalidType = "VOTE_INVALID_TYPE"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewAlreadyPublic = "REVIEW_ALREADY_PUBLIC"

	// ==================== Campaigns (CAMPAIGN_) ====================
	CampaignNotFound      = "CAMPAIGN_NOT_FOUND"
	CampaignInvalid       = "CAMPAIGN_INVALID"
	CampaignNotCancelable = "CAMPAIGN_NOT_CANCELABLE"

	// ==================== Categories (CATEGORY_) ====================
	CategoryInvalid = "CATEGORY_INVALID"

	// ==================== Places provider (PLACES_) ====================
	PlacesUnavailable   = "PLACES_UNAVAILABLE"
	PlacesQuotaExceeded = "PLACES_QUOTA_EXCEEDED"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Rate limiting (RATE_) ====================
	RateLimited = "RATE_LIMITED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
