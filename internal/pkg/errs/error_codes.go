/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in payloads delivered to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Connection Admission Errors
const (
	// ErrMissingCredential indicates that a connection arrived without a bearer token.
	ErrMissingCredential = 2001

	// ErrInvalidCredential indicates that the presented token failed signature or expiry checks.
	ErrInvalidCredential = 2002

	// ErrUnknownUser indicates that the token references a user that no longer exists.
	ErrUnknownUser = 2003

	// ErrForbidden indicates a banned account or insufficient privilege for the attempted action.
	ErrForbidden = 2004
)

// 3xxx: Chat and Moderation Errors
const (
	// ErrTargetNotFound indicates that the target user or connection of an action is absent.
	ErrTargetNotFound = 3101

	// ErrUsernameTaken indicates that the requested username is already in use.
	ErrUsernameTaken = 3102

	// ErrInvalidAccountStatus indicates that an unrecognized account status value was supplied.
	ErrInvalidAccountStatus = 3103

	// ErrMessageContentTooLong indicates that the message body exceeded the maximum length limit.
	ErrMessageContentTooLong = 3201
)

// 4xxx: User, Session, and Security Errors
const (
	// ErrInvalidUsername indicates a username that fails format validation.
	ErrInvalidUsername = 4001

	// ErrInvalidPassword indicates a password that fails length validation.
	ErrInvalidPassword = 4002

	// ErrUserAlreadyExists indicates a signup attempt for a username that is taken.
	ErrUserAlreadyExists = 4003

	// ErrInvalidCredentials indicates a failed username/password check at sign-in.
	ErrInvalidCredentials = 4004

	// ErrUserNotFound indicates that the referenced account does not exist.
	ErrUserNotFound = 4005

	// ErrOldPasswordInvalid indicates that the current password supplied for a change was wrong.
	ErrOldPasswordInvalid = 4006

	// ErrAccountNotActivated indicates a sign-in attempt on an account awaiting activation.
	ErrAccountNotActivated = 4007

	// ErrUnauthorized indicates a request that requires authentication but carried none.
	ErrUnauthorized = 4008

	// ErrFileSizeTooLarge indicates an uploaded profile photo exceeding the size limit.
	ErrFileSizeTooLarge = 4101
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates that the object storage backend rejected an operation.
	ErrFileStorageFailed = 5001
)
