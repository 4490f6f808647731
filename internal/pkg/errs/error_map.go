/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Connection Admission Errors
	ErrMissingCredential: {Code: ErrMissingCredential, Message: "No token provided.", Status: http.StatusUnauthorized},
	ErrInvalidCredential: {Code: ErrInvalidCredential, Message: "Invalid user token.", Status: http.StatusUnauthorized},
	ErrUnknownUser:       {Code: ErrUnknownUser, Message: "No user found.", Status: http.StatusUnauthorized},
	ErrForbidden:         {Code: ErrForbidden, Message: "You do not have sufficient rights to perform this action.", Status: http.StatusForbidden},

	// 3xxx: Chat and Moderation Errors
	ErrTargetNotFound:        {Code: ErrTargetNotFound, Message: "Target user is not available."},
	ErrUsernameTaken:         {Code: ErrUsernameTaken, Message: "Username Taken"},
	ErrInvalidAccountStatus:  {Code: ErrInvalidAccountStatus, Message: "Unknown account status."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},

	// 4xxx: User, Session, and Security Errors
	ErrInvalidUsername:     {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrInvalidPassword:     {Code: ErrInvalidPassword, Message: "Passwords must be at least four characters."},
	ErrUserAlreadyExists:   {Code: ErrUserAlreadyExists, Message: "Username is already taken."},
	ErrInvalidCredentials:  {Code: ErrInvalidCredentials, Message: "Incorrect username or password.", Status: http.StatusUnauthorized},
	ErrUserNotFound:        {Code: ErrUserNotFound, Message: "User does not exist.", Status: http.StatusNotFound},
	ErrOldPasswordInvalid:  {Code: ErrOldPasswordInvalid, Message: "Incorrect password.", Status: http.StatusUnauthorized},
	ErrAccountNotActivated: {Code: ErrAccountNotActivated, Message: "Your account has not yet been activated.", Status: http.StatusForbidden},
	ErrUnauthorized:        {Code: ErrUnauthorized, Message: "Request missing access token.", Status: http.StatusUnauthorized},
	ErrFileSizeTooLarge:    {Code: ErrFileSizeTooLarge, Message: "File is too large."},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
}
