/*
Package handler provides HTTP handler functions for profile photo management.

Photos reach the bucket either through a pre-signed client-side upload or a
direct multipart upload; both paths end with the stored key recorded on the
account and reflected into any live chat sessions.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"parley/internal/app/storage"
	"parley/internal/pkg/auth/jwt"
	"parley/internal/pkg/errs"
	"parley/internal/pkg/logx"
	"parley/internal/pkg/randx"
	"parley/internal/pkg/req"
	"parley/internal/pkg/resp"
)

// avatarKey builds the object storage key for a user's profile photo.
func avatarKey(userID, ext string) (string, error) {
	suffix, err := randx.KeySuffix()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("avatars/%s/%s%s", userID, suffix, ext), nil
}

type SetUserPhotoInput struct {
	PhotoURL string `json:"profilePhotoURL"`
}

// HandleSetUserPhoto records a profile photo reference on the account and
// refreshes any live chat sessions for the user.
func HandleSetUserPhoto(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input SetUserPhotoInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Hall.SetUserPhoto(r.Context(), identity.UserID, input.PhotoURL); err != nil {
			logx.Error(err, "failed to persist profile photo", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"profilePhotoURL": input.PhotoURL,
		})
	}
}

// PresignAvatarInput defines the JSON input structure for generating an upload URL.
type PresignAvatarInput struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// HandlePresignAvatarURL generates a time-limited pre-signed URL for a
// client-side profile photo upload, scoped to the authenticated user.
func HandlePresignAvatarURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidatePhotoSize(input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidatePhotoType(input.FileName, input.MimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		ext := strings.ToLower(filepath.Ext(input.FileName))
		key, err := avatarKey(identity.UserID, ext)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		url, err := deps.Storage.PresignUpload(
			r.Context(),
			key,
			input.MimeType,
			input.FileSize,
			storage.PresignedURLDuration,
		)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		data := map[string]any{
			"presignedUrl": url,
			"fileKey":      key,
			"fileName":     input.FileName,
		}
		resp.RespondSuccess(w, r, data)
	}
}

// HandleUploadAvatar accepts a multipart profile photo upload, streams it into
// the bucket server-side, and records the stored key on the account.
func HandleUploadAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		if customErr := storage.ValidatePhotoSize(header.Size); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		mimeType, ok := storage.ExtToMIME[ext]
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := storage.ValidatePhotoType(header.Filename, mimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key, err := avatarKey(identity.UserID, ext)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Storage.Upload(r.Context(), key, mimeType, file); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if err := deps.Hall.SetUserPhoto(r.Context(), identity.UserID, key); err != nil {
			logx.Error(err, "failed to persist uploaded photo key", "user_id", identity.UserID, "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"fileKey":         key,
			"profilePhotoURL": key,
		})
	}
}
