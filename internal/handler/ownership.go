package handler

import (
	"net/http"
	"strconv"

	"github.com/outpost-labs/outpost-backend/internal/auth"
)

// ownerFromPath resolves the {id} path segment and checks it against the
// authenticated identity; users can only reach their own records.
func ownerFromPath(r *http.Request) (int64, *AppError) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return 0, ErrMissingToken
	}

	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, ErrResourceNotFound
	}

	if userID != claims.UserID {
		return 0, ErrResourceNotFound
	}

	return userID, nil
}

func pathID(r *http.Request) (int64, *AppError) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, ErrResourceNotFound
	}
	return id, nil
}
