package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/logging"
)

type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id int64, name, passwordHash *string) error
}

type UserHandler struct {
	users userRepo
}

func NewUserHandler(users userRepo) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to get user", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

type updateUserRequest struct {
	Name            *string `json:"name"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirm_password"`
}

func (r updateUserRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == nil && r.Password == nil {
		errs = append(errs, FieldError{Field: "name", Message: "nothing to update"})
	}
	if r.Name != nil && *r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if r.Password != nil {
		if *r.Password == "" {
			errs = append(errs, FieldError{Field: "password", Message: "must not be empty"})
		} else if r.ConfirmPassword == nil || *r.ConfirmPassword != *r.Password {
			errs = append(errs, FieldError{Field: "confirm_password", Message: "passwords do not match"})
		}
	}
	return errs
}

// Update changes the caller's display name and/or password. A password
// mismatch is caught here, before any storage call.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			logging.FromContext(r.Context()).Error("failed to hash password", "error", err)
			RespondAppError(w, ErrInternalError, nil)
			return
		}
		s := string(hash)
		passwordHash = &s
	}

	if err := h.users.Update(r.Context(), userID, req.Name, passwordHash); err != nil {
		logging.FromContext(r.Context()).Error("failed to update user", "error", err)
		RespondDomainError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

// Exists is the receiver-existence predicate the send flow consults before
// allowing package creation.
func (h *UserHandler) Exists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		RespondValidationError(w, []FieldError{{Field: "email", Message: "required"}})
		return
	}

	exists, err := h.users.ExistsByEmail(r.Context(), email)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to check user", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, existsResponse{Exists: exists})
}
