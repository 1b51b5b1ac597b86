package handler

import "github.com/accounthub/user-service/internal/core/domain"

// errorResponse documents the error envelope for swagger; the actual
// rendering happens in the centralized HTTP error handler.
type errorResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type registerRequest struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateProfileRequest uses pointers to distinguish "field absent" from
// "field supplied empty"; only the latter is a validation error.
type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// --- Response types ---

type registerResponse struct {
	UserID    string `json:"userId"`
	Token     string `json:"token"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type listUsersResponse struct {
	Users []*domain.User `json:"users"`
}
