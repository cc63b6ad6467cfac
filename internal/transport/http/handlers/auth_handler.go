package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/cookies"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/dto"
	httperrors "github.com/krjofficial/mern-ecomm/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
	cookies *cookies.Binder
	log     *zap.Logger
}

func NewAuthHandler(service *authsvc.Service, binder *cookies.Binder, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{service: service, cookies: binder, log: log}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.Signup(r.Context(), authsvc.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.handleAuthError(w, "signup", err)
		return
	}

	h.cookies.SetPair(w, res.Tokens)
	httperrors.Write(w, http.StatusCreated, dto.AuthResponse{
		User:    dto.NewUserResponse(res.User),
		Message: "User created successfully",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAuthError(w, "login", err)
		return
	}

	h.cookies.SetPair(w, res.Tokens)
	httperrors.Write(w, http.StatusOK, dto.AuthResponse{
		User:    dto.NewUserResponse(res.User),
		Message: "Logged in successfully",
	})
}

// Logout always clears the cookies, even when revoking the stored token fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	err := h.service.Logout(r.Context(), cookies.RefreshToken(r))
	h.cookies.Clear(w)
	if err != nil {
		h.handleAuthError(w, "logout", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	access, err := h.service.Rotate(r.Context(), cookies.RefreshToken(r))
	if err != nil {
		h.handleAuthError(w, "refresh token", err)
		return
	}

	h.cookies.SetAccess(w, access)
	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "Access token refreshed successfully"})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.PrincipalFromContext(r.Context())
	if !ok {
		WriteAuthError(w, authsvc.ErrUnauthenticated)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewProfileResponse(user))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}
	user, ok := authsvc.PrincipalFromContext(r.Context())
	if !ok {
		WriteAuthError(w, authsvc.ErrUnauthenticated)
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user, req.Name)
	if err != nil {
		h.handleAuthError(w, "update profile", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewProfileResponse(updated))
}

func (h *AuthHandler) handleAuthError(w http.ResponseWriter, op string, err error) {
	status := WriteAuthError(w, err)
	if status >= http.StatusInternalServerError {
		h.log.Error("auth request failed", zap.String("op", op), zap.Error(err))
		return
	}
	h.log.Debug("auth request rejected", zap.String("op", op), zap.Error(err))
}

// WriteAuthError maps the auth error taxonomy onto HTTP and returns the status written.
func WriteAuthError(w http.ResponseWriter, err error) int {
	status, apiErr := classifyAuthError(err)
	httperrors.Write(w, status, apiErr)
	return status
}

func classifyAuthError(err error) (int, httperrors.APIError) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		return http.StatusBadRequest, httperrors.APIError{Code: "INVALID_REQUEST", Message: err.Error()}
	case errors.Is(err, authsvc.ErrAlreadyExists):
		return http.StatusBadRequest, httperrors.APIError{Code: "ALREADY_EXISTS", Message: "User already exists"}
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return http.StatusUnauthorized, httperrors.APIError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	case errors.Is(err, authsvc.ErrMissingToken):
		return http.StatusUnauthorized, httperrors.APIError{Code: "MISSING_TOKEN", Message: "No refresh token provided"}
	case errors.Is(err, authsvc.ErrExpiredToken):
		return http.StatusUnauthorized, httperrors.APIError{Code: "TOKEN_EXPIRED", Message: "Access token expired"}
	case errors.Is(err, authsvc.ErrInvalidToken):
		return http.StatusUnauthorized, httperrors.APIError{Code: "INVALID_TOKEN", Message: "Invalid token"}
	case errors.Is(err, authsvc.ErrStaleToken):
		return http.StatusUnauthorized, httperrors.APIError{Code: "STALE_TOKEN", Message: "Invalid refresh token"}
	case errors.Is(err, authsvc.ErrUnauthenticated):
		return http.StatusUnauthorized, httperrors.APIError{Code: "UNAUTHENTICATED", Message: "No access token provided"}
	case errors.Is(err, authsvc.ErrPrincipalNotFound):
		return http.StatusNotFound, httperrors.APIError{Code: "PRINCIPAL_NOT_FOUND", Message: "User not found"}
	case errors.Is(err, authsvc.ErrForbidden):
		return http.StatusForbidden, httperrors.APIError{Code: "FORBIDDEN", Message: "Access denied - admin only"}
	case errors.Is(err, authsvc.ErrStoreUnavailable):
		return http.StatusInternalServerError, httperrors.APIError{Code: "STORE_UNAVAILABLE", Message: "credential store is unavailable"}
	default:
		return http.StatusInternalServerError, httperrors.APIError{Code: "INTERNAL_ERROR", Message: "internal server error"}
	}
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}
