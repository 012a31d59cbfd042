package api

import (
	"encoding/json"
	"net/http"

	"github.com/medibook/hospital-management/internal/auth"
)

func registerHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		user, err := svc.Register(r.Context(), req.Username, req.Email, req.Password, auth.Role(req.Role))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"user_id": user.ID,
			"role":    user.Role,
		})
	}
}

func loginHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		token, user, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Token:  token,
			UserID: user.ID,
			Role:   string(user.Role),
		})
	}
}
