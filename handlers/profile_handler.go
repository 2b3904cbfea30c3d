package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gorillaDoAPI/internal/progression"
	"gorillaDoAPI/internal/types/profile"
	"gorillaDoAPI/middleware"
	"gorillaDoAPI/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	p, err := h.profileService.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, &profile.ProfileResponse{
		Profile:       p,
		XPToNextLevel: progression.LevelThreshold(p.Level) - p.XP,
	})
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req profile.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.profileService.UpdateProfileByClerkID(ctx, clerkID, &req)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.profileService.DeleteProfileByClerkID(ctx, clerkID); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

func (h *ProfileHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	badges, err := h.profileService.GetBadges(ctx, clerkID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, badges)
}

func (h *ProfileHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.profileService.GetUserStats(ctx, clerkID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithDomainError maps service errors onto HTTP statuses so every
// handler answers the same way for the same failure.
func respondWithDomainError(w http.ResponseWriter, err error) {
	var validationErr *progression.ValidationError
	var conflictErr *progression.ConflictError
	var storeErr *progression.StoreError

	switch {
	case errors.Is(err, progression.ErrAlreadyCompleted):
		respondWithError(w, http.StatusConflict, "Task already completed for this day")
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &conflictErr):
		respondWithError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &storeErr) && storeErr.Retryable:
		respondWithError(w, http.StatusServiceUnavailable, "Temporary storage problem, please retry")
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
