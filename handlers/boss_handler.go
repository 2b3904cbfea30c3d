package handlers

import (
	"context"
	"net/http"
	"time"

	"gorillaDoAPI/middleware"
	"gorillaDoAPI/services"
)

type BossHandler struct {
	bossService *services.BossService
}

func NewBossHandler(bossService *services.BossService) *BossHandler {
	return &BossHandler{
		bossService: bossService,
	}
}

// GetArena returns unlock status, requirements and the active fight if any.
func (h *BossHandler) GetArena(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	arena, err := h.bossService.GetArena(ctx, clerkID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, arena)
}

func (h *BossHandler) StartFight(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	fight, err := h.bossService.StartFight(ctx, clerkID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, fight)
}
