package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/permitdesk/permitdesk/pkg/models"
	"github.com/permitdesk/permitdesk/pkg/repository"
)

type SettingsHandler struct {
	settingRepo repository.SettingRepo
}

func NewSettingsHandler(sr repository.SettingRepo) *SettingsHandler {
	return &SettingsHandler{settingRepo: sr}
}

func (h *SettingsHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingRepo.ListSettings(r.Context())
	if err != nil {
		writeError(w, "failed to list settings", http.StatusInternalServerError)
		return
	}
	if settings == nil {
		settings = []models.Setting{}
	}

	writeJSON(w, settings, http.StatusOK)
}

type upsertSettingRequest struct {
	Value string `json:"value"`
}

func (h *SettingsHandler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(mux.Vars(r)["key"])
	if key == "" {
		writeError(w, "setting key is required", http.StatusBadRequest)
		return
	}

	var req upsertSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := h.settingRepo.UpsertSetting(r.Context(), key, req.Value); err != nil {
		writeError(w, "failed to store setting", http.StatusInternalServerError)
		return
	}

	setting, err := h.settingRepo.GetSetting(r.Context(), key)
	if err != nil || setting == nil {
		writeError(w, "failed to load setting", http.StatusInternalServerError)
		return
	}

	writeJSON(w, setting, http.StatusOK)
}
