package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/macrolog/internal/backup"
	"github.com/dukerupert/macrolog/internal/model"
)

const backupHistoryLimit = 20

type BackupHandler struct {
	manager *backup.Manager
	logger  *slog.Logger
}

func NewBackupHandler(m *backup.Manager, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, logger: logger}
}

type backupRequest struct {
	Key        string `json:"key"`
	Passphrase string `json:"passphrase"`
}

func (h *BackupHandler) backupError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, backup.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, backup.ErrInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, backup.ErrNoPassphrase), errors.Is(err, backup.ErrDecrypt), errors.Is(err, backup.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, op+" failed")
	}
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req backupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, err := h.manager.RunNow(r.Context(), req.Passphrase)
	if err != nil {
		h.backupError(w, "backup", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req backupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := h.manager.Restore(r.Context(), req.Key, req.Passphrase); err != nil {
		h.backupError(w, "restore", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored", "key": req.Key})
}

type backupStatusResponse struct {
	backup.Status
	History []model.Backup `json:"history"`
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	history, err := h.manager.List(backupHistoryLimit)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	if history == nil {
		history = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, backupStatusResponse{Status: h.manager.Status(), History: history})
}
