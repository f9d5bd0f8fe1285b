package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
	"github.com/spherical/flipbook-studio/internal/voice"
)

const maxCommandBytes = 4 * 1024

// VoiceHandler resolves spoken commands to navigation targets.
type VoiceHandler struct {
	logger     *observability.Logger
	classifier *voice.Classifier
}

// NewVoiceHandler creates a new voice command handler.
func NewVoiceHandler(logger *observability.Logger, classifier *voice.Classifier) *VoiceHandler {
	if classifier == nil {
		classifier = voice.NewClassifier()
	}
	return &VoiceHandler{
		logger:     logger.WithComponent("voice-handler"),
		classifier: classifier,
	}
}

// VoiceCommandRequest is the body of POST /api/voice-command.
type VoiceCommandRequest struct {
	Command string `json:"command"`
}

// Resolve handles POST /api/voice-command.
func (h *VoiceHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req VoiceCommandRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxCommandBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.InputRejectedError("invalid request body", err))
		return
	}

	command := strings.TrimSpace(req.Command)
	if command == "" {
		writeError(w, http.StatusBadRequest, domain.InputRejectedError("command is required", nil))
		return
	}

	resp := domain.CommandResolution{Action: domain.ActionUnknown, Message: "Command not recognized"}
	if route, ok := h.classifier.Classify(command); ok {
		resp = domain.CommandResolution{
			Action:  domain.ActionNavigate,
			Page:    string(route),
			Message: fmt.Sprintf("Navigating to %s page", route.Title()),
		}
	}

	h.logger.WithContext(r.Context()).Debug().
		Str("command", command).
		Str("action", resp.Action).
		Str("page", resp.Page).
		Msg("voice command resolved")

	writeJSON(w, http.StatusOK, resp)
}
