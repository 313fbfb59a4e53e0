package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/domain/model"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/utils/signature"
)

const maxBodySize = 10 << 20

// ReleaseHandler accepts signed release notifications
type ReleaseHandler struct {
	secret       string
	requireNonce bool
	receiverUC   interfaces.ReceiverUseCase
}

// NewReleaseHandler creates a new ReleaseHandler
func NewReleaseHandler(secret string, requireNonce bool, receiverUC interfaces.ReceiverUseCase) *ReleaseHandler {
	return &ReleaseHandler{
		secret:       secret,
		requireNonce: requireNonce,
		receiverUC:   receiverUC,
	}
}

// Handle processes notification requests
func (h *ReleaseHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	nonce := r.Header.Get(types.HeaderNonce)
	if nonce == "" && h.requireNonce {
		logger.Warn("Missing nonce header")
		writeError(w, goerr.New("missing nonce"), http.StatusBadRequest)
		return
	}

	sig := r.Header.Get(types.HeaderSignature)
	if h.secret != "" && !signature.Verify(h.secret, nonce, body, sig) {
		logger.Warn("Invalid notification signature", "nonce", nonce)
		writeError(w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	var payload model.NotificationPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		logger.Error("Failed to parse notification payload", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	notification := &model.ReceivedNotification{
		Nonce:      nonce,
		Signed:     h.secret != "",
		UserAgent:  r.UserAgent(),
		ReceivedAt: time.Now(),
		Payload:    &payload,
	}

	if err := h.receiverUC.ProcessNotification(ctx, notification); err != nil {
		logger.Error("Failed to process notification", "error", err)
		writeError(w, err, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "success",
		"tag":    payload.Tag,
	}); err != nil {
		logger.Error("Failed to encode success response", "error", err)
	}
}
