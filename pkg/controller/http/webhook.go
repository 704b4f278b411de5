package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

// maxPayloadSize is the largest payload GitHub delivers (25 MB)
const maxPayloadSize = 25 << 20

var errInvalidSignature = goerr.New("invalid webhook signature")

// WebhookHandler receives GitHub release webhooks and hands them to the
// webhook use case
type WebhookHandler struct {
	secret    []byte
	webhookUC interfaces.WebhookUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, webhookUC interfaces.WebhookUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:    []byte(secret),
		webhookUC: webhookUC,
	}
}

// Handle verifies, parses and forwards one webhook delivery
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.readSigned(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errInvalidSignature) {
			status = http.StatusUnauthorized
		}
		ctxlog.From(ctx).Warn("rejected webhook delivery", "error", err)
		writeError(ctx, w, err, status)
		return
	}

	event, err := newWebhookEvent(r.Header, body)
	if err != nil {
		ctxlog.From(ctx).Warn("unparsable webhook payload", "error", err)
		writeError(ctx, w, err, http.StatusBadRequest)
		return
	}

	logger := ctxlog.From(ctx).With("delivery_id", event.ID, "event", event.Type)
	ctx = ctxlog.With(ctx, logger)

	if err := h.webhookUC.ProcessEvent(ctx, event); err != nil {
		logger.Error("failed to process webhook event", "error", err)
		writeError(ctx, w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "success",
		"id":     event.ID,
	}); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// readSigned reads the request body and checks X-Hub-Signature-256 against it
func (h *WebhookHandler) readSigned(r *http.Request) ([]byte, error) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read request body")
	}

	sig, ok := strings.CutPrefix(r.Header.Get("X-Hub-Signature-256"), "sha256=")
	if !ok || !h.validMAC(body, sig) {
		return nil, errInvalidSignature
	}
	return body, nil
}

func (h *WebhookHandler) validMAC(body []byte, sig string) bool {
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// newWebhookEvent builds a WebhookEvent from the delivery headers and the
// payload parsed by go-github
func newWebhookEvent(header http.Header, body []byte) (*model.WebhookEvent, error) {
	eventType := header.Get("X-GitHub-Event")
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse webhook payload", goerr.V("event", eventType))
	}

	id := header.Get("X-GitHub-Delivery")
	if id == "" {
		id = uuid.NewString()
	}

	event := &model.WebhookEvent{
		ID:         id,
		Type:       model.EventTypeUnknown,
		ReceivedAt: time.Now(),
		RawPayload: body,
	}

	switch e := payload.(type) {
	case *github.ReleaseEvent:
		event.Type = model.EventTypeRelease
		event.Action = e.GetAction()
		event.Repository = e.GetRepo().GetFullName()
		event.Sender = e.GetSender().GetLogin()
	case *github.PingEvent:
		event.Type = model.EventTypePing
	}

	return event, nil
}
