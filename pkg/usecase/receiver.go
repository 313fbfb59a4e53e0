package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/model"
)

// Receiver logs and keeps notifications accepted by the local receiver
type Receiver struct {
	mu       sync.Mutex
	received []*model.ReceivedNotification
}

// NewReceiver creates a new Receiver
func NewReceiver() *Receiver {
	return &Receiver{}
}

// ProcessNotification validates the payload and records it
func (uc *Receiver) ProcessNotification(ctx context.Context, n *model.ReceivedNotification) error {
	logger := ctxlog.From(ctx)

	if err := n.Payload.Validate(); err != nil {
		return goerr.Wrap(err, "invalid release notification", goerr.V("nonce", n.Nonce))
	}

	logger.Info("Received release notification",
		"nonce", n.Nonce,
		"signed", n.Signed,
		"user_agent", n.UserAgent,
		"repo", n.Payload.Repo,
		"tag", n.Payload.Tag,
		"files", len(n.Payload.Files),
	)

	if !n.Signed {
		logger.Warn("Notification was not signed", "nonce", n.Nonce)
	}

	uc.mu.Lock()
	uc.received = append(uc.received, n)
	uc.mu.Unlock()
	return nil
}

// Received returns every accepted notification in arrival order
func (uc *Receiver) Received() []*model.ReceivedNotification {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]*model.ReceivedNotification(nil), uc.received...)
}
