package interfaces

import (
	"context"

	"github.com/mate-desktop/mate-release/pkg/domain/model"
)

// ReceiverUseCase handles release notifications accepted by the local receiver
type ReceiverUseCase interface {
	// ProcessNotification processes a verified notification
	ProcessNotification(ctx context.Context, n *model.ReceivedNotification) error
}
