package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/mate-desktop/mate-release/pkg/domain/model"
	"github.com/mate-desktop/mate-release/pkg/usecase"
)

func TestReceiver_ProcessNotification(t *testing.T) {
	valid := func() *model.NotificationPayload {
		return &model.NotificationPayload{
			Name:    "caja",
			Version: "1.28.1",
			Tag:     "v1.28.1",
			Repo:    "mate-desktop/caja",
			Files: []model.PayloadFile{
				{Name: "caja-1.28.1.tar.xz", Size: 10, URL: "https://example.com/caja-1.28.1.tar.xz"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *model.NotificationPayload)
		signed  bool
		wantErr bool
	}{
		{
			name:    "Signed notification",
			signed:  true,
			wantErr: false,
		},
		{
			name:    "Unsigned notification is accepted",
			signed:  false,
			wantErr: false,
		},
		{
			name:    "Tag does not match version",
			mutate:  func(p *model.NotificationPayload) { p.Tag = "v9.9.9" },
			wantErr: true,
		},
		{
			name:    "Repo does not match name",
			mutate:  func(p *model.NotificationPayload) { p.Repo = "mate-desktop/marco" },
			wantErr: true,
		},
		{
			name:    "Draft release",
			mutate:  func(p *model.NotificationPayload) { p.Draft = true },
			wantErr: true,
		},
		{
			name:    "File without URL",
			mutate:  func(p *model.NotificationPayload) { p.Files[0].URL = "" },
			wantErr: true,
		},
		{
			name:    "Missing name",
			mutate:  func(p *model.NotificationPayload) { p.Name = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewReceiver()
			payload := valid()
			if tt.mutate != nil {
				tt.mutate(payload)
			}

			err := uc.ProcessNotification(context.Background(), &model.ReceivedNotification{
				Nonce:      "ABCD",
				Signed:     tt.signed,
				ReceivedAt: time.Now(),
				Payload:    payload,
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("ProcessNotification() error = %v, wantErr %v", err, tt.wantErr)
			}

			wantCount := 1
			if tt.wantErr {
				wantCount = 0
			}
			if got := len(uc.Received()); got != wantCount {
				t.Errorf("Received() count = %d, want %d", got, wantCount)
			}
		})
	}
}
