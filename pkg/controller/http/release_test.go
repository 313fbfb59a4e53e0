package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/mate-desktop/mate-release/pkg/controller/http"
	"github.com/mate-desktop/mate-release/pkg/domain/model"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/infra/notify"
	"github.com/mate-desktop/mate-release/pkg/usecase"
	"github.com/mate-desktop/mate-release/pkg/utils/signature"
)

func testPayload() *model.NotificationPayload {
	return &model.NotificationPayload{
		Name:        "caja",
		Version:     "1.28.1",
		Tag:         "v1.28.1",
		Repo:        "mate-desktop/caja",
		News:        "Changes since the last release: ...",
		CreatedAt:   "2025-03-01T12:30:00+00:00",
		PublishedAt: "2025-03-01T12:30:00+00:00",
		Files: []model.PayloadFile{
			{Name: "caja-1.28.1.tar.xz", Size: 1024, URL: "https://github.com/mate-desktop/caja/releases/download/v1.28.1/caja-1.28.1.tar.xz"},
		},
	}
}

func TestReleaseHandler_SignatureVerification(t *testing.T) {
	secret := "test-secret"
	body, err := testPayload().Marshal()
	gt.NoError(t, err)

	tests := []struct {
		name           string
		nonce          string
		signature      string
		wantStatusCode int
	}{
		{
			name:           "Valid signature",
			nonce:          "ABCD1234",
			signature:      signature.Compute(secret, "ABCD1234", body),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "Signature for another nonce",
			nonce:          "ABCD1235",
			signature:      signature.Compute(secret, "ABCD1234", body),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Invalid signature",
			nonce:          "ABCD1234",
			signature:      "DEADBEEF",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Missing signature",
			nonce:          "ABCD1234",
			signature:      "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Missing nonce",
			nonce:          "",
			signature:      signature.Compute(secret, "", body),
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := controller.NewReleaseHandler(secret, true, usecase.NewReceiver())

			req := httptest.NewRequest(http.MethodPost, "/release", bytes.NewReader(body))
			if tt.nonce != "" {
				req.Header.Set(types.HeaderNonce, tt.nonce)
			}
			if tt.signature != "" {
				req.Header.Set(types.HeaderSignature, tt.signature)
			}

			w := httptest.NewRecorder()
			handler.Handle(w, req)

			if w.Code != tt.wantStatusCode {
				t.Errorf("Handle() status = %v, want %v, body = %s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestReleaseHandler_PayloadParsing(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "Not JSON",
			body:           "hello",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Unknown field",
			body:           `{"name":"caja","unexpected":true}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Inconsistent payload",
			body:           `{"name":"caja","version":"1.0.0","tag":"v2.0.0","repo":"mate-desktop/caja","files":[]}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := controller.NewReleaseHandler("", false, usecase.NewReceiver())

			req := httptest.NewRequest(http.MethodPost, "/release", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			handler.Handle(w, req)

			if w.Code != tt.wantStatusCode {
				t.Errorf("Handle() status = %v, want %v, body = %s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestServer_NotifyClientIntegration(t *testing.T) {
	ctx := context.Background()
	secret := "integration-test-secret"
	receiver := usecase.NewReceiver()

	server, err := controller.NewServer(ctx, receiver,
		controller.WithAddr("localhost:0"),
		controller.WithSecret(secret),
	)
	gt.NoError(t, err)

	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	t.Run("signed notification is accepted", func(t *testing.T) {
		client := notify.New(notify.WithURL(ts.URL+"/release"), notify.WithSecret(secret))
		gt.NoError(t, client.Notify(ctx, testPayload()))

		received := receiver.Received()
		gt.Array(t, received).Length(1)
		gt.Bool(t, received[0].Signed).True()
		gt.Value(t, received[0].UserAgent).Equal(types.NotifyUserAgent)
		gt.Value(t, received[0].Payload.Tag).Equal("v1.28.1")
		gt.Value(t, len(received[0].Nonce)).Equal(32)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		client := notify.New(notify.WithURL(ts.URL+"/release"), notify.WithSecret("wrong"))
		err := client.Notify(ctx, testPayload())
		gt.Bool(t, errors.Is(err, types.ErrNotifyFailed)).True()
	})

	t.Run("unsigned notification is rejected when secret is set", func(t *testing.T) {
		client := notify.New(notify.WithURL(ts.URL + "/release"))
		err := client.Notify(ctx, testPayload())
		gt.Bool(t, errors.Is(err, types.ErrNotifyFailed)).True()
	})
}

func TestHealthEndpoint(t *testing.T) {
	server, err := controller.NewServer(context.Background(), usecase.NewReceiver())
	gt.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)

	var status map[string]string
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	gt.Value(t, status["status"]).Equal("healthy")
	gt.Value(t, status["service"]).Equal("mate-release")
}
