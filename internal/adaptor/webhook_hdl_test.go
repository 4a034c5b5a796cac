package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/dto/response"
	"homestay-booking/internal/usecase"
	"homestay-booking/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWebhookService struct {
	ingestResult *response.IngestResponse
	ingestErr    error
}

func (s *stubWebhookService) Ingest(ctx context.Context, req *request.BankTransferEvent) (*response.IngestResponse, error) {
	return s.ingestResult, s.ingestErr
}

func (s *stubWebhookService) ListUnmatched(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	return nil, nil
}

func (s *stubWebhookService) ManualMatch(ctx context.Context, req *request.ManualMatchRequest) (*response.IngestResponse, error) {
	return nil, nil
}

func postTransfer(t *testing.T, handler *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/bank-transfer", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.IngestBankTransfer(rec, req)
	return rec
}

const validTransferBody = `{
	"reference": "TRX-001",
	"amount": 1000000,
	"description": "BK-20260301-100000-0001",
	"timestamp": "2026-03-01T10:00:00Z"
}`

func TestIngestBankTransferReturnsCreated(t *testing.T) {
	svc := &stubWebhookService{
		ingestResult: &response.IngestResponse{
			Outcome:     usecase.OutcomeMatched,
			BookingCode: "BK-20260301-100000-0001",
		},
	}
	handler := NewWebhookHandler(svc, zap.NewNop())

	rec := postTransfer(t, handler, validTransferBody)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Status bool                    `json:"status"`
		Data   response.IngestResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Status)
	assert.Equal(t, usecase.OutcomeMatched, envelope.Data.Outcome)
}

func TestIngestBankTransferReplayReturnsCreated(t *testing.T) {
	svc := &stubWebhookService{
		ingestResult: &response.IngestResponse{Outcome: usecase.OutcomeReplayed},
	}
	handler := NewWebhookHandler(svc, zap.NewNop())

	rec := postTransfer(t, handler, validTransferBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIngestBankTransferRejectsBadPayload(t *testing.T) {
	handler := NewWebhookHandler(&stubWebhookService{}, zap.NewNop())

	t.Run("malformed json", func(t *testing.T) {
		rec := postTransfer(t, handler, `{"reference":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := postTransfer(t, handler, `{"reference": "TRX-002"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestIngestBankTransferMapsServiceErrors(t *testing.T) {
	svc := &stubWebhookService{ingestErr: apperr.Validation("invalid timestamp, want RFC3339")}
	handler := NewWebhookHandler(svc, zap.NewNop())

	rec := postTransfer(t, handler, validTransferBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
