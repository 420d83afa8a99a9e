package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/internal/payments"
	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
)

type stubPaymentService struct {
	request func(ctx context.Context, input payments.RequestInput) (*payments.PaymentRequest, error)
	deposit func(ctx context.Context, quoteID, bakerID uuid.UUID) (int64, error)
}

func (s stubPaymentService) RecordNotification(ctx context.Context, input payments.NotificationInput) (*payments.RecordResult, error) {
	return nil, nil
}

func (s stubPaymentService) RequestPayment(ctx context.Context, input payments.RequestInput) (*payments.PaymentRequest, error) {
	if s.request != nil {
		return s.request(ctx, input)
	}
	return nil, nil
}

func (s stubPaymentService) RequiredDeposit(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (int64, error) {
	if s.deposit != nil {
		return s.deposit(ctx, quoteID, bakerID)
	}
	return 0, nil
}

func (s stubPaymentService) ListByQuote(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) ([]models.Payment, error) {
	return nil, nil
}

func TestPaymentRequestCreateSuccess(t *testing.T) {
	bakerID := uuid.New()
	quoteID := uuid.New()
	svc := stubPaymentService{
		request: func(_ context.Context, input payments.RequestInput) (*payments.PaymentRequest, error) {
			if input.QuoteID != quoteID || input.BakerID != bakerID {
				t.Fatalf("ids not threaded: %s %s", input.QuoteID, input.BakerID)
			}
			if input.Type != enums.PaymentTypeDeposit {
				t.Fatalf("unexpected payment type: %s", input.Type)
			}
			return &payments.PaymentRequest{
				QuoteID:          quoteID,
				Type:             enums.PaymentTypeDeposit,
				AmountCents:      2500,
				OutstandingCents: 10000,
			}, nil
		},
	}
	handler := PaymentRequestCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/"+quoteID.String()+"/payment-requests", strings.NewReader(`{"type":"deposit"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withQuoteRoute(req, bakerID, quoteID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data payments.PaymentRequest `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AmountCents != 2500 {
		t.Fatalf("unexpected amount: %d", envelope.Data.AmountCents)
	}
}

func TestPaymentRequestCreateRejectsUnknownType(t *testing.T) {
	handler := PaymentRequestCreate(stubPaymentService{}, nil)

	quoteID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/"+quoteID.String()+"/payment-requests", strings.NewReader(`{"type":"tip"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withQuoteRoute(req, uuid.New(), quoteID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPaymentRequestCreateSurfacesAlreadyPaid(t *testing.T) {
	svc := stubPaymentService{
		request: func(_ context.Context, _ payments.RequestInput) (*payments.PaymentRequest, error) {
			return nil, pkgerrors.New(pkgerrors.CodeAlreadyPaid, "quote is fully paid")
		},
	}
	handler := PaymentRequestCreate(svc, nil)

	quoteID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/"+quoteID.String()+"/payment-requests", strings.NewReader(`{"type":"remaining"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withQuoteRoute(req, uuid.New(), quoteID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestRequiredDepositSuccess(t *testing.T) {
	quoteID := uuid.New()
	svc := stubPaymentService{
		deposit: func(_ context.Context, gotQuote, _ uuid.UUID) (int64, error) {
			if gotQuote != quoteID {
				t.Fatalf("unexpected quote id: %s", gotQuote)
			}
			return 3300, nil
		},
	}
	handler := RequiredDeposit(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/"+quoteID.String()+"/deposit", nil)
	req = withQuoteRoute(req, uuid.New(), quoteID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data requiredDepositResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DepositCents != 3300 {
		t.Fatalf("unexpected deposit: %d", envelope.Data.DepositCents)
	}
}
