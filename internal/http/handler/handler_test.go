package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ticketapi/internal/model"
	"ticketapi/internal/service"
	serviceMocks "ticketapi/internal/service/mocks"
	"ticketapi/internal/storage"
)

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListEvents(t *testing.T) {
	mockSvc := new(serviceMocks.MockEventService)
	app := fiber.New()
	app.Get("/api/events", ListEvents(mockSvc))
	app.Get("/admin/events", AdminListEvents(mockSvc))

	t.Run("public hides closed events", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 5, 10, false).
			Return(&service.EventListResult{Items: []model.Event{{ID: uuid.NewString(), Title: "Jazz Night"}}, Total: 11}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/events?limit=5&offset=10", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.EventListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 11, result.Total)
	})

	t.Run("admin includes closed events", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0, true).Return(&service.EventListResult{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/events", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/events?offset=x", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestGetEvent(t *testing.T) {
	mockSvc := new(serviceMocks.MockEventService)
	app := fiber.New()
	app.Get("/api/events/:id", GetEvent(mockSvc))

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrEventNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/events/"+id, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "EVENT_NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/events/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestCreateEvent(t *testing.T) {
	mockSvc := new(serviceMocks.MockEventService)
	app := fiber.New()
	app.Post("/admin/events", CreateEvent(mockSvc))

	starts := time.Date(2026, 12, 1, 19, 0, 0, 0, time.UTC)
	mockSvc.On("Create", mock.Anything, service.EventInput{
		Title: "Jazz Night", StartsAt: starts, Price: 150000, TotalSeats: 100,
	}).Return(&model.Event{ID: "ev-1", Title: "Jazz Night"}, nil).Once()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.EventInput) bool { return in.Title == "" })).
		Return(nil, &service.ValidationError{Field: "title", Message: "is required"}).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/admin/events",
		`{"title":"Jazz Night","starts_at":"2026-12-01T19:00:00Z","price":150000,"total_seats":100}`))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = app.Test(jsonRequest(http.MethodPost, "/admin/events", `{"starts_at":"2026-12-01T19:00:00Z"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "title: is required", body.Error.Message)

	resp, _ = app.Test(jsonRequest(http.MethodPost, "/admin/events", `{not json`))
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)

	mockSvc.AssertExpectations(t)
}

func TestCreateOrder(t *testing.T) {
	eventID := uuid.NewString()
	body := `{"event_id":"` + eventID + `","customer_name":"Somchai","email":"s@example.com","phone":"0812345678","quantity":2}`

	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantErr  string
	}{
		{name: "created", body: body, wantCode: http.StatusCreated},
		{name: "sold out", body: body, svcErr: service.ErrSoldOut, wantCode: http.StatusConflict, wantErr: "SOLD_OUT"},
		{name: "event closed", body: body, svcErr: service.ErrEventClosed, wantCode: http.StatusConflict, wantErr: "EVENT_CLOSED"},
		{name: "link required", body: body, svcErr: service.ErrLinkRequired, wantCode: http.StatusForbidden, wantErr: "LINK_REQUIRED"},
		{name: "link used up", body: body, svcErr: service.ErrLinkInvalid, wantCode: http.StatusGone, wantErr: "LINK_INVALID"},
		{name: "unexpected", body: body, svcErr: errors.New("db gone"), wantCode: http.StatusInternalServerError, wantErr: "INTERNAL_ERROR"},
		{name: "bad event id", body: `{"event_id":"x"}`, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockOrderService)
			app := fiber.New()
			app.Post("/api/orders", CreateOrder(mockSvc))

			if tt.svcErr != nil {
				mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.svcErr).Once()
			} else {
				mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
					return in.EventID == eventID && in.Quantity == 2
				})).Return(&model.Order{Code: "TK-261017-ABCDEF", Status: model.OrderPending}, nil).Maybe()
			}

			resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/orders", tt.body))
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, decodeError(t, resp).Error.Code)
				return
			}
			var o model.Order
			json.NewDecoder(resp.Body).Decode(&o)
			assert.Equal(t, "TK-261017-ABCDEF", o.Code)
		})
	}
}

func slipForm(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	part.Write([]byte(content))
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadSlip(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Post("/api/orders/:code/slip", UploadSlip(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := slipForm(t, "slip", "slip.png", "image/png", "\x89PNG")
		mockSvc.On("UploadSlip", mock.Anything, "TK-1", mock.MatchedBy(func(up service.SlipUpload) bool {
			return up.Filename == "slip.png" && up.ContentType == "image/png" && up.Size == 4 && up.Reader != nil
		})).Return(&model.Order{Code: "TK-1", Status: model.OrderPaid, HasSlip: true}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/orders/TK-1/slip", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var o model.Order
		json.NewDecoder(resp.Body).Decode(&o)
		assert.True(t, o.HasSlip)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/orders/TK-1/slip", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("order already paid", func(t *testing.T) {
		body, ct := slipForm(t, "slip", "slip.pdf", "application/pdf", "%PDF")
		mockSvc.On("UploadSlip", mock.Anything, "TK-2", mock.Anything).Return(nil, service.ErrInvalidTransition).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/orders/TK-2/slip", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INVALID_TRANSITION", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestAdminOrderActions(t *testing.T) {
	mockSvc := new(serviceMocks.MockOrderService)
	app := fiber.New()
	app.Get("/admin/orders", AdminListOrders(mockSvc))
	app.Get("/admin/orders/:code/slip", AdminGetSlip(mockSvc))
	app.Post("/admin/orders/:code/reject", RejectOrder(mockSvc))
	app.Post("/admin/orders/:code/cancel", AdminCancelOrder(mockSvc))
	app.Post("/api/orders/:code/cancel", CancelOrder(mockSvc))

	t.Run("list with filters", func(t *testing.T) {
		eventID := uuid.NewString()
		mockSvc.On("List", mock.Anything, service.OrderListFilter{Status: "paid", EventID: eventID, Limit: 10, Offset: 0}).
			Return(&service.OrderListResult{Items: []model.Order{{Code: "TK-1"}}, Total: 1}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders?status=paid&event_id="+eventID, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("stream slip", func(t *testing.T) {
		mockSvc.On("OpenSlip", mock.Anything, "TK-1").
			Return(io.NopCloser(strings.NewReader("png-bytes")), storage.ObjectInfo{ContentType: "image/png", Size: 9}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders/TK-1/slip", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "png-bytes", string(b))
	})

	t.Run("redirect to presigned slip", func(t *testing.T) {
		mockSvc.On("SlipURL", mock.Anything, "TK-1").Return("https://minio.local/slip?sig=1", nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders/TK-1/slip?redirect=true", nil))
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://minio.local/slip?sig=1", resp.Header.Get("Location"))
	})

	t.Run("no slip", func(t *testing.T) {
		mockSvc.On("OpenSlip", mock.Anything, "TK-9").Return(nil, nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders/TK-9/slip", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("reject without body", func(t *testing.T) {
		mockSvc.On("Reject", mock.Anything, "TK-1", "").Return(&model.Order{Status: model.OrderRejected}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/admin/orders/TK-1/reject", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("admin cancel returns refund link", func(t *testing.T) {
		mockSvc.On("CancelByAdmin", mock.Anything, "TK-1", "venue flooded").Return(&service.CancelResult{
			Order:  &model.Order{Code: "TK-1", Status: model.OrderCancelled},
			Refund: &model.RefundLink{Token: "rf-1", Status: model.RefundOpen},
		}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/admin/orders/TK-1/cancel", `{"reason":"venue flooded"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res service.CancelResult
		json.NewDecoder(resp.Body).Decode(&res)
		require.NotNil(t, res.Refund)
		assert.Equal(t, "rf-1", res.Refund.Token)
	})

	t.Run("customer cannot cancel a paid order", func(t *testing.T) {
		mockSvc.On("CancelByCustomer", mock.Anything, "TK-1").Return(nil, service.ErrInvalidTransition).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/orders/TK-1/cancel", nil))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestLinks(t *testing.T) {
	mockSvc := new(serviceMocks.MockLinkService)
	app := fiber.New()
	app.Get("/api/links/:token", ResolveLink(mockSvc))
	app.Post("/admin/links", GenerateLink(mockSvc))
	app.Get("/admin/links", ListLinks(mockSvc))
	app.Delete("/admin/links/:token", RevokeLink(mockSvc))

	eventID := uuid.NewString()

	mockSvc.On("Resolve", mock.Anything, "used").Return(nil, service.ErrLinkInvalid).Once()
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/links/used", nil))
	assert.Equal(t, http.StatusGone, resp.StatusCode)

	mockSvc.On("Generate", mock.Anything, service.GenerateLinkInput{EventID: eventID, Label: "press", MaxUses: 5, TTL: 48 * time.Hour}).
		Return(&model.GeneratedLink{Token: "tok", EventID: eventID, MaxUses: 5}, nil).Once()
	resp, _ = app.Test(jsonRequest(http.MethodPost, "/admin/links",
		`{"event_id":"`+eventID+`","label":"press","max_uses":5,"ttl_hours":48}`))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	mockSvc.On("ListByEvent", mock.Anything, eventID).Return([]model.GeneratedLink{{Token: "tok"}}, nil).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/admin/links?event_id="+eventID, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/admin/links", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	mockSvc.On("Revoke", mock.Anything, "tok").Return(nil).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/admin/links/tok", nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockSvc.AssertExpectations(t)
}

func TestRefunds(t *testing.T) {
	mockSvc := new(serviceMocks.MockRefundService)
	app := fiber.New()
	app.Post("/api/refunds/:token", SubmitRefund(mockSvc))
	app.Post("/admin/refunds/:token/complete", CompleteRefund(mockSvc))

	details := model.BankDetails{BankName: "KBank", AccountName: "Somchai", AccountNumber: "1234567890"}
	mockSvc.On("Submit", mock.Anything, "rf", details).Return(nil, service.ErrRefundExpired).Once()
	resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/refunds/rf",
		`{"bank_name":"KBank","account_name":"Somchai","account_number":"1234567890"}`))
	assert.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Equal(t, "REFUND_EXPIRED", decodeError(t, resp).Error.Code)

	mockSvc.On("Complete", mock.Anything, "rf").Return(nil, service.ErrRefundState).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodPost, "/admin/refunds/rf/complete", nil))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	auth := new(serviceMocks.MockAuthService)
	orders := new(serviceMocks.MockOrderService)
	RegisterRoutes(app, nil, Services{
		Events:  new(serviceMocks.MockEventService),
		Orders:  orders,
		Links:   new(serviceMocks.MockLinkService),
		Refunds: new(serviceMocks.MockRefundService),
		Auth:    auth,
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("admin routes need a token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("login is reachable without a token", func(t *testing.T) {
		exp := time.Date(2026, 10, 17, 21, 0, 0, 0, time.UTC)
		auth.On("Login", "hunter2").Return("jwt-token", exp, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/admin/login", `{"password":"hunter2"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body loginResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "jwt-token", body.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		auth.On("Login", "nope").Return("", time.Time{}, service.ErrInvalidCredentials).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/admin/login", `{"password":"nope"}`))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Error.Code)
	})

	t.Run("admin route with a valid token", func(t *testing.T) {
		auth.On("Verify", "good").Return(&jwt.RegisteredClaims{Subject: "admin"}, nil).Once()
		orders.On("Confirm", mock.Anything, "TK-1").Return(&model.Order{Code: "TK-1", Status: model.OrderConfirmed}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/admin/orders/TK-1/confirm", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
