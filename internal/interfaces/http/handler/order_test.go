package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderQueries struct {
	mock.Mock
}

func (m *mockOrderQueries) GetOrder(ctx context.Context, id uuid.UUID) (*invoicing.OrderView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*invoicing.OrderView)
	return view, args.Error(1)
}

func (m *mockOrderQueries) ListOrders(ctx context.Context, payerName string) (*appinvoicing.OrderList, error) {
	args := m.Called(ctx, payerName)
	list, _ := args.Get(0).(*appinvoicing.OrderList)
	return list, args.Error(1)
}

var testUploadSettings = UploadSettings{CodePrefix: "TEST", StartingNumber: 0, MaxFileSize: 1024}

func setupOrderRouter(bus *mockBus, queries *mockOrderQueries) *gin.Engine {
	h := NewOrderHandler(bus, queries, testUploadSettings)
	router := newTestRouter()
	orders := router.Group("/api/v1/orders")
	orders.GET("", h.List)
	orders.POST("", h.Create)
	orders.POST("/file", h.Upload)
	orders.GET("/:id", h.Get)
	orders.PUT("/:id", h.Update)
	orders.PATCH("/:id", h.Update)
	orders.DELETE("/:id", h.Delete)
	return router
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/file", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestOrderHandler_List(t *testing.T) {
	bus, queries := new(mockBus), new(mockOrderQueries)
	queries.On("ListOrders", mock.Anything, "ana").Return(&appinvoicing.OrderList{Orders: []invoicing.OrderView{}}, nil)

	w := doJSON(setupOrderRouter(bus, queries), http.MethodGet, "/api/v1/orders?payer_name=ana", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"orders":[]}}`, w.Body.String())
}

func TestOrderHandler_Create(t *testing.T) {
	bus, queries := new(mockBus), new(mockOrderQueries)
	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	bus.On("Handle", mock.Anything, mock.MatchedBy(func(cmd invoicing.AddOrder) bool {
		return cmd.PayerName == "ANA" && cmd.Date.Equal(want) && cmd.Quantity.Equal(decimal.NewFromInt(150)) && cmd.Number == nil
	})).Return([]any{&invoicing.OrderView{ID: uuid.New(), PayerName: "ANA", Date: "2024-01-31", Quantity: decimal.NewFromInt(150)}}, nil)

	w := doJSON(setupOrderRouter(bus, queries), http.MethodPost, "/api/v1/orders",
		`{"payer_name":"ANA","date":"2024-01-31","quantity":150}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var view invoicing.OrderView
	decodeData(t, w, &view)
	assert.Equal(t, "2024-01-31", view.Date)
}

func TestOrderHandler_CreateMissingAttributes(t *testing.T) {
	bus, queries := new(mockBus), new(mockOrderQueries)
	bus.On("Handle", mock.Anything, mock.AnythingOfType("invoicing.AddOrder")).
		Return(nil, shared.NewDomainError(shared.CodeInvalidCommand, "All attributes must be provided, missing: date"))

	w := doJSON(setupOrderRouter(bus, queries), http.MethodPost, "/api/v1/orders", `{"payer_name":"ANA","quantity":150}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_COMMAND", decodeError(t, w).Code)
}

func TestOrderHandler_UpdateParsesDate(t *testing.T) {
	id := uuid.New()
	bus, queries := new(mockBus), new(mockOrderQueries)
	bus.On("Handle", mock.Anything, mock.MatchedBy(func(cmd invoicing.UpdateOrder) bool {
		date, ok := cmd.Date.Get()
		return cmd.ID == id && ok && date.Format(invoicing.DateLayout) == "2024-02-01" && !cmd.Quantity.IsPresent()
	})).Return([]any{&invoicing.OrderView{ID: id, Date: "2024-02-01"}}, nil)
	router := setupOrderRouter(bus, queries)

	w := doJSON(router, http.MethodPatch, "/api/v1/orders/"+id.String(), `{"date":"2024-02-01"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPatch, "/api/v1/orders/"+id.String(), `{"date":"01/02/2024"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	bus.AssertNumberOfCalls(t, "Handle", 1)
}

func TestOrderHandler_UpdateAlreadyNumbered(t *testing.T) {
	id := uuid.New()
	bus, queries := new(mockBus), new(mockOrderQueries)
	bus.On("Handle", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError(shared.CodeAlreadyNumbered, "Order already has a number"))

	w := doJSON(setupOrderRouter(bus, queries), http.MethodPut, "/api/v1/orders/"+id.String(), `{"number":"TEST-0002"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderHandler_Delete(t *testing.T) {
	id := uuid.New()
	bus, queries := new(mockBus), new(mockOrderQueries)
	bus.On("Handle", mock.Anything, invoicing.DeleteOrder{ID: id}).Return([]any{id.String()}, nil)

	w := doJSON(setupOrderRouter(bus, queries), http.MethodDelete, "/api/v1/orders/"+id.String(), "")

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOrderHandler_UploadUsesConfiguredDefaults(t *testing.T) {
	statement := []byte("<html><table></table></html>")
	bus, queries := new(mockBus), new(mockOrderQueries)
	bus.On("Handle", mock.Anything, invoicing.UploadOrders{File: statement, CodeFixedPart: "TEST", CodeStartingNumber: 0}).
		Return([]any{[]invoicing.OrderView(nil)}, nil)

	w := httptest.NewRecorder()
	setupOrderRouter(bus, queries).ServeHTTP(w, multipartUpload(t, nil, "statement.html", statement))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"orders":[]}}`, w.Body.String())
}

func TestOrderHandler_UploadOverridesNumbering(t *testing.T) {
	statement := []byte("<html></html>")
	bus, queries := new(mockBus), new(mockOrderQueries)
	number := "FAC-0008"
	bus.On("Handle", mock.Anything, invoicing.UploadOrders{File: statement, CodeFixedPart: "FAC", CodeStartingNumber: 7}).
		Return([]any{[]invoicing.OrderView{{ID: uuid.New(), PayerName: "ANA", Number: &number}}}, nil)

	w := httptest.NewRecorder()
	req := multipartUpload(t, map[string]string{"code_fixed_part": "FAC", "code_starting_number": "7"}, "statement.html", statement)
	setupOrderRouter(bus, queries).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var list appinvoicing.OrderList
	decodeData(t, w, &list)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "FAC-0008", *list.Orders[0].Number)
}

func TestOrderHandler_UploadRejections(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		busErr     error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "no file part",
			req:        func(t *testing.T) *http.Request { return multipartUpload(t, map[string]string{"code_fixed_part": "X"}, "", nil) },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "No file part in the request",
		},
		{
			name:       "file too large",
			req:        func(t *testing.T) *http.Request { return multipartUpload(t, nil, "big.html", []byte(strings.Repeat("x", 2048))) },
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "negative starting number",
			req:        func(t *testing.T) *http.Request { return multipartUpload(t, map[string]string{"code_starting_number": "-1"}, "s.html", []byte("x")) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate statement",
			req:        func(t *testing.T) *http.Request { return multipartUpload(t, nil, "s.html", []byte("<html></html>")) },
			busErr:     shared.NewDomainError(shared.CodeDuplicateUpload, "Statement already uploaded"),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unreadable statement",
			req:        func(t *testing.T) *http.Request { return multipartUpload(t, nil, "s.html", []byte("plain text")) },
			busErr:     shared.NewDomainError(shared.CodeInvalidStatement, "No transaction table found"),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus, queries := new(mockBus), new(mockOrderQueries)
			bus.On("Handle", mock.Anything, mock.AnythingOfType("invoicing.UploadOrders")).Return(nil, tt.busErr)

			w := httptest.NewRecorder()
			setupOrderRouter(bus, queries).ServeHTTP(w, tt.req(t))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, w).Message)
			}
			if tt.busErr == nil {
				bus.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
			}
		})
	}
}
