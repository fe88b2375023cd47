package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/abgdnv/inventory/internal/inventory/service"
	"github.com/abgdnv/inventory/internal/platform/logger"
	"github.com/abgdnv/inventory/internal/platform/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockProductService is a testify mock of the ProductService interface
type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) FindAll(ctx context.Context) ([]service.ProductDto, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]service.ProductDto)
	return list, args.Error(1)
}

func (m *mockProductService) FindByID(ctx context.Context, id int) (*service.ProductDto, error) {
	args := m.Called(ctx, id)
	return productOrNil(args.Get(0)), args.Error(1)
}

func (m *mockProductService) Create(ctx context.Context, product service.ProductCreateDto) (*service.ProductDto, error) {
	args := m.Called(ctx, product)
	return productOrNil(args.Get(0)), args.Error(1)
}

func (m *mockProductService) Replace(ctx context.Context, id int, product service.ProductReplaceDto) (*service.ProductDto, error) {
	args := m.Called(ctx, id, product)
	return productOrNil(args.Get(0)), args.Error(1)
}

func (m *mockProductService) UpdatePrice(ctx context.Context, id int, price float64) (*service.ProductDto, error) {
	args := m.Called(ctx, id, price)
	return productOrNil(args.Get(0)), args.Error(1)
}

func (m *mockProductService) DeleteByID(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductService) Sell(ctx context.Context, id int, quantity int) (*service.ProductDto, error) {
	args := m.Called(ctx, id, quantity)
	return productOrNil(args.Get(0)), args.Error(1)
}

func (m *mockProductService) Purchase(ctx context.Context, id int, quantity int) (*service.ProductDto, error) {
	args := m.Called(ctx, id, quantity)
	return productOrNil(args.Get(0)), args.Error(1)
}

func (m *mockProductService) TotalQuantity(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockProductService) QuantityOf(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockProductService) StockExtremes(ctx context.Context) (*service.StockExtremesDto, error) {
	args := m.Called(ctx)
	extremes, _ := args.Get(0).(*service.StockExtremesDto)
	return extremes, args.Error(1)
}

func (m *mockProductService) TotalValue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func productOrNil(v any) *service.ProductDto {
	p, _ := v.(*service.ProductDto)
	return p
}

func newTestHandler(svc service.ProductService) *Handler {
	return NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newRequest(method, target, id, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != "" {
		req.SetPathValue("id", id)
	}
	return req
}

var camisa = &service.ProductDto{ID: 1, Name: "camisa", Quantity: 54, Price: 49.99}

func Test_Handler_FindAll(t *testing.T) {
	testCases := []struct {
		name         string
		products     []service.ProductDto
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - products found",
			products:     []service.ProductDto{*camisa, {ID: 2, Name: "saia", Quantity: 33, Price: 72.14}},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"name":"camisa","quantity":54,"price":49.99},{"id":2,"name":"saia","quantity":33,"price":72.14}]`,
		},
		{
			name:         "Success - no products",
			products:     []service.ProductDto{},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Error - service error",
			err:          errors.New("service unavailable"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to fetch products"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			svc.On("FindAll", mock.Anything).Return(tc.products, tc.err)
			rr := httptest.NewRecorder()
			// when
			newTestHandler(svc).FindAll(rr, newRequest(http.MethodGet, "/produtos", "", ""))
			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_FindByID(t *testing.T) {
	testCases := []struct {
		name         string
		productID    string
		mockProduct  *service.ProductDto
		mockErr      error
		callsService bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			productID:    "1",
			mockProduct:  camisa,
			callsService: true,
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"camisa","quantity":54,"price":49.99}`,
		},
		{
			name:         "Error - product not found",
			productID:    "999",
			mockErr:      perrors.ErrProductNotFound,
			callsService: true,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 999 not found"}`,
		},
		{
			name:         "Error - service error",
			productID:    "2",
			mockErr:      errors.New("service unavailable"),
			callsService: true,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to retrieve product with ID 2"}`,
		},
		{
			name:         "Error - invalid id",
			productID:    "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid ID: abc"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			if tc.callsService {
				svc.On("FindByID", mock.Anything, mock.AnythingOfType("int")).Return(tc.mockProduct, tc.mockErr)
			}
			rr := httptest.NewRecorder()
			// when
			newTestHandler(svc).FindByID(rr, newRequest(http.MethodGet, "/produtos/"+tc.productID, tc.productID, ""))
			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_Create(t *testing.T) {
	created := &service.ProductDto{ID: 5, Name: "boné", Quantity: 5, Price: 19.90}
	testCases := []struct {
		name         string
		requestBody  string
		mockErr      error
		callsService bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product created",
			requestBody:  `{"name":"boné","quantity":5,"price":19.90}`,
			callsService: true,
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":5,"name":"boné","quantity":5,"price":19.9}`,
		},
		{
			name:         "Success - zero quantity is allowed",
			requestBody:  `{"name":"boné","quantity":0,"price":19.90}`,
			callsService: true,
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":5,"name":"boné","quantity":5,"price":19.9}`,
		},
		{
			name:         "Error - missing fields",
			requestBody:  `{"name":"boné"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"quantity":"failed on rule: required","price":"failed on rule: required"}}`,
		},
		{
			name:         "Error - negative values",
			requestBody:  `{"name":"","quantity":-1,"price":-0.5}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"name":"failed on rule: min","quantity":"failed on rule: min","price":"failed on rule: min"}}`,
		},
		{
			name:         "Error - malformed json",
			requestBody:  `{"name":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name:         "Error - wrong type",
			requestBody:  `{"name":"boné","quantity":"five","price":1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name:         "Error - service error",
			requestBody:  `{"name":"boné","quantity":5,"price":19.90}`,
			mockErr:      errors.New("service unavailable"),
			callsService: true,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to create product"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			if tc.callsService {
				var result *service.ProductDto
				if tc.mockErr == nil {
					result = created
				}
				svc.On("Create", mock.Anything, mock.AnythingOfType("service.ProductCreateDto")).Return(result, tc.mockErr)
			}
			rr := httptest.NewRecorder()
			// when
			newTestHandler(svc).Create(rr, newRequest(http.MethodPost, "/produtos", "", tc.requestBody))
			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_Replace(t *testing.T) {
	replaced := &service.ProductDto{ID: 1, Name: "camisa polo", Quantity: 10, Price: 59.9}
	testCases := []struct {
		name         string
		productID    string
		requestBody  string
		mockProduct  *service.ProductDto
		mockErr      error
		callsService bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product replaced",
			productID:    "1",
			requestBody:  `{"id":1,"name":"camisa polo","quantity":10,"price":59.9}`,
			mockProduct:  replaced,
			callsService: true,
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"camisa polo","quantity":10,"price":59.9}`,
		},
		{
			name:         "Error - id change rejected",
			productID:    "1",
			requestBody:  `{"id":7,"name":"camisa polo","quantity":10,"price":59.9}`,
			mockErr:      perrors.ErrIDMismatch,
			callsService: true,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Product ID cannot be changed (path ID 1)"}`,
		},
		{
			name:         "Error - product not found",
			productID:    "42",
			requestBody:  `{"name":"camisa polo","quantity":10,"price":59.9}`,
			mockErr:      perrors.ErrProductNotFound,
			callsService: true,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 42 not found"}`,
		},
		{
			name:         "Error - missing name",
			productID:    "1",
			requestBody:  `{"quantity":10,"price":59.9}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"name":"failed on rule: required"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			if tc.callsService {
				svc.On("Replace", mock.Anything, mock.AnythingOfType("int"), mock.AnythingOfType("service.ProductReplaceDto")).
					Return(tc.mockProduct, tc.mockErr)
			}
			rr := httptest.NewRecorder()
			// when
			newTestHandler(svc).Replace(rr, newRequest(http.MethodPut, "/produtos/"+tc.productID, tc.productID, tc.requestBody))
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_UpdatePrice(t *testing.T) {
	testCases := []struct {
		name         string
		requestBody  string
		mockProduct  *service.ProductDto
		mockErr      error
		callsService bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - price updated",
			requestBody:  `{"price":39.99}`,
			mockProduct:  &service.ProductDto{ID: 1, Name: "camisa", Quantity: 54, Price: 39.99},
			callsService: true,
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"camisa","quantity":54,"price":39.99}`,
		},
		{
			name:         "Error - product not found",
			requestBody:  `{"price":39.99}`,
			mockErr:      perrors.ErrProductNotFound,
			callsService: true,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 1 not found"}`,
		},
		{
			name:         "Error - missing price",
			requestBody:  `{}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"price":"failed on rule: required"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			if tc.callsService {
				svc.On("UpdatePrice", mock.Anything, 1, 39.99).Return(tc.mockProduct, tc.mockErr)
			}
			rr := httptest.NewRecorder()
			// when
			newTestHandler(svc).UpdatePrice(rr, newRequest(http.MethodPatch, "/produtos/1", "1", tc.requestBody))
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		productID    string
		mockErr      error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product deleted",
			productID:    "1",
			expectedCode: http.StatusNoContent,
			expectedBody: "",
		},
		{
			name:         "Error - product not found",
			productID:    "999",
			mockErr:      perrors.ErrProductNotFound,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 999 not found"}`,
		},
		{
			name:         "Error - service error",
			productID:    "2",
			mockErr:      errors.New("service unavailable"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to delete product with ID 2"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			svc.On("DeleteByID", mock.Anything, mock.AnythingOfType("int")).Return(tc.mockErr)
			rr := httptest.NewRecorder()
			// when
			newTestHandler(svc).DeleteByID(rr, newRequest(http.MethodDelete, "/produtos/"+tc.productID, tc.productID, ""))
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.Equal(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_SellAndPurchase(t *testing.T) {
	testCases := []struct {
		name         string
		method       string
		requestBody  string
		mockProduct  *service.ProductDto
		mockErr      error
		callsService bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - sale",
			method:       "Sell",
			requestBody:  `{"quantity":4}`,
			mockProduct:  &service.ProductDto{ID: 1, Name: "camisa", Quantity: 50, Price: 49.99},
			callsService: true,
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"camisa","quantity":50,"price":49.99}`,
		},
		{
			name:         "Success - purchase",
			method:       "Purchase",
			requestBody:  `{"quantity":4}`,
			mockProduct:  &service.ProductDto{ID: 1, Name: "camisa", Quantity: 58, Price: 49.99},
			callsService: true,
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"camisa","quantity":58,"price":49.99}`,
		},
		{
			name:         "Error - sale beyond stock",
			method:       "Sell",
			requestBody:  `{"quantity":4}`,
			mockErr:      perrors.ErrInsufficientStock,
			callsService: true,
			expectedCode: http.StatusConflict,
			expectedBody: `{"error":"Insufficient stock for product with ID 1"}`,
		},
		{
			name:         "Error - purchase of unknown product",
			method:       "Purchase",
			requestBody:  `{"quantity":4}`,
			mockErr:      perrors.ErrProductNotFound,
			callsService: true,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 1 not found"}`,
		},
		{
			name:         "Error - zero quantity",
			method:       "Sell",
			requestBody:  `{"quantity":0}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"quantity":"failed on rule: min"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(mockProductService)
			if tc.callsService {
				svc.On(tc.method, mock.Anything, 1, 4).Return(tc.mockProduct, tc.mockErr)
			}
			h := newTestHandler(svc)
			rr := httptest.NewRecorder()
			req := newRequest(http.MethodPatch, "/x/1", "1", tc.requestBody)
			// when
			if tc.method == "Sell" {
				h.Sell(rr, req)
			} else {
				h.Purchase(rr, req)
			}
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			svc.AssertExpectations(t)
		})
	}
}

func Test_Handler_Aggregates(t *testing.T) {
	// given
	svc := new(mockProductService)
	svc.On("TotalQuantity", mock.Anything).Return(158, nil)
	svc.On("QuantityOf", mock.Anything, 4).Return(47, nil)
	svc.On("QuantityOf", mock.Anything, 9).Return(0, perrors.ErrProductNotFound)
	svc.On("StockExtremes", mock.Anything).Return(&service.StockExtremesDto{Min: 12, Max: 54}, nil)
	svc.On("TotalValue", mock.Anything).Return(11029.72, nil)
	h := newTestHandler(svc)

	testCases := []struct {
		name         string
		serve        http.HandlerFunc
		id           string
		expectedCode int
		expectedBody string
	}{
		{name: "total quantity", serve: h.TotalQuantity, expectedCode: http.StatusOK, expectedBody: `158`},
		{name: "quantity of product", serve: h.QuantityOf, id: "4", expectedCode: http.StatusOK, expectedBody: `47`},
		{name: "quantity of missing product", serve: h.QuantityOf, id: "9", expectedCode: http.StatusNotFound, expectedBody: `{"error":"Product with ID 9 not found"}`},
		{name: "stock extremes", serve: h.StockExtremes, expectedCode: http.StatusOK, expectedBody: `{"min":12,"max":54}`},
		{name: "total value", serve: h.TotalValue, expectedCode: http.StatusOK, expectedBody: `11029.72`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			// when
			tc.serve(rr, newRequest(http.MethodGet, "/", tc.id, ""))
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_StockExtremes_Empty(t *testing.T) {
	// given
	svc := new(mockProductService)
	svc.On("StockExtremes", mock.Anything).Return(nil, perrors.ErrEmptyInventory)
	rr := httptest.NewRecorder()
	// when
	newTestHandler(svc).StockExtremes(rr, newRequest(http.MethodGet, "/estoque", "", ""))
	// then
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Inventory is empty"}`, rr.Body.String())
}

func Test_Handler_HealthCheck(t *testing.T) {
	// given
	h := newTestHandler(nil) // No service needed for health check
	rr := httptest.NewRecorder()
	// when
	h.HealthCheck(rr, newRequest(http.MethodGet, "/healthz", "", ""))
	// then
	assert.Equal(t, http.StatusOK, rr.Code, "status code should be 200 OK")
	assert.Empty(t, rr.Body.String(), "response body should be empty")
}

func Test_Handler_Docs(t *testing.T) {
	// given
	h := newTestHandler(nil)
	rr := httptest.NewRecorder()
	// when
	h.Docs(rr, newRequest(http.MethodGet, "/doc", "", ""))
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"/produtos/{id}"`)
}

func Test_Handler_LogsRequestIDOnce(t *testing.T) {
	// given
	var buf bytes.Buffer
	mockSvc := new(mockProductService)
	mockSvc.On("FindByID", mock.Anything, 99).Return(nil, perrors.ErrProductNotFound)
	h := NewHandler(mockSvc, logger.New(&buf, "debug"))
	req := newRequest(http.MethodGet, "/produtos/99", "99", "")
	req = req.WithContext(web.WithRequestID(req.Context(), "req-42"))
	rr := httptest.NewRecorder()

	// when
	h.FindByID(rr, req)

	// then
	assert.Equal(t, http.StatusNotFound, rr.Code)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, `"request_id":"req-42"`), line)
	}
	mockSvc.AssertExpectations(t)
}
