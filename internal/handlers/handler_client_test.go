package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/invoicing_app/cmd/docs"
	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/handlers"
	"github.com/SscSPs/invoicing_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ClientHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockClientService *MockClientService
	userID            string
	token             string
}

func (suite *ClientHandlerTestSuite) SetupTest() {
	router, v1 := newAPIRouter()
	suite.router = router
	suite.mockClientService = new(MockClientService)
	handlers.RegisterClientRoutes(v1, suite.mockClientService)
	suite.userID = uuid.NewString()
	suite.token = generateTestToken(suite.T(), suite.userID, testCompanyID)
}

func (suite *ClientHandlerTestSuite) TearDownTest() {
	suite.mockClientService.AssertExpectations(suite.T())
}

func TestClientHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ClientHandlerTestSuite))
}

func (suite *ClientHandlerTestSuite) serve(method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ClientHandlerTestSuite) TestCreateClient_Success() {
	expected := &domain.Client{ClientID: uuid.NewString(), CompanyID: testCompanyID, Name: "Acme", Email: "billing@acme.test"}
	suite.mockClientService.On("CreateClient", mock.Anything, testCompanyID,
		dto.CreateClientRequest{Name: "Acme", Email: "billing@acme.test"}, suite.userID).Return(expected, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/clients", `{"name":"Acme","email":"billing@acme.test"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.ClientResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(expected.ClientID, res.ID)
	suite.Equal("Acme", res.Name)
}

func (suite *ClientHandlerTestSuite) TestGetClient_NotFound() {
	clientID := uuid.NewString()
	suite.mockClientService.On("GetClientByID", mock.Anything, testCompanyID, clientID).Return(nil, apperrors.ErrClientNotFound).Once()

	w := suite.serve(http.MethodGet, "/api/v1/clients/"+clientID, "")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("ClientNotFound", decodeError(w.Body.Bytes()).Error.Kind)
}

func (suite *ClientHandlerTestSuite) TestListClients_Search() {
	suite.mockClientService.On("ListClients", mock.Anything, testCompanyID, mock.MatchedBy(func(p dto.ListClientsParams) bool {
		return p.Search == "acme" && p.Limit == 0 && p.NextToken == nil
	})).Return([]domain.Client{}, nil, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/clients?search=acme", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"clients":[]}`, w.Body.String())
}

func (suite *ClientHandlerTestSuite) TestDeleteClient() {
	inUse := uuid.NewString()
	free := uuid.NewString()
	suite.mockClientService.On("DeleteClient", mock.Anything, testCompanyID, inUse).Return(apperrors.ErrClientInUse).Once()
	suite.mockClientService.On("DeleteClient", mock.Anything, testCompanyID, free).Return(nil).Once()

	w := suite.serve(http.MethodDelete, "/api/v1/clients/"+inUse, "")
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("ClientInUse", decodeError(w.Body.Bytes()).Error.Kind)

	w = suite.serve(http.MethodDelete, "/api/v1/clients/"+free, "")
	suite.Equal(http.StatusNoContent, w.Code)
}

func TestPaymentRoutes(t *testing.T) {
	router, v1 := newAPIRouter()
	mockPayments := new(MockPaymentService)
	handlers.RegisterPaymentRoutes(v1, mockPayments)
	userID := uuid.NewString()
	token := generateTestToken(t, userID, testCompanyID)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("record", func(t *testing.T) {
		invoiceID := uuid.NewString()
		payment := &domain.Payment{PaymentID: uuid.NewString(), InvoiceID: &invoiceID, Amount: decimal.RequireFromString("40")}
		mockPayments.On("RecordPayment", mock.Anything, testCompanyID, mock.MatchedBy(func(req dto.CreatePaymentRequest) bool {
			return req.InvoiceID != nil && *req.InvoiceID == invoiceID && req.Amount.Equal(decimal.NewFromInt(40))
		}), userID).Return(payment, nil).Once()

		w := serve(http.MethodPost, "/api/v1/payments", `{"invoiceId":"`+invoiceID+`","amount":"40"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		var res dto.PaymentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "40.00", res.Amount)
	})

	t.Run("overpayment", func(t *testing.T) {
		mockPayments.On("RecordPayment", mock.Anything, testCompanyID, mock.AnythingOfType("dto.CreatePaymentRequest"), userID).
			Return(nil, apperrors.NewValidationError(nil, apperrors.Violation{Field: "amount", Message: "exceeds the amount due of 10.00"})).Once()

		w := serve(http.MethodPost, "/api/v1/payments", `{"clientId":"6f1c0f34-3b8e-4a43-9d59-0d7a4c7b1e01","amount":"400"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		res := decodeError(w.Body.Bytes())
		require.Len(t, res.Error.Violations, 1)
		assert.Equal(t, "amount", res.Error.Violations[0].Field)
	})

	t.Run("delete settled", func(t *testing.T) {
		paymentID := uuid.NewString()
		mockPayments.On("DeletePayment", mock.Anything, testCompanyID, paymentID, userID).Return(apperrors.ErrInvalidStatusTransition).Once()

		w := serve(http.MethodDelete, "/api/v1/payments/"+paymentID, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		paymentID := uuid.NewString()
		mockPayments.On("GetPaymentByID", mock.Anything, testCompanyID, paymentID).Return(nil, apperrors.ErrPaymentNotFound).Once()

		w := serve(http.MethodGet, "/api/v1/payments/"+paymentID, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	mockPayments.AssertExpectations(t)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{IsProduction: true, JWTSecret: testJWTSecret, JWTCompanyClaim: "company_id"}

	newRouter := func(db handlers.Pinger) *gin.Engine {
		r := gin.New()
		services := &portssvc.ServiceContainer{
			Client:  new(MockClientService),
			Product: new(MockProductService),
			Invoice: new(MockInvoiceService),
			Payment: new(MockPaymentService),
		}
		handlers.RegisterRoutes(r, cfg, services, handlers.RouteDeps{DB: db, Gatherer: prometheus.NewRegistry()})
		return r
	}

	get := func(r *gin.Engine, path string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	r := newRouter(stubPinger{})
	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
	assert.Equal(t, http.StatusOK, get(r, "/metrics").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/invoices").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/swagger/index.html").Code, "swagger is disabled in production")

	down := newRouter(stubPinger{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusServiceUnavailable, get(down, "/health").Code)
}

func TestSwaggerDocumentsEveryRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	services := &portssvc.ServiceContainer{
		Client:  new(MockClientService),
		Product: new(MockProductService),
		Invoice: new(MockInvoiceService),
		Payment: new(MockPaymentService),
	}
	cfg := &config.Config{IsProduction: true, JWTSecret: testJWTSecret, JWTCompanyClaim: "company_id"}
	handlers.RegisterRoutes(r, cfg, services, handlers.RouteDeps{Gatherer: prometheus.NewRegistry()})

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	documented := 0
	for _, route := range r.Routes() {
		path, ok := strings.CutPrefix(route.Path, "/api/v1")
		if !ok {
			continue
		}
		segments := strings.Split(path, "/")
		for i, seg := range segments {
			if strings.HasPrefix(seg, ":") {
				segments[i] = "{" + seg[1:] + "}"
			}
		}
		path = strings.Join(segments, "/")
		_, found := doc.Paths[path][strings.ToLower(route.Method)]
		assert.True(t, found, "%s %s is not documented", route.Method, path)
		documented++
	}
	assert.Greater(t, documented, 20)
}
