package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	portssvc "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/services"
	"github.com/SscSPs/finance_batch_pipeline/internal/dto"
	"github.com/SscSPs/finance_batch_pipeline/internal/handlers"
	"github.com/SscSPs/finance_batch_pipeline/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock BatchService ---
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) ProcessBatch(ctx context.Context, req domain.BatchRequest) (*domain.BatchOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOutcome), args.Error(1)
}

func (m *MockBatchService) GetRun(ctx context.Context, runID string) (*domain.PipelineRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineRun), args.Error(1)
}

func (m *MockBatchService) ListRuns(ctx context.Context, limit int, nextToken *string) (*domain.RunPage, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunPage), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.BatchSvcFacade = (*MockBatchService)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockBatchService *MockBatchService
	jwtSecret        string
	userID           string
}

func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "finance-pipeline-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.StructuredLoggingMiddleware(zerolog.New(io.Discard)))
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockBatchService = new(MockBatchService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterBatchRoutes(v1, suite.mockBatchService, domain.DefaultPolicy())
	handlers.RegisterRunRoutes(v1, suite.mockBatchService)
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			suite.Require().NoError(err)
			reader = bytes.NewBuffer(payload)
		}
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleRun(decision domain.GateDecision) domain.PipelineRun {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.PipelineRun{
		RunID:         uuid.NewString(),
		StartedAt:     started,
		FinishedAt:    started.Add(1500 * time.Millisecond),
		Source:        "api",
		Mode:          domain.ModeStrict,
		Decision:      decision,
		InputRows:     2,
		CleanRows:     1,
		RejectedRows:  1,
		RejectionRate: decimal.RequireFromString("0.5"),
		IncomeTotal:   decimal.NewFromInt(100),
		NetTotal:      decimal.NewFromInt(100),
	}
}

func sampleOutcome(decision domain.GateDecision) *domain.BatchOutcome {
	id := "T2"
	return &domain.BatchOutcome{
		Run: sampleRun(decision),
		Result: &domain.PipelineResult{
			Columns: domain.RequiredFields,
			Split: domain.SplitResult{
				Rejected: []domain.RecordOutcome{{
					Index:   1,
					Record:  domain.TransactionRecord{TransactionID: &id},
					Reasons: []domain.RejectionReason{domain.MissingFieldReason(domain.FieldAmount)},
				}},
			},
			Report: domain.ValidationReport{RowsChecked: 2, ValidRows: 1, RejectedRows: 1, RejectionRate: "50.00", Decision: decision},
		},
	}
}

func batchBody() map[string]any {
	return map[string]any{
		"rows": []map[string]any{
			{"transaction_id": "T1", "transaction_date": "2024-03-01", "department_id": "D1", "transaction_type": "INCOME", "amount": 100},
			{"transaction_id": "T2", "transaction_date": "2024-03-02", "department_id": "D1", "transaction_type": "EXPENSE", "amount": nil},
		},
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestSubmitBatch_Success() {
	outcome := sampleOutcome(domain.PassWithWarning)
	suite.mockBatchService.On("ProcessBatch", mock.Anything, mock.MatchedBy(func(req domain.BatchRequest) bool {
		return req.Source == "api" && req.Records.Len() == 2 && req.Policy.Mode == domain.ModeStrict &&
			req.Records.Records[1].Amount == nil && req.Records.Records[0].Value(domain.FieldAmount) == "100"
	})).Return(outcome, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/batches", batchBody())

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.BatchResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(outcome.Run.RunID, resp.Run.RunID)
	suite.Equal("PASS_WITH_WARNING", resp.Run.Decision)
	suite.Equal(int64(1500), resp.Run.DurationMS)
	suite.Equal("100.00", resp.Run.IncomeTotal)
	suite.Require().Len(resp.RejectedRows, 1)
	suite.Equal([]string{"missing_amount"}, resp.RejectedRows[0].Reasons)
	suite.mockBatchService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSubmitBatch_PreservesNumericPrecision() {
	suite.mockBatchService.On("ProcessBatch", mock.Anything, mock.MatchedBy(func(req domain.BatchRequest) bool {
		return req.Records.Len() == 1 && req.Records.Records[0].Value(domain.FieldAmount) == "12345678901234567.89"
	})).Return(sampleOutcome(domain.CleanPass), nil).Once()

	body := `{"rows":[{"transaction_id":"T1","transaction_date":"2024-03-01","department_id":"D1","transaction_type":"INCOME","amount":12345678901234567.89}]}`
	w := suite.do(http.MethodPost, "/api/v1/batches", body)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockBatchService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSubmitBatch_PolicyOverride() {
	suite.mockBatchService.On("ProcessBatch", mock.Anything, mock.MatchedBy(func(req domain.BatchRequest) bool {
		return req.Source == "nightly" && req.Policy.Mode == domain.ModeLenient &&
			req.Policy.MaxRejectRate.Equal(decimal.RequireFromString("0.5"))
	})).Return(sampleOutcome(domain.BreachLenient), nil).Once()

	body := batchBody()
	body["source"] = "nightly"
	body["policy"] = map[string]any{"mode": "LENIENT", "maxRejectRate": "0.5"}
	w := suite.do(http.MethodPost, "/api/v1/batches", body)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockBatchService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSubmitBatch_ThresholdBreached() {
	outcome := sampleOutcome(domain.FailStrict)
	suite.mockBatchService.On("ProcessBatch", mock.Anything, mock.Anything).
		Return(outcome, fmt.Errorf("run x: %w", apperrors.ErrThresholdBreached)).Once()

	w := suite.do(http.MethodPost, "/api/v1/batches", batchBody())

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp dto.BatchResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("FAIL_STRICT", resp.Run.Decision)
	suite.Equal("FAIL_STRICT", string(resp.Report.Decision))
}

func (suite *HandlerTestSuite) TestSubmitBatch_SchemaError() {
	suite.mockBatchService.On("ProcessBatch", mock.Anything, mock.Anything).
		Return(nil, &apperrors.SchemaError{Missing: []string{"amount"}}).Once()

	w := suite.do(http.MethodPost, "/api/v1/batches", map[string]any{
		"rows": []map[string]any{{"transaction_id": "T1"}},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "missing columns: amount")
}

func (suite *HandlerTestSuite) TestSubmitBatch_InternalError() {
	suite.mockBatchService.On("ProcessBatch", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("disk full")).Once()

	w := suite.do(http.MethodPost, "/api/v1/batches", batchBody())

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "disk full")
}

func (suite *HandlerTestSuite) TestSubmitBatch_BadRequests() {
	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"rows": [`},
		{"missing rows", map[string]any{"source": "x"}},
		{"invalid mode", map[string]any{"rows": []any{}, "policy": map[string]any{"mode": "SOMETIMES"}}},
		{"rate out of range", map[string]any{"rows": []any{}, "policy": map[string]any{"maxRejectRate": "2"}}},
		{"nested value", map[string]any{"rows": []any{map[string]any{"amount": []int{1}}}}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/batches", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockBatchService.AssertNotCalled(suite.T(), "ProcessBatch", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestSubmitBatch_Unauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/batches", bytes.NewBufferString(`{"rows":[]}`))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockBatchService.AssertNotCalled(suite.T(), "ProcessBatch", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestListRuns_Success() {
	next := "next-page"
	page := &domain.RunPage{Runs: []domain.PipelineRun{sampleRun(domain.CleanPass), sampleRun(domain.FailStrict)}, NextToken: &next}
	suite.mockBatchService.On("ListRuns", mock.Anything, 2, (*string)(nil)).Return(page, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/runs?limit=2", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListRunsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Runs, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
	suite.mockBatchService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListRuns_WithToken() {
	suite.mockBatchService.On("ListRuns", mock.Anything, 0, mock.MatchedBy(func(tok *string) bool {
		return tok != nil && *tok == "abc"
	})).Return(&domain.RunPage{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/runs?nextToken=abc", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockBatchService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListRuns_InvalidLimit() {
	w := suite.do(http.MethodGet, "/api/v1/runs?limit=1000", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListRuns_BadToken() {
	suite.mockBatchService.On("ListRuns", mock.Anything, 0, mock.Anything).
		Return(nil, fmt.Errorf("decode token: %w", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodGet, "/api/v1/runs?nextToken=garbage", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetRun_Success() {
	run := sampleRun(domain.CleanPass)
	run.Aggregates = []domain.AggregateRow{{
		DepartmentID: "D1",
		YearMonth:    "2024-03",
		TotalIncome:  decimal.NewFromInt(100),
		Net:          decimal.NewFromInt(100),
	}}
	suite.mockBatchService.On("GetRun", mock.Anything, run.RunID).Return(&run, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/runs/"+run.RunID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RunResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(run.RunID, resp.RunID)
	suite.Require().Len(resp.Aggregates, 1)
	suite.Equal("100.00", resp.Aggregates[0].TotalIncome)
	suite.Equal("0.00", resp.Aggregates[0].TotalExpense)
}

func (suite *HandlerTestSuite) TestGetRun_NotFound() {
	suite.mockBatchService.On("GetRun", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/runs/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
