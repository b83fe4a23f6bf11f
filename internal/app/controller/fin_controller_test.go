package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/internal/app/repository"
	"github.com/jwlim/finstat-backend/internal/app/service"
	"github.com/jwlim/finstat-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDartClient 테스트용 DART 클라이언트
type stubDartClient struct {
	statements []service.RawStatement
	err        error
}

func (s *stubDartClient) FetchFinancialStatements(ctx context.Context, corpCode, bsnsYear string) ([]service.RawStatement, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.statements, nil
}

func setupControllerTest(t *testing.T, dart service.DartClient) (repository.FinRepository, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := repository.NewFinRepository(testDB)
	ratioService := service.NewRatioService(repo)
	statementService := service.NewStatementService(repo, dart, ratioService)
	exportService := service.NewExportService(repo)
	ctrl := NewFinController(statementService, ratioService, exportService)

	engine := gin.New()
	fin := engine.Group("/api/fin")
	{
		fin.GET("/companies", ctrl.ListCompanies)
		fin.GET("/companies/:corp_code/years", ctrl.ListStatementYears)
		fin.GET("/statements/:corp_code", ctrl.GetStatements)
		fin.GET("/ratios/:company_name", ctrl.GetRatioSummary)
		fin.POST("/financial", ctrl.FetchFinancial)
		fin.GET("/export/:corp_code", ctrl.ExportStatements)
	}

	return repo, engine
}

func seedStatements(t *testing.T, repo repository.FinRepository) {
	statements := []model.FinancialStatement{
		{CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023", SjDiv: model.SjDivBS, SjNm: "재무상태표", AccountNm: "자산총계", ThstrmAmount: 2000, Currency: "KRW"},
		{CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023", SjDiv: model.SjDivBS, SjNm: "재무상태표", AccountNm: "부채총계", ThstrmAmount: 800, Currency: "KRW"},
		{CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2022", SjDiv: model.SjDivBS, SjNm: "재무상태표", AccountNm: "자산총계", ThstrmAmount: 1800, Currency: "KRW"},
		{CorpCode: "00164779", CorpName: "LG전자", BsnsYear: "2023", SjDiv: model.SjDivBS, SjNm: "재무상태표", AccountNm: "자산총계", ThstrmAmount: 500, Currency: "KRW"},
	}
	require.NoError(t, repo.UpsertStatements(statements))
}

func performRequest(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFinController_ListCompanies(t *testing.T) {
	repo, engine := setupControllerTest(t, &stubDartClient{})
	seedStatements(t, repo)

	w := performRequest(engine, http.MethodGet, "/api/fin/companies")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])

	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "LG전자", first["corp_name"])
}

func TestFinController_ListStatementYears(t *testing.T) {
	repo, engine := setupControllerTest(t, &stubDartClient{})
	seedStatements(t, repo)

	w := performRequest(engine, http.MethodGet, "/api/fin/companies/00126380/years")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["count"])

	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "2023", first["bsns_year"])
}

func TestFinController_ListStatementYears_UnknownCode(t *testing.T) {
	_, engine := setupControllerTest(t, &stubDartClient{})

	w := performRequest(engine, http.MethodGet, "/api/fin/companies/99999999/years")

	// 존재하지 않는 corp_code도 200에 빈 목록
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["count"])
}

func TestFinController_GetStatements(t *testing.T) {
	repo, engine := setupControllerTest(t, &stubDartClient{})
	seedStatements(t, repo)

	w := performRequest(engine, http.MethodGet, "/api/fin/statements/00126380")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["count"])

	w = performRequest(engine, http.MethodGet, "/api/fin/statements/00126380?year=2022")
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
}

func TestFinController_GetStatements_InvalidYear(t *testing.T) {
	_, engine := setupControllerTest(t, &stubDartClient{})

	w := performRequest(engine, http.MethodGet, "/api/fin/statements/00126380?year=20xx")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "FIN_INVALID_YEAR", body["error"])
}

func TestFinController_GetRatioSummary(t *testing.T) {
	repo, engine := setupControllerTest(t, &stubDartClient{})
	seedStatements(t, repo)
	require.NoError(t, repo.UpsertRatios(&model.FinancialRatios{
		CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023",
		DebtRatio: 66.6667, CurrentRatio: 150,
	}))

	w := performRequest(engine, http.MethodGet, "/api/fin/ratios/삼성전자")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])

	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "2023", first["bsns_year"])
	assert.InDelta(t, 66.67, first["debt_ratio"].(float64), 0.001)
}

func TestFinController_GetRatioSummary_NotFound(t *testing.T) {
	_, engine := setupControllerTest(t, &stubDartClient{})

	w := performRequest(engine, http.MethodGet, "/api/fin/ratios/없는회사")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "FIN_RATIO_NOT_FOUND", body["error"])
}

func TestFinController_FetchFinancial(t *testing.T) {
	dart := &stubDartClient{
		statements: []service.RawStatement{
			{CorpCode: "00126380", BsnsYear: "2023", SjDiv: model.SjDivBS, AccountNm: "자산총계", ThstrmAmount: "2,000", Ord: "1", Currency: "KRW"},
		},
	}
	repo, engine := setupControllerTest(t, dart)
	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{
		{CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2021", SjDiv: model.SjDivBS, AccountNm: "자산총계", ThstrmAmount: 1600},
	}))

	w := performRequest(engine, http.MethodPost, "/api/fin/financial?company_name=삼성전자&year=2023")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["fetched"])
}

func TestFinController_FetchFinancial_MissingCompanyName(t *testing.T) {
	_, engine := setupControllerTest(t, &stubDartClient{})

	w := performRequest(engine, http.MethodPost, "/api/fin/financial")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "VALIDATION_REQUIRED", body["error"])
}

func TestFinController_FetchFinancial_CompanyNotFound(t *testing.T) {
	_, engine := setupControllerTest(t, &stubDartClient{})

	w := performRequest(engine, http.MethodPost, "/api/fin/financial?company_name=없는회사")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "COMPANY_NOT_FOUND", body["error"])
}

func TestFinController_FetchFinancial_DartFailure(t *testing.T) {
	dart := &stubDartClient{err: service.ErrDartAPIFailed}
	repo, engine := setupControllerTest(t, dart)
	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{
		{CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2020", SjDiv: model.SjDivBS, AccountNm: "자산총계", ThstrmAmount: 1600},
	}))

	w := performRequest(engine, http.MethodPost, "/api/fin/financial?company_name=삼성전자&year=2023")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "DART_API_FAILED", body["error"])
}

func TestFinController_ExportStatements(t *testing.T) {
	repo, engine := setupControllerTest(t, &stubDartClient{})
	seedStatements(t, repo)

	w := performRequest(engine, http.MethodGet, "/api/fin/export/00126380")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}

func TestFinController_ExportStatements_NotFound(t *testing.T) {
	_, engine := setupControllerTest(t, &stubDartClient{})

	w := performRequest(engine, http.MethodGet, "/api/fin/export/99999999")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "FIN_STATEMENT_NOT_FOUND", body["error"])
}
