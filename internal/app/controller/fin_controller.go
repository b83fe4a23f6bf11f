package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/jwlim/finstat-backend/internal/app/service"
	apperrors "github.com/jwlim/finstat-backend/internal/errors"
	"github.com/jwlim/finstat-backend/internal/middleware"
)

// bsnsYearPattern 사업연도 형식 (4자리)
var bsnsYearPattern = regexp.MustCompile(`^\d{4}$`)

// FinController 재무제표 컨트롤러
type FinController struct {
	statementService service.StatementService
	ratioService     service.RatioService
	exportService    service.ExportService
}

// NewFinController 재무제표 컨트롤러 생성
func NewFinController(
	statementService service.StatementService,
	ratioService service.RatioService,
	exportService service.ExportService,
) *FinController {
	return &FinController{
		statementService: statementService,
		ratioService:     ratioService,
		exportService:    exportService,
	}
}

// ListCompanies 저장된 회사 목록 조회
// @Summary 회사 목록 조회
// @Description 재무제표가 저장된 회사의 (corp_code, corp_name) 목록을 회사명 순으로 조회합니다
// @Tags financial
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/fin/companies [get]
func (ctrl *FinController) ListCompanies(c *gin.Context) {
	companies, err := ctrl.statementService.ListCompanies()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list companies")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    companies,
		"count":   len(companies),
	})
}

// ListStatementYears 회사별 보유 재무제표 연도 조회
// @Summary 재무제표 연도 조회
// @Description 회사 코드로 보유 중인 재무제표의 연도와 구분을 최신 연도부터 조회합니다
// @Tags financial
// @Produce json
// @Param corp_code path string true "회사 고유번호"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/fin/companies/{corp_code}/years [get]
func (ctrl *FinController) ListStatementYears(c *gin.Context) {
	corpCode := c.Param("corp_code")

	years, err := ctrl.statementService.ListStatementYears(corpCode)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list statement years")
		return
	}

	// 존재하지 않는 corp_code는 빈 목록 (404 아님)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    years,
		"count":   len(years),
	})
}

// GetStatements 회사 코드로 재무제표 조회
// @Summary 재무제표 조회
// @Description 회사 코드로 재무제표 계정과목을 조회합니다. year 쿼리로 특정 연도만 조회할 수 있습니다
// @Tags financial
// @Produce json
// @Param corp_code path string true "회사 고유번호"
// @Param year query string false "사업연도 (YYYY)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/fin/statements/{corp_code} [get]
func (ctrl *FinController) GetStatements(c *gin.Context) {
	corpCode := c.Param("corp_code")
	year := c.Query("year")

	if year != "" && !bsnsYearPattern.MatchString(year) {
		apperrors.BadRequest(c, apperrors.FinInvalidYear, "사업연도는 4자리 숫자여야 합니다")
		return
	}

	statements, err := ctrl.statementService.GetStatements(corpCode, year)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get statements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    statements,
		"count":   len(statements),
	})
}

// GetRatioSummary 회사명으로 재무비율 조회
// @Summary 재무비율 조회
// @Description 회사명으로 연도별 부채비율/유동비율을 최신 연도부터 조회합니다 (소수점 2자리 반올림)
// @Tags financial
// @Produce json
// @Param company_name path string true "회사명"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/fin/ratios/{company_name} [get]
func (ctrl *FinController) GetRatioSummary(c *gin.Context) {
	companyName := c.Param("company_name")

	summaries, err := ctrl.ratioService.GetRatioSummary(companyName)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get ratio summary")
		return
	}

	if len(summaries) == 0 {
		apperrors.NotFound(c, apperrors.FinRatioNotFound, "재무비율 데이터를 찾을 수 없습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
		"count":   len(summaries),
	})
}

// FetchFinancial 회사명으로 재무제표 조회 및 저장
// @Summary 재무제표 수집
// @Description 회사명으로 DART에서 재무제표를 조회하여 저장합니다. 이미 최신 데이터가 있으면 저장된 데이터를 반환합니다
// @Tags financial
// @Produce json
// @Param company_name query string true "회사명"
// @Param year query string false "사업연도 (YYYY)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/fin/financial [post]
func (ctrl *FinController) FetchFinancial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	companyName := c.Query("company_name")
	if companyName == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "회사명은 필수 항목입니다")
		return
	}

	year := c.Query("year")
	if year != "" && !bsnsYearPattern.MatchString(year) {
		log.Warn("Invalid business year format", map[string]interface{}{
			"year": year,
		})
		apperrors.BadRequest(c, apperrors.FinInvalidYear, "사업연도는 4자리 숫자여야 합니다")
		return
	}

	result, err := ctrl.statementService.FetchAndSave(c.Request.Context(), companyName, year)
	if err != nil {
		log.Warn("Failed to fetch financial statements", map[string]interface{}{
			"company_name": companyName,
			"year":         year,
			"error":        err.Error(),
		})
		switch {
		case errors.Is(err, service.ErrCompanyNotFound):
			apperrors.NotFound(c, apperrors.CompanyNotFound, "회사 정보를 찾을 수 없습니다")
		case errors.Is(err, service.ErrDartNoData):
			apperrors.NotFound(c, apperrors.DartNoData, "조회된 공시 데이터가 없습니다")
		case errors.Is(err, service.ErrDartAPIKeyMissing):
			apperrors.InternalError(c, "DART API 키가 설정되지 않았습니다")
		case errors.Is(err, service.ErrDartAPIFailed):
			apperrors.BadGateway(c, apperrors.DartAPIFailed, "DART 호출에 실패했습니다. 잠시 후 다시 시도해주세요")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch financial")
		}
		return
	}

	message := fmt.Sprintf("%s의 재무제표 데이터가 성공적으로 저장되었습니다", companyName)
	if !result.Fetched {
		message = fmt.Sprintf("%s의 재무제표 데이터가 이미 존재합니다", companyName)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    result,
	})
}

// ExportStatements 재무제표 XLSX 다운로드
// @Summary 재무제표 XLSX 내보내기
// @Description 회사의 전체 재무제표를 XLSX 파일로 다운로드합니다
// @Tags financial
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param corp_code path string true "회사 고유번호"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/fin/export/{corp_code} [get]
func (ctrl *FinController) ExportStatements(c *gin.Context) {
	corpCode := c.Param("corp_code")

	file, filename, err := ctrl.exportService.ExportStatements(corpCode)
	if err != nil {
		if errors.Is(err, service.ErrStatementNotFound) {
			apperrors.NotFound(c, apperrors.FinStatementNotFound, "재무제표 데이터를 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "재무제표 내보내기에 실패했습니다")
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		apperrors.InternalError(c, "재무제표 파일 전송에 실패했습니다")
		return
	}
}
