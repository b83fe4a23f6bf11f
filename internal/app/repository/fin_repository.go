package repository

import (
	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// statementUpsertColumns 유니크 키 충돌 시 갱신할 계정과목 컬럼
var statementUpsertColumns = []string{
	"corp_name", "stock_code", "rcept_no", "reprt_code", "sj_nm",
	"thstrm_nm", "thstrm_amount", "frmtrm_nm", "frmtrm_amount",
	"bfefrmtrm_nm", "bfefrmtrm_amount", "ord", "currency", "updated_at",
}

// ratioUpsertColumns 유니크 키 충돌 시 갱신할 재무비율 컬럼
var ratioUpsertColumns = []string{
	"corp_name", "debt_ratio", "current_ratio", "interest_coverage_ratio",
	"operating_profit_ratio", "net_profit_ratio", "roe", "roa",
	"debt_dependency", "cash_flow_debt_ratio", "sales_growth",
	"operating_profit_growth", "eps_growth", "updated_at",
}

// FinRepository 재무제표 저장소 인터페이스
type FinRepository interface {
	ListCompanies() ([]model.Company, error)
	ListStatementYears(corpCode string) ([]model.StatementYear, error)
	FindCompanyByName(corpName string) (*model.CompanyInfo, error)
	FindStatements(corpCode string) ([]model.FinancialStatement, error)
	FindStatementsByYear(corpCode, bsnsYear string) ([]model.FinancialStatement, error)
	FindLatestYear(corpName string) (string, error)
	UpsertStatements(statements []model.FinancialStatement) error
	UpsertRatios(ratios *model.FinancialRatios) error
	DeleteStatements(corpCode, bsnsYear string) error
	RatioSummaryByCompanyName(corpName string) ([]model.RatioSummary, error)
}

type finRepository struct {
	db *gorm.DB
}

// NewFinRepository 재무제표 저장소 생성
func NewFinRepository(db *gorm.DB) FinRepository {
	return &finRepository{db: db}
}

// ListCompanies 저장된 회사 목록 조회 (corp_code 기준 중복 제거, 회사명 순)
func (r *finRepository) ListCompanies() ([]model.Company, error) {
	var companies []model.Company
	if err := r.db.Model(&model.FinancialStatement{}).
		Distinct("corp_code", "corp_name").
		Order("corp_name").
		Find(&companies).Error; err != nil {
		logger.Error("Failed to list companies", err)
		return nil, err
	}
	return companies, nil
}

// ListStatementYears 회사별 보유 재무제표 연도/구분 조회
// 존재하지 않는 corp_code는 빈 결과를 반환한다 (에러 아님)
func (r *finRepository) ListStatementYears(corpCode string) ([]model.StatementYear, error) {
	var years []model.StatementYear
	if err := r.db.Model(&model.FinancialStatement{}).
		Distinct("corp_code", "corp_name", "bsns_year", "sj_div", "sj_nm").
		Where("corp_code = ? AND sj_div != ?", corpCode, model.SjDivRatio).
		Order("bsns_year DESC").
		Order("sj_div").
		Find(&years).Error; err != nil {
		logger.Error("Failed to list statement years", err, map[string]interface{}{
			"corp_code": corpCode,
		})
		return nil, err
	}
	return years, nil
}

// FindCompanyByName 회사명으로 회사 정보 조회
func (r *finRepository) FindCompanyByName(corpName string) (*model.CompanyInfo, error) {
	var info model.CompanyInfo
	err := r.db.Model(&model.FinancialStatement{}).
		Distinct("corp_code", "corp_name", "stock_code").
		Where("corp_name = ?", corpName).
		Limit(1).
		Take(&info).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find company by name", err, map[string]interface{}{
			"corp_name": corpName,
		})
		return nil, err
	}
	return &info, nil
}

// FindStatements 회사 코드로 재무제표 계정과목 전체 조회 (비율 행 제외)
func (r *finRepository) FindStatements(corpCode string) ([]model.FinancialStatement, error) {
	var statements []model.FinancialStatement
	if err := r.db.
		Where("corp_code = ? AND sj_div != ?", corpCode, model.SjDivRatio).
		Order("bsns_year DESC").
		Order("sj_div").
		Order("ord").
		Find(&statements).Error; err != nil {
		logger.Error("Failed to find statements", err, map[string]interface{}{
			"corp_code": corpCode,
		})
		return nil, err
	}
	return statements, nil
}

// FindStatementsByYear 회사 코드와 사업연도로 재무제표 조회 (비율 행 제외)
func (r *finRepository) FindStatementsByYear(corpCode, bsnsYear string) ([]model.FinancialStatement, error) {
	var statements []model.FinancialStatement
	if err := r.db.
		Where("corp_code = ? AND bsns_year = ? AND sj_div != ?", corpCode, bsnsYear, model.SjDivRatio).
		Order("sj_div").
		Order("ord").
		Find(&statements).Error; err != nil {
		logger.Error("Failed to find statements by year", err, map[string]interface{}{
			"corp_code": corpCode,
			"bsns_year": bsnsYear,
		})
		return nil, err
	}
	return statements, nil
}

// FindLatestYear 회사명 기준 보유 중인 가장 최근 사업연도 조회 (없으면 빈 문자열)
func (r *finRepository) FindLatestYear(corpName string) (string, error) {
	var latestYear *string
	if err := r.db.Model(&model.FinancialStatement{}).
		Select("MAX(bsns_year)").
		Where("corp_name = ? AND sj_div != ?", corpName, model.SjDivRatio).
		Scan(&latestYear).Error; err != nil {
		logger.Error("Failed to find latest year", err, map[string]interface{}{
			"corp_name": corpName,
		})
		return "", err
	}
	if latestYear == nil {
		return "", nil
	}
	return *latestYear, nil
}

// UpsertStatements 재무제표 계정과목 저장
// (corp_code, bsns_year, sj_div, account_nm) 충돌 시 금액/메타데이터를 갱신한다
func (r *finRepository) UpsertStatements(statements []model.FinancialStatement) error {
	if len(statements) == 0 {
		return nil
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "corp_code"}, {Name: "bsns_year"}, {Name: "sj_div"}, {Name: "account_nm"},
		},
		DoUpdates: clause.AssignmentColumns(statementUpsertColumns),
	}).Create(&statements).Error; err != nil {
		logger.Error("Failed to upsert statements", err, map[string]interface{}{
			"count": len(statements),
		})
		return err
	}
	return nil
}

// UpsertRatios 재무비율 저장
// 비율 행은 sj_div=RATIO 고정이므로 동일한 유니크 키로 upsert 된다
func (r *finRepository) UpsertRatios(ratios *model.FinancialRatios) error {
	row := ratios.ToStatement()
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "corp_code"}, {Name: "bsns_year"}, {Name: "sj_div"}, {Name: "account_nm"},
		},
		DoUpdates: clause.AssignmentColumns(ratioUpsertColumns),
	}).Create(row).Error; err != nil {
		logger.Error("Failed to upsert ratios", err, map[string]interface{}{
			"corp_code": ratios.CorpCode,
			"bsns_year": ratios.BsnsYear,
		})
		return err
	}
	return nil
}

// DeleteStatements 회사 코드와 사업연도의 계정과목 행 삭제 (비율 행 제외)
func (r *finRepository) DeleteStatements(corpCode, bsnsYear string) error {
	if err := r.db.
		Where("corp_code = ? AND bsns_year = ? AND sj_div != ?", corpCode, bsnsYear, model.SjDivRatio).
		Delete(&model.FinancialStatement{}).Error; err != nil {
		logger.Error("Failed to delete statements", err, map[string]interface{}{
			"corp_code": corpCode,
			"bsns_year": bsnsYear,
		})
		return err
	}
	return nil
}

// RatioSummaryByCompanyName 회사명 기준 연도별 부채비율/유동비율 조회
// 반올림(소수점 2자리)은 조회 시점에만 적용하고 저장값은 원본 정밀도를 유지한다.
// 비율 행이 없는 연도는 결과에서 제외된다.
func (r *finRepository) RatioSummaryByCompanyName(corpName string) ([]model.RatioSummary, error) {
	var summaries []model.RatioSummary
	query := `
		SELECT DISTINCT
			s.corp_name,
			r.bsns_year,
			ROUND(r.debt_ratio, 2)    AS debt_ratio,
			ROUND(r.current_ratio, 2) AS current_ratio
		FROM fin_data s
		JOIN fin_data r
			ON s.corp_code = r.corp_code
		WHERE s.corp_name = ?
			AND s.sj_div != ?
			AND r.sj_div = ?
			AND r.debt_ratio IS NOT NULL
		ORDER BY r.bsns_year DESC
	`
	if err := r.db.Raw(query, corpName, model.SjDivRatio, model.SjDivRatio).
		Scan(&summaries).Error; err != nil {
		logger.Error("Failed to query ratio summary", err, map[string]interface{}{
			"corp_name": corpName,
		})
		return nil, err
	}
	return summaries, nil
}
