package service

import (
	"context"
	"errors"
	"time"

	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/internal/app/repository"
	"github.com/jwlim/finstat-backend/pkg/logger"
)

var (
	ErrCompanyNotFound   = errors.New("회사 정보를 찾을 수 없습니다")
	ErrStatementNotFound = errors.New("재무제표 데이터를 찾을 수 없습니다")
)

// FetchResult 재무제표 조회/갱신 결과
type FetchResult struct {
	Company    model.CompanyInfo          `json:"company"`
	Statements []model.FinancialStatement `json:"statements"`
	Fetched    bool                       `json:"fetched"` // false: 저장된 최신 데이터를 그대로 반환
}

// StatementService 재무제표 서비스 인터페이스
type StatementService interface {
	ListCompanies() ([]model.Company, error)
	ListStatementYears(corpCode string) ([]model.StatementYear, error)
	GetStatements(corpCode, bsnsYear string) ([]model.FinancialStatement, error)
	GetCompanyByName(corpName string) (*model.CompanyInfo, error)
	FetchAndSave(ctx context.Context, corpName, bsnsYear string) (*FetchResult, error)
}

type statementService struct {
	repo         repository.FinRepository
	dartClient   DartClient
	ratioService RatioService
}

// NewStatementService 재무제표 서비스 생성
func NewStatementService(repo repository.FinRepository, dartClient DartClient, ratioService RatioService) StatementService {
	return &statementService{
		repo:         repo,
		dartClient:   dartClient,
		ratioService: ratioService,
	}
}

// ListCompanies 저장된 회사 목록 조회
func (s *statementService) ListCompanies() ([]model.Company, error) {
	return s.repo.ListCompanies()
}

// ListStatementYears 회사별 보유 재무제표 연도/구분 조회
func (s *statementService) ListStatementYears(corpCode string) ([]model.StatementYear, error) {
	return s.repo.ListStatementYears(corpCode)
}

// GetStatements 회사 코드로 재무제표 조회 (bsnsYear 빈 값이면 전체 연도)
func (s *statementService) GetStatements(corpCode, bsnsYear string) ([]model.FinancialStatement, error) {
	if bsnsYear == "" {
		return s.repo.FindStatements(corpCode)
	}
	return s.repo.FindStatementsByYear(corpCode, bsnsYear)
}

// GetCompanyByName 회사명으로 회사 정보 조회
func (s *statementService) GetCompanyByName(corpName string) (*model.CompanyInfo, error) {
	info, err := s.repo.FindCompanyByName(corpName)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrCompanyNotFound
	}
	return info, nil
}

// FetchAndSave 회사명으로 재무제표를 조회하고 저장한다
//
// bsnsYear가 빈 값이면 직전 연도를 대상으로 하되, 이미 최신 연도 데이터가
// 저장되어 있으면 DART 호출을 건너뛰고 저장된 데이터를 반환한다.
// 갱신 시에는 해당 연도 계정과목을 삭제 후 새로 저장하고 재무비율을 다시 계산한다.
func (s *statementService) FetchAndSave(ctx context.Context, corpName, bsnsYear string) (*FetchResult, error) {
	// 1. 회사 정보 조회
	company, err := s.repo.FindCompanyByName(corpName)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}

	// 2. 대상 연도 결정 (사업보고서는 직전 연도 기준)
	targetYear := bsnsYear
	explicitYear := bsnsYear != ""
	if !explicitYear {
		targetYear = previousYear()
	}

	// 3. 이미 최신 데이터가 있으면 크롤링 생략
	if !explicitYear {
		latestYear, err := s.repo.FindLatestYear(corpName)
		if err != nil {
			return nil, err
		}
		if latestYear != "" && latestYear >= targetYear {
			logger.Info("Latest statements already stored, skipping DART fetch", map[string]interface{}{
				"corp_name":   corpName,
				"latest_year": latestYear,
			})
			statements, err := s.repo.FindStatements(company.CorpCode)
			if err != nil {
				return nil, err
			}
			return &FetchResult{Company: *company, Statements: statements, Fetched: false}, nil
		}
	}

	// 4. DART에서 재무제표 조회
	logger.Info("Fetching statements from DART", map[string]interface{}{
		"corp_name": corpName,
		"corp_code": company.CorpCode,
		"bsns_year": targetYear,
	})
	rawStatements, err := s.dartClient.FetchFinancialStatements(ctx, company.CorpCode, targetYear)
	if err != nil {
		return nil, err
	}

	// 5. 중복 제거
	rawStatements = DeduplicateStatements(rawStatements)

	// 6. 기존 데이터 삭제 후 새로 저장
	fetchedYear := rawStatements[0].BsnsYear
	if err := s.repo.DeleteStatements(company.CorpCode, fetchedYear); err != nil {
		return nil, err
	}

	statements := make([]model.FinancialStatement, 0, len(rawStatements))
	for _, raw := range rawStatements {
		statements = append(statements, raw.ToModel(company.CorpName))
	}
	if err := s.repo.UpsertStatements(statements); err != nil {
		return nil, err
	}

	// 7. 재무비율 계산 및 저장
	if _, err := s.ratioService.CalculateAndSaveRatios(company.CorpCode, company.CorpName, fetchedYear); err != nil {
		// 비율 계산 실패는 재무제표 저장 자체를 실패시키지 않는다
		logger.Warn("Failed to calculate ratios after fetch", map[string]interface{}{
			"corp_code": company.CorpCode,
			"bsns_year": fetchedYear,
			"error":     err.Error(),
		})
	}

	// 8. 저장된 데이터 조회하여 반환
	stored, err := s.repo.FindStatements(company.CorpCode)
	if err != nil {
		return nil, err
	}

	logger.Info("Statements saved successfully", map[string]interface{}{
		"corp_name": corpName,
		"bsns_year": fetchedYear,
		"count":     len(statements),
	})

	return &FetchResult{Company: *company, Statements: stored, Fetched: true}, nil
}

// previousYear 직전 연도 (YYYY)
func previousYear() string {
	return time.Now().AddDate(-1, 0, 0).Format("2006")
}
