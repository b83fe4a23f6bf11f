package service

import (
	"errors"

	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/internal/app/repository"
	"github.com/jwlim/finstat-backend/pkg/logger"
	"github.com/jwlim/finstat-backend/pkg/redis"
)

var ErrRatioNotFound = errors.New("재무비율 데이터를 찾을 수 없습니다")

// 재무비율 계산에 사용하는 계정과목명 (DART 표준 명칭)
const (
	acntTotalAssets       = "자산총계"
	acntTotalLiabilities  = "부채총계"
	acntTotalEquity       = "자본총계"
	acntCurrentAssets     = "유동자산"
	acntCurrentLiab       = "유동부채"
	acntNonCurrentLiab    = "비유동부채"
	acntRevenue           = "매출액"
	acntOperatingProfit   = "영업이익"
	acntNetIncome         = "당기순이익"
	acntInterestExpense   = "이자비용"
	acntOperatingCashFlow = "영업활동현금흐름"
)

// RatioService 재무비율 서비스 인터페이스
type RatioService interface {
	CalculateRatios(corpCode, bsnsYear string) (*model.FinancialRatios, error)
	CalculateAndSaveRatios(corpCode, corpName, bsnsYear string) (*model.FinancialRatios, error)
	GetRatioSummary(corpName string) ([]model.RatioSummary, error)
}

type ratioService struct {
	repo repository.FinRepository
}

// NewRatioService 재무비율 서비스 생성
func NewRatioService(repo repository.FinRepository) RatioService {
	return &ratioService{repo: repo}
}

// amountLookup 재무제표 구분/계정과목명으로 금액을 찾는 헬퍼
type amountLookup []model.FinancialStatement

func (l amountLookup) current(sjDiv, accountNm string) float64 {
	for _, s := range l {
		if s.SjDiv == sjDiv && s.AccountNm == accountNm {
			return s.ThstrmAmount
		}
	}
	return 0
}

func (l amountLookup) previous(sjDiv, accountNm string) float64 {
	for _, s := range l {
		if s.SjDiv == sjDiv && s.AccountNm == accountNm {
			return s.FrmtrmAmount
		}
	}
	return 0
}

func (l amountLookup) beforePrevious(sjDiv, accountNm string) float64 {
	for _, s := range l {
		if s.SjDiv == sjDiv && s.AccountNm == accountNm {
			return s.BfefrmtrmAmount
		}
	}
	return 0
}

// CalculateRatios 저장된 재무제표에서 연도별 재무비율을 계산한다
// 분모가 0 이하인 비율은 0으로 남긴다
func (s *ratioService) CalculateRatios(corpCode, bsnsYear string) (*model.FinancialRatios, error) {
	statements, err := s.repo.FindStatementsByYear(corpCode, bsnsYear)
	if err != nil {
		return nil, err
	}
	if len(statements) == 0 {
		logger.Warn("No statements found for ratio calculation", map[string]interface{}{
			"corp_code": corpCode,
			"bsns_year": bsnsYear,
		})
		return nil, ErrRatioNotFound
	}

	lookup := amountLookup(statements)
	ratios := &model.FinancialRatios{
		CorpCode: corpCode,
		BsnsYear: bsnsYear,
	}

	// 안정성 지표
	totalAssets := lookup.current(model.SjDivBS, acntTotalAssets)
	totalLiabilities := lookup.current(model.SjDivBS, acntTotalLiabilities)
	totalEquity := lookup.current(model.SjDivBS, acntTotalEquity)
	currentAssets := lookup.current(model.SjDivBS, acntCurrentAssets)
	currentLiabilities := lookup.current(model.SjDivBS, acntCurrentLiab)
	nonCurrentLiabilities := lookup.current(model.SjDivBS, acntNonCurrentLiab)

	if totalEquity > 0 {
		ratios.DebtRatio = totalLiabilities / totalEquity * 100
	}
	if currentLiabilities > 0 {
		ratios.CurrentRatio = currentAssets / currentLiabilities * 100
	}

	// 수익성 지표
	revenue := lookup.current(model.SjDivIS, acntRevenue)
	operatingProfit := lookup.current(model.SjDivIS, acntOperatingProfit)
	netIncome := lookup.current(model.SjDivIS, acntNetIncome)

	if revenue > 0 {
		ratios.OperatingProfitRatio = operatingProfit / revenue * 100
		ratios.NetProfitRatio = netIncome / revenue * 100
	}
	if totalEquity > 0 {
		ratios.ROE = netIncome / totalEquity * 100
	}
	if totalAssets > 0 {
		ratios.ROA = netIncome / totalAssets * 100
	}

	// 건전성 지표
	if totalLiabilities > 0 {
		ratios.DebtDependency = (currentLiabilities + nonCurrentLiabilities) / totalLiabilities * 100
	}

	interestExpense := lookup.current(model.SjDivIS, acntInterestExpense)
	if interestExpense > 0 {
		ratios.InterestCoverageRatio = operatingProfit / interestExpense
	}

	operatingCashFlow := lookup.current(model.SjDivCF, acntOperatingCashFlow)
	if totalLiabilities > 0 && operatingCashFlow != 0 {
		ratios.CashFlowDebtRatio = operatingCashFlow / totalLiabilities * 100
	}

	// 성장률 지표 - 전기/전전기 금액이 모두 양수일 때만 계산
	prevRevenue := lookup.previous(model.SjDivIS, acntRevenue)
	prevOperatingProfit := lookup.previous(model.SjDivIS, acntOperatingProfit)
	prevNetIncome := lookup.previous(model.SjDivIS, acntNetIncome)

	if prevRevenue > 0 && lookup.beforePrevious(model.SjDivIS, acntRevenue) > 0 {
		ratios.SalesGrowth = growthRate(revenue, prevRevenue)
	}
	if prevOperatingProfit > 0 && lookup.beforePrevious(model.SjDivIS, acntOperatingProfit) > 0 {
		ratios.OperatingProfitGrowth = growthRate(operatingProfit, prevOperatingProfit)
	}
	if prevNetIncome > 0 && lookup.beforePrevious(model.SjDivIS, acntNetIncome) > 0 {
		ratios.EPSGrowth = growthRate(netIncome, prevNetIncome)
	}

	return ratios, nil
}

// CalculateAndSaveRatios 재무비율을 계산하고 fin_data에 upsert 한다
// 성공 시 해당 회사의 비율 요약 캐시를 무효화한다
func (s *ratioService) CalculateAndSaveRatios(corpCode, corpName, bsnsYear string) (*model.FinancialRatios, error) {
	ratios, err := s.CalculateRatios(corpCode, bsnsYear)
	if err != nil {
		return nil, err
	}
	ratios.CorpName = corpName

	if err := s.repo.UpsertRatios(ratios); err != nil {
		logger.Error("Failed to save financial ratios", err, map[string]interface{}{
			"corp_code": corpCode,
			"bsns_year": bsnsYear,
		})
		return nil, err
	}

	redis.InvalidateRatioSummary(corpName)

	return ratios, nil
}

// GetRatioSummary 회사명 기준 연도별 부채비율/유동비율 조회 (캐시 우선)
func (s *ratioService) GetRatioSummary(corpName string) ([]model.RatioSummary, error) {
	if cached, ok := redis.GetCachedRatioSummary(corpName); ok {
		return cached, nil
	}

	summaries, err := s.repo.RatioSummaryByCompanyName(corpName)
	if err != nil {
		return nil, err
	}

	if len(summaries) > 0 {
		redis.CacheRatioSummary(corpName, summaries)
	}

	return summaries, nil
}

// growthRate 성장률 계산: ((당기 - 전기) / |전기|) * 100
func growthRate(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	rate := (current - previous) / previous * 100
	if previous < 0 {
		rate = -rate
	}
	return rate
}
