package model

import (
	"time"
)

// 재무제표 구분 코드 (sj_div)
const (
	SjDivBS    = "BS"    // 재무상태표
	SjDivIS    = "IS"    // 손익계산서
	SjDivCIS   = "CIS"   // 포괄손익계산서
	SjDivCF    = "CF"    // 현금흐름표
	SjDivSCE   = "SCE"   // 자본변동표
	SjDivRatio = "RATIO" // 재무비율 행 (파생 데이터)
)

// RatioAccountNm 재무비율 행의 고정 계정과목명
// 유니크 제약 (corp_code, bsns_year, sj_div, account_nm)이 비율 행에도
// 그대로 적용되도록 고정값을 사용한다.
const RatioAccountNm = "재무비율"

// FinancialStatement fin_data 테이블 한 행
// 공시된 재무제표 계정과목 한 건 또는 연도별 재무비율 한 건(sj_div=RATIO)
type FinancialStatement struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CorpCode  string `gorm:"type:varchar(20);not null;uniqueIndex:idx_fin_data_corp_year_sj_account,priority:1" json:"corp_code"` // 고유번호 (DART)
	CorpName  string `gorm:"type:varchar(100);not null" json:"corp_name"`                                                         // 회사명
	StockCode string `gorm:"type:varchar(20)" json:"stock_code"`                                                                  // 종목코드
	RceptNo   string `gorm:"type:varchar(20)" json:"rcept_no"`                                                                    // 접수번호
	ReprtCode string `gorm:"type:varchar(10)" json:"reprt_code"`                                                                  // 보고서 코드
	BsnsYear  string `gorm:"type:varchar(4);not null;uniqueIndex:idx_fin_data_corp_year_sj_account,priority:2" json:"bsns_year"`  // 사업연도
	SjDiv     string `gorm:"type:varchar(10);uniqueIndex:idx_fin_data_corp_year_sj_account,priority:3" json:"sj_div"`             // 재무제표 구분
	SjNm      string `gorm:"type:varchar(50)" json:"sj_nm"`                                                                       // 재무제표명
	AccountNm string `gorm:"type:varchar(200);uniqueIndex:idx_fin_data_corp_year_sj_account,priority:4" json:"account_nm"`        // 계정과목명

	// 당기 / 전기 / 전전기 명칭과 금액
	ThstrmNm        string  `gorm:"type:varchar(50)" json:"thstrm_nm"`
	ThstrmAmount    float64 `gorm:"type:numeric" json:"thstrm_amount"`
	FrmtrmNm        string  `gorm:"type:varchar(50)" json:"frmtrm_nm"`
	FrmtrmAmount    float64 `gorm:"type:numeric" json:"frmtrm_amount"`
	BfefrmtrmNm     string  `gorm:"type:varchar(50)" json:"bfefrmtrm_nm"`
	BfefrmtrmAmount float64 `gorm:"type:numeric" json:"bfefrmtrm_amount"`

	Ord      int    `json:"ord"`                              // 표시 순서
	Currency string `gorm:"type:varchar(10)" json:"currency"` // 통화 단위

	// 재무비율 (외부 계산 후 저장, 저장 시 반올림하지 않음)
	DebtRatio             *float64 `gorm:"type:numeric" json:"debt_ratio,omitempty"`              // 부채비율
	CurrentRatio          *float64 `gorm:"type:numeric" json:"current_ratio,omitempty"`           // 유동비율
	InterestCoverageRatio *float64 `gorm:"type:numeric" json:"interest_coverage_ratio,omitempty"` // 이자보상배율
	OperatingProfitRatio  *float64 `gorm:"type:numeric" json:"operating_profit_ratio,omitempty"`  // 영업이익률
	NetProfitRatio        *float64 `gorm:"type:numeric" json:"net_profit_ratio,omitempty"`        // 순이익률
	ROE                   *float64 `gorm:"column:roe;type:numeric" json:"roe,omitempty"`          // 자기자본이익률
	ROA                   *float64 `gorm:"column:roa;type:numeric" json:"roa,omitempty"`          // 총자산이익률
	DebtDependency        *float64 `gorm:"type:numeric" json:"debt_dependency,omitempty"`         // 차입금의존도
	CashFlowDebtRatio     *float64 `gorm:"type:numeric" json:"cash_flow_debt_ratio,omitempty"`    // 현금흐름부채비율
	SalesGrowth           *float64 `gorm:"type:numeric" json:"sales_growth,omitempty"`            // 매출액증가율
	OperatingProfitGrowth *float64 `gorm:"type:numeric" json:"operating_profit_growth,omitempty"` // 영업이익증가율
	EPSGrowth             *float64 `gorm:"type:numeric" json:"eps_growth,omitempty"`              // EPS증가율

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FinancialStatement) TableName() string {
	return "fin_data"
}

// Company 회사 목록 조회 결과
type Company struct {
	CorpCode string `json:"corp_code"`
	CorpName string `json:"corp_name"`
}

// CompanyInfo 회사명 조회 결과 (종목코드 포함)
type CompanyInfo struct {
	CorpCode  string `json:"corp_code"`
	CorpName  string `json:"corp_name"`
	StockCode string `json:"stock_code"`
}

// StatementYear 회사별 보유 재무제표 연도/구분 조회 결과
type StatementYear struct {
	CorpCode string `json:"corp_code"`
	CorpName string `json:"corp_name"`
	BsnsYear string `json:"bsns_year"`
	SjDiv    string `json:"sj_div"`
	SjNm     string `json:"sj_nm"`
}

// RatioSummary 회사명 기준 연도별 주요 재무비율 (소수점 2자리 반올림)
type RatioSummary struct {
	CorpName     string  `json:"corp_name"`
	BsnsYear     string  `json:"bsns_year"`
	DebtRatio    float64 `json:"debt_ratio"`
	CurrentRatio float64 `json:"current_ratio"`
}

// FinancialRatios 연도별 재무비율 계산 결과
type FinancialRatios struct {
	CorpCode              string  `json:"corp_code"`
	CorpName              string  `json:"corp_name"`
	BsnsYear              string  `json:"bsns_year"`
	DebtRatio             float64 `json:"debt_ratio"`
	CurrentRatio          float64 `json:"current_ratio"`
	InterestCoverageRatio float64 `json:"interest_coverage_ratio"`
	OperatingProfitRatio  float64 `json:"operating_profit_ratio"`
	NetProfitRatio        float64 `json:"net_profit_ratio"`
	ROE                   float64 `json:"roe"`
	ROA                   float64 `json:"roa"`
	DebtDependency        float64 `json:"debt_dependency"`
	CashFlowDebtRatio     float64 `json:"cash_flow_debt_ratio"`
	SalesGrowth           float64 `json:"sales_growth"`
	OperatingProfitGrowth float64 `json:"operating_profit_growth"`
	EPSGrowth             float64 `json:"eps_growth"`
}

// ToStatement 비율 계산 결과를 fin_data 저장용 행으로 변환
func (r *FinancialRatios) ToStatement() *FinancialStatement {
	return &FinancialStatement{
		CorpCode:              r.CorpCode,
		CorpName:              r.CorpName,
		BsnsYear:              r.BsnsYear,
		SjDiv:                 SjDivRatio,
		SjNm:                  RatioAccountNm,
		AccountNm:             RatioAccountNm,
		DebtRatio:             &r.DebtRatio,
		CurrentRatio:          &r.CurrentRatio,
		InterestCoverageRatio: &r.InterestCoverageRatio,
		OperatingProfitRatio:  &r.OperatingProfitRatio,
		NetProfitRatio:        &r.NetProfitRatio,
		ROE:                   &r.ROE,
		ROA:                   &r.ROA,
		DebtDependency:        &r.DebtDependency,
		CashFlowDebtRatio:     &r.CashFlowDebtRatio,
		SalesGrowth:           &r.SalesGrowth,
		OperatingProfitGrowth: &r.OperatingProfitGrowth,
		EPSGrowth:             &r.EPSGrowth,
	}
}
