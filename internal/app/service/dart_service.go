package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/jwlim/finstat-backend/config"
	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/pkg/logger"
	"golang.org/x/time/rate"
)

var (
	ErrDartAPIKeyMissing = errors.New("DART API 키가 설정되지 않았습니다")
	ErrDartAPIFailed     = errors.New("DART API 호출에 실패했습니다")
	ErrDartNoData        = errors.New("조회된 공시 데이터가 없습니다")
)

// dartStatusOK DART 응답 정상 코드
const dartStatusOK = "000"

// dartStatusNoData 조회 결과 없음 코드
const dartStatusNoData = "013"

// DartClient DART 전자공시 OpenAPI 클라이언트 인터페이스
type DartClient interface {
	FetchFinancialStatements(ctx context.Context, corpCode, bsnsYear string) ([]RawStatement, error)
}

// RawStatement DART 단일회사 주요계정(fnlttSinglAcnt) 응답 한 건
// 금액은 쉼표가 포함된 문자열로 내려온다
type RawStatement struct {
	RceptNo         string `json:"rcept_no"`
	ReprtCode       string `json:"reprt_code"`
	BsnsYear        string `json:"bsns_year"`
	CorpCode        string `json:"corp_code"`
	StockCode       string `json:"stock_code"`
	FsDiv           string `json:"fs_div"`
	FsNm            string `json:"fs_nm"`
	SjDiv           string `json:"sj_div"`
	SjNm            string `json:"sj_nm"`
	AccountNm       string `json:"account_nm"`
	ThstrmNm        string `json:"thstrm_nm"`
	ThstrmAmount    string `json:"thstrm_amount"`
	FrmtrmNm        string `json:"frmtrm_nm"`
	FrmtrmAmount    string `json:"frmtrm_amount"`
	BfefrmtrmNm     string `json:"bfefrmtrm_nm"`
	BfefrmtrmAmount string `json:"bfefrmtrm_amount"`
	Ord             string `json:"ord"`
	Currency        string `json:"currency"`
}

// dartResponse DART 응답 공통 envelope
type dartResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	List    []RawStatement `json:"list"`
}

type dartClient struct {
	client    *resty.Client
	limiter   *rate.Limiter
	apiKey    string
	reprtCode string
}

// NewDartClient DART API 클라이언트 생성
// rateLimit(분당 호출 수)에 맞춰 호출 간격을 제한한다
func NewDartClient(cfg *config.DartConfig) DartClient {
	return &dartClient{
		client:    resty.New().SetBaseURL(cfg.BaseURL),
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), 1),
		apiKey:    cfg.APIKey,
		reprtCode: cfg.ReprtCode,
	}
}

// FetchFinancialStatements 사업연도의 주요계정 전체 조회 (사업보고서 기준)
func (d *dartClient) FetchFinancialStatements(ctx context.Context, corpCode, bsnsYear string) ([]RawStatement, error) {
	if d.apiKey == "" {
		return nil, ErrDartAPIKeyMissing
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result dartResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"crtfc_key":  d.apiKey,
			"corp_code":  corpCode,
			"bsns_year":  bsnsYear,
			"reprt_code": d.reprtCode,
		}).
		SetResult(&result).
		Get("/fnlttSinglAcnt.json")
	if err != nil {
		logger.Error("Failed to call DART API", err, map[string]interface{}{
			"corp_code": corpCode,
			"bsns_year": bsnsYear,
		})
		return nil, fmt.Errorf("%w: %v", ErrDartAPIFailed, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: status %d", ErrDartAPIFailed, resp.StatusCode())
	}

	switch result.Status {
	case dartStatusOK:
	case dartStatusNoData:
		return nil, ErrDartNoData
	default:
		return nil, fmt.Errorf("%w: %s - %s", ErrDartAPIFailed, result.Status, result.Message)
	}

	if len(result.List) == 0 {
		return nil, ErrDartNoData
	}

	logger.Info("Fetched financial statements from DART", map[string]interface{}{
		"corp_code": corpCode,
		"bsns_year": bsnsYear,
		"count":     len(result.List),
	})

	return result.List, nil
}

// ParseAmount 쉼표가 포함된 금액 문자열을 숫자로 변환 (빈 값은 0)
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return 0
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return amount
}

// DeduplicateStatements (account_nm, sj_nm)이 같은 계정과목 중 ord가 가장 작은 것만 남긴다
// 연결/별도 재무제표가 함께 내려올 때 중복을 제거하기 위함
func DeduplicateStatements(statements []RawStatement) []RawStatement {
	type key struct {
		accountNm string
		sjNm      string
	}

	latest := make(map[key]RawStatement)
	order := make([]key, 0, len(statements))

	for _, stmt := range statements {
		k := key{accountNm: stmt.AccountNm, sjNm: stmt.SjNm}
		existing, ok := latest[k]
		if !ok {
			latest[k] = stmt
			order = append(order, k)
			continue
		}
		if parseOrd(stmt.Ord) < parseOrd(existing.Ord) {
			latest[k] = stmt
		}
	}

	result := make([]RawStatement, 0, len(latest))
	for _, k := range order {
		result = append(result, latest[k])
	}
	return result
}

func parseOrd(s string) int {
	ord, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return ord
}

// ToModel DART 응답 한 건을 fin_data 행으로 변환
func (s *RawStatement) ToModel(corpName string) model.FinancialStatement {
	return model.FinancialStatement{
		CorpCode:        s.CorpCode,
		CorpName:        corpName,
		StockCode:       s.StockCode,
		RceptNo:         s.RceptNo,
		ReprtCode:       s.ReprtCode,
		BsnsYear:        s.BsnsYear,
		SjDiv:           s.SjDiv,
		SjNm:            s.SjNm,
		AccountNm:       s.AccountNm,
		ThstrmNm:        s.ThstrmNm,
		ThstrmAmount:    ParseAmount(s.ThstrmAmount),
		FrmtrmNm:        s.FrmtrmNm,
		FrmtrmAmount:    ParseAmount(s.FrmtrmAmount),
		BfefrmtrmNm:     s.BfefrmtrmNm,
		BfefrmtrmAmount: ParseAmount(s.BfefrmtrmAmount),
		Ord:             parseOrd(s.Ord),
		Currency:        s.Currency,
	}
}
