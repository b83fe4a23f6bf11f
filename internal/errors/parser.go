package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보는 숨기되, 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL 에러 파싱

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 3. 비즈니스 로직 에러 (service layer에서 정의된 에러)
	if strings.Contains(errStr, "회사 정보를 찾을 수 없습니다") {
		return ErrorInfo{Code: CompanyNotFound, Message: "회사 정보를 찾을 수 없습니다"}
	}
	if strings.Contains(errStr, "재무제표 데이터를 찾을 수 없습니다") {
		return ErrorInfo{Code: FinStatementNotFound, Message: "재무제표 데이터를 찾을 수 없습니다"}
	}

	// 4. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "외부 서비스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	// 5. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요",
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// (corp_code, bsns_year, sj_div, account_nm) 복합 유니크 위반
	if strings.Contains(errLower, "idx_fin_data_corp_year_sj_account") || strings.Contains(errLower, "account_nm") {
		return ErrorInfo{
			Code:    FinDuplicateItem,
			Message: "동일한 회사/연도/재무제표의 계정과목이 이미 존재합니다",
		}
	}

	// Primary key 중복
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "이미 존재하는 데이터입니다. 다시 시도해주세요",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

// parseNotNullError Not null constraint 위반 에러 파싱
func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "corp_code") {
		return ErrorInfo{Code: ValidationRequired, Message: "회사 고유번호는 필수 항목입니다"}
	}
	if strings.Contains(errLower, "corp_name") {
		return ErrorInfo{Code: ValidationRequired, Message: "회사명은 필수 항목입니다"}
	}
	if strings.Contains(errLower, "bsns_year") {
		return ErrorInfo{Code: ValidationRequired, Message: "사업연도는 필수 항목입니다"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "필수 항목이 누락되었습니다",
	}
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
// controller에서 간편하게 사용할 수 있도록
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "company") || strings.Contains(contextLower, "회사") {
		return "회사 정보를 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "statement") || strings.Contains(contextLower, "재무제표") {
		return "재무제표 데이터를 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "ratio") || strings.Contains(contextLower, "비율") {
		return "재무비율 데이터를 찾을 수 없습니다"
	}

	return "요청한 데이터를 찾을 수 없습니다"
}
