package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 회사 (COMPANY_) ====================
	CompanyNotFound    = "COMPANY_NOT_FOUND"    // 회사 없음
	CompanyNameInvalid = "COMPANY_NAME_INVALID" // 잘못된 회사명

	// ==================== 재무제표 (FIN_) ====================
	FinStatementNotFound = "FIN_STATEMENT_NOT_FOUND" // 재무제표 없음
	FinRatioNotFound     = "FIN_RATIO_NOT_FOUND"     // 재무비율 없음
	FinInvalidYear       = "FIN_INVALID_YEAR"        // 잘못된 사업연도
	FinDuplicateItem     = "FIN_DUPLICATE_ITEM"      // 계정과목 중복

	// ==================== DART API (DART_) ====================
	DartAPIFailed     = "DART_API_FAILED"      // DART 호출 실패
	DartAPIKeyMissing = "DART_API_KEY_MISSING" // API 키 미설정
	DartNoData        = "DART_NO_DATA"         // 공시 데이터 없음

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
