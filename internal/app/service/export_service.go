package service

import (
	"fmt"

	"github.com/jwlim/finstat-backend/internal/app/repository"
	"github.com/jwlim/finstat-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// exportHeaders XLSX 내보내기 헤더 (시트 1행)
var exportHeaders = []string{
	"사업연도", "재무제표구분", "재무제표명", "계정과목",
	"당기명", "당기금액", "전기명", "전기금액", "전전기명", "전전기금액", "통화",
}

// ExportService 재무제표 XLSX 내보내기 서비스
type ExportService interface {
	ExportStatements(corpCode string) (*excelize.File, string, error)
}

type exportService struct {
	repo repository.FinRepository
}

// NewExportService 내보내기 서비스 생성
func NewExportService(repo repository.FinRepository) ExportService {
	return &exportService{repo: repo}
}

// ExportStatements 회사의 전체 재무제표를 XLSX 파일로 변환한다
// 반환된 파일명은 "재무제표_<회사명>.xlsx" 형식
func (s *exportService) ExportStatements(corpCode string) (*excelize.File, string, error) {
	statements, err := s.repo.FindStatements(corpCode)
	if err != nil {
		return nil, "", err
	}
	if len(statements) == 0 {
		return nil, "", ErrStatementNotFound
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	for i, stmt := range statements {
		row := i + 2
		values := []interface{}{
			stmt.BsnsYear, stmt.SjDiv, stmt.SjNm, stmt.AccountNm,
			stmt.ThstrmNm, stmt.ThstrmAmount,
			stmt.FrmtrmNm, stmt.FrmtrmAmount,
			stmt.BfefrmtrmNm, stmt.BfefrmtrmAmount,
			stmt.Currency,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	logger.Info("Exported statements to XLSX", map[string]interface{}{
		"corp_code": corpCode,
		"rows":      len(statements),
	})

	filename := fmt.Sprintf("재무제표_%s.xlsx", statements[0].CorpName)
	return f, filename, nil
}
