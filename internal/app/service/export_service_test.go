package service

import (
	"testing"

	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/internal/app/repository"
	"github.com/jwlim/finstat-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExportTest(t *testing.T) (repository.FinRepository, ExportService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := repository.NewFinRepository(testDB)
	return repo, NewExportService(repo)
}

func TestExportService_ExportStatements(t *testing.T) {
	repo, svc := setupExportTest(t)

	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{
		{
			CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023",
			SjDiv: model.SjDivBS, SjNm: "재무상태표", AccountNm: "자산총계",
			ThstrmNm: "제 55 기", ThstrmAmount: 2000, Currency: "KRW",
		},
		{
			CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023",
			SjDiv: model.SjDivIS, SjNm: "손익계산서", AccountNm: "매출액",
			ThstrmNm: "제 55 기", ThstrmAmount: 1000, Currency: "KRW",
		},
	}))

	file, filename, err := svc.ExportStatements("00126380")
	require.NoError(t, err)
	assert.Equal(t, "재무제표_삼성전자.xlsx", filename)

	sheet := file.GetSheetName(0)
	rows, err := file.GetRows(sheet)
	require.NoError(t, err)

	// 헤더 1행 + 데이터 2행
	require.Len(t, rows, 3)
	assert.Equal(t, "사업연도", rows[0][0])
	assert.Equal(t, "계정과목", rows[0][3])
	assert.Equal(t, "2023", rows[1][0])
	assert.Equal(t, "자산총계", rows[1][3])
	assert.Equal(t, "2000", rows[1][5])
	assert.Equal(t, "매출액", rows[2][3])
}

func TestExportService_ExportStatements_NotFound(t *testing.T) {
	_, svc := setupExportTest(t)

	_, _, err := svc.ExportStatements("99999999")
	assert.ErrorIs(t, err, ErrStatementNotFound)
}
