package repository

import (
	"testing"

	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFinTest(t *testing.T) (*gorm.DB, FinRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return testDB, NewFinRepository(testDB)
}

func newStatement(corpCode, corpName, bsnsYear, sjDiv, accountNm string, amount float64) model.FinancialStatement {
	return model.FinancialStatement{
		CorpCode:     corpCode,
		CorpName:     corpName,
		BsnsYear:     bsnsYear,
		SjDiv:        sjDiv,
		SjNm:         sjDivName(sjDiv),
		AccountNm:    accountNm,
		ThstrmAmount: amount,
		Currency:     "KRW",
	}
}

func sjDivName(sjDiv string) string {
	switch sjDiv {
	case model.SjDivBS:
		return "재무상태표"
	case model.SjDivIS:
		return "손익계산서"
	case model.SjDivCF:
		return "현금흐름표"
	}
	return sjDiv
}

func TestFinRepository_UpsertStatements_UniqueTuple(t *testing.T) {
	testDB, repo := setupFinTest(t)

	stmt := newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "자산총계", 1000)
	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{stmt}))

	// 동일한 (corp_code, bsns_year, sj_div, account_nm) 재삽입은 갱신되어야 한다
	stmt.ThstrmAmount = 2000
	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{stmt}))

	var count int64
	testDB.Model(&model.FinancialStatement{}).
		Where("corp_code = ? AND bsns_year = ? AND sj_div = ? AND account_nm = ?",
			"00126380", "2023", model.SjDivBS, "자산총계").
		Count(&count)
	assert.Equal(t, int64(1), count)

	var found model.FinancialStatement
	require.NoError(t, testDB.Where("corp_code = ?", "00126380").First(&found).Error)
	assert.Equal(t, float64(2000), found.ThstrmAmount)
}

func TestFinRepository_ListCompanies(t *testing.T) {
	_, repo := setupFinTest(t)

	statements := []model.FinancialStatement{
		newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "자산총계", 1000),
		newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "부채총계", 400),
		newStatement("00126380", "삼성전자", "2022", model.SjDivIS, "매출액", 3000),
		newStatement("00164779", "LG전자", "2023", model.SjDivBS, "자산총계", 500),
	}
	require.NoError(t, repo.UpsertStatements(statements))

	companies, err := repo.ListCompanies()
	require.NoError(t, err)

	// corp_code 당 한 번씩, 회사명 순
	require.Len(t, companies, 2)
	assert.Equal(t, "LG전자", companies[0].CorpName)
	assert.Equal(t, "00164779", companies[0].CorpCode)
	assert.Equal(t, "삼성전자", companies[1].CorpName)
}

func TestFinRepository_ListStatementYears(t *testing.T) {
	_, repo := setupFinTest(t)

	statements := []model.FinancialStatement{
		newStatement("01515323", "테스트상사", "2022", model.SjDivBS, "자산총계", 100),
		newStatement("01515323", "테스트상사", "2022", model.SjDivIS, "매출액", 200),
		newStatement("01515323", "테스트상사", "2023", model.SjDivBS, "자산총계", 150),
		newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "자산총계", 1000),
	}
	require.NoError(t, repo.UpsertStatements(statements))

	years, err := repo.ListStatementYears("01515323")
	require.NoError(t, err)

	// 최신 연도 우선, 같은 연도는 sj_div 순
	require.Len(t, years, 3)
	assert.Equal(t, "2023", years[0].BsnsYear)
	assert.Equal(t, "2022", years[1].BsnsYear)
	assert.Equal(t, "2022", years[2].BsnsYear)
	assert.Equal(t, model.SjDivBS, years[1].SjDiv)
	assert.Equal(t, model.SjDivIS, years[2].SjDiv)

	for _, y := range years {
		assert.Equal(t, "01515323", y.CorpCode)
	}
}

func TestFinRepository_ListStatementYears_UnknownCode(t *testing.T) {
	_, repo := setupFinTest(t)

	years, err := repo.ListStatementYears("99999999")
	require.NoError(t, err)
	assert.Empty(t, years)
}

func TestFinRepository_FindCompanyByName(t *testing.T) {
	_, repo := setupFinTest(t)

	stmt := newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "자산총계", 1000)
	stmt.StockCode = "005930"
	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{stmt}))

	info, err := repo.FindCompanyByName("삼성전자")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "00126380", info.CorpCode)
	assert.Equal(t, "005930", info.StockCode)

	// 없는 회사는 nil 반환 (에러 아님)
	missing, err := repo.FindCompanyByName("없는회사")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFinRepository_FindStatements_ExcludesRatioRows(t *testing.T) {
	_, repo := setupFinTest(t)

	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{
		newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "자산총계", 1000),
		newStatement("00126380", "삼성전자", "2022", model.SjDivBS, "자산총계", 900),
	}))
	require.NoError(t, repo.UpsertRatios(&model.FinancialRatios{
		CorpCode:  "00126380",
		CorpName:  "삼성전자",
		BsnsYear:  "2023",
		DebtRatio: 45.6789,
	}))

	statements, err := repo.FindStatements("00126380")
	require.NoError(t, err)

	require.Len(t, statements, 2)
	assert.Equal(t, "2023", statements[0].BsnsYear)
	assert.Equal(t, "2022", statements[1].BsnsYear)
	for _, s := range statements {
		assert.NotEqual(t, model.SjDivRatio, s.SjDiv)
	}
}

func TestFinRepository_FindLatestYear(t *testing.T) {
	testDB, repo := setupFinTest(t)

	latest, err := repo.FindLatestYear("삼성전자")
	require.NoError(t, err)
	assert.Equal(t, "", latest)

	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{
		newStatement("00126380", "삼성전자", "2021", model.SjDivBS, "자산총계", 800),
		newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "부채총계", 400),
	}))

	latest, err = repo.FindLatestYear("삼성전자")
	require.NoError(t, err)
	assert.Equal(t, "2023", latest)

	require.NoError(t, db.TruncateAllTables(testDB))

	latest, err = repo.FindLatestYear("삼성전자")
	require.NoError(t, err)
	assert.Equal(t, "", latest)
}

func TestFinRepository_DeleteStatements(t *testing.T) {
	_, repo := setupFinTest(t)

	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{
		newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "자산총계", 1000),
		newStatement("00126380", "삼성전자", "2022", model.SjDivBS, "자산총계", 900),
	}))
	require.NoError(t, repo.UpsertRatios(&model.FinancialRatios{
		CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023", DebtRatio: 40,
	}))

	require.NoError(t, repo.DeleteStatements("00126380", "2023"))

	statements, err := repo.FindStatements("00126380")
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, "2022", statements[0].BsnsYear)

	// 비율 행은 삭제 대상이 아니다
	summaries, err := repo.RatioSummaryByCompanyName("삼성전자")
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestFinRepository_UpsertRatios_Overwrites(t *testing.T) {
	testDB, repo := setupFinTest(t)

	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{
		newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "자산총계", 1000),
	}))

	require.NoError(t, repo.UpsertRatios(&model.FinancialRatios{
		CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023",
		DebtRatio: 40.123, CurrentRatio: 150.456,
	}))
	require.NoError(t, repo.UpsertRatios(&model.FinancialRatios{
		CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023",
		DebtRatio: 42.987, CurrentRatio: 140.111,
	}))

	var count int64
	testDB.Model(&model.FinancialStatement{}).
		Where("corp_code = ? AND sj_div = ?", "00126380", model.SjDivRatio).
		Count(&count)
	assert.Equal(t, int64(1), count)

	summaries, err := repo.RatioSummaryByCompanyName("삼성전자")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.InDelta(t, 42.99, summaries[0].DebtRatio, 0.001)
}

func TestFinRepository_RatioSummaryByCompanyName(t *testing.T) {
	_, repo := setupFinTest(t)

	require.NoError(t, repo.UpsertStatements([]model.FinancialStatement{
		newStatement("00126380", "삼성전자", "2023", model.SjDivBS, "자산총계", 1000),
		newStatement("00126380", "삼성전자", "2022", model.SjDivBS, "자산총계", 900),
		newStatement("00164779", "LG전자", "2023", model.SjDivBS, "자산총계", 500),
	}))
	require.NoError(t, repo.UpsertRatios(&model.FinancialRatios{
		CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2023",
		DebtRatio: 45.6789, CurrentRatio: 150.4567,
	}))
	require.NoError(t, repo.UpsertRatios(&model.FinancialRatios{
		CorpCode: "00126380", CorpName: "삼성전자", BsnsYear: "2022",
		DebtRatio: 50.1234, CurrentRatio: 160.9876,
	}))

	summaries, err := repo.RatioSummaryByCompanyName("삼성전자")
	require.NoError(t, err)

	// 최신 연도 우선, 소수점 2자리 반올림
	require.Len(t, summaries, 2)
	assert.Equal(t, "2023", summaries[0].BsnsYear)
	assert.InDelta(t, 45.68, summaries[0].DebtRatio, 0.001)
	assert.InDelta(t, 150.46, summaries[0].CurrentRatio, 0.001)
	assert.Equal(t, "2022", summaries[1].BsnsYear)
	assert.InDelta(t, 50.12, summaries[1].DebtRatio, 0.001)

	// 비율 행이 없는 회사는 결과에서 제외
	empty, err := repo.RatioSummaryByCompanyName("LG전자")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
