package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jwlim/finstat-backend/config"
	"github.com/jwlim/finstat-backend/internal/app/model"
	"github.com/jwlim/finstat-backend/internal/app/repository"
	"github.com/jwlim/finstat-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// XLSX 컬럼 순서 (1행은 헤더)
// corp_code, corp_name, stock_code, bsns_year, sj_div, sj_nm, account_nm,
// thstrm_nm, thstrm_amount, frmtrm_nm, frmtrm_amount, bfefrmtrm_nm, bfefrmtrm_amount, ord, currency
const minColumns = 15

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Repository 생성
	finRepo := repository.NewFinRepository(db.GetDB())

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	statements, err := readStatementsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total statement rows to import: %d\n", len(statements))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 배치로 저장 (유니크 키 충돌 시 갱신)
	batchSize := 1000
	imported := 0
	for start := 0; start < len(statements); start += batchSize {
		end := start + batchSize
		if end > len(statements) {
			end = len(statements)
		}
		if err := finRepo.UpsertStatements(statements[start:end]); err != nil {
			log.Fatalf("Failed to import batch %d-%d: %v", start, end, err)
		}
		imported += end - start
		fmt.Printf("Imported %d/%d rows\n", imported, len(statements))
	}

	fmt.Println("Import completed successfully.")
}

// readStatementsFromXLSX XLSX 첫 번째 시트에서 재무제표 행을 읽는다
func readStatementsFromXLSX(filePath string) ([]model.FinancialStatement, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows in sheet %s", sheet)
	}

	statements := make([]model.FinancialStatement, 0, len(rows)-1)
	for i, row := range rows[1:] { // 1행은 헤더
		if len(row) < minColumns {
			fmt.Printf("Skipping row %d: expected %d columns, got %d\n", i+2, minColumns, len(row))
			continue
		}

		corpCode := strings.TrimSpace(row[0])
		corpName := strings.TrimSpace(row[1])
		bsnsYear := strings.TrimSpace(row[3])
		if corpCode == "" || corpName == "" || bsnsYear == "" {
			fmt.Printf("Skipping row %d: missing required fields\n", i+2)
			continue
		}

		statements = append(statements, model.FinancialStatement{
			CorpCode:        corpCode,
			CorpName:        corpName,
			StockCode:       strings.TrimSpace(row[2]),
			BsnsYear:        bsnsYear,
			SjDiv:           strings.TrimSpace(row[4]),
			SjNm:            strings.TrimSpace(row[5]),
			AccountNm:       strings.TrimSpace(row[6]),
			ThstrmNm:        strings.TrimSpace(row[7]),
			ThstrmAmount:    parseAmount(row[8]),
			FrmtrmNm:        strings.TrimSpace(row[9]),
			FrmtrmAmount:    parseAmount(row[10]),
			BfefrmtrmNm:     strings.TrimSpace(row[11]),
			BfefrmtrmAmount: parseAmount(row[12]),
			Ord:             parseInt(row[13]),
			Currency:        strings.TrimSpace(row[14]),
		})
	}

	return statements, nil
}

func parseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return amount
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
