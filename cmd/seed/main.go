package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/chitram/chitram-backend/config"
	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
	"github.com/chitram/chitram-backend/internal/db"
	"github.com/chitram/chitram-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	artistRepo := repository.NewArtistRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	artists, report, err := readArtists(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	report.print()

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := artistRepo.BulkCreate(artists, batchSize); err != nil {
		log.Fatal("Failed to bulk create artists:", err)
	}

	fmt.Printf("Import completed. Artists imported: %d\n", len(artists))
}

// importReport summarizes a sheet read.
type importReport struct {
	sheet   string
	rows    int
	valid   int
	skipped map[string]int
}

func (r importReport) print() {
	fmt.Printf("\nSummary (%s):\n", r.sheet)
	fmt.Printf("  Total rows: %d\n", r.rows)
	fmt.Printf("  Valid artists: %d\n", r.valid)
	for reason, n := range r.skipped {
		fmt.Printf("  Skipped (%s): %d\n", reason, n)
	}
}

// Header names are matched case-insensitively. Social network columns use
// the network name, e.g. "instagram".
var requiredColumns = []string{"full_name", "age", "email"}

// readArtists reads the first sheet. The first row is the header; columns
// can appear in any order.
func readArtists(f *excelize.File) ([]model.Artist, importReport, error) {
	report := importReport{skipped: map[string]int{}}

	report.sheet = f.GetSheetName(0)
	if report.sheet == "" {
		return nil, report, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(report.sheet)
	if err != nil {
		return nil, report, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, report, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, report, fmt.Errorf("missing column %q", name)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var artists []model.Artist
	seenEmails := make(map[string]bool)

	for _, row := range rows[1:] {
		report.rows++

		fullName := util.SanitizeText(cell(row, "full_name"))
		email := util.NormalizeEmail(cell(row, "email"))
		if fullName == "" || email == "" {
			report.skipped["missing name or email"]++
			continue
		}
		if !util.IsValidEmail(email) {
			report.skipped["invalid email"]++
			continue
		}
		age, err := strconv.Atoi(cell(row, "age"))
		if err != nil || age <= 0 {
			report.skipped["invalid age"]++
			continue
		}
		if seenEmails[email] {
			report.skipped["duplicate email"]++
			continue
		}
		seenEmails[email] = true

		socials := model.Socials{}
		for _, network := range model.SocialNetworks {
			socials[network] = cell(row, network)
		}

		artists = append(artists, model.Artist{
			FullName:        fullName,
			Age:             age,
			StartedArtSince: util.SanitizeText(cell(row, "started_art_since")),
			CollegeSchool:   util.SanitizeText(cell(row, "college_school")),
			City:            util.SanitizeText(cell(row, "city")),
			District:        util.SanitizeText(cell(row, "district")),
			Email:           email,
			Phone:           cell(row, "phone"),
			Socials:         socials.Clean(),
			Bio:             util.SanitizeText(cell(row, "bio")),
		})
	}

	report.valid = len(artists)
	return artists, report, nil
}
