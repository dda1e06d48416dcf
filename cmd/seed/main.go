package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/guialocal/guialocal-backend/config"
	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/app/service"
	"github.com/guialocal/guialocal-backend/internal/db"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

// seedActor registers every row as an admin, so businesses stay unclaimed.
var seedActor = service.Actor{UserID: "seed", Role: model.RoleAdmin}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: cfg.Log.Level, Format: "console", EnableColor: true})

	if cfg.Store.Driver == "memory" {
		log.Fatal("STORE_DRIVER=memory would discard the import; use postgres or mongo")
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readBusinessesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total businesses to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	ctx := context.Background()
	store, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open document store:", err)
	}
	defer store.Close(ctx)

	repo := repository.NewBusinessRepository(store)
	businessService := service.NewBusinessService(repo, nil, service.NewClock(cfg.Directory.Location()))

	created, existing, failed := 0, 0, 0
	for i, row := range rows {
		if _, err := repo.FindByName(ctx, *row.Name); err == nil {
			existing++
			continue
		} else if !errors.Is(err, docstore.ErrNotFound) {
			log.Fatal("Failed to check existing business:", err)
		}

		if _, err := businessService.Create(ctx, seedActor, row); err != nil {
			fmt.Printf("  row %d (%s): %v\n", i+2, *row.Name, err)
			failed++
			continue
		}
		created++
		if created%100 == 0 {
			fmt.Printf("Imported %d businesses...\n", created)
		}
	}

	fmt.Println("Import completed!")
	fmt.Printf("  Created: %d\n", created)
	fmt.Printf("  Already present: %d\n", existing)
	fmt.Printf("  Failed: %d\n", failed)
}

// Sheet columns, matched by header name after lowercasing and removing
// accents. Only "nome" is required.
var columns = []string{
	"nome", "categoria", "descricao", "endereco", "bairro", "cidade", "uf", "cep",
	"telefone", "site", "abertura", "fechamento", "latitude", "longitude",
}

func readBusinessesFromXLSX(filePath string) ([]service.BusinessMutation, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}
	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	index := headerIndex(rows[0])
	if _, ok := index["nome"]; !ok {
		return nil, fmt.Errorf("header row has no \"nome\" column: %v", rows[0])
	}

	var out []service.BusinessMutation
	seen := make(map[string]bool)
	skipped := 0
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		name := cell("nome")
		if len([]rune(name)) < 2 || seen[name] {
			skipped++
			continue
		}
		seen[name] = true

		m := service.BusinessMutation{Name: &name}
		optional := map[string]**string{
			"categoria": &m.Category,
			"descricao": &m.Description,
			"endereco":  &m.Address,
			"bairro":    &m.Neighborhood,
			"cidade":    &m.City,
			"uf":        &m.State,
			"cep":       &m.ZipCode,
			"telefone":  &m.Phone,
			"site":      &m.Website,
		}
		for col, dst := range optional {
			if v := cell(col); v != "" {
				*dst = &v
			}
		}
		if v := sheetClock(cell("abertura")); v != "" {
			m.OpenTime = &v
		}
		if v := sheetClock(cell("fechamento")); v != "" {
			m.CloseTime = &v
		}

		lat, errLat := strconv.ParseFloat(strings.ReplaceAll(cell("latitude"), ",", "."), 64)
		lng, errLng := strconv.ParseFloat(strings.ReplaceAll(cell("longitude"), ",", "."), 64)
		if errLat == nil && errLng == nil && lat != 0 && lng != 0 {
			m.Latitude, m.Longitude = &lat, &lng
		}

		out = append(out, m)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid businesses: %d\n", len(out))
	fmt.Printf("  Skipped rows: %d\n", skipped)
	return out, nil
}

func headerIndex(header []string) map[string]int {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	index := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(util.RemoveDiacritics(strings.TrimSpace(h)))
		if known[key] {
			index[key] = i
		}
	}
	return index
}

// sheetClock accepts "8:00", "08:00" and "0800".
func sheetClock(s string) string {
	if minutes, ok := util.ParseClock(s); ok {
		return util.FormatClock(minutes)
	}
	return util.ClockFromHHMM(s)
}
