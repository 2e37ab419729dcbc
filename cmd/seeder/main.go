package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/foxxcyber/pantry-match/internal/config"
	"github.com/foxxcyber/pantry-match/internal/database"
	"github.com/foxxcyber/pantry-match/internal/logger"
	"github.com/foxxcyber/pantry-match/internal/models"
	"github.com/foxxcyber/pantry-match/internal/services"
)

const expirationLayout = "2006-01-02"

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	ownerID := flag.Int("owner", 1, "Owner (user ID) the pantry and recipes belong to")
	pantryFile := flag.String("pantry", "", "CSV file of pantry lots: name,amount,unit,category,expiration_date")
	recipeFile := flag.String("recipes", "", "Text file of recipes: '# Title' followed by one ingredient per line")
	flag.Parse()

	// Load .env
	godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Development: true})
	defer log.Sync()

	if *pantryFile == "" && *recipeFile == "" {
		log.Fatal("nothing to seed: pass -pantry and/or -recipes")
	}

	var lots []*models.PantryLot
	if *pantryFile != "" {
		file, err := os.Open(*pantryFile)
		if err != nil {
			log.Fatal("failed to open pantry file", zap.Error(err))
		}
		lots, err = parsePantryCSV(file, *ownerID, log)
		file.Close()
		if err != nil {
			log.Fatal("failed to parse pantry file", zap.Error(err))
		}
		log.Info("parsed pantry lots", zap.Int("count", len(lots)))
	}

	var recipes []models.CreateRecipeRequest
	if *recipeFile != "" {
		file, err := os.Open(*recipeFile)
		if err != nil {
			log.Fatal("failed to open recipe file", zap.Error(err))
		}
		recipes, err = parseRecipes(file)
		file.Close()
		if err != nil {
			log.Fatal("failed to parse recipe file", zap.Error(err))
		}
		log.Info("parsed recipes", zap.Int("count", len(recipes)))
	}

	if *dryRun {
		fmt.Println("DRY RUN - No changes will be made")
		printPreview(os.Stdout, lots, recipes)
		return
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBMaxConns, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	for _, lot := range lots {
		if _, err := db.CreateLot(ctx, lot); err != nil {
			log.Fatal("failed to insert lot", zap.String("name", lot.Name), zap.Error(err))
		}
	}

	for i := range recipes {
		recipe, err := db.CreateRecipe(ctx, *ownerID, &recipes[i])
		if err != nil {
			log.Fatal("failed to insert recipe", zap.String("title", recipes[i].Title), zap.Error(err))
		}
		log.Info("recipe created", zap.Int("id", recipe.ID), zap.String("title", recipe.Title))
	}

	log.Info("seed complete", zap.Int("lots", len(lots)), zap.Int("recipes", len(recipes)))
}

// parsePantryCSV reads pantry lots. The header row names the columns;
// only name and amount are required. Malformed rows are skipped.
func parsePantryCSV(reader io.Reader, ownerID int, log *zap.Logger) ([]*models.PantryLot, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"name", "amount"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	field := func(record []string, col string) string {
		idx, ok := colMap[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var lots []*models.PantryLot
	for line := 2; ; line++ {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("skipping malformed row", zap.Int("line", line), zap.Error(err))
			continue
		}

		amount, err := strconv.ParseFloat(field(record, "amount"), 64)
		if err != nil {
			log.Warn("skipping row with bad amount", zap.Int("line", line), zap.Error(err))
			continue
		}

		req := &models.CreatePantryLotRequest{
			Name:     field(record, "name"),
			Amount:   amount,
			Unit:     field(record, "unit"),
			Category: field(record, "category"),
		}
		if exp := field(record, "expiration_date"); exp != "" {
			date, err := time.Parse(expirationLayout, exp)
			if err != nil {
				log.Warn("skipping row with bad expiration date", zap.Int("line", line), zap.Error(err))
				continue
			}
			req.ExpirationDate = &date
		}

		lot, err := services.NewPantryLot(ownerID, req)
		if err != nil {
			log.Warn("skipping invalid lot", zap.Int("line", line), zap.Error(err))
			continue
		}
		lots = append(lots, lot)
	}

	return lots, nil
}

// parseRecipes reads recipes written as a "# Title" line followed by one
// ingredient per line. Blank lines and list markers are ignored.
func parseRecipes(reader io.Reader) ([]models.CreateRecipeRequest, error) {
	var recipes []models.CreateRecipeRequest
	var current *models.CreateRecipeRequest

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			title := strings.TrimSpace(strings.TrimLeft(line, "#"))
			recipes = append(recipes, models.CreateRecipeRequest{Title: title})
			current = &recipes[len(recipes)-1]
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("ingredient %q appears before any recipe title", line)
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-*"))
		current.Ingredients = append(current.Ingredients, models.RecipeIngredientLine{RawText: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return recipes, nil
}

// printPreview shows what would be imported
func printPreview(w io.Writer, lots []*models.PantryLot, recipes []models.CreateRecipeRequest) {
	fmt.Fprintln(w, "\n=== Pantry lots to import ===")
	fmt.Fprintf(w, "Total: %d lots\n\n", len(lots))

	categoryCount := make(map[string]int)
	for _, lot := range lots {
		category := lot.Category
		if category == "" {
			category = "(none)"
		}
		categoryCount[category]++
	}
	categories := make([]string, 0, len(categoryCount))
	for c := range categoryCount {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(w, "  %s: %d lots\n", c, categoryCount[c])
	}

	fmt.Fprintln(w)
	for _, lot := range lots {
		exp := "no expiry"
		if lot.ExpirationDate != nil {
			exp = lot.ExpirationDate.Format(expirationLayout)
		}
		fmt.Fprintf(w, "  %-30s %8g %-6s -> %q (%s)\n",
			lot.Name, lot.Quantity.Amount, lot.Quantity.Unit, lot.CanonicalName, exp)
	}

	fmt.Fprintf(w, "\n=== Recipes to import ===\nTotal: %d recipes\n", len(recipes))
	parser := services.NewIngredientParser()
	for _, r := range recipes {
		fmt.Fprintf(w, "\n  %s\n", r.Title)
		for _, ing := range parser.ParseLines(r.Ingredients) {
			fmt.Fprintf(w, "    %-35s %g %s %q\n",
				ing.RawText, ing.Required.Amount, ing.Required.Unit, ing.ParsedName)
		}
	}
}
