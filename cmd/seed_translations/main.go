package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pageza/recetas/backend/config"
	"github.com/pageza/recetas/backend/internal/database"
	"github.com/pageza/recetas/backend/internal/server"
)

const batchSize = 10 // Number of ingredients translated between pauses

// commonIngredients warms the translation memory so first searches do not
// wait on the translation provider.
var commonIngredients = []string{
	"ajo", "cebolla", "tomate", "patata", "zanahoria", "pimiento", "calabacín",
	"berenjena", "espinacas", "lechuga", "pepino", "champiñones", "brócoli",
	"coliflor", "guisantes", "maíz", "judías verdes", "puerro", "apio", "perejil",
	"cilantro", "albahaca", "orégano", "romero", "tomillo", "comino", "pimentón",
	"canela", "jengibre", "limón", "lima", "naranja", "manzana", "plátano",
	"fresas", "aguacate", "arroz", "pasta", "harina", "pan", "avena", "lentejas",
	"garbanzos", "alubias", "pollo", "ternera", "cerdo", "cordero", "jamón",
	"chorizo", "salmón", "atún", "bacalao", "gambas", "mejillones", "calamares",
	"huevo", "leche", "nata", "mantequilla", "queso", "yogur", "aceite de oliva",
	"azúcar", "miel", "chocolate", "almendras", "nueces", "vino blanco", "caldo de pollo",
}

func main() {
	file := flag.String("file", "", "File with one ingredient per line (default: built-in list)")
	pause := flag.Duration("pause", 2*time.Second, "Pause between batches")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ingredients := commonIngredients
	if *file != "" {
		ingredients, err = readIngredients(*file)
		if err != nil {
			log.Fatalf("Failed to read ingredients: %v", err)
		}
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	translator, _, err := server.NewProviders(cfg, db, nil)
	if err != nil {
		log.Fatalf("Failed to create translation service: %v", err)
	}

	ctx := context.Background()
	seeded := 0
	for i := 0; i < len(ingredients); i += batchSize {
		batchEnd := min(i+batchSize, len(ingredients))
		log.Printf("Translating ingredients %d-%d", i+1, batchEnd)

		for _, ingredient := range ingredients[i:batchEnd] {
			translated, err := translator.TranslateStrict(ctx, ingredient, cfg.SourceLang, cfg.TargetLang)
			if err != nil {
				log.Printf("Failed to translate %q: %v", ingredient, err)
				continue
			}
			log.Printf("%s -> %s", ingredient, translated)
			seeded++
		}

		if batchEnd < len(ingredients) {
			time.Sleep(*pause)
		}
	}

	log.Printf("Successfully seeded %d of %d translations", seeded, len(ingredients))
}

func readIngredients(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ingredients []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ingredients = append(ingredients, line)
	}
	return ingredients, scanner.Err()
}
