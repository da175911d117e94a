package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"pasteleria-pro/internal/config"
	"pasteleria-pro/internal/database"
	"pasteleria-pro/internal/report"
	"pasteleria-pro/internal/store"
)

func main() {
	ctx := context.Background()

	// A missing .env is fine; the config falls back to defaults.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	st, err := store.Open(ctx, db, log)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "summary":
		if err := printSummary(st); err != nil {
			log.Fatalf("Summary failed: %v", err)
		}
	case "ingredients":
		printIngredients(st)
	case "orders":
		term := ""
		if len(os.Args) > 2 {
			term = os.Args[2]
		}
		printOrders(st, term)
	case "shopping-list":
		if len(os.Args) < 3 {
			fmt.Println("Usage: pasteleria-pro shopping-list <event-id>")
			os.Exit(1)
		}
		if err := printShoppingList(st, os.Args[2]); err != nil {
			log.Fatalf("Shopping list failed: %v", err)
		}
	case "export":
		if len(os.Args) < 3 {
			fmt.Println("Usage: pasteleria-pro export <file>")
			os.Exit(1)
		}
		if err := st.Export(os.Args[2]); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("State exported to %s\n", os.Args[2])
	case "import":
		if len(os.Args) < 3 {
			fmt.Println("Usage: pasteleria-pro import <file>")
			os.Exit(1)
		}
		if err := st.Import(ctx, os.Args[2]); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("State imported from %s\n", os.Args[2])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printSummary(st *store.Store) error {
	summary, err := report.BuildSummary(st.Snapshot(), time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Ingredients: %d  Recipes: %d  Events: %d  Orders: %d\n",
		summary.Ingredients, summary.Recipes, summary.Events, summary.Orders)
	fmt.Printf("Revenue: %s  Cost: %s  Profit: %s\n",
		report.FormatCurrency(summary.Revenue),
		report.FormatCurrency(summary.Cost),
		report.FormatCurrency(summary.Profit))

	if len(summary.Upcoming) > 0 {
		fmt.Println("\nUpcoming events:")
		for _, e := range summary.Upcoming {
			fmt.Printf("  %s  %s (%d pax)\n", e.Date, e.Name, e.Pax)
		}
	}
	return nil
}

func printIngredients(st *store.Store) {
	snapshot := st.Snapshot()
	for _, ing := range snapshot.Ingredients {
		fmt.Printf("%-30s %10.2f %-2s in stock (purchase: %.2f %s for %s)\n",
			ing.Name, ing.Quantity, ing.Unit,
			ing.PurchasedQuantity, ing.Unit, report.FormatCurrency(ing.Price))
	}
}

func printOrders(st *store.Store, term string) {
	snapshot := st.Snapshot()
	for _, o := range report.FilterOrders(snapshot.Orders, term) {
		fmt.Printf("%-25s %s  %-9s  total %s, balance %s\n",
			o.CustomerName, o.DeliveryDate, o.Status,
			report.FormatCurrency(o.TotalPrice), report.FormatCurrency(o.Balance()))
	}
}

func printShoppingList(st *store.Store, eventID string) error {
	snapshot := st.Snapshot()
	for _, e := range snapshot.Events {
		if e.ID != eventID {
			continue
		}
		items, err := report.ShoppingList(e, snapshot.RecipeIndex(), snapshot.IngredientIndex())
		if err != nil {
			return err
		}
		fmt.Printf("Shopping list for %s (%s):\n", e.Name, e.Date)
		for _, item := range items {
			fmt.Printf("  %-30s %10.2f %-2s %s\n", item.Name, item.Quantity, item.Unit, report.FormatCurrency(item.Cost))
		}
		return nil
	}
	return fmt.Errorf("event %s: %w", eventID, store.ErrNotFound)
}

func printUsage() {
	fmt.Println("Usage: pasteleria-pro <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  summary                  Show counts, revenue, cost and upcoming events")
	fmt.Println("  ingredients              List ingredients and stock levels")
	fmt.Println("  orders [customer]        List orders, optionally filtered by customer")
	fmt.Println("  shopping-list <event>    Aggregate ingredient purchases for an event")
	fmt.Println("  export <file>            Write the current state to a JSON file")
	fmt.Println("  import <file>            Replace the state from a JSON file")
}
