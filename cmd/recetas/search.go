package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pageza/recetas/backend/config"
	"github.com/pageza/recetas/backend/internal/finder"
	"github.com/pageza/recetas/backend/internal/server"
)

type searchOptions struct {
	pages      int
	jsonOutput bool
}

func newSearchCmd() *cobra.Command {
	opts := searchOptions{}
	cmd := &cobra.Command{
		Use:   "search <ingrediente>...",
		Short: "Search recipes using all the given ingredients",
		Example: `  recetas search tomate queso
  recetas search "pimiento rojo" cebolla --pages 3
  recetas search huevo --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.pages, "pages", "p", 1, "maximum number of result pages to fetch")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "output the final session view as JSON")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string, opts *searchOptions) error {
	if opts.pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	translator, searcher, err := server.NewProviders(cfg, nil, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	session := finder.NewSession(uuid.New(), translator, searcher, server.FinderOptions(cfg))
	session.AddIngredients(ctx, args...)
	for page := 1; page < opts.pages; page++ {
		if !session.NearBottom(ctx) {
			break
		}
	}

	view := session.View()
	out := cmd.OutOrStdout()

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	for _, ing := range view.Ingredients {
		fmt.Fprintf(out, "· %s (%s)\n", ing.Original, ing.Translated)
	}
	fmt.Fprintln(out)
	for _, r := range view.Recipes {
		title := r.TranslatedTitle
		if title == "" {
			title = r.Title
		}
		fmt.Fprintf(out, "%s\n  %s\n", title, r.URL)
	}
	if view.Status != "" {
		fmt.Fprintln(out, view.Status)
	}
	return nil
}
