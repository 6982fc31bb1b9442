package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recetas",
		Short: "Find recipes that use every ingredient you have",
		Long: `recetas searches recipes by ingredient, in Spanish.

Ingredients are translated for the recipe provider, only recipes using
all of them are kept, and titles are translated back.

Configuration is read from the environment (SPOONACULAR_API_KEY,
TRANSLATOR_API_URL, SOURCE_LANG, TARGET_LANG, ...).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newSearchCmd(),
		newTranslateCmd(),
	)
	return cmd
}
