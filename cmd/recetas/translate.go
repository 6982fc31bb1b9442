package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/recetas/backend/config"
	"github.com/pageza/recetas/backend/internal/server"
)

type translateOptions struct {
	from string
	to   string
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <texto>...",
		Short: "Translate text with the configured translation provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "source language code (default: SOURCE_LANG)")
	cmd.Flags().StringVar(&opts.to, "to", "", "target language code (default: TARGET_LANG)")
	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	translator, _, err := server.NewProviders(cfg, nil, nil)
	if err != nil {
		return err
	}

	from, to := opts.from, opts.to
	if from == "" {
		from = cfg.SourceLang
	}
	if to == "" {
		to = cfg.TargetLang
	}

	translated, err := translator.TranslateStrict(cmd.Context(), strings.Join(args, " "), from, to)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), translated)
	return nil
}
