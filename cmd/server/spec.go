package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjaus/route"
	"github.com/bjaus/route/internal/app"
)

var (
	specYAML     bool
	specOutput   string
	specValidate bool
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Print the generated OpenAPI document",
	RunE:  runSpec,
}

func init() {
	specCmd.Flags().BoolVar(&specYAML, "yaml", false, "write YAML instead of JSON")
	specCmd.Flags().StringVarP(&specOutput, "output", "o", "", "output file (default stdout)")
	specCmd.Flags().BoolVar(&specValidate, "validate", false, "validate the document against the OpenAPI 3 schema")
}

func runSpec(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Registration logs go to stderr so stdout carries only the document.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	r, err := app.New(cfg, log)
	if err != nil {
		return err
	}

	if specValidate {
		if err := route.ValidateSpec(cmd.Context(), r.Spec()); err != nil {
			return err
		}
		cmd.PrintErrln("spec is valid")
	}

	var w io.Writer = cmd.OutOrStdout()
	if specOutput != "" {
		f, err := os.Create(specOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", specOutput, err)
		}
		defer f.Close()
		w = f
	}

	if specYAML {
		return r.WriteSpecYAML(w)
	}
	return r.WriteSpec(w)
}
