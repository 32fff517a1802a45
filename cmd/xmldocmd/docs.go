package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tender-barbarian/xmldocmd/internal/config"
	"github.com/tender-barbarian/xmldocmd/internal/generator"
	"github.com/tender-barbarian/xmldocmd/internal/output"
)

func newDocsCmd(stderr io.Writer) *cobra.Command {
	var s settings

	c := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"d"},
		Short:   "Generate one Markdown page per documented type",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.resolve(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, cfg.Verbose)

			model, err := loadModel(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			dir, err := cfg.OutputDir()
			if err != nil {
				return err
			}

			res, err := generator.New(output.NewDirSink(dir), generatorOptions(cfg), logger).Run(model)
			if err != nil {
				return fmt.Errorf("generating docs: %w", err)
			}
			logger.Debug("done", "pages", res.Pages, "skipped", res.Skipped, "diagnostics", res.Diagnostics, "dir", dir)
			return nil
		},
	}

	s.bind(c)
	c.Flags().StringVarP(&s.cfg.Output, "output", "o", config.DefaultOutput, "Output directory, relative to the project root")
	return c
}
