package main

import (
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/tender-barbarian/xmldocmd/internal/generator"
	"github.com/tender-barbarian/xmldocmd/internal/tools"
)

func newServeCmd(stderr io.Writer) *cobra.Command {
	var s settings

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the documentation catalog as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.resolve(cmd)
			if err != nil {
				return err
			}
			// stdout carries the protocol, so all logging goes to stderr.
			logger := newLogger(stderr, cfg.Verbose)

			model, err := loadModel(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			cat, _ := generator.Catalog(model, logger)
			logger.Info("catalog ready", "types", cat.Len())

			srv := server.NewMCPServer("xmldocmd", version)
			tools.Register(srv, generator.Renderer(cat, generatorOptions(cfg)))

			if err := server.ServeStdio(srv); err != nil {
				return fmt.Errorf("serving MCP: %w", err)
			}
			return nil
		},
	}

	s.bind(c)
	return c
}
