// Package main provides the precast binary: it authors single-element IFC
// documents and SVG previews from YAML or JSON input files.
package main

import (
	"fmt"
	"os"

	"precast-bim/internal/authoring/models"
	"precast-bim/internal/authoring/service"
	"precast-bim/internal/bim"
	"precast-bim/internal/bim/geometry"
	"precast-bim/internal/common/logging"

	"github.com/spf13/cobra"
)

const appName = "precast"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	input    string
	output   string
	env      string
	coreMode string
	names    bim.Names
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Author precast wall and slab IFC documents",
		Long: `precast builds IFC4 documents describing precast concrete walls and slabs.

Input files are YAML (or JSON) with element_data / geometry_data sections,
the same payloads the authoring HTTP service accepts.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.input, "file", "f", "", "Input file (YAML or JSON)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "Output path")
	cmd.PersistentFlags().StringVar(&opts.env, "env", "production", "Logging profile (development, production)")
	cmd.PersistentFlags().StringVar(&opts.coreMode, "core-mode", "leading", "Hollow-core layout (leading, both, cavities)")
	cmd.PersistentFlags().StringVar(&opts.names.Project, "project", "", "Project name")
	cmd.PersistentFlags().StringVar(&opts.names.Storey, "storey", "", "Storey name")
	_ = cmd.MarkPersistentFlagRequired("file")

	cmd.AddCommand(wallCmd(opts), slabCmd(opts), previewCmd(opts))
	return cmd
}

func wallCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "wall",
		Short: "Write a wall document",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req models.WallRequest
			if err := loadInput(opts.input, &req); err != nil {
				return err
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}
			res, err := svc.WriteWall(cmd.Context(), &req, opts.outputOr("wall.ifc"))
			if err != nil {
				return err
			}
			return report(cmd, res)
		},
	}
}

func slabCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "slab",
		Short: "Write a slab document",
		RunE: func(cmd *cobra.Command, args []string) error {
			var req models.SlabRequest
			if err := loadInput(opts.input, &req); err != nil {
				return err
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}
			res, err := svc.WriteSlab(cmd.Context(), &req, opts.outputOr("slab.ifc"))
			if err != nil {
				return err
			}
			return report(cmd, res)
		},
	}
}

func previewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "preview wall|slab",
		Short:     "Render an SVG preview (wall elevation or slab cross-section)",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{models.KindWall, models.KindSlab},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}

			var svg string
			switch args[0] {
			case models.KindWall:
				var req models.WallRequest
				if err := loadInput(opts.input, &req); err != nil {
					return err
				}
				svg, err = svc.PreviewWall(&req)
			case models.KindSlab:
				var req models.SlabRequest
				if err := loadInput(opts.input, &req); err != nil {
					return err
				}
				svg, err = svc.PreviewSlab(&req)
			}
			if err != nil {
				return err
			}

			out := opts.outputOr(args[0] + ".svg")
			if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "preview written to %s\n", out)
			return nil
		},
	}
}

func (o *options) service() (*service.Service, error) {
	mode, err := geometry.ParseCoreMode(o.coreMode)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(o.env)
	if err != nil {
		return nil, err
	}
	return service.New(nil, nil, logger,
		service.WithCoreMode(mode),
		service.WithNames(o.names),
	), nil
}

func (o *options) outputOr(def string) string {
	if o.output != "" {
		return o.output
	}
	return def
}

func report(cmd *cobra.Command, res *service.Result) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %q written to %s (%d entities)\n", res.Kind, res.Name, res.Path, res.EntityCount)
	return nil
}
