// Copyright 2025 go-imglib Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ajroetker/go-imglib/img"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// transform loads in, applies f and saves the Mat f returns to out.
func (a *app) transform(in, out string, f func(m *img.Mat) (*img.Mat, error)) error {
	src, err := a.reg.Load(in)
	if err != nil {
		return err
	}
	defer src.Release()
	dst, err := f(src)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	defer dst.Release()
	return a.reg.Save(out, dst)
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Print the size and pixel type of image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				m, err := a.reg.Load(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d %s channels=%d bytes=%d\n",
					path, m.Cols(), m.Rows(), m.Type(), m.Channels(), m.Total()*m.PixelSize())
				m.Release()
			}
			return nil
		},
	}
}

func (a *app) convertCmd() *cobra.Command {
	var (
		typeName     string
		scale, shift float64
	)
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Re-encode an image, optionally changing its pixel type",
		Long: "Convert reads IN and writes OUT in the format given by OUT's extension.\n" +
			"With --type, every channel becomes saturate(value*scale + shift) in the new depth.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(args[0], args[1], func(m *img.Mat) (*img.Mat, error) {
				typ := m.Type()
				if typeName != "" {
					var err error
					if typ, err = img.ParseType(typeName); err != nil {
						return nil, err
					}
				}
				return m.ConvertScaled(typ, scale, shift)
			})
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "target pixel type, e.g. 8UC3 or 16UC1 (default: keep)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "multiply every channel by this factor")
	cmd.Flags().Float64Var(&shift, "shift", 0, "add this offset after scaling")
	return cmd
}

func (a *app) rotateCmd() *cobra.Command {
	var times int
	cmd := &cobra.Command{
		Use:   "rotate IN OUT",
		Short: "Rotate clockwise by quarter turns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(args[0], args[1], func(m *img.Mat) (*img.Mat, error) {
				return img.Rotate(m, times)
			})
		},
	}
	cmd.Flags().IntVarP(&times, "times", "n", 1, "number of clockwise quarter turns; negative turns counter-clockwise")
	return cmd
}

func (a *app) resizeCmd() *cobra.Command {
	var rows, cols int
	cmd := &cobra.Command{
		Use:   "resize IN OUT",
		Short: "Resize with nearest-neighbour sampling",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(args[0], args[1], func(m *img.Mat) (*img.Mat, error) {
				return img.Resize(m, rows, cols)
			})
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "target height in pixels")
	cmd.Flags().IntVar(&cols, "cols", 0, "target width in pixels")
	_ = cmd.MarkFlagRequired("rows")
	_ = cmd.MarkFlagRequired("cols")
	return cmd
}

func (a *app) brightnessCmd() *cobra.Command {
	var delta float64
	cmd := &cobra.Command{
		Use:   "brightness IN OUT",
		Short: "Add a constant to every channel, saturating at the depth's limits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(args[0], args[1], func(m *img.Mat) (*img.Mat, error) {
				if err := img.AdjustBrightness(m, delta); err != nil {
					return nil, err
				}
				return m.Share(), nil
			})
		},
	}
	cmd.Flags().Float64VarP(&delta, "delta", "d", 0, "value added to every channel (negative darkens)")
	_ = cmd.MarkFlagRequired("delta")
	return cmd
}

func (a *app) blendCmd() *cobra.Command {
	var alpha float64
	cmd := &cobra.Command{
		Use:   "blend A B OUT",
		Short: "Write alpha*A + (1-alpha)*B",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := a.reg.Load(args[0])
			if err != nil {
				return err
			}
			defer first.Release()
			return a.transform(args[1], args[2], func(second *img.Mat) (*img.Mat, error) {
				out := &img.Mat{}
				if err := img.Blend(first, second, out, alpha); err != nil {
					return nil, err
				}
				return out, nil
			})
		},
	}
	cmd.Flags().Float64VarP(&alpha, "alpha", "a", 0.5, "weight of A, clamped to [0, 1]")
	return cmd
}

func (a *app) cropCmd() *cobra.Command {
	var x, y, width, height int
	cmd := &cobra.Command{
		Use:   "crop IN OUT",
		Short: "Write a rectangular region of IN",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(args[0], args[1], func(m *img.Mat) (*img.Mat, error) {
				return m.ROI(x, y, width, height)
			})
		},
	}
	cmd.Flags().IntVar(&x, "x", 0, "left edge of the region")
	cmd.Flags().IntVar(&y, "y", 0, "top edge of the region")
	cmd.Flags().IntVar(&width, "width", 0, "region width")
	cmd.Flags().IntVar(&height, "height", 0, "region height")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	var (
		to, outDir, typeName string
		jobs                 int
	)
	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Convert many files to one format concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to = strings.TrimPrefix(strings.ToLower(to), ".")
			var typ img.PixelType
			convert := typeName != ""
			if convert {
				var err error
				if typ, err = img.ParseType(typeName); err != nil {
					return err
				}
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			// Each goroutine owns the Mats it loads; nothing is shared.
			outputs := make([]string, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(1, jobs))
			for i, in := range args {
				i, in := i, in
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
					out := filepath.Join(outDir, base+"."+to)
					err := a.transform(in, out, func(m *img.Mat) (*img.Mat, error) {
						if !convert {
							return m.Share(), nil
						}
						return m.ConvertTo(typ)
					})
					if err != nil {
						return err
					}
					outputs[i] = out
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			for i, out := range outputs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[i], out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target extension, e.g. tif or bmp")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory for the converted files")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "convert pixels to this type before writing")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "files converted in parallel")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
