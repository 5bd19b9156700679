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
	"log/slog"

	"github.com/ajroetker/go-imglib/img"
	"github.com/ajroetker/go-imglib/img/contrib/imgio"
	"github.com/spf13/cobra"
)

// app holds the state shared by every subcommand.
type app struct {
	reg *imgio.Registry

	verbose    bool
	allocator  string
	atomicRefs bool
}

func newRootCmd() *cobra.Command {
	a := &app{reg: imgio.NewDefaultRegistry()}

	root := &cobra.Command{
		Use:           "imgtool",
		Short:         "Inspect and transform BMP and TIFF images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log storage allocation and I/O details to stderr")
	pf.StringVar(&a.allocator, "allocator", img.CurrentConfig().Allocator.String(), "pixel allocator: heap, mmap or auto")
	pf.BoolVar(&a.atomicRefs, "atomic-refcount", img.CurrentConfig().AtomicRefCount, "use atomic reference counts")

	root.AddCommand(
		a.infoCmd(),
		a.convertCmd(),
		a.rotateCmd(),
		a.resizeCmd(),
		a.brightnessCmd(),
		a.blendCmd(),
		a.cropCmd(),
		a.batchCmd(),
	)
	return root
}

// configure installs the logger and applies the global flags to img.
func (a *app) configure(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	img.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	cfg := img.CurrentConfig()
	if cmd.Flags().Changed("allocator") {
		kind, ok := img.ParseAllocatorKind(a.allocator)
		if !ok {
			return fmt.Errorf("unknown allocator %q (want heap, mmap or auto)", a.allocator)
		}
		cfg.Allocator = kind
	}
	if cmd.Flags().Changed("atomic-refcount") {
		cfg.AtomicRefCount = a.atomicRefs
	}
	img.Configure(cfg)
	img.Logger().Debug("imgtool: configured", "allocator", cfg.Allocator, "atomic_refcount", cfg.AtomicRefCount)
	return nil
}
