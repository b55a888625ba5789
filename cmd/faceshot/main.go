//go:build !tinygo

// Command faceshot boots the watch on the host HAL without a window, runs a number of
// kernel cycles and writes the screen to a PNG file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"

	"fancywatch/app"
	"fancywatch/hal"

	"go.uber.org/zap"
)

func main() {
	var (
		outPath = flag.String("out", "face.png", "Output PNG file.")
		cycles  = flag.Int("cycles", 3, "Kernel cycles to run before the capture.")
		face    = flag.Int("face", 0, "Index of the face to show.")
		width   = flag.Int("w", 240, "Screen width.")
		height  = flag.Int("h", 240, "Screen height.")
		console = flag.Int("console", 0, "Rows of log overlay (0 = off).")
		verbose = flag.Bool("v", false, "Log to stderr.")
	)
	flag.Parse()

	z := zap.NewNop()
	if *verbose {
		var err error
		if z, err = hal.NewZap("debug", true); err != nil {
			fatalf("logger: %v", err)
		}
	}
	defer z.Sync()

	h := hal.NewHost(hal.HostConfig{Width: *width, Height: *height, Log: z})
	cfg := app.DefaultConfig()
	cfg.Kernel.InactivityTimeout = 0
	cfg.ConsoleRows = *console
	cfg.ConsoleLevel = hal.LevelDebug

	s, err := app.New(h, cfg)
	if err != nil {
		fatalf("boot: %v", err)
	}
	defer s.Close()

	for i := 0; i < *face; i++ {
		s.Launcher().Next()
	}
	ctx := context.Background()
	for i := 0; i < *cycles; i++ {
		if err := s.Kernel().Step(ctx); err != nil {
			fatalf("cycle %d: %v", i, err)
		}
	}

	if err := writePNG(*outPath, s); err != nil {
		fatalf("write: %v", err)
	}
}

func writePNG(path string, s *app.System) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, s.Kernel().Display().Surface().Image()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "faceshot: "+format+"\n", args...)
	os.Exit(2)
}
