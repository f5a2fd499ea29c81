package main

import (
	"log/slog"
	"os"

	"github.com/pmoncur/gridwalk/app"
	"github.com/pmoncur/gridwalk/input"
	"github.com/pmoncur/gridwalk/render"
	"github.com/pmoncur/gridwalk/window"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	windowTitle  = "gridwalk"
)

func main() {
	setupLogging()

	if err := run(); err != nil {
		slog.Error("Fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	in := input.NewState()

	win, err := window.New(windowWidth, windowHeight, windowTitle, in)
	if err != nil {
		return err
	}

	defer win.Terminate()

	width, height := win.GetSize()

	ctx, err := render.NewContext(win.SurfaceDescriptor(), width, height)
	if err != nil {
		return err
	}

	defer ctx.Release()

	renderer, err := render.NewRenderer(ctx)
	if err != nil {
		return err
	}

	defer renderer.Release()

	a := app.New(win, renderer, in, ctx)

	return win.Run(a.Frame)
}

func setupLogging() {
	level := slog.LevelInfo
	if os.Getenv("GRIDWALK_DEBUG") == "1" {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
