package main

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdginn/go-laser-mirrors/interact"
	"github.com/jdginn/go-laser-mirrors/laser"
	"github.com/jdginn/go-laser-mirrors/laser/capture"
	"github.com/jdginn/go-laser-mirrors/laser/config"
)

var CLI struct {
	Run      RunCmd      `cmd:"" help:"Step a scene headlessly and save renders and beam exports"`
	Validate ValidateCmd `cmd:"" help:"Check a scene config for errors"`
	Interact InteractCmd `cmd:"" help:"Fly the camera and arrange mirrors in the terminal"`
}

func loadConfig(path string) (*config.SceneConfig, error) {
	return config.LoadFromFile(path, config.LoadOptions{
		ValidateImmediately: true,
		ResolvePaths:        true,
		MergeFiles:          true,
	})
}

type RunCmd struct {
	Config     string `arg:"" name:"config" help:"scene config file"`
	Frames     int    `name:"frames" default:"1" help:"number of frames to step"`
	Out        string `name:"out" default:"captures" help:"directory to create the capture in"`
	EveryFrame bool   `name:"every-frame" help:"save every frame instead of only the last"`
}

func (c RunCmd) Run() error {
	if c.Frames < 1 {
		return fmt.Errorf("--frames must be at least 1")
	}
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	setup, err := cfg.Build(log.Default())
	if err != nil {
		return err
	}

	dir, err := capture.Create(c.Out)
	if err != nil {
		return fmt.Errorf("creating capture directory: %w", err)
	}
	if err := dir.CopyConfigFile(c.Config); err != nil {
		return err
	}

	save := func(frame laser.Frame) error {
		if err := setup.View.SavePNG(dir.FramePath(frame.Number, "png"), setup.Scene, frame, setup.Placer.Selected()); err != nil {
			return fmt.Errorf("saving render: %w", err)
		}
		return laser.SaveFrameToJSON(dir.FramePath(frame.Number, "json"), frame, setup.Scene.Receivers(), setup.Placer)
	}

	var frame laser.Frame
	for i := 0; i < c.Frames; i++ {
		frame = setup.World.Tick()
		if c.EveryFrame {
			if err := save(frame); err != nil {
				return err
			}
		}
	}
	if !c.EveryFrame {
		if err := save(frame); err != nil {
			return err
		}
	}

	for _, r := range setup.Scene.Receivers() {
		log.Printf("receiver %s: %s", r.Name, r.State())
	}
	log.Printf("wrote capture %s", dir.Path)
	return nil
}

type ValidateCmd struct {
	Config string `arg:"" name:"config" help:"scene config file"`
}

func (c ValidateCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	// Building catches what validation cannot, such as a broken mesh file
	if _, err := cfg.Build(log.Default()); err != nil {
		return err
	}
	fmt.Println("config OK")
	return nil
}

type InteractCmd struct {
	Config   string `arg:"" name:"config" help:"scene config file"`
	FPS      int    `name:"fps" default:"30" help:"frames traced per second"`
	Out      string `name:"out" default:"captures" help:"directory snapshots are written to"`
	DebugLog string `name:"debug-log" help:"write log messages to this file"`
}

func (c InteractCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logging goes to a file or nowhere
	logger := log.New(io.Discard, "", 0)
	if c.DebugLog != "" {
		f, err := tea.LogToFile(c.DebugLog, "laser")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.Default()
	}

	setup, err := cfg.Build(logger)
	if err != nil {
		return err
	}
	fps := c.FPS
	if fps <= 0 {
		fps = 30
	}
	return interact.Run(setup, interact.Options{
		FrameInterval: time.Second / time.Duration(fps),
		CaptureRoot:   c.Out,
	})
}

func main() {
	ctx := kong.Parse(&CLI)
	err := ctx.Run()
	if err != nil {
		log.Fatal(err)
	}
}
