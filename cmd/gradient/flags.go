package main

import "flag"

// Config represents the command-line parameters for the gradient demo.
type Config struct {
	GridWidth     int
	GridHeight    int
	CellWidth     int
	CellHeight    int
	Headless      bool
	Frames        int
	Snapshot      string
	SnapshotScale int
	Profile       string
	Verbose       bool
}

// NewConfig returns a Config populated with the classic 20x20 gradient.
func NewConfig() *Config {
	return &Config{
		GridWidth:     20,
		GridHeight:    20,
		CellWidth:     8,
		CellHeight:    16,
		Frames:        0,
		SnapshotScale: 1,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.GridWidth, "grid-width", c.GridWidth, "grid width in cells")
	fs.IntVar(&c.GridHeight, "grid-height", c.GridHeight, "grid height in cells")
	fs.IntVar(&c.CellWidth, "cell-width", c.CellWidth, "cell width in pixels")
	fs.IntVar(&c.CellHeight, "cell-height", c.CellHeight, "cell height in pixels")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "render offscreen without opening a window")
	fs.IntVar(&c.Frames, "frames", c.Frames, "stop after this many frames (0 = until closed; headless defaults to 1)")
	fs.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "write the last frame to this PNG file (headless only)")
	fs.IntVar(&c.SnapshotScale, "snapshot-scale", c.SnapshotScale, "nearest-neighbour upscale factor for -snapshot")
	fs.StringVar(&c.Profile, "profile", c.Profile, "write a profile: cpu or mem")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log debug output to stderr")
}
