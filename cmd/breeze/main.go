// Command breeze runs a Lua draw script through the breeze renderer and
// shows the result in the terminal or as a WebP snapshot.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/gogpu/breeze"
	"github.com/gogpu/breeze/config"
	"github.com/gogpu/breeze/present"
	"github.com/gogpu/breeze/script"
)

//go:embed demo.lua
var demoScript string

func main() {
	if err := newApp(os.Stderr).Run(os.Args); err != nil {
		slog.Error("breeze failed", "error", err)
		os.Exit(1)
	}
}

func newApp(logOut io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "breeze"
	app.Usage = "immediate-mode drawing on pooled render state"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "TOML or YAML config file",
		},
	}
	scriptFlag := cli.StringFlag{
		Name:  "script",
		Usage: "Lua file defining draw(frame) (default: built-in demo)",
	}
	framesFlag := cli.IntFlag{
		Name:  "frames",
		Usage: "Number of frames to run (default: preview.frames from config)",
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "Run the draw script",
			Flags: []cli.Flag{
				scriptFlag,
				framesFlag,
				cli.BoolFlag{
					Name:  "terminal",
					Usage: "Present frames in the terminal instead of running headless",
				},
				cli.IntFlag{
					Name:  "fps",
					Usage: "Frame rate in terminal mode",
					Value: 30,
				},
			},
			Action: func(c *cli.Context) error { return run(c, logOut) },
		},
		{
			Name:  "snapshot",
			Usage: "Run the draw script and save the last frame as WebP",
			Flags: []cli.Flag{
				scriptFlag,
				framesFlag,
				cli.StringFlag{
					Name:  "out",
					Usage: "Output file",
					Value: "breeze.webp",
				},
			},
			Action: func(c *cli.Context) error { return snapshot(c, logOut) },
		},
	}
	return app
}

// session is a renderer driven by a script.
type session struct {
	cfg    *config.Config
	r      *breeze.Renderer
	engine *script.Engine
	frames int
}

func open(c *cli.Context, logOut io.Writer) (*session, error) {
	cfg := config.Default()
	if path := c.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	logger := cfg.Logger(logOut)
	slog.SetDefault(logger)
	breeze.SetLogger(logger)

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	r, err := breeze.New(opts...)
	if err != nil {
		return nil, err
	}
	engine := script.New(r)
	if path := c.String("script"); path != "" {
		err = engine.LoadFile(path)
	} else {
		err = engine.LoadString(demoScript)
	}
	if err != nil {
		engine.Close()
		r.Close()
		return nil, err
	}

	frames := cfg.Preview.Frames
	if c.IsSet("frames") {
		frames = c.Int("frames")
	}
	return &session{cfg: cfg, r: r, engine: engine, frames: frames}, nil
}

func (s *session) close() {
	s.engine.Close()
	s.r.Close()
}

// step runs one draw phase and one frame.
func (s *session) step() (breeze.Snapshot, error) {
	if err := s.engine.Draw(s.r.Frame()); err != nil {
		return breeze.Snapshot{}, err
	}
	if err := s.r.RunFrame(); err != nil {
		return breeze.Snapshot{}, err
	}
	return s.r.Snapshot(), nil
}

func (s *session) rasterOptions() []present.RasterOption {
	return []present.RasterOption{
		present.WithPixelsPerUnit(s.cfg.Preview.PixelsPerUnit),
		present.WithBackground(s.cfg.Background()),
	}
}

func run(c *cli.Context, logOut io.Writer) error {
	s, err := open(c, logOut)
	if err != nil {
		return err
	}
	defer s.close()

	if !c.Bool("terminal") {
		if s.frames <= 0 {
			return fmt.Errorf("headless run needs a positive frame count, got %d", s.frames)
		}
		for i := 0; i < s.frames; i++ {
			if _, err := s.step(); err != nil {
				return err
			}
		}
		slog.Info("run complete", "stats", s.r.Stats().String())
		return nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	term := present.NewTerminal(screen, s.r, s.rasterOptions()...)
	return term.Run(ctx, c.Int("fps"), s.frames, s.step)
}

func snapshot(c *cli.Context, logOut io.Writer) error {
	s, err := open(c, logOut)
	if err != nil {
		return err
	}
	defer s.close()

	frames := max(s.frames, 1)
	var snap breeze.Snapshot
	for i := 0; i < frames; i++ {
		if snap, err = s.step(); err != nil {
			return err
		}
	}

	p := present.NewRaster(s.r, s.cfg.Preview.Width, s.cfg.Preview.Height, s.rasterOptions()...)
	p.Present(snap)
	out := c.String("out")
	if err := p.SaveWebP(out); err != nil {
		return err
	}
	slog.Info("snapshot saved", "path", out, "frame", snap.Frame, "objects", snap.Len())
	return nil
}
