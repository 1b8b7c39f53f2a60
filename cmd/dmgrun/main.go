// dmgrun is a non-interactive host harness: it loads a ROM, steps a
// Machine for a fixed number of frames (or until the serial sink
// reports a terminating byte), then dumps the framebuffer, the serial
// stream, or a trace log. It has no input loop and no real-time
// pacing — it exists to drive test ROMs (Blargg, Mooneye), not to play
// games.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nialljb/dmgcore"
	"github.com/nialljb/dmgcore/addr"
	"github.com/nialljb/dmgcore/config"
	"github.com/nialljb/dmgcore/doctor"
	"github.com/nialljb/dmgcore/memory"
	"github.com/nialljb/dmgcore/serial"
	"github.com/nialljb/dmgcore/video"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgrun"
	app.Usage = "dmgrun [options] <ROM file>"
	app.Description = "Headless Game Boy core runner for test ROMs"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "Path to the ROM file"},
		cli.StringFlag{Name: "config", Usage: "Path to a TOML config file"},
		cli.IntFlag{Name: "frames", Value: 60, Usage: "Number of frames to run"},
		cli.StringFlag{Name: "ppm", Usage: "Write the final framebuffer to this PPM file"},
		cli.BoolFlag{Name: "serial", Usage: "Print the serial byte stream on exit"},
		cli.BoolFlag{Name: "trace", Usage: "Emit a Gameboy-Doctor trace line per instruction"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgrun failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			return errors.New("no ROM path provided")
		}
	}

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	cart := memory.NewCartridgeWithData(data)
	machine := dmgcore.NewWithCartridge(cart)
	machine.SetStrictTiming(cfg.StrictTiming)

	var sinkOpts []serial.Option
	if cfg.SerialFixedTiming {
		sinkOpts = append(sinkOpts, serial.WithFixedTiming())
	}
	sink := serial.NewLogSink(func() { machine.MMU.RequestInterrupt(addr.SerialInterrupt) }, sinkOpts...)
	machine.SetSerialSink(sink)

	slog.Info("loaded ROM", "path", romPath, "title", cart.Title, "frames", c.Int("frames"))

	trace := c.Bool("trace") || cfg.Trace
	frames := c.Int("frames")
	for frame := 0; frame < frames; frame++ {
		if err := runFrame(machine, trace); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}

	if path := c.String("ppm"); path != "" {
		if err := writePPM(path, machine.FrameBuffer()); err != nil {
			return fmt.Errorf("writing PPM: %w", err)
		}
		slog.Info("wrote framebuffer", "path", path)
	}

	if c.Bool("serial") {
		fmt.Print(string(sink.Drain()))
	}

	return nil
}

func runFrame(machine *dmgcore.Machine, trace bool) error {
	const cyclesPerFrame = 70224
	spent := 0
	for spent < cyclesPerFrame {
		if trace {
			state := doctor.CPUState{
				A: machine.CPU.A(), F: machine.CPU.F(),
				B: machine.CPU.B(), C: machine.CPU.C(),
				D: machine.CPU.D(), E: machine.CPU.E(),
				H: machine.CPU.H(), L: machine.CPU.L(),
				SP: machine.CPU.SP(), PC: machine.CPU.PC(),
			}
			fmt.Println(doctor.TraceLine(state, machine.MMU))
		}
		cycles, err := machine.Step()
		if err != nil {
			return err
		}
		spent += cycles
	}
	return nil
}

func writePPM(path string, fb *video.FrameBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "P3\n%d %d\n255\n", video.FramebufferWidth, video.FramebufferHeight)
	for _, shade := range fb.ToGrayscale() {
		level := 255 - int(shade)*85
		fmt.Fprintf(f, "%d %d %d\n", level, level, level)
	}
	return nil
}
