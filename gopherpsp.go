// This file is part of GopherPSP.
//
// GopherPSP is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPSP.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/gopherpsp/gopherpsp/demo"
	"github.com/gopherpsp/gopherpsp/digest"
	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/logger"
	"github.com/gopherpsp/gopherpsp/modalflag"
	"github.com/gopherpsp/gopherpsp/paths"
	"github.com/gopherpsp/gopherpsp/performance"
	"github.com/gopherpsp/gopherpsp/performance/limiter"
	"github.com/gopherpsp/gopherpsp/prefs"
	"github.com/gopherpsp/gopherpsp/screenshot"
	"github.com/gopherpsp/gopherpsp/statedump"
	"github.com/gopherpsp/gopherpsp/statsview"
	"github.com/gopherpsp/gopherpsp/version"
)

// exit values
const (
	exitOK        = 0
	exitParseFail = 10
	exitModeFail  = 20
)

func main() {
	// #ctrlc ends the emulation cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Stdout, os.Args[1:])
	stop()
	os.Exit(exitVal)
}

// launch parses the arguments and runs the selected mode. returns the exit
// value of the program
func launch(ctx context.Context, output io.Writer, args []string) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseFail
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, output)
	case "PERFORMANCE":
		err = perform(md, output)
	case "VERSION":
		err = showVersion(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return exitModeFail
	}

	return exitOK
}

// echoOutput returns the writer to use for the log echo. log entries are
// coloured when the output is a terminal
func echoOutput(output io.Writer) io.Writer {
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return logger.NewColorizer(f)
	}
	return output
}

// newEnvironment creates the environment for the main emulation. the
// command line preferences are applied to the preferences loaded from disk
func newEnvironment(output io.Writer, cmdlinePrefs string, threads int) (*environment.Environment, error) {
	if cmdlinePrefs != "" {
		prefs.PushCommandLineStack(cmdlinePrefs)
		defer func() {
			if unused := prefs.PopCommandLineStack(); unused != "" {
				fmt.Fprintf(output, "* unused preferences: %s\n", unused)
			}
		}()
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	if err != nil {
		return nil, err
	}

	if threads >= 0 {
		if err := env.Prefs.RenderThreads.Set(threads); err != nil {
			return nil, err
		}
	}

	return env, nil
}

func run(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	frames := md.AddInt("frames", 60, "number of frames to run (0 to run until interrupted)")
	threads := md.AddInt("threads", -1, "number of renderer threads (-1 to use the preference value)")
	fps := md.AddInt("fps", 60, "frame rate limit (0 for no limit)")
	echo := md.AddBool("log", false, "echo log to output")
	printDigest := md.AddBool("digest", false, "print digest of every frame drawn")
	screenshotFile := md.AddString("screenshot", "", "save the final frame to a PNG file (\"auto\" for a generated name)")
	scale := md.AddInt("scale", 2, "scaling of the screenshot")
	memvizFile := md.AddString("memviz", "", "write a graph of the final emulation state to a DOT file")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run the stats server (%s)", statsview.Address))
	cmdlinePrefs := md.AddString("prefs", "", "preferences to apply (key::value; ...)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return errors.Errorf("unexpected arguments: %v", md.RemainingArgs())
	}
	if *frames < 0 {
		return errors.Errorf("frames must not be negative (%d)", *frames)
	}

	if *echo {
		logger.SetEcho(echoOutput(output), false)
		defer logger.SetEcho(nil, false)
	}

	if *stats {
		if err := statsview.Launch("", output); err != nil {
			return err
		}
	}

	env, err := newEnvironment(output, *cmdlinePrefs, *threads)
	if err != nil {
		return err
	}

	psp, err := hardware.NewPSP(env)
	if err != nil {
		return err
	}
	prg, err := demo.Load(psp)
	if err != nil {
		return err
	}
	if err := psp.Start(); err != nil {
		return err
	}
	defer psp.Stop()

	var lim *limiter.FpsLimiter
	if *fps > 0 {
		lim, err = limiter.NewFPSLimiter(*fps)
		if err != nil {
			return err
		}
		defer lim.Stop()
	}

	dig := digest.NewVideo(native.Width, native.Height)

	n := *frames
	if n == 0 {
		n = math.MaxInt32
	}

	err = prg.Run(ctx, n, func(frame int) error {
		if lim != nil {
			lim.Wait()
		}
		img, _ := psp.Core.Frame()
		return dig.Frame(img)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Fprintf(output, "%d frames (%d renderer threads) %s\n", psp.Frame(), psp.GE.RenderThreads(), prg)
	if *printDigest {
		fmt.Fprintln(output, dig.Hash())
	}

	if *screenshotFile != "" {
		fn := *screenshotFile
		if fn == "auto" {
			fn = fmt.Sprintf("%s.png", paths.UniqueFilename("screenshot", string(env.Label)))
		}
		img, _ := psp.Core.Frame()
		if err := screenshot.Save(fn, img, *scale); err != nil {
			return err
		}
		fmt.Fprintf(output, "screenshot: %s\n", fn)
	}

	if *memvizFile != "" {
		f, err := os.Create(*memvizFile)
		if err != nil {
			return errors.Wrap(err, "memviz")
		}
		statedump.Write(f, psp)
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "memviz")
		}
	}

	return nil
}

func perform(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	duration := md.AddDuration("duration", 5e9, "run duration")
	profile := md.AddString("profile", "none", "run performance check with profiling: CPU, MEM, TRACE (comma separated)")
	threads := md.AddInt("threads", -1, "number of renderer threads (-1 to use the preference value)")
	cmdlinePrefs := md.AddString("prefs", "", "preferences to apply (key::value; ...)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	env, err := newEnvironment(output, *cmdlinePrefs, *threads)
	if err != nil {
		return err
	}

	return performance.Check(output, env, prf, *duration)
}

func showVersion(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Fprintf(output, "%s %s\n", version.ApplicationName, v)
	if *revision {
		fmt.Fprintln(output, r)
	}

	return nil
}
