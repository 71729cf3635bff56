package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/milk9111/atmosphere/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errQuit = errors.New("quit")

var shellCommands = []string{"weather", "set", "random", "clear", "step", "time", "volume", "auto", "state", "layers", "log", "help", "quit", "exit"}

func newShellCmd(opts *rootOptions) *cobra.Command {
	var (
		prompt     string
		fps        float64
		traceAudio bool
	)
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Drive a simulation interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSim(opts.cfg, cmd.OutOrStdout(), fps, traceAudio)
			if err != nil {
				return err
			}
			defer s.close()
			return runShell(s, prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "weather> ", "prompt string")
	cmd.Flags().Float64Var(&fps, "fps", 60, "frames per simulated second")
	cmd.Flags().BoolVar(&traceAudio, "audio", true, "print audio commands")
	return cmd
}

func runShell(s *sim, prompt string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), "weathersim-shell.history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          s.out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(s.out, "Type 'help' for commands, 'quit' to leave.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.execLine(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// execLine runs one shell line. It returns errQuit when the user leaves.
func (s *sim) execLine(line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	name, args := strings.ToLower(tokens[0]), tokens[1:]
	w := s.sess.Weather

	switch name {
	case "quit", "exit":
		return errQuit
	case "help":
		printShellHelp(s.out)
	case "weather":
		if len(args) != 1 {
			return errors.New("usage: weather <clear|rain|storm>")
		}
		t, err := parseWeather(args[0])
		if err != nil {
			return err
		}
		w.TransitionTo(t)
		s.printState()
	case "set":
		if len(args) != 1 {
			return errors.New("usage: set <clear|rain|storm>")
		}
		t, err := parseWeather(args[0])
		if err != nil {
			return err
		}
		w.SetWeather(t)
		s.printState()
	case "random":
		w.TriggerRandomWeather()
		s.printState()
	case "clear":
		w.ClearWeather()
		s.printState()
	case "step":
		seconds := 1.0
		if len(args) > 0 {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil || v < 0 {
				return fmt.Errorf("step: bad duration %q", args[0])
			}
			seconds = v
		}
		s.step(seconds)
		s.printState()
	case "time":
		if len(args) != 1 {
			fmt.Fprintf(s.out, "time %.1f (%s)\n", s.sess.Clock.Progress(), s.sess.Clock.TimeOfDay())
			return nil
		}
		p, err := parseTime(args[0])
		if err != nil {
			return err
		}
		s.sess.Clock.Set(p)
		fmt.Fprintf(s.out, "time %.1f (%s)\n", s.sess.Clock.Progress(), s.sess.Clock.TimeOfDay())
	case "volume":
		if len(args) != 1 {
			fmt.Fprintf(s.out, "volume %.2f\n", s.sess.Ambience.MasterVolume())
			return nil
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("volume: bad value %q", args[0])
		}
		s.sess.Ambience.SetMasterVolume(v)
		fmt.Fprintf(s.out, "volume %.2f\n", s.sess.Ambience.MasterVolume())
	case "auto":
		enabled := !w.Settings().AutoChange
		if len(args) > 0 {
			switch strings.ToLower(args[0]) {
			case "on", "true":
				enabled = true
			case "off", "false":
				enabled = false
			default:
				return fmt.Errorf("auto: expected on or off, got %q", args[0])
			}
		}
		w.SetAutoChange(enabled)
		fmt.Fprintf(s.out, "auto weather %v\n", enabled)
	case "state":
		s.printState()
		d := w.Debug()
		fmt.Fprintf(s.out, "  phase %.1f/%.1fs  auto %v %.0f/%.0fs\n",
			d.PhaseElapsed, d.PhaseDuration, d.AutoChange, d.AutoChangeTimer, d.AutoChangeInterval)
	case "layers":
		s.printLayers()
	case "log":
		return handleShellLog(s.out, args)
	default:
		if best := suggest(name, shellCommands); best != "" {
			return fmt.Errorf("unknown command %q (did you mean %q?)", name, best)
		}
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}

func handleShellLog(out io.Writer, args []string) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		vcount int
		level  string
	)
	fs.CountVarP(&vcount, "verbose", "v", "increase verbosity")
	fs.StringVar(&level, "level", "", "error|warn|info|debug|trace")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	switch {
	case level != "":
		if err := logging.SetLevel(level); err != nil {
			return err
		}
	case vcount > 0:
		logging.SetVerbosity(vcount)
	}
	fmt.Fprintf(out, "log level %s\n", logging.CurrentLevel())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  weather <type>      transition to clear, rain or storm
  set <type>          jump straight to a weather type
  random | clear      random transition, or back to clear skies
  step [seconds]      advance the simulation (default 1s)
  time [name|0-100]   show or set the time of day
  volume [0-1]        show or set the master volume
  auto [on|off]       toggle automatic weather changes
  state | layers      show weather state or active ambience layers
  log -v | --level x  change log verbosity
  quit                leave the shell`)
}
