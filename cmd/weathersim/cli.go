package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/milk9111/atmosphere/config"
	"github.com/milk9111/atmosphere/logging"
	"github.com/milk9111/atmosphere/session"
	"github.com/milk9111/atmosphere/timeofday"
	"github.com/milk9111/atmosphere/weather"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	seed      int64
	prefabDir string
	verbosity int
	cfg       config.Config
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "weathersim",
		Short:        "Run the weather and ambience simulation without a window",
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed (defaults to ATMOS_SEED)")
	cmd.PersistentFlags().StringVar(&opts.prefabDir, "prefabs", "", "directory checked for prefab overrides")
	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "increase log verbosity (-v, -vv, ...)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := logging.SetLevel(cfg.LogLevel); err != nil {
			return err
		}
		if opts.verbosity > 0 {
			logging.SetVerbosity(opts.verbosity)
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = opts.seed
		}
		if cmd.Flags().Changed("prefabs") {
			cfg.PrefabDir = opts.prefabDir
		}
		cfg.HotReload = false
		opts.cfg = cfg
		return nil
	}

	cmd.AddCommand(
		newRunCmd(opts),
		newLayersCmd(opts),
		newShellCmd(opts),
	)
	return cmd
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		seconds    float64
		fps        float64
		every      float64
		start      string
		target     string
		auto       bool
		traceAudio bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step the simulation and print a state trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("auto") {
				cfg.AutoWeather = auto
			}
			if start != "" {
				p, err := parseTime(start)
				if err != nil {
					return err
				}
				cfg.StartProgress = p
			}

			s, err := newSim(cfg, cmd.OutOrStdout(), fps, traceAudio)
			if err != nil {
				return err
			}
			defer s.close()

			if target != "" {
				t, err := parseWeather(target)
				if err != nil {
					return err
				}
				s.sess.Weather.TransitionTo(t)
			}

			printEvery := max(1, int(every*s.fps))
			s.printState()
			s.frames(int(seconds*s.fps), func(frame int) {
				if frame%printEvery == 0 {
					s.printState()
				}
			})
			fmt.Fprintln(cmd.OutOrStdout(), "active layers:")
			s.printLayers()
			return nil
		},
	}
	cmd.Flags().Float64Var(&seconds, "seconds", 120, "simulated seconds to run")
	cmd.Flags().Float64Var(&fps, "fps", 60, "frames per simulated second")
	cmd.Flags().Float64Var(&every, "every", 5, "seconds between state lines")
	cmd.Flags().StringVar(&start, "time", "", "starting time of day (name or 0-100)")
	cmd.Flags().StringVar(&target, "weather", "", "weather to transition to at the start")
	cmd.Flags().BoolVar(&auto, "auto", false, "change weather automatically")
	cmd.Flags().BoolVar(&traceAudio, "audio", true, "print audio commands")
	return cmd
}

func newLayersCmd(opts *rootOptions) *cobra.Command {
	var (
		tod string
		w   string
	)
	cmd := &cobra.Command{
		Use:   "layers",
		Short: "List ambience layers, or those eligible for a time and weather",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, layers, err := session.LoadCatalogs(opts.cfg)
			if err != nil {
				return err
			}

			filter := tod != "" || w != ""
			period, typ := timeofday.Day, weather.Clear
			if tod != "" {
				p, err := parseTime(tod)
				if err != nil {
					return err
				}
				period = timeofday.Classify(p)
			}
			if w != "" {
				if typ, err = parseWeather(w); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if filter {
				fmt.Fprintf(out, "layers for %s / %s:\n", period, typ)
			}
			for _, l := range layers {
				if filter && !l.Eligible(period, typ) {
					continue
				}
				fmt.Fprintf(out, "  %-16s %-15s vol %.2f  fade %.1f/%.1f  %s\n",
					l.ID, l.Mode, l.BaseVolume, l.FadeIn, l.FadeOut, strings.Join(l.Assets, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tod, "time", "", "time of day (name or 0-100)")
	cmd.Flags().StringVar(&w, "weather", "", "weather type")
	return cmd
}

// parseTime accepts a period name or a cycle progress number.
func parseTime(s string) (float64, error) {
	if p, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return p, nil
	}
	t, err := timeofday.Parse(s)
	if err != nil {
		return 0, withSuggestion(err, s, timeofday.Names())
	}
	return timeofday.Midpoint(t), nil
}

func parseWeather(s string) (weather.Type, error) {
	t, err := weather.ParseType(s)
	if err != nil {
		return t, withSuggestion(err, s, weather.TypeNames())
	}
	return t, nil
}

func withSuggestion(err error, input string, candidates []string) error {
	if best := suggest(input, candidates); best != "" {
		return fmt.Errorf("%w (did you mean %q?)", err, best)
	}
	return fmt.Errorf("%w (expected one of %s)", err, strings.Join(candidates, ", "))
}

// suggest returns the closest candidate within a typo budget, or "".
func suggest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	best, bestDist := "", -1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(input, c)
		if dist > typoLimit(len(c)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

func typoLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
