package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vsariola/hailstone"
	"github.com/vsariola/hailstone/tracker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// app holds the configuration shared by the subcommands.
type app struct {
	cfg     *viper.Viper
	cfgFile string
}

// settings are the resolved values of the common flags.
type settings struct {
	Number     int
	Tempo      int
	Instrument hailstone.Instrument
	Samples    string
	Bank       *hailstone.Bank
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: viper.New()}
	root := &cobra.Command{
		Use:   "hailstone",
		Short: "Play Collatz trajectories as drum patterns",
		Long: `hailstone turns the parity sequence of a Collatz trajectory into a looping
drum pattern: every halving step is a 0, every 3n+1 step is a 1, and the
bits are played as sixteenth notes with one of four instruments.

Flags can also be set in hailstone.yaml (current directory or the user
config directory) or with HAILSTONE_ environment variables, for example
HAILSTONE_TEMPO=140.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ./hailstone.yaml, then <user config dir>/hailstone/hailstone.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug messages")
	root.PersistentFlags().StringP("number", "n", "27", "start value of the trajectory")
	root.PersistentFlags().IntP("tempo", "t", tracker.DefaultBPM, "tempo in beats per minute")
	root.PersistentFlags().StringP("instrument", "i", "1", "instrument: 1-4 or its name")
	root.PersistentFlags().String("samples", "samples", "directory the sample paths of the bank are relative to")
	root.PersistentFlags().String("bank", "", "sample bank file (default: built-in bank)")
	root.AddCommand(a.playCmd(), a.showCmd(), a.exportCmd(), a.bankCmd(), versionCmd())
	return root
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	if a.cfgFile != "" {
		a.cfg.SetConfigFile(a.cfgFile)
	} else {
		a.cfg.SetConfigName("hailstone")
		a.cfg.SetConfigType("yaml")
		a.cfg.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			a.cfg.AddConfigPath(filepath.Join(dir, "hailstone"))
		}
	}
	a.cfg.SetEnvPrefix("HAILSTONE")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()
	if err := a.cfg.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	if err := a.cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	setupLogging(cmd.ErrOrStderr(), a.cfg.GetBool("verbose"))
	if f := a.cfg.ConfigFileUsed(); f != "" {
		slog.Debug("using config file", "path", f)
	}
	return nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func (a *app) settings() (settings, error) {
	var s settings
	var err error
	if s.Number, err = hailstone.ParseInput(a.cfg.GetString("number")); err != nil {
		return s, err
	}
	s.Tempo = a.cfg.GetInt("tempo")
	if _, err := hailstone.StepDuration(s.Tempo); err != nil {
		return s, err
	}
	if s.Instrument, err = parseInstrument(a.cfg.GetString("instrument")); err != nil {
		return s, err
	}
	s.Samples = a.cfg.GetString("samples")
	if s.Bank, err = readBank(a.cfg.GetString("bank")); err != nil {
		return s, err
	}
	return s, nil
}

// parseInstrument accepts an instrument number or name, ignoring case.
func parseInstrument(s string) (hailstone.Instrument, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		return hailstone.ParseInstrument(id)
	}
	for i := hailstone.InstrumentHatKick; int(i) <= hailstone.NumInstruments; i++ {
		if strings.EqualFold(i.String(), s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown instrument %q", hailstone.ErrInvalidInput, s)
}

func readBank(path string) (*hailstone.Bank, error) {
	if path == "" {
		return hailstone.DefaultBank(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bank: %w", err)
	}
	defer f.Close()
	bank, err := hailstone.ReadBank(f)
	if err != nil {
		return nil, fmt.Errorf("bank %v: %w", path, err)
	}
	return bank, nil
}

func title(i hailstone.Instrument) string {
	return cases.Title(language.English).String(i.String())
}
