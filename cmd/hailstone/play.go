package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vsariola/hailstone"
	"github.com/vsariola/hailstone/oto"
	"github.com/vsariola/hailstone/tracker"
	"github.com/vsariola/hailstone/tracker/gomidi"
)

const playHelp = `commands:
  n <int>     play the trajectory of another number
  t <bpm>     change the tempo
  i <1-4>     change the instrument
  start       start playing
  stop        stop playing
  quit        exit`

const statusInterval = 50 * time.Millisecond

func (a *app) playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a trajectory on the audio device or a MIDI output",
		Long: `Play the pattern in a loop until quit. Playback starts as soon as the
samples are loaded, unless --autostart=false. While playing, the standard input
accepts the following

` + playHelp,
		Args: cobra.NoArgs,
		RunE: a.runPlay,
	}
	cmd.Flags().Duration("duration", 0, "exit after this long; 0 plays until quit")
	cmd.Flags().String("midi-output", "", "play notes on the first MIDI output whose name starts with this, instead of the audio device")
	cmd.Flags().Bool("list-midi-outputs", false, "list the MIDI outputs and exit")
	cmd.Flags().Bool("autostart", true, "start playing when the samples are loaded")
	return cmd
}

func (a *app) runPlay(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if a.cfg.GetBool("list-midi-outputs") {
		names, err := gomidi.OutputNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}
	s, err := a.settings()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if d := a.cfg.GetDuration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	audio, err := openAudio(a.cfg.GetString("midi-output"), s.Bank)
	if err != nil {
		return err
	}
	defer audio.Close()
	broker := tracker.NewBroker()
	player := tracker.NewPlayer(broker, audio, tracker.RealClock{})
	model := tracker.NewModel(broker)
	go player.Run(ctx, broker)
	player.LoadKit(ctx, os.DirFS(s.Samples), s.Bank)
	for _, err := range []error{
		model.SetSequence(s.Number),
		model.SetTempo(s.Tempo),
		model.SetInstrument(int(s.Instrument)),
	} {
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "loading samples from %v...\n%s\n", s.Samples, playHelp)
	lines := make(chan string)
	go readLines(ctx, cmd.InOrStdin(), lines)
	autostart := a.cfg.GetBool("autostart")
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	var shown tracker.MsgToModel
	for {
		select {
		case <-ctx.Done():
			<-broker.FinishedPlayer
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil // stdin closed, play until interrupted
				continue
			}
			quit, err := command(model, line)
			if err != nil {
				fmt.Fprintln(out, err)
			}
			if quit {
				cancel()
			}
		case <-ticker.C:
			for _, alert := range model.Update() {
				logAlert(alert)
			}
			st := model.Status()
			if autostart && st.Ready && !shown.Ready {
				if err := model.Start(); err != nil {
					slog.Warn("could not start", "error", err)
				}
			}
			if st.Ready != shown.Ready || st.Playing != shown.Playing || st.Number != shown.Number ||
				st.BPM != shown.BPM || st.Instrument != shown.Instrument {
				fmt.Fprintln(out, statusLine(st))
			}
			shown = st
		}
	}
}

func openAudio(midiOutput string, bank *hailstone.Bank) (hailstone.AudioContext, error) {
	if midiOutput != "" {
		c, err := gomidi.OpenOutput(midiOutput, bank.NotesBySample())
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	c, err := oto.NewContext()
	if err != nil {
		return nil, fmt.Errorf("could not acquire oto AudioContext: %w", err)
	}
	return c, nil
}

func readLines(ctx context.Context, r io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

// command executes one line of interactive input. It reports whether the
// user asked to quit.
func command(model *tracker.Model, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	arg := func() (int, error) {
		if len(fields) != 2 {
			return 0, fmt.Errorf("%s needs one argument", fields[0])
		}
		return strconv.Atoi(fields[1])
	}
	switch fields[0] {
	case "n":
		if len(fields) != 2 {
			return false, fmt.Errorf("n needs one argument")
		}
		n, err := hailstone.ParseInput(fields[1])
		if err != nil {
			return false, err
		}
		return false, model.SetSequence(n)
	case "t":
		bpm, err := arg()
		if err != nil {
			return false, err
		}
		return false, model.SetTempo(bpm)
	case "i":
		id, err := arg()
		if err != nil {
			return false, err
		}
		return false, model.SetInstrument(id)
	case "start":
		return false, model.Start()
	case "stop":
		return false, model.Stop()
	case "quit", "q", "exit":
		return true, nil
	}
	return false, fmt.Errorf("unknown command %q\n%s", fields[0], playHelp)
}

func statusLine(st tracker.MsgToModel) string {
	state := "loading"
	switch {
	case st.Playing:
		state = "playing"
	case st.Ready:
		state = "stopped"
	}
	return fmt.Sprintf("[%s] n=%d, %d steps, %d bpm, %s", state, st.Number, st.Length, st.BPM, title(st.Instrument))
}

func logAlert(a tracker.Alert) {
	level := slog.LevelInfo
	switch a.Priority {
	case tracker.Warning:
		level = slog.LevelWarn
	case tracker.Error:
		level = slog.LevelError
	}
	slog.Log(context.Background(), level, a.Message, "alert", a.Name)
}
