package main

import (
	"encoding/hex"
	"fmt"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/spf13/cobra"
	"github.com/vsariola/hailstone"
	"github.com/vsariola/hailstone/tracker"
)

const defaultShowTemplate = `{{ .Title }} of {{ .Number }} at {{ .Tempo }} bpm
bits    {{ .Bits }}
hex     {{ .Hex }}
length  {{ .Length }} steps, {{ .Loop }} per loop
runs    {{ range $i, $r := .Runs }}{{ if $i }} {{ end }}{{ $r.Bit }}x{{ $r.Length }}{{ end }}
onsets  {{ .Onsets | join " " }}
{{- if .Events }}
events  {{ range $i, $e := .Events }}{{ if $i }} {{ end }}{{ $e.Step }}:{{ $e.Sound }}{{ end }}
{{- end }}
`

// showData is what the show template renders.
type showData struct {
	Title  string
	Number int
	Tempo  int
	Bits   string
	Hex    string
	Length int
	Loop   string
	Runs   []hailstone.Run
	Onsets []int
	Events []tracker.Event
}

func (a *app) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the parity sequence, its runs and the resulting pattern",
		Long: `Print the parity sequence of a trajectory. The output is rendered with a Go
text/template and the sprig function library; --format replaces the default
template. The fields are .Title .Number .Tempo .Bits .Hex .Length .Loop
.Runs .Onsets and .Events.`,
		Args: cobra.NoArgs,
		RunE: a.runShow,
	}
	cmd.Flags().String("format", "", "template to print instead of the default")
	cmd.Flags().Bool("events", false, "also print the triggered events as step:sound")
	return cmd
}

func (a *app) runShow(cmd *cobra.Command, args []string) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	format := a.cfg.GetString("format")
	if format == "" {
		format = defaultShowTemplate
	}
	tmpl, err := template.New("show").Funcs(sprig.TxtFuncMap()).Parse(format)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	data, err := newShowData(s, a.cfg.GetBool("events"))
	if err != nil {
		return err
	}
	return tmpl.Execute(cmd.OutOrStdout(), data)
}

func newShowData(s settings, events bool) (showData, error) {
	packed, err := hailstone.Trajectory(s.Number)
	if err != nil {
		return showData{}, err
	}
	step, err := hailstone.StepDuration(s.Tempo)
	if err != nil {
		return showData{}, err
	}
	bits := packed.Bits()
	d := showData{
		Title:  title(s.Instrument),
		Number: s.Number,
		Tempo:  s.Tempo,
		Bits:   packed.String(),
		Hex:    hex.EncodeToString(packed.Data),
		Length: packed.Length,
		Loop:   (step * time.Duration(packed.Length)).String(),
		Runs:   hailstone.GroupRuns(bits, hailstone.MaxRunLength),
		Onsets: hailstone.FirstInRunIndices(bits),
	}
	if events {
		d.Events = tracker.Pattern(bits, s.Instrument)
	}
	return d, nil
}
