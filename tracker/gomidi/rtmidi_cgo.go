//go:build cgo

package gomidi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var outputs outputLister = func() ([]drivers.Out, func(), error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open rtmidi driver: %w", err)
	}
	outs, err := driver.Outs()
	if err != nil {
		driver.Close()
		return nil, nil, fmt.Errorf("cannot list MIDI outputs: %w", err)
	}
	return outs, func() { driver.Close() }, nil
}
