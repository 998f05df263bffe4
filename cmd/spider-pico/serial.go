//go:build tinygo

package main

import (
	"machine"
	"time"
)

// serialReader reads the USB console, polling while no data is buffered.
type serialReader struct{}

func (serialReader) Read(p []byte) (int, error) {
	for machine.Serial.Buffered() == 0 {
		time.Sleep(time.Millisecond)
	}
	n := 0
	for n < len(p) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}
