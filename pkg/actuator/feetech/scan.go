package feetech

import (
	"context"
	"strings"
	"time"

	sts "github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"
)

// Found is a serial port with the servo IDs that answered on it.
type Found struct {
	Port   string
	Servos []sts.FoundServo
}

// Complete reports whether every ID in 1..n answered.
func (f Found) Complete(n int) bool {
	return HasIDs(f.Servos, n)
}

// HasIDs reports whether servos holds exactly the IDs 1..n.
func HasIDs(servos []sts.FoundServo, n int) bool {
	if len(servos) != n {
		return false
	}
	ids := make(map[int]bool, n)
	for _, s := range servos {
		ids[s.ID] = true
	}
	for i := 1; i <= n; i++ {
		if !ids[i] {
			return false
		}
	}
	return true
}

// Scan probes every serial port for servos with IDs 1..maxID. Ports that
// fail to open or answer are skipped.
func Scan(ctx context.Context, baud, maxID int) ([]Found, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}

	var found []Found
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		bus, err := OpenBus(port, baud)
		if err != nil {
			log.Debugf("skip %s: %v", port, err)
			continue
		}

		sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		servos, err := bus.Scan(sctx, 1, maxID)
		cancel()
		bus.Close()
		if err != nil || len(servos) == 0 {
			continue
		}
		found = append(found, Found{Port: port, Servos: servos})
	}
	return found, nil
}
