package pwm

import "sync"

// LogDriver only logs what it would do. It backs dry runs.
type LogDriver struct {
	mu     sync.Mutex
	duties map[int]uint16
}

func NewLogDriver() *LogDriver {
	return &LogDriver{duties: make(map[int]uint16)}
}

func (d *LogDriver) Configure(channel, hz int) error {
	log.Debugf("channel %d freq=%d", channel, hz)
	return nil
}

func (d *LogDriver) SetDuty(channel int, duty uint16) error {
	d.mu.Lock()
	d.duties[channel] = duty
	d.mu.Unlock()
	log.Debugf("channel %d duty=%d", channel, duty)
	return nil
}

// Duty returns the last duty set on a channel.
func (d *LogDriver) Duty(channel int) (uint16, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.duties[channel]
	return v, ok
}
