package robot

import (
	"errors"
	"math"
	"testing"
)

func TestDegreesToDuty(t *testing.T) {
	tests := []struct {
		deg      float64
		expected uint16
	}{
		{0, 1000},    // min
		{180, 9000},  // max
		{90, 5000},   // mid
		{45, 3000},   // quarter
		{-10, 1000},  // clamped low
		{200, 9000},  // clamped high
		{0.01, 1000}, // rounds down
		{math.NaN(), 1000},
	}

	for _, tt := range tests {
		got := DegreesToDuty(tt.deg)
		if got != tt.expected {
			t.Errorf("DegreesToDuty(%f) = %d, want %d", tt.deg, got, tt.expected)
		}
	}
}

func TestJointCalibration_Physical(t *testing.T) {
	tests := []struct {
		cal      JointCalibration
		logical  float64
		expected float64
	}{
		{JointCalibration{Offset: 90, Direction: 1}, 0, 90},
		{JointCalibration{Offset: 90, Direction: 1}, 55, 145},
		{JointCalibration{Offset: 90, Direction: -1}, -20, 110},
		{JointCalibration{Offset: 80, Direction: -1}, 30, 50},
	}

	for _, tt := range tests {
		got := tt.cal.Physical(tt.logical)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Physical(%f) = %f, want %f", tt.logical, got, tt.expected)
		}
		back := tt.cal.Logical(got)
		if math.Abs(back-tt.logical) > 1e-9 {
			t.Errorf("Logical(%f) = %f, want %f", got, back, tt.logical)
		}
	}
}

func TestJointCalibration_DutySaturates(t *testing.T) {
	cal := JointCalibration{Offset: 90, Direction: -1}

	if got := cal.Duty(120); got != DutyMin {
		t.Errorf("Duty(120) = %d, want %d", got, DutyMin)
	}
	if got := cal.Duty(-120); got != DutyMax {
		t.Errorf("Duty(-120) = %d, want %d", got, DutyMax)
	}
}

func TestJointCalibration_TicksRoundTrip(t *testing.T) {
	cal := JointCalibration{Offset: 90, Direction: -1}

	for deg := -90.0; deg <= 90; deg += 15 {
		raw := cal.Ticks(deg)
		back := cal.Degrees(raw)
		if math.Abs(back-deg) > 360.0/TicksPerRevolution {
			t.Errorf("Round-trip failed: %f -> %d -> %f", deg, raw, back)
		}
	}

	if raw := cal.Ticks(0); raw != CenterTicks {
		t.Errorf("Ticks(0) = %d, want %d", raw, CenterTicks)
	}
}

func TestJointCalibration_TicksClamped(t *testing.T) {
	cal := JointCalibration{Offset: 90, Direction: 1, RangeMin: 1500, RangeMax: 2500}

	if raw := cal.Ticks(170); raw != 2500 {
		t.Errorf("Ticks(170) = %d, want 2500", raw)
	}
	if raw := cal.Ticks(-170); raw != 1500 {
		t.Errorf("Ticks(-170) = %d, want 1500", raw)
	}
}

func TestCalibration_Channels(t *testing.T) {
	cal := DefaultCalibration()
	ids := cal.Channels(DefaultLayout())

	if len(ids) != NumJoints {
		t.Fatalf("Channels returned %d channels, want %d", len(ids), NumJoints)
	}
	for i, id := range ids {
		if id != i {
			t.Errorf("Channels()[%d] = %d, want %d", i, id, i)
		}
	}
}

func TestCalibration_ByChannel(t *testing.T) {
	cal := Calibration{
		BLHip:   JointCalibration{Channel: 0, Offset: 85},
		FRTibia: JointCalibration{Channel: 11, Offset: 95},
	}

	name, jc, ok := cal.ByChannel(11)
	if !ok {
		t.Fatal("ByChannel(11) returned false")
	}
	if name != FRTibia {
		t.Errorf("ByChannel(11) returned name %s, want FR_TIBIA", name)
	}
	if jc.Offset != 95 {
		t.Errorf("ByChannel(11) returned wrong calibration: %+v", jc)
	}

	_, _, ok = cal.ByChannel(99)
	if ok {
		t.Error("ByChannel(99) should return false")
	}
}

func TestCalibration_Ordered(t *testing.T) {
	layout := DefaultLayout()

	cal := DefaultCalibration()
	delete(cal, FLTibia)
	if _, err := cal.Ordered(layout); !errors.Is(err, ErrConfiguration) {
		t.Errorf("missing joint: got %v, want ErrConfiguration", err)
	}

	cal = DefaultCalibration()
	cal["TAIL"] = JointCalibration{}
	if _, err := cal.Ordered(layout); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown joint: got %v, want ErrConfiguration", err)
	}

	cal = DefaultCalibration()
	jc := cal[BRFemur]
	jc.Direction = 0
	cal[BRFemur] = jc
	if _, err := cal.Ordered(layout); !errors.Is(err, ErrConfiguration) {
		t.Errorf("bad direction: got %v, want ErrConfiguration", err)
	}
}
