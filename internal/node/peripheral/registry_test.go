package peripheral

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// fakeDevice satisfies every capability interface and records the calls it receives.
type fakeDevice struct {
	name string
	log  *callLog

	setupErr     error
	healthy      bool
	heartbeatErr error
	setups       int
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (l *callLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (f *fakeDevice) Setup(context.Context) error {
	f.setups++
	f.log.add("setup:" + f.name)
	return f.setupErr
}

func (f *fakeDevice) Heartbeat(context.Context) (bool, error) {
	f.log.add("heartbeat:" + f.name)
	return f.healthy, f.heartbeatErr
}

func (f *fakeDevice) Celebrate(context.Context) error       { return nil }
func (f *fakeDevice) FailureSequence(context.Context) error { return nil }
func (f *fakeDevice) Pulse(context.Context, Indicator, time.Duration) error {
	return nil
}
func (f *fakeDevice) TemperatureMatrix(context.Context) ([]float64, error) { return nil, nil }
func (f *fakeDevice) AmbientTemperature(context.Context) (float64, error)  { return 0, nil }
func (f *fakeDevice) Distance(context.Context) (float64, error)            { return 0, nil }
func (f *fakeDevice) Write(context.Context, []float64, int) error          { return nil }
func (f *fakeDevice) Read(context.Context) (float64, error)                { return 0, nil }
func (f *fakeDevice) On()                                                  {}
func (f *fakeDevice) Off()                                                 {}

func newFakes() (map[Slot]*fakeDevice, Components, *callLog) {
	log := &callLog{}
	fakes := map[Slot]*fakeDevice{}
	for _, s := range Slots() {
		fakes[s] = &fakeDevice{name: s.String(), log: log, healthy: true}
	}
	c := Components{
		Lighting:        fakes[SlotLighting],
		Imaging:         fakes[SlotImaging],
		Ranging:         fakes[SlotRanging],
		Radio:           fakes[SlotRadio],
		Thermometer:     fakes[SlotThermometer],
		ThermalActuator: fakes[SlotThermalActuator],
	}
	return fakes, c, log
}

func TestNewRegistryRejectsMissingSlots(t *testing.T) {
	_, c, _ := newFakes()
	c.Radio = nil
	c.Thermometer = nil

	_, err := NewRegistry(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radio")
	assert.Contains(t, err.Error(), "thermometer")
}

func TestSetupCollectsEveryFailure(t *testing.T) {
	for _, failing := range [][]Slot{
		{SlotLighting},
		{SlotThermalActuator},
		{SlotLighting, SlotRadio},
		{SlotImaging, SlotRanging, SlotThermalActuator},
		Slots(),
	} {
		fakes, c, log := newFakes()
		for _, s := range failing {
			fakes[s].setupErr = errors.New("bus timeout")
		}
		r, err := NewRegistry(c)
		require.NoError(t, err)

		err = r.Setup(context.Background())
		require.Error(t, err)

		var agg utilerrors.Aggregate
		require.ErrorAs(t, err, &agg)
		require.Len(t, agg.Errors(), len(failing))
		for i, e := range agg.Errors() {
			var se *SetupError
			require.ErrorAs(t, e, &se)
			assert.Equal(t, failing[i], se.Slot)
		}

		// every component was set up despite the failures
		assert.Len(t, log.get(), int(slotCount))
		assert.False(t, r.Ready())
	}
}

func TestSetupIsIdempotent(t *testing.T) {
	fakes, c, _ := newFakes()
	r, err := NewRegistry(c)
	require.NoError(t, err)

	require.NoError(t, r.Setup(context.Background()))
	require.NoError(t, r.Setup(context.Background()))

	assert.True(t, r.Ready())
	for _, f := range fakes {
		assert.Equal(t, 1, f.setups, f.name)
	}
}

// slowDevice blocks in Setup until release is closed.
type slowDevice struct {
	*fakeDevice
	entered chan struct{}
	release chan struct{}
}

func (d *slowDevice) Setup(ctx context.Context) error {
	close(d.entered)
	<-d.release
	return d.fakeDevice.Setup(ctx)
}

func TestReadyDoesNotWaitForSetup(t *testing.T) {
	fakes, c, _ := newFakes()
	radio := &slowDevice{fakeDevice: fakes[SlotRadio], entered: make(chan struct{}), release: make(chan struct{})}
	c.Radio = radio
	r, err := NewRegistry(c)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Setup(context.Background()) }()
	<-radio.entered

	ready := make(chan bool, 1)
	go func() { ready <- r.Ready() }()
	select {
	case got := <-ready:
		assert.False(t, got)
	case <-time.After(time.Second):
		t.Fatal("Ready blocked while Setup was in progress")
	}

	close(radio.release)
	require.NoError(t, <-done)
	assert.True(t, r.Ready())
}

func TestSetupRetriesAfterFailure(t *testing.T) {
	fakes, c, _ := newFakes()
	fakes[SlotRadio].setupErr = errors.New("no ack")
	r, err := NewRegistry(c)
	require.NoError(t, err)

	require.Error(t, r.Setup(context.Background()))
	fakes[SlotRadio].setupErr = nil
	require.NoError(t, r.Setup(context.Background()))

	assert.Equal(t, 2, fakes[SlotLighting].setups)
}

func TestHeartbeatFailsFast(t *testing.T) {
	for _, bad := range Slots() {
		t.Run(bad.String(), func(t *testing.T) {
			fakes, c, log := newFakes()
			fakes[bad].healthy = false
			r, err := NewRegistry(c)
			require.NoError(t, err)

			healthy, err := r.Heartbeat(context.Background())
			require.NoError(t, err)
			assert.False(t, healthy)

			calls := log.get()
			require.Len(t, calls, int(bad)+1)
			assert.Equal(t, "heartbeat:"+bad.String(), calls[len(calls)-1])
		})
	}
}

func TestHeartbeatErrorStopsSequence(t *testing.T) {
	fakes, c, log := newFakes()
	boom := errors.New("i2c nack")
	fakes[SlotRanging].heartbeatErr = boom
	r, err := NewRegistry(c)
	require.NoError(t, err)

	healthy, err := r.Heartbeat(context.Background())
	assert.False(t, healthy)
	assert.ErrorIs(t, err, boom)

	var he *HeartbeatError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, SlotRanging, he.Slot)
	assert.Len(t, log.get(), int(SlotRanging)+1)
}

func TestHeartbeatHealthy(t *testing.T) {
	_, c, log := newFakes()
	r, err := NewRegistry(c)
	require.NoError(t, err)

	healthy, err := r.Heartbeat(context.Background())
	require.NoError(t, err)
	assert.True(t, healthy)
	assert.Len(t, log.get(), int(slotCount))
}

func TestReportCoversEverySlot(t *testing.T) {
	fakes, c, _ := newFakes()
	fakes[SlotImaging].healthy = false
	fakes[SlotRadio].heartbeatErr = errors.New("no carrier")
	r, err := NewRegistry(c)
	require.NoError(t, err)

	report := r.Report(context.Background())
	require.Len(t, report, int(slotCount))
	assert.False(t, report[SlotImaging].Healthy)
	assert.Error(t, report[SlotRadio].Err)
	assert.True(t, report[SlotThermalActuator].Healthy)
}

func TestParseSlot(t *testing.T) {
	for _, s := range Slots() {
		got, err := ParseSlot(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseSlot("gps")
	assert.Error(t, err)
	assert.Equal(t, "slot(42)", Slot(42).String())
}
