package main

import (
	"context"
	"time"

	"glass/audio"
	"glass/camera"
	"glass/config"
	"glass/link"
	"glass/log"
	"glass/touchpad"
)

// device is the cooperative control loop: one goroutine, one tick
// function, all session state owned here. Transport and sensor
// callbacks never touch this state; they enqueue, and tick drains.
type device struct {
	cfg config.Config

	machine   *touchMachine
	estimator *levelEstimator
	session   *recordingSession
	poller    *audio.Poller
	touch     touchpad.Sensor
	transport link.Transport
	mux       *link.ControlMux
	cam       camera.Camera
	battery   *batteryMonitor
	sink      EventSink

	// carried between ticks
	level     LevelState
	speech    bool
	upload    *photoUpload
	led       ledMode
	linkUp    bool
	prevState recordingState

	sessionStart time.Time

	// photo control, set by host writes
	intervalSec int // 0 = interval capture off
	singleShot  bool
	lastCapture time.Time
	hasCaptured bool

	audioEnabled bool
	lastActivity time.Time
}

func newDevice(
	cfg config.Config,
	poller *audio.Poller,
	touch touchpad.Sensor,
	transport link.Transport,
	cam camera.Camera,
	sampler batterySampler,
	sink EventSink,
) *device {
	d := &device{
		cfg: cfg,
		machine: newTouchMachine(machineConfig{
			TouchThreshold: cfg.Touch.Threshold,
			Debounce:       cfg.Touch.Debounce(),
			SilenceLevel:   cfg.Recording.SilenceLevel,
			SilenceAfter:   cfg.Recording.SilenceDuration(),
			MinDuration:    cfg.Recording.MinDuration(),
			MaxDuration:    cfg.Recording.MaxDuration(),
		}),
		estimator:    newLevelEstimator(cfg.Audio.Gain, cfg.Audio.NoiseGate),
		session:      newRecordingSession(cfg.Recording.ArenaBytes),
		poller:       poller,
		touch:        touch,
		transport:    transport,
		cam:          cam,
		battery:      newBatteryMonitor(sampler, cfg.Battery.Interval()),
		sink:         sink,
		led:          ledOff,
		audioEnabled: true,
	}
	d.mux = d.newControlMux()
	return d
}

func (d *device) newControlMux() *link.ControlMux {
	mux := link.NewControlMux(func(ch link.Characteristic, err error) {
		log.Warnf("control write on %s rejected: %v", ch, err)
	})
	mux.Handle(link.PhotoControl, d.onPhotoControl)
	mux.Handle(link.AudioControl, d.onAudioControl)
	return mux
}

func (d *device) onPhotoControl(payload []byte) error {
	v, err := link.ParsePhotoControl(payload)
	if err != nil {
		return err
	}
	log.ControlWrite(link.PhotoControl.String(), v)
	switch {
	case v == link.PhotoSingleShot:
		d.singleShot = true
	case v == link.PhotoStop:
		d.intervalSec = 0
		d.singleShot = false
		d.hasCaptured = false
		if d.upload != nil {
			d.upload.Abandon()
			d.upload = nil
		}
	default:
		d.intervalSec = v
		d.hasCaptured = false
	}
	return nil
}

func (d *device) onAudioControl(payload []byte) error {
	v, err := link.ParseAudioControl(payload)
	if err != nil {
		return err
	}
	log.ControlWrite(link.AudioControl.String(), v)
	// Modes 1 and 2 both enable processing. The wake-word listening
	// flag stays down in the touch-gated build.
	d.audioEnabled = v != link.AudioModeOff
	return nil
}

// run drives the loop until the context is cancelled.
func (d *device) run(ctx context.Context) {
	for {
		budget := d.tick(time.Now())
		select {
		case <-ctx.Done():
			d.shutdown()
			return
		case <-time.After(budget):
		}
	}
}

func (d *device) shutdown() {
	if d.upload != nil {
		d.upload.Abandon()
		d.upload = nil
	}
	if d.machine.Recording() || d.machine.State() == stateProcessing {
		d.flushAudio("shutdown")
		d.machine.FinishProcessing()
	}
}

// tick runs one scheduler pass and returns the sleep budget until the
// next one. Order is fixed: control drain, touch, machine step, audio
// poll, session append, LED, battery, photo service, at most one
// upload chunk.
func (d *device) tick(now time.Time) time.Duration {
	if d.lastActivity.IsZero() {
		d.lastActivity = now
	}

	d.drainControl()

	touchValue := d.touch.Read()

	ev := d.machine.Step(now, machineInputs{
		TouchValue: touchValue,
		Level:      d.level.Level,
		Speech:     d.speech,
	})
	d.handleEvent(now, ev)

	d.processAudio(now)

	if led := computeLed(d.machine.State(), d.upload != nil); led != d.led {
		d.led = led
		d.sink.LedChanged(led)
	}
	if st := d.machine.State(); st != d.prevState {
		d.prevState = st
		d.sink.StateChanged(st)
	}
	if up := d.transport.Connected(); up != d.linkUp {
		d.linkUp = up
		d.sink.LinkChanged(up)
	}

	if d.battery.Due(now) {
		if d.battery.Recompute(now) {
			d.sink.BatteryChanged(d.battery.Percent())
		}
		log.Battery(d.battery.Percent(), d.battery.Voltage())
		if err := d.transport.Send(link.BatteryLevel, []byte{byte(d.battery.Percent())}); err != nil {
			log.Warnf("battery notify failed: %v", err)
		}
	}

	d.servicePhoto(now)

	if d.upload != nil {
		d.sendOneChunk(now)
		return d.cfg.Loop.Tick() / 2
	}

	return d.sleepBudget(now)
}

func (d *device) drainControl() {
	for {
		select {
		case msg := <-d.transport.Control():
			d.mux.Dispatch(msg)
		default:
			return
		}
	}
}

func (d *device) handleEvent(now time.Time, ev machineEvent) {
	switch ev {
	case eventRecordingStarted:
		d.session.Reset()
		d.estimator.ResetPeak()
		d.poller.Drain()
		d.sessionStart = now
		d.lastActivity = now
		log.SessionStart("touch")

	case eventTouchBounced:
		log.Info("touch bounced before debounce, ignored")

	case eventSilenceStarted, eventSpeechResumed:
		d.lastActivity = now

	case eventProcessingSilence:
		d.finishSession(now, "silence")

	case eventProcessingMaxDuration:
		d.finishSession(now, "max_duration")
	}
}

// finishSession flushes the recorded audio, then requests the photo
// that accompanies it. Audio always goes first.
func (d *device) finishSession(now time.Time, reason string) {
	d.lastActivity = now
	d.flushAudio(reason)

	frame, err := d.cam.Capture()
	if err != nil {
		log.Errorf("session photo capture failed: %v", err)
		d.machine.FinishProcessing()
		return
	}
	d.upload = newPhotoUpload(d.cam, frame)
}

func (d *device) flushAudio(reason string) {
	elapsed := time.Since(d.sessionStart).Milliseconds()
	if d.session.Len() == 0 {
		log.Infof("session flush: empty, nothing to send (%s)", reason)
		log.SessionEnd(reason, 0, elapsed)
		return
	}
	cursor := link.NewCursor(d.session.Bytes())
	if err := link.SendAll(d.transport, link.AudioData, cursor); err != nil {
		log.Errorf("audio flush failed: %v", err)
	}
	log.SessionEnd(reason, d.session.Len(), elapsed)
}

func (d *device) processAudio(now time.Time) {
	block := d.poller.Poll()
	if block == nil || !d.audioEnabled {
		return
	}

	d.level = d.estimator.Update(block)
	d.speech = isSpeech(block)
	d.sink.LevelChanged(d.level)

	if d.machine.Recording() {
		if !d.session.Append(block) {
			log.ArenaOverflow(d.session.Capacity())
			d.sink.Message("audio buffer full, recording truncated")
		}
		d.lastActivity = now
	}
}

// servicePhoto runs host-requested captures: a pending single shot, or
// the interval loop. Never while a session photo is draining, and only
// with a host attached to receive it.
func (d *device) servicePhoto(now time.Time) {
	if d.upload != nil || !d.transport.Connected() {
		return
	}

	due := d.singleShot
	if !due && d.intervalSec > 0 {
		interval := time.Duration(d.intervalSec) * time.Second
		due = !d.hasCaptured || now.Sub(d.lastCapture) >= interval
	}
	if !due {
		return
	}

	frame, err := d.cam.Capture()
	if err != nil {
		log.Errorf("photo capture failed: %v", err)
		d.singleShot = false
		return
	}
	d.singleShot = false
	d.hasCaptured = true
	d.lastCapture = now
	d.lastActivity = now
	d.upload = newPhotoUpload(d.cam, frame)
}

func (d *device) sendOneChunk(now time.Time) {
	done, err := d.upload.SendNext(d.transport)
	if err != nil {
		log.Errorf("photo chunk send failed, upload abandoned: %v", err)
	}
	sent, total := d.upload.Progress()
	d.sink.PhotoProgress(sent, total)
	if done {
		if err == nil {
			log.PhotoUpload(chunksToBytes(sent), sent)
		}
		d.upload = nil
		d.lastActivity = now
		d.machine.FinishProcessing()
	}
}

// chunksToBytes is approximate: the last data chunk may be short and
// the terminal marker carries none. Good enough for the log line.
func chunksToBytes(chunks int) int {
	if chunks <= 1 {
		return 0
	}
	return (chunks - 1) * link.ChunkSize
}

// sleepBudget sizes the tick delay. Active states keep the normal
// tick; a long-idle, unwatched device stretches toward power-save,
// but never past the next interval capture deadline.
func (d *device) sleepBudget(now time.Time) time.Duration {
	if d.machine.State() != stateIdle {
		return d.cfg.Loop.Tick()
	}
	if now.Sub(d.lastActivity) < d.cfg.Loop.PowerSave() {
		return d.cfg.Loop.Tick()
	}

	budget := d.cfg.Loop.PowerSave()
	if d.intervalSec > 0 && d.hasCaptured {
		next := d.lastCapture.Add(time.Duration(d.intervalSec) * time.Second)
		if until := next.Sub(now); until > 0 && until < budget {
			budget = until
		}
	}
	return budget
}
