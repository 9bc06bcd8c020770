package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"glass/audio"
	"glass/camera"
	"glass/config"
	"glass/link"
	"glass/log"
	"glass/touchpad"
)

// simSink prints device events to stdout and signals session
// completion for the WAIT command.
type simSink struct {
	nopSink
	sessionDone chan struct{}
	wasActive   bool
}

func (s *simSink) StateChanged(st recordingState) {
	fmt.Printf("STATE %s\n", st)
	switch st {
	case stateProcessing:
		s.wasActive = true
	case stateIdle:
		if s.wasActive {
			s.wasActive = false
			select {
			case s.sessionDone <- struct{}{}:
			default:
			}
		}
	}
}

func (s *simSink) Message(msg string)   { fmt.Printf("MSG %s\n", msg) }
func (s *simSink) BatteryChanged(p int) { fmt.Printf("BATTERY %d\n", p) }

// runSimMode drives the whole device against fakes from stdin
// commands: TOUCH, RELEASE, SLEEP <ms>, WAIT (for the session to
// finish), WAIT_AUDIO_DONE, QUIT.
func runSimMode(cfg config.Config, wavPath string, realtime bool) {
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	fakeCtx, err := audio.NewFakeContext(wavPath, realtime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading WAV: %v\n", err)
		os.Exit(1)
	}

	capture, err := fakeCtx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: audio.SampleRate, Channels: audio.Channels,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating capture: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()
	fakeCapture := capture.(*audio.FakeCapture)

	poller := audio.NewPoller()
	capture.SetCallback(poller.Callback())
	if err := capture.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting capture: %v\n", err)
		os.Exit(1)
	}
	defer capture.Stop()

	touch := touchpad.NewFake()
	cam := camera.NewFake()
	transport := link.NewFake()
	sink := &simSink{sessionDone: make(chan struct{}, 1)}

	dev := newDevice(cfg, poller, touch, transport, cam, func() int { return 1950 }, sink)

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		dev.run(ctx)
	}()

	quit := func() {
		cancel()
		<-loopDone
		audioPayloads := len(transport.SentOn(link.AudioData))
		photoPayloads := len(transport.SentOn(link.PhotoData))
		fmt.Printf("DONE audio=%d photo=%d captured=%d released=%d\n",
			audioPayloads, photoPayloads, cam.Captured, cam.Released)
		if err := cam.CheckBalanced(); err != nil {
			fmt.Printf("LEAK %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "TOUCH":
			touch.Touch()
		case "RELEASE":
			touch.Release()
		case "WAIT":
			<-sink.sessionDone
		case "WAIT_AUDIO_DONE":
			<-fakeCapture.AudioDone()
		case "QUIT":
			quit()
		default:
			if strings.HasPrefix(cmd, "SLEEP ") {
				if ms, err := strconv.Atoi(cmd[6:]); err == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}
		}
	}
	quit()
}
