package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"glass/audio"
	"glass/camera"
	"glass/config"
	"glass/link"
	"glass/log"
	"glass/touchpad"
)

var version = "dev"

// batterySamplerStub stands in for the fuel-gauge ADC on desktop
// hosts: a steady 1950mV at the pin reads as ~3.9V pack.
func batterySamplerStub() int { return 1950 }

func main() {
	configFlag := flag.String("config", "glass.yaml", "Config file path")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	simFlag := flag.String("sim", "", "Sim mode: drive the device from stdin with audio from this WAV file")
	realtimeFlag := flag.Bool("realtime", false, "Pace sim audio at the real sample rate")
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	brokerFlag := flag.String("broker", "", "MQTT broker URL (overrides config)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	profileFlag := flag.String("profile", "", "Enable pprof server (e.g. localhost:6060)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("glass %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	// Broker credentials live in .env, not the YAML.
	godotenv.Load()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *brokerFlag != "" {
		cfg.Link.Broker = *brokerFlag
	}
	if v := os.Getenv("GLASS_BROKER"); v != "" && cfg.Link.Broker == "" {
		cfg.Link.Broker = v
	}
	if v := os.Getenv("GLASS_MQTT_USERNAME"); v != "" {
		cfg.Link.Username = v
	}
	if v := os.Getenv("GLASS_MQTT_PASSWORD"); v != "" {
		cfg.Link.Password = v
	}

	if *simFlag != "" {
		runSimMode(cfg, *simFlag, *realtimeFlag)
		return
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	log.Infof("glass %s starting", version)

	// Microphone
	audioCtx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer audioCtx.Close()

	var mic *audio.DeviceInfo
	if *deviceFlag != "" {
		devices, err := audioCtx.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error enumerating devices: %v\n", err)
			os.Exit(1)
		}
		for i := range devices {
			if devices[i].Name == *deviceFlag {
				mic = &devices[i]
				break
			}
		}
		if mic == nil {
			fmt.Fprintf(os.Stderr, "Error: device %q not found\n", *deviceFlag)
			os.Exit(1)
		}
	} else if *setupFlag {
		mic, err = audio.SelectDevice(audioCtx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error selecting device: %v\n", err)
			os.Exit(1)
		}
	}

	capture, err := audioCtx.NewCapture(mic, audio.CaptureConfig{
		SampleRate: audio.SampleRate, Channels: audio.Channels,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating capture: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	poller := audio.NewPoller()
	capture.SetCallback(poller.Callback())
	if err := capture.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting capture: %v\n", err)
		os.Exit(1)
	}
	defer capture.Stop()
	log.Infof("capturing from %s", capture.DeviceName())

	// Touch surface
	touch := touchpad.NewHotkey()
	if err := touch.Register(); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering touch hotkey: %v\n", err)
		os.Exit(1)
	}
	defer touch.Unregister()

	// Camera
	var cam camera.Camera
	if screen, err := camera.NewScreen(); err == nil {
		cam = screen
	} else {
		log.Warnf("no display for photo capture, using fake frames: %v", err)
		cam = camera.NewFake()
	}

	// Host link
	var transport link.Transport
	if cfg.Link.Broker == "" {
		log.Warn("no broker configured, running offline")
		transport = link.NewNop()
	} else {
		mqttTransport, err := link.NewMQTT(link.MQTTConfig{
			Broker:   cfg.Link.Broker,
			ClientID: cfg.Link.ClientID,
			Prefix:   cfg.Link.Prefix,
			Username: cfg.Link.Username,
			Password: cfg.Link.Password,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to broker: %v\n", err)
			os.Exit(1)
		}
		transport = mqttTransport
	}
	defer transport.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if *tuiFlag {
		program := NewTUIProgram()
		dev := newDevice(cfg, poller, touch, transport, cam, batterySamplerStub, &tuiSink{p: program})

		loopDone := make(chan struct{})
		go func() {
			defer close(loopDone)
			dev.run(ctx)
		}()
		go func() {
			<-sigCh
			program.Quit()
		}()

		if _, err := program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cancel()
		<-loopDone
		return
	}

	dev := newDevice(cfg, poller, touch, transport, cam, batterySamplerStub, nopSink{})
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		dev.run(ctx)
	}()
	<-sigCh
	cancel()
	<-loopDone
}
