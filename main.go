package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"depthcam/config"
	"depthcam/depth"
	"depthcam/sampler"
	"depthcam/serve"
	"depthcam/sink"
	"depthcam/status"
	"depthcam/texture"
)

var (
	configPath = flag.String("config", "", "Path to a JSON or YAML config file.")
	port       = flag.Int("port", 8080, "Port to host the status and preview endpoints.")
	source     = flag.String("source", "", "Directory of recorded depth frames; overrides the config file.")
	window     = flag.Bool("window", false, "Show the depth preview in a desktop window.")
	verbose    = flag.Bool("v", false, "Log every status update.")
)

// newProvider picks the frame source described by cfg.
func newProvider(cfg *config.Config) (depth.Provider, func(), error) {
	dm, err := depth.ParseDepthMode(cfg.DepthMode)
	if err != nil {
		return nil, nil, err
	}
	om, err := depth.ParseOcclusionMode(cfg.OcclusionMode)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Source == "" {
		s := depth.NewSynthetic(cfg.SyntheticWidth, cfg.SyntheticHeight)
		s.Desc = cfg.Descriptor()
		s.Mode = dm
		s.Occlusion = om
		log.Infof("No frame source configured; generating %dx%d synthetic depth", cfg.SyntheticWidth, cfg.SyntheticHeight)
		return s, s.Close, nil
	}

	d, err := depth.NewDirProvider(depth.DirOptions{
		Path:          cfg.Source,
		FPS:           cfg.FPS,
		Loop:          cfg.Loop,
		Descriptor:    cfg.Descriptor(),
		DepthMode:     dm,
		OcclusionMode: om,
	})
	if err != nil {
		return nil, nil, err
	}
	return d, d.Close, nil
}

func main() {
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *configPath != "" {
		if err := config.Load(ctx, *configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	cfg := *config.Get()
	if *source != "" {
		cfg.Source = *source
	}

	provider, closeProvider, err := newProvider(&cfg)
	if err != nil {
		log.Fatalf("Failed to open depth source: %v", err)
	}
	defer closeProvider()

	transform, err := texture.ParseTransform(cfg.Transform)
	if err != nil {
		log.Fatalf("Bad transform: %v", err)
	}

	label := status.NewLabel()
	hub := serve.NewStatusHub()
	sinks := status.MultiSink{label, status.NewLogSink("sampler"), hub}

	smp := sampler.New(provider, sinks, sampler.Options{
		StartupDelay: cfg.StartupDelay(),
		Transform:    transform,
		Metrics:      sampler.NewMetrics(prometheus.DefaultRegisterer),
	})

	mjpegServer := sink.NewMJPEGServer()
	preview := sink.NewDepthView("depth", mjpegServer.NewStream("depth"))
	preview.MaxMeters = func() float64 { return config.Get().MaxDepthMeters }
	if *window {
		preview.Sinks = append(preview.Sinks, sink.NewWindow("Depth"))
	}
	defer preview.Close()
	smp.Listeners = append(smp.Listeners, preview)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/status", &serve.StatusServer{Source: label})
		mux.Handle("/statusws", hub)
		mux.Handle("/mjpeg", mjpegServer)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/debug/", http.DefaultServeMux)
		log.Infof("Hosting status and preview on port %d", *port)
		log.Println(http.ListenAndServe(fmt.Sprintf(":%d", *port), handlers.LoggingHandler(os.Stdout, mux)))
	}()

	go func() {
		if err := smp.Ready().Wait(ctx); err == nil {
			log.Infof("Depth sampler is %v", smp.State())
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	fps := cfg.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	smp.Start(time.Now())
	for {
		select {
		case now := <-ticker.C:
			smp.Tick(now)
			preview.Refresh()
		case sig := <-sigs:
			log.Println("Caught signal", sig)
			return
		}
	}
}
