package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/screenager/ocrcore/internal/clock"
	"github.com/screenager/ocrcore/internal/config"
	"github.com/screenager/ocrcore/internal/dashboard"
	"github.com/screenager/ocrcore/internal/detector"
	"github.com/screenager/ocrcore/internal/imagedecode"
	"github.com/screenager/ocrcore/internal/logbook"
	"github.com/screenager/ocrcore/internal/onnxmodel"
	"github.com/screenager/ocrcore/internal/pipeline"
	"github.com/screenager/ocrcore/internal/recognizer"
	"github.com/screenager/ocrcore/internal/runner"
	"github.com/screenager/ocrcore/internal/tuner"
	"github.com/screenager/ocrcore/internal/watch"
)

const defaultConfigPath = "ocrctl.toml"

// engine bundles everything built from a loaded config: the two ONNX
// sessions, their runners wrapped as detector/recognizer stages, a shared
// log-book, and the tuner that adjusts both stages' parallelism live.
type engine struct {
	cfg     config.Config
	lb      *logbook.LogBook
	det     *detector.Detector
	rec     *recognizer.Recognizer
	detSess *onnxmodel.Session
	recSess *onnxmodel.Session
	tun     *tuner.Tuner
}

func openEngine(cfg config.Config) (*engine, error) {
	lb := logbook.New()

	fmt.Fprint(os.Stderr, "Loading detection model… ")
	detSess, err := onnxmodel.New(filepath.Join(cfg.ModelDir, "detection.onnx"), onnxmodel.Options{
		OrtLibPath: cfg.OrtLib, NumThreads: cfg.Threads, InputName: "x", OutputName: "sigmoid",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr)
		return nil, fmt.Errorf("open detection model: %w", err)
	}
	fmt.Fprintln(os.Stderr, "ready.")

	fmt.Fprint(os.Stderr, "Loading recognition model… ")
	recSess, err := onnxmodel.New(filepath.Join(cfg.ModelDir, "recognition.onnx"), onnxmodel.Options{
		OrtLibPath: cfg.OrtLib, NumThreads: cfg.Threads, InputName: "x", OutputName: "softmax",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr)
		detSess.Close()
		return nil, fmt.Errorf("open recognition model: %w", err)
	}
	fmt.Fprintln(os.Stderr, "ready.")

	detRunner := runner.New(detSess, cfg.DetectorParallelism, lb)
	recRunner := runner.New(recSess, cfg.RecognizerParallelism, lb)
	det := detector.New(detRunner)
	rec := recognizer.New(recRunner)

	tun := tuner.New(rec, det)

	return &engine{cfg: cfg, lb: lb, det: det, rec: rec, detSess: detSess, recSess: recSess, tun: tun}, nil
}

func (e *engine) Close() {
	e.detSess.Close()
	e.recSess.Close()
}

func main() {
	var cfgPath string
	var modelDir, ortLib string
	var threads int

	root := &cobra.Command{
		Use:   "ocrctl",
		Short: "Detect and recognize text in images",
		Long:  "ocrctl — bounded-parallel OCR engine: segmentation detection + CTC recognition.",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "path to ocrctl.toml")
	root.PersistentFlags().StringVar(&modelDir, "model-dir", "", "override config model-dir")
	root.PersistentFlags().StringVar(&ortLib, "ort-lib", "", "override config ort-lib path")
	root.PersistentFlags().IntVar(&threads, "threads", 0, "override config ONNX intra-op thread count")

	loadConfig := func() (config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return cfg, err
		}
		if modelDir != "" {
			cfg.ModelDir = modelDir
		}
		if ortLib != "" {
			cfg.OrtLib = ortLib
		}
		if threads != 0 {
			cfg.Threads = threads
		}
		return cfg, nil
	}

	// ---- ocrctl run <image...> ---------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "run <image> [image...]",
		Short: "Run OCR on one or more images and print structured JSON results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			capacity := eng.det.MaxParallelism() * 2 * 2
			p := pipeline.New(eng.det, eng.rec, capacity)
			defer p.Close()

			tunerCtx, stopTuner := context.WithCancel(ctx)
			defer stopTuner()
			go eng.tun.Run(tunerCtx)

			dec := imagedecode.Decoder{}
			for i, path := range args {
				img, err := dec.DecodeFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "ocrctl: %s: %v\n", path, err)
					continue
				}
				h := p.ReadOne(ctx, i+1, img)
				page, err := h.Wait()
				if err != nil {
					fmt.Fprintf(os.Stderr, "ocrctl: %s: %v\n", path, err)
					continue
				}
				out, err := json.MarshalIndent(page, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal result: %w", err)
				}
				fmt.Println(string(out))
			}
			return nil
		},
	})

	// ---- ocrctl watch <dir> -------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory for new images and OCR them as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			capacity := eng.det.MaxParallelism() * 2 * 2
			p := pipeline.New(eng.det, eng.rec, capacity)
			defer p.Close()

			tunerCtx, stopTuner := context.WithCancel(ctx)
			defer stopTuner()
			go eng.tun.Run(tunerCtx)

			w, err := watch.New(imagedecode.Decoder{}, time.Duration(cfg.WatchDebounceMS)*time.Millisecond)
			if err != nil {
				return err
			}

			done := make(chan struct{})
			go func() {
				<-ctx.Done()
				close(done)
			}()

			go func() {
				if err := w.Watch(args[0], done); err != nil {
					fmt.Fprintf(os.Stderr, "ocrctl: watch %s: %v\n", args[0], err)
				}
			}()

			page := 0
			for {
				select {
				case <-done:
					return nil
				case img := <-w.Images:
					page++
					h := p.ReadOne(ctx, page, img)
					result, err := h.Wait()
					if err != nil {
						fmt.Fprintf(os.Stderr, "ocrctl: watch: %v\n", err)
						continue
					}
					out, _ := json.MarshalIndent(result, "", "  ")
					fmt.Println(string(out))
				case err := <-w.Errors:
					fmt.Fprintf(os.Stderr, "ocrctl: watch: %v\n", err)
				}
			}
		},
	})

	// ---- ocrctl dashboard ---------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Launch a live telemetry view of the detector/recognizer executors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, err := openEngine(cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go eng.tun.Run(ctx)

			stages := []dashboard.Stage{
				{Name: "detector", Tunable: eng.det},
				{Name: "recognizer", Tunable: eng.rec},
			}
			m := dashboard.New(stages, eng.lb, clock.Now)
			prog := tea.NewProgram(m, tea.WithAltScreen())
			_, err = prog.Run()
			return err
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
