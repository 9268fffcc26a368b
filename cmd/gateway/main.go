// Command gateway is the Riskify threat-message classification service.
//
// It exposes the prediction pipeline over HTTP (serve), as one-shot CLI
// calls (predict, batch), and provides model discovery (models).
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Jaysinh146/Riskify/pkg/cache"
	"github.com/Jaysinh146/Riskify/pkg/config"
	"github.com/Jaysinh146/Riskify/pkg/httputil"
	"github.com/Jaysinh146/Riskify/pkg/logger"
	"github.com/Jaysinh146/Riskify/pkg/ml"
)

const Version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		addr := ""
		if len(os.Args) > 2 {
			addr = ":" + os.Args[2]
		}
		runServer(addr)
	case "predict":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: gateway predict <text>")
			os.Exit(1)
		}
		runCLIPredict(os.Args[2])
	case "batch":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: gateway batch <file>")
			os.Exit(1)
		}
		runCLIBatch(os.Args[2])
	case "models":
		listModels()
	case "version":
		fmt.Printf("riskify %s\n", Version)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Riskify v%s - threat message classifier\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  gateway serve [port]     Start HTTP server (default: 3000)")
	fmt.Println("  gateway predict <text>   Classify a single message")
	fmt.Println("  gateway batch <file>     Classify messages from a file, one per line")
	fmt.Println("  gateway models           List available local ONNX models")
	fmt.Println("  gateway version          Show version")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  RISKIFY_CONFIG               YAML config file path")
	fmt.Println("  RISKIFY_MODEL_PATH           Path to ONNX sentiment model directory")
	fmt.Println("  RISKIFY_AUTO_DOWNLOAD_MODEL  Download the default model on first use")
	fmt.Println("  RISKIFY_CLASSIFIER_MODE      local (default) or remote")
	fmt.Println("  RISKIFY_REMOTE_URL           Inference API endpoint for remote mode")
	fmt.Println("  RISKIFY_CACHE_BACKEND        memory (default) or redis")
}

// buildPredictor assembles the predictor from configuration: classifier
// by mode, cache by backend.
func buildPredictor(cfg *config.Config, log *logger.Logger) (*ml.Predictor, ml.CacheStore, error) {
	var classifier ml.Classifier
	switch cfg.ClassifierMode {
	case config.ClassifierRemote:
		classifier = ml.NewRemoteClassifier(cfg.RemoteURL, cfg.RemoteAPIKey, log)
	default:
		hugotCfg := ml.AutoDetectHugotConfig(log)
		if hugotCfg == nil {
			c := ml.HugotConfig{
				ModelPath:       cfg.ModelPath,
				ModelName:       cfg.ModelName,
				OnnxLibraryPath: cfg.OnnxLibraryPath,
			}
			if c.OnnxLibraryPath == "" {
				c.OnnxLibraryPath = ml.DefaultOnnxPath()
			}
			hugotCfg = &c
		}
		classifier = ml.NewHugotClassifier(*hugotCfg, log)
	}

	var store ml.CacheStore
	switch cfg.CacheBackend {
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		redisStore, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis cache: %w", err)
		}
		store = redisStore
	default:
		store = cache.NewMemory(cfg.CacheSize)
	}

	predictor, err := ml.NewPredictor(ml.PredictorConfig{
		Classifier:        classifier,
		Cache:             store,
		Logger:            log,
		ClassifierTimeout: cfg.ClassifierTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return predictor, store, nil
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

func runServer(addrOverride string) {
	cfg := config.NewDefaultConfig()
	if addrOverride != "" {
		cfg.ListenAddr = addrOverride
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		WithComponent("gateway")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	predictor, store, err := buildPredictor(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build predictor")
	}
	defer predictor.Close()

	sem := httputil.NewSemaphore(cfg.MaxConcurrentPredictions)

	app := fiber.New(fiber.Config{
		AppName: "Riskify",
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "version": Version})
	})

	app.Get("/status", func(c fiber.Ctx) error {
		status := predictor.Status()
		resp := fiber.Map{
			"is_ready":   status.IsReady,
			"is_loading": status.IsLoading,
			"semaphore":  sem.Stats(),
		}
		if mem, ok := store.(*cache.Memory); ok {
			resp["cache"] = mem.Stats()
		} else {
			resp["cache"] = fiber.Map{"entries": store.Len()}
		}
		return c.JSON(resp)
	})

	app.Get("/models", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"models": ml.ListLocalModels()})
	})

	app.Post("/predict", func(c fiber.Ctx) error {
		var req struct {
			Text string `json:"text"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.Text == "" {
			return c.Status(400).JSON(fiber.Map{"error": "text field is required"})
		}

		if !sem.TryAcquire() {
			return c.Status(503).JSON(fiber.Map{"error": "too many concurrent predictions"})
		}
		defer sem.Release()

		requestID := uuid.NewString()
		pred := predictor.Predict(c.Context(), req.Text)

		log.Info().
			Str("request_id", requestID).
			Str("label", string(pred.Label)).
			Float64("risk_score", pred.RiskScore).
			Float64("latency_ms", pred.ProcessingTimeMs).
			Msg("prediction served")

		return c.JSON(fiber.Map{
			"request_id": requestID,
			"prediction": pred,
		})
	})

	app.Post("/predict/batch", func(c fiber.Ctx) error {
		var req struct {
			Texts []string `json:"texts"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if len(req.Texts) == 0 {
			return c.Status(400).JSON(fiber.Map{"error": "texts field is required"})
		}
		if len(req.Texts) > cfg.MaxBatchSize {
			return c.Status(400).JSON(fiber.Map{
				"error": fmt.Sprintf("batch size exceeds limit of %d", cfg.MaxBatchSize),
			})
		}

		if !sem.TryAcquire() {
			return c.Status(503).JSON(fiber.Map{"error": "too many concurrent predictions"})
		}
		defer sem.Release()

		requestID := uuid.NewString()
		start := time.Now()
		preds := predictor.BatchPredict(c.Context(), req.Texts)

		log.Info().
			Str("request_id", requestID).
			Int("count", len(preds)).
			Dur("took", time.Since(start)).
			Msg("batch prediction served")

		return c.JSON(fiber.Map{
			"request_id":  requestID,
			"predictions": preds,
		})
	})

	log.Info().Str("addr", cfg.ListenAddr).Msg("starting Riskify gateway")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// ============================================================================
// CLI Modes
// ============================================================================

func runCLIPredict(text string) {
	cfg := config.NewDefaultConfig()
	log := logger.New(logger.Config{Level: "warn", Format: "console"})

	predictor, _, err := buildPredictor(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer predictor.Close()

	pred := predictor.Predict(context.Background(), text)
	printJSON(pred)
}

func runCLIBatch(path string) {
	cfg := config.NewDefaultConfig()
	log := logger.New(logger.Config{Level: "warn", Format: "console"})

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var texts []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	predictor, _, err := buildPredictor(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer predictor.Close()

	preds := predictor.BatchPredict(context.Background(), texts)
	printJSON(preds)
}

func listModels() {
	models := ml.ListLocalModels()
	if len(models) == 0 {
		fmt.Println("No local ONNX models found.")
		fmt.Println("")
		fmt.Println("To enable model-backed predictions:")
		fmt.Println("  set RISKIFY_AUTO_DOWNLOAD_MODEL=true, or")
		fmt.Println("  set RISKIFY_MODEL_PATH to an ONNX model directory")
		return
	}

	fmt.Println("Available models:")
	for _, m := range models {
		fmt.Printf("  %s\n    Path: %s\n", m.Name, m.Path)
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
