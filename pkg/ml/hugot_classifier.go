package ml

// hugot_classifier.go - Local sentiment classification using Hugot/ONNX.
//
// The risk pipeline reinterprets a generic binary sentiment model as a
// threat signal (see ThreatProbability). Inference runs fully local:
// ONNX Runtime when libonnxruntime is available, pure Go backend
// otherwise. A missing model degrades gracefully: the classifier stays
// not-ready and the Predictor falls back to rule-only scoring.

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/Jaysinh146/Riskify/pkg/logger"
)

// Model presets. Any binary sentiment model with an ONNX export works;
// label conventions are handled by isNegativeLabel.
const (
	// ModelDistilBERTSST2 is the default: DistilBERT fine-tuned on SST-2,
	// 67M params, labels NEGATIVE/POSITIVE. Apache 2.0.
	ModelDistilBERTSST2 = "distilbert-base-uncased-finetuned-sst-2-english"

	// ModelTwitterRoBERTa is trained on tweets, which resemble the short
	// informal messages this demo classifies. Labels negative/neutral/
	// positive; neutral maps to not-negative.
	ModelTwitterRoBERTa = "cardiffnlp/twitter-roberta-base-sentiment-latest"
)

// modelSearchPaths lists local model directories in priority order for
// auto-detection.
var modelSearchPaths = []struct {
	path  string
	model string
}{
	{"./models/sentiment", ModelDistilBERTSST2},
	{"./models/distilbert-sst2", ModelDistilBERTSST2},
	{"./models/twitter-roberta", ModelTwitterRoBERTa},
}

// HugotConfig configures the local sentiment classifier.
type HugotConfig struct {
	// ModelPath is the local path to the ONNX model directory. If it does
	// not exist and ModelName is set, the model is downloaded on Init.
	ModelPath string

	// ModelName is the HuggingFace model identifier used for downloads.
	ModelName string

	// OnnxLibraryPath points at the directory holding libonnxruntime.
	// Empty means the pure Go backend (slower, dependency free).
	OnnxLibraryPath string

	// UseGPU enables CUDA acceleration if available.
	UseGPU bool

	// DeviceID selects the GPU (default 0).
	DeviceID int
}

// DefaultHugotConfig returns the default local classifier configuration.
func DefaultHugotConfig() HugotConfig {
	return HugotConfig{
		ModelName:       ModelDistilBERTSST2,
		ModelPath:       "./models/sentiment",
		OnnxLibraryPath: DefaultOnnxPath(),
	}
}

// AutoDetectHugotConfig looks for a usable local model, honoring
// RISKIFY_MODEL_PATH first. Returns nil if nothing is found and
// RISKIFY_AUTO_DOWNLOAD_MODEL is not enabled.
func AutoDetectHugotConfig(log *logger.Logger) *HugotConfig {
	if envPath := os.Getenv("RISKIFY_MODEL_PATH"); envPath != "" {
		if _, err := os.Stat(filepath.Join(envPath, "model.onnx")); err == nil {
			log.Info().Str("path", envPath).Msg("using model from RISKIFY_MODEL_PATH")
			return &HugotConfig{ModelPath: envPath, OnnxLibraryPath: DefaultOnnxPath()}
		}
	}

	for _, m := range modelSearchPaths {
		if _, err := os.Stat(filepath.Join(m.path, "model.onnx")); err == nil {
			log.Info().Str("model", m.model).Str("path", m.path).Msg("auto-detected sentiment model")
			return &HugotConfig{ModelName: m.model, ModelPath: m.path, OnnxLibraryPath: DefaultOnnxPath()}
		}
	}

	if v := os.Getenv("RISKIFY_AUTO_DOWNLOAD_MODEL"); v == "true" || v == "1" {
		log.Info().Str("model", ModelDistilBERTSST2).Msg("no local model found, will download on first use")
		cfg := DefaultHugotConfig()
		return &cfg
	}

	log.Warn().Msg("no sentiment model found; predictions will use the rule-only fallback")
	log.Warn().Msg("set RISKIFY_MODEL_PATH or RISKIFY_AUTO_DOWNLOAD_MODEL=true to enable the model")
	return nil
}

// ModelInfo describes a locally available ONNX model.
type ModelInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ListLocalModels returns every detected local model, the custom
// RISKIFY_MODEL_PATH directory first.
func ListLocalModels() []ModelInfo {
	var available []ModelInfo
	if envPath := os.Getenv("RISKIFY_MODEL_PATH"); envPath != "" {
		if _, err := os.Stat(filepath.Join(envPath, "model.onnx")); err == nil {
			available = append(available, ModelInfo{Name: "custom", Path: envPath})
		}
	}
	for _, m := range modelSearchPaths {
		if _, err := os.Stat(filepath.Join(m.path, "model.onnx")); err == nil {
			available = append(available, ModelInfo{Name: m.model, Path: m.path})
		}
	}
	return available
}

// DefaultOnnxPath returns the directory of libonnxruntime for the current
// platform, or empty if none is installed.
func DefaultOnnxPath() string {
	paths := []string{
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
		"/usr/local/lib/libonnxruntime.dylib",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Dir(p)
		}
	}
	return ""
}

// HugotClassifier runs a sentiment model in-process via Hugot. The zero
// cost constructor defers all heavy work to Init.
type HugotClassifier struct {
	mu       sync.RWMutex
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	config   HugotConfig
	ready    bool
	log      *logger.Logger
}

// NewHugotClassifier creates an uninitialized classifier. Call Init (or
// let the Predictor do it lazily) before Classify.
func NewHugotClassifier(cfg HugotConfig, log *logger.Logger) *HugotClassifier {
	return &HugotClassifier{
		config: cfg,
		log:    log.WithComponent("hugot"),
	}
}

// Init loads the model and builds the classification pipeline. It is
// idempotent: a ready classifier returns nil immediately.
func (h *HugotClassifier) Init(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ready {
		return nil
	}

	start := time.Now()

	session, err := h.createSession()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	modelPath, err := h.resolveModelPath()
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("resolve model path: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentiment-classifier",
	})
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create pipeline: %w", err)
	}

	h.session = session
	h.pipeline = pipeline
	h.ready = true
	h.log.Info().
		Str("model", modelPath).
		Dur("took", time.Since(start)).
		Msg("sentiment classifier initialized")
	return nil
}

// createSession builds the Hugot session, preferring ONNX Runtime and
// falling back to the pure Go backend.
func (h *HugotClassifier) createSession() (*hugot.Session, error) {
	if h.config.OnnxLibraryPath != "" {
		opts := []options.WithOption{
			options.WithOnnxLibraryPath(h.config.OnnxLibraryPath),
		}
		if h.config.UseGPU {
			opts = append(opts, options.WithCuda(map[string]string{
				"device_id": fmt.Sprintf("%d", h.config.DeviceID),
			}))
		}
		session, err := hugot.NewORTSession(opts...)
		if err == nil {
			h.log.Info().Bool("gpu", h.config.UseGPU).Msg("using ONNX Runtime backend")
			return session, nil
		}
		h.log.Warn().Err(err).Msg("ONNX Runtime unavailable, falling back to Go backend")
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create Go session: %w", err)
	}
	h.log.Info().Msg("using pure Go backend (slower, consider installing ONNX Runtime)")
	return session, nil
}

// resolveModelPath ensures the model exists locally, downloading it by
// name when the configured path is absent.
func (h *HugotClassifier) resolveModelPath() (string, error) {
	if h.config.ModelPath != "" {
		if _, err := os.Stat(h.config.ModelPath); err == nil {
			return h.config.ModelPath, nil
		}
	}

	if h.config.ModelName == "" {
		return "", fmt.Errorf("no model path or name configured")
	}

	modelsDir := "./models"
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return "", fmt.Errorf("create models directory: %w", err)
	}

	h.log.Info().Str("model", h.config.ModelName).Msg("downloading model")
	modelPath, err := hugot.DownloadModel(h.config.ModelName, modelsDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("download model %s: %w", h.config.ModelName, err)
	}
	return modelPath, nil
}

// Ready reports whether the model is loaded.
func (h *HugotClassifier) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

// Classify runs sentiment inference on a single text.
func (h *HugotClassifier) Classify(ctx context.Context, text string) (SentimentResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.ready || h.pipeline == nil {
		return SentimentResult{}, fmt.Errorf("sentiment classifier not ready")
	}

	result, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return SentimentResult{}, fmt.Errorf("classification failed: %w", err)
	}

	if len(result.ClassificationOutputs) == 0 || len(result.ClassificationOutputs[0]) == 0 {
		return SentimentResult{}, fmt.Errorf("classifier returned no outputs")
	}

	out := result.ClassificationOutputs[0][0]
	return SentimentResult{
		Label: out.Label,
		Score: clamp01(float64(out.Score)),
	}, nil
}

// Close releases the ONNX session.
func (h *HugotClassifier) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ready = false
	if h.session != nil {
		if err := h.session.Destroy(); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
		h.session = nil
	}
	return nil
}
