package ml

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Jaysinh146/Riskify/pkg/logger"
)

// displayFeatureLimit is how many extracted features a prediction carries.
const displayFeatureLimit = 10

// CacheStore memoizes predictions per cache key. Implementations must be
// safe for concurrent use; the stored value excludes processing time,
// which is recomputed per call.
type CacheStore interface {
	Get(ctx context.Context, key string) (Prediction, bool)
	Set(ctx context.Context, key string, p Prediction)
	Len() int
}

// CacheKey derives the memoization key: lowercased and trimmed, but NOT
// fully normalized. Two texts differing only in punctuation are distinct
// cache entries. That asymmetry with Normalize is inherited behavior and
// kept deliberately.
func CacheKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// PredictorConfig wires a Predictor's collaborators.
type PredictorConfig struct {
	Classifier Classifier
	Cache      CacheStore
	Logger     *logger.Logger

	// ClassifierTimeout bounds one inference call (default 30s).
	ClassifierTimeout time.Duration
}

// Predictor turns raw message text into a Prediction: extraction and
// keyword indicators feed the rule layer on top of the sentiment model's
// repurposed probability. It owns its cache and classifier handle; there
// is no package-level state, so tests inject mock classifiers freely.
type Predictor struct {
	classifier Classifier
	cache      CacheStore
	log        *logger.Logger
	timeout    time.Duration

	// Classifier initialization is single-flight: the first Predict
	// triggers it and concurrent callers wait on the same attempt. A
	// failed attempt is not retried; those predictions use the fallback.
	initOnce sync.Once
	initErr  error
	loading  atomic.Bool

	// flight deduplicates concurrent uncached predictions per cache key
	// so one key never triggers duplicate classifier calls.
	flight singleflight.Group
}

// NewPredictor creates a Predictor. Classifier and Cache are required.
func NewPredictor(cfg PredictorConfig) (*Predictor, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("predictor requires a classifier")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("predictor requires a cache store")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.ClassifierTimeout <= 0 {
		cfg.ClassifierTimeout = 30 * time.Second
	}
	return &Predictor{
		classifier: cfg.Classifier,
		cache:      cfg.Cache,
		log:        cfg.Logger.WithComponent("predictor"),
		timeout:    cfg.ClassifierTimeout,
	}, nil
}

// Predict classifies one message. It never returns an error: classifier
// failures degrade to the rule-only fallback, and all numeric outputs are
// clamped. Empty or garbage text yields a low-confidence benign-leaning
// result.
func (p *Predictor) Predict(ctx context.Context, text string) Prediction {
	start := time.Now()
	key := CacheKey(text)

	if pred, ok := p.cache.Get(ctx, key); ok {
		pred.ProcessingTimeMs = msSince(start)
		return pred
	}

	// Concurrent misses for the same key share one computation.
	v, _, _ := p.flight.Do(key, func() (any, error) {
		return p.predictUncached(ctx, text, key), nil
	})

	pred := v.(Prediction)
	pred.ProcessingTimeMs = msSince(start)
	return pred
}

// predictUncached runs the full pipeline and inserts the result into the
// cache with zeroed processing time. Fallbacks caused by a transient
// classify failure are returned without caching.
func (p *Predictor) predictUncached(ctx context.Context, text, key string) Prediction {
	raw := Sanitize(text)

	entities := ExtractEntities(raw)
	indicators := CalculateRiskIndicators(raw)
	features := topFeatures(ExtractFeatures(raw), displayFeatureLimit)

	var pred Prediction
	cacheable := true
	if err := p.ensureClassifier(ctx); err != nil {
		// Init failure is permanent for this process, so the fallback
		// result is stable and safe to memoize.
		pred = FallbackPrediction(raw, entities, features)
	} else if res, err := p.classifyWithTimeout(ctx, raw); err != nil {
		// A per-call failure (timeout, transient inference error) must not
		// pin a degraded prediction for this key; the next call retries
		// the model.
		p.log.Warn().Err(err).Msg("classifier failed, using rule-only fallback")
		pred = FallbackPrediction(raw, entities, features)
		cacheable = false
	} else {
		enh := Enhance(raw, ThreatProbability(res), indicators)
		pred = Prediction{
			Label:       labelFor(enh.RiskScore),
			Confidence:  enh.Confidence,
			RiskScore:   enh.RiskScore,
			RiskLevel:   RiskLevelFor(enh.RiskScore),
			Entities:    entities,
			Explanation: enh.Explanation,
			Features:    features,
		}
	}

	if cacheable {
		p.cache.Set(ctx, key, pred)
	}
	return pred
}

// ensureClassifier lazily initializes the classifier exactly once.
// Concurrent callers block on the same attempt rather than starting
// duplicates. A load failure is remembered and not retried: the service
// runs on the fallback path for its lifetime, which beats re-downloading
// a broken model on every request.
func (p *Predictor) ensureClassifier(ctx context.Context) error {
	p.initOnce.Do(func() {
		p.loading.Store(true)
		defer p.loading.Store(false)
		if err := p.classifier.Init(ctx); err != nil {
			p.log.Warn().Err(err).Msg("classifier initialization failed, predictions degrade to fallback")
			p.initErr = err
		}
	})
	return p.initErr
}

// classifyWithTimeout bounds the inference call. Local ONNX inference is
// not cancellable mid-run, so on timeout the in-flight call is abandoned:
// it finishes in the background and its result is discarded.
func (p *Predictor) classifyWithTimeout(ctx context.Context, text string) (SentimentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type outcome struct {
		res SentimentResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := p.classifier.Classify(ctx, text)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return SentimentResult{}, fmt.Errorf("classifier call: %w", ctx.Err())
	}
}

// BatchPredict classifies texts strictly in input order, one at a time to
// bound peak inference load. It never fails as a whole: a cancelled
// context or a per-item panic degrades that item to a safe benign default
// and the batch continues.
func (p *Predictor) BatchPredict(ctx context.Context, texts []string) []Prediction {
	out := make([]Prediction, len(texts))
	for i, text := range texts {
		if ctx.Err() != nil {
			out[i] = safeDefaultPrediction("batch cancelled before this item was processed")
			continue
		}
		out[i] = p.safePredict(ctx, text)
	}
	return out
}

// safePredict converts a panic anywhere in the pipeline into a safe
// default instead of aborting the batch.
func (p *Predictor) safePredict(ctx context.Context, text string) (pred Prediction) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("prediction panicked, returning safe default")
			pred = safeDefaultPrediction(fmt.Sprintf("prediction failed: %v", r))
		}
	}()
	return p.Predict(ctx, text)
}

// safeDefaultPrediction is the benign placeholder for items that could
// not be processed at all.
func safeDefaultPrediction(reason string) Prediction {
	return Prediction{
		Label:       LabelBenign,
		Confidence:  0.1,
		RiskScore:   0.1,
		RiskLevel:   RiskLow,
		Entities:    EmptyEntities(),
		Explanation: reason,
		Features:    []string{},
	}
}

// Status reports classifier lifecycle state without blocking.
func (p *Predictor) Status() Status {
	return Status{
		IsReady:   p.classifier.Ready(),
		IsLoading: p.loading.Load(),
	}
}

// Close releases the classifier's resources.
func (p *Predictor) Close() error {
	return p.classifier.Close()
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
