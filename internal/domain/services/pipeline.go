package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcvoramet/SentinelAI/internal/config"
	"github.com/mcvoramet/SentinelAI/internal/domain/models"
	"github.com/mcvoramet/SentinelAI/internal/domain/services/ai"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// ContentEvent is one observed chunk of conversation content, together with
// the caller-supplied context signals for the counterparty.
type ContentEvent struct {
	SourceID         string `json:"source_id"`
	Text             string `json:"text"`
	CounterpartyName string `json:"counterparty_name,omitempty"`
	LocationMismatch bool   `json:"location_mismatch"`
	TrustScore       int    `json:"trust_score"`

	// Screenshot is an opaque attachment carried onto the record.
	Screenshot []byte `json:"screenshot,omitempty"`
}

// Notification is the user-facing alert emitted for a triggered detection.
type Notification struct {
	Title            string
	Message          string
	MatchedPatterns  []string
	CounterpartyName string
	AppLabel         string
}

// Notifier delivers detection alerts to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Classifier is the external analysis collaborator.
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.ScamClassification, error)
	Explain(ctx context.Context, summary ai.DetectionSummary) (*models.RiskExplanation, error)
}

// RecordStore persists detection records.
type RecordStore interface {
	Save(record models.DetectionRecord)
}

// sourceState tracks per-source accumulation between events.
type sourceState struct {
	lastText    string
	accumulated int
}

type triggerJob struct {
	event  ContentEvent
	result models.ScoringResult
}

// DetectionPipeline turns a stream of content events into detection
// records. Event delivery stays cheap: Process only keyword-scores and
// accumulates; the expensive classify/explain work runs on the background
// worker. Callers serialize Process invocations per source.
type DetectionPipeline struct {
	scorer     *ai.KeywordScorer
	engine     *RiskEngine
	classifier Classifier
	store      RecordStore
	notifier   Notifier
	logger     *logger.Logger

	minTextLength int
	jobs          chan triggerJob

	mu      sync.Mutex
	sources map[string]*sourceState
}

// NewDetectionPipeline wires the pipeline collaborators. Notifier may be
// nil when no alert delivery is configured.
func NewDetectionPipeline(
	cfg config.DetectionConfig,
	scorer *ai.KeywordScorer,
	engine *RiskEngine,
	classifier Classifier,
	store RecordStore,
	notifier Notifier,
	log *logger.Logger,
) *DetectionPipeline {
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 20
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &DetectionPipeline{
		scorer:        scorer,
		engine:        engine,
		classifier:    classifier,
		store:         store,
		notifier:      notifier,
		logger:        log.WithComponent("detection-pipeline"),
		minTextLength: cfg.MinTextLength,
		jobs:          make(chan triggerJob, cfg.QueueSize),
		sources:       make(map[string]*sourceState),
	}
}

// Process scores one content event and accumulates per-source risk. Too
// short or duplicate text is ignored. When the accumulated score reaches
// TriggerThreshold the accumulator resets and a trigger job is enqueued
// for the background worker; a full queue drops the job with a warning
// rather than blocking the caller.
func (p *DetectionPipeline) Process(event ContentEvent) models.ScoringResult {
	if len([]rune(event.Text)) < p.minTextLength {
		return models.ScoringResult{RiskLevel: models.RiskLevelLow, MatchedPatterns: []string{}}
	}

	p.mu.Lock()
	state, ok := p.sources[event.SourceID]
	if !ok {
		state = &sourceState{}
		p.sources[event.SourceID] = state
	}
	if state.lastText == event.Text {
		p.mu.Unlock()
		return models.ScoringResult{RiskLevel: models.RiskLevelLow, MatchedPatterns: []string{}}
	}
	state.lastText = event.Text
	p.mu.Unlock()

	result := p.scorer.Score(event.Text)

	triggered := false
	p.mu.Lock()
	state.accumulated += result.Score
	if state.accumulated >= ai.TriggerThreshold {
		state.accumulated = 0
		triggered = true
	}
	p.mu.Unlock()

	if triggered {
		select {
		case p.jobs <- triggerJob{event: event, result: result}:
		default:
			p.logger.Warn().
				Str("source_id", event.SourceID).
				Msg("trigger queue full, dropping detection job")
		}
	}

	return result
}

// ResetSource clears accumulated state for a source, for use when the
// observed conversation window changes.
func (p *DetectionPipeline) ResetSource(sourceID string) {
	p.mu.Lock()
	delete(p.sources, sourceID)
	p.mu.Unlock()
}

// Run drains the trigger queue until ctx is cancelled.
func (p *DetectionPipeline) Run(ctx context.Context) {
	p.logger.Info().Msg("detection worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("detection worker stopped")
			return
		case job := <-p.jobs:
			if _, err := p.analyze(ctx, job.event, job.result); err != nil {
				p.logger.Error().Err(err).
					Str("source_id", job.event.SourceID).
					Msg("detection analysis failed")
			}
		}
	}
}

// Analyze runs the full detection path synchronously, bypassing the
// accumulator and trigger queue. Used by the API's analyze endpoint.
func (p *DetectionPipeline) Analyze(ctx context.Context, event ContentEvent) (*models.DetectionRecord, error) {
	return p.analyze(ctx, event, p.scorer.Score(event.Text))
}

func (p *DetectionPipeline) analyze(ctx context.Context, event ContentEvent, result models.ScoringResult) (*models.DetectionRecord, error) {
	evidence := ai.ExtractRelevantText(event.Text, result.MatchedPatterns, ai.DefaultContextChars)

	var classification *models.ScamClassification
	if p.classifier != nil {
		c, err := p.classifier.Classify(ctx, event.Text)
		if err != nil {
			if !errors.Is(err, ai.ErrUnavailable) {
				p.logger.Warn().Err(err).Msg("unexpected classifier error")
			}
		} else {
			classification = c
		}
	}

	// The aggregate contract only accepts low/medium/high chat tiers
	tier := result.RiskLevel
	if tier == models.RiskLevelCritical {
		tier = models.RiskLevelHigh
	}

	assessment, err := p.engine.Aggregate(AggregateInput{
		ChatRiskTier:     tier,
		LocationMismatch: event.LocationMismatch,
		TrustScore:       event.TrustScore,
		Classification:   classification,
		KeywordPatterns:  result.MatchedPatterns,
	})
	if err != nil {
		return nil, err
	}

	explanation := ai.FallbackRiskExplanation()
	if p.classifier != nil {
		e, err := p.classifier.Explain(ctx, ai.DetectionSummary{
			RiskLevel:        assessment.RiskLevel,
			AppLabel:         appLabelFor(event.SourceID),
			CounterpartyName: event.CounterpartyName,
			MatchedPatterns:  assessment.MatchedPatterns,
			EvidenceText:     evidence,
		})
		if err == nil {
			explanation = e
		}
	}

	record := models.DetectionRecord{
		ID:                uuid.New(),
		Timestamp:         time.Now().UTC(),
		SourceID:          event.SourceID,
		CounterpartyName:  event.CounterpartyName,
		Score:             assessment.Score,
		RiskLevel:         assessment.RiskLevel,
		MatchedPatterns:   assessment.MatchedPatterns,
		EvidenceText:      evidence,
		Reasoning:         explanation.Explanation,
		Signals:           assessment.Signals,
		FollowUpQuestions: explanation.Questions,
		Screenshot:        event.Screenshot,
	}
	p.store.Save(record)

	p.logger.Info().
		Str("source_id", event.SourceID).
		Int("score", record.Score).
		Str("risk_level", string(record.RiskLevel)).
		Msg("detection recorded")

	if p.notifier != nil {
		notification := Notification{
			Title:            notificationTitle(record.RiskLevel),
			Message:          record.RiskLevel.Description(),
			MatchedPatterns:  record.MatchedPatterns,
			CounterpartyName: event.CounterpartyName,
			AppLabel:         appLabelFor(event.SourceID),
		}
		if err := p.notifier.Notify(ctx, notification); err != nil {
			p.logger.Warn().Err(err).Msg("failed to deliver notification")
		}
	}

	return &record, nil
}

func notificationTitle(level models.RiskLevel) string {
	switch level {
	case models.RiskLevelCritical:
		return "CRITICAL: Scam Detected!"
	case models.RiskLevelHigh:
		return "HIGH RISK: Scam Warning"
	case models.RiskLevelMedium:
		return "WARNING: Suspicious Activity"
	default:
		return "CAUTION: Stay Alert"
	}
}

// knownMessengers maps source package IDs to display labels.
var knownMessengers = map[string]string{
	"jp.naver.line.android":  "LINE",
	"com.whatsapp":           "WhatsApp",
	"com.facebook.orca":      "Messenger",
	"org.telegram.messenger": "Telegram",
	"com.instagram.android":  "Instagram",
	"com.viber.voip":         "Viber",
}

func appLabelFor(sourceID string) string {
	if label, ok := knownMessengers[sourceID]; ok {
		return label
	}
	return sourceID
}
