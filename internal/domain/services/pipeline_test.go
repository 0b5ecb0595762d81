package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcvoramet/SentinelAI/internal/config"
	"github.com/mcvoramet/SentinelAI/internal/domain/models"
	"github.com/mcvoramet/SentinelAI/internal/domain/services/ai"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

type fakeRecordStore struct {
	mu      sync.Mutex
	records []models.DetectionRecord
}

func (s *fakeRecordStore) Save(record models.DetectionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

func (s *fakeRecordStore) all() []models.DetectionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DetectionRecord, len(s.records))
	copy(out, s.records)
	return out
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []Notification
}

func (n *fakeNotifier) Notify(ctx context.Context, notification Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	return nil
}

func (n *fakeNotifier) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

// unavailableClassifier fails every call, like a dead upstream
type unavailableClassifier struct{}

func (unavailableClassifier) Classify(ctx context.Context, text string) (*models.ScamClassification, error) {
	return nil, ai.ErrUnavailable
}

func (unavailableClassifier) Explain(ctx context.Context, summary ai.DetectionSummary) (*models.RiskExplanation, error) {
	return nil, ai.ErrUnavailable
}

// stubClassifier returns fixed verdicts
type stubClassifier struct {
	classification *models.ScamClassification
	explanation    *models.RiskExplanation
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (*models.ScamClassification, error) {
	return s.classification, nil
}

func (s *stubClassifier) Explain(ctx context.Context, summary ai.DetectionSummary) (*models.RiskExplanation, error) {
	return s.explanation, nil
}

func newTestPipeline(t *testing.T, classifier Classifier, notifier Notifier) (*DetectionPipeline, *fakeRecordStore) {
	t.Helper()
	log := logger.NewNop()
	recordStore := &fakeRecordStore{}
	scorer := ai.NewKeywordScorer(ai.DefaultCatalog(), log)
	engine := NewRiskEngine(log)
	pipeline := NewDetectionPipeline(config.DetectionConfig{MinTextLength: 20, QueueSize: 8}, scorer, engine, classifier, recordStore, notifier, log)
	return pipeline, recordStore
}

func TestProcessSkipsShortText(t *testing.T) {
	pipeline, _ := newTestPipeline(t, unavailableClassifier{}, nil)

	result := pipeline.Process(ContentEvent{SourceID: "com.whatsapp", Text: "urgent"})

	assert.Equal(t, 0, result.Score)
	assert.Empty(t, pipeline.jobs)
}

func TestProcessSkipsDuplicateText(t *testing.T) {
	pipeline, _ := newTestPipeline(t, unavailableClassifier{}, nil)
	text := "urgent guaranteed profit please act today"

	first := pipeline.Process(ContentEvent{SourceID: "com.whatsapp", Text: text})
	second := pipeline.Process(ContentEvent{SourceID: "com.whatsapp", Text: text})

	assert.Equal(t, 5, first.Score)
	assert.Equal(t, 0, second.Score)
	assert.Len(t, pipeline.jobs, 1)
}

func TestProcessAccumulatesAcrossEvents(t *testing.T) {
	pipeline, _ := newTestPipeline(t, unavailableClassifier{}, nil)

	// Each event scores 2, below the trigger threshold on its own
	pipeline.Process(ContentEvent{SourceID: "com.whatsapp", Text: "urgent please call me back soon"})
	assert.Empty(t, pipeline.jobs)

	pipeline.Process(ContentEvent{SourceID: "com.whatsapp", Text: "this is about crypto trading today"})
	assert.Len(t, pipeline.jobs, 1)
}

func TestProcessTracksSourcesIndependently(t *testing.T) {
	pipeline, _ := newTestPipeline(t, unavailableClassifier{}, nil)

	pipeline.Process(ContentEvent{SourceID: "com.whatsapp", Text: "urgent please call me back soon"})
	pipeline.Process(ContentEvent{SourceID: "jp.naver.line.android", Text: "this is about crypto trading today"})

	assert.Empty(t, pipeline.jobs)
}

func TestResetSourceClearsAccumulator(t *testing.T) {
	pipeline, _ := newTestPipeline(t, unavailableClassifier{}, nil)

	pipeline.Process(ContentEvent{SourceID: "com.whatsapp", Text: "urgent please call me back soon"})
	pipeline.ResetSource("com.whatsapp")
	pipeline.Process(ContentEvent{SourceID: "com.whatsapp", Text: "this is about crypto trading today"})

	assert.Empty(t, pipeline.jobs)
}

func TestAnalyzeWithUnavailableClassifier(t *testing.T) {
	notifier := &fakeNotifier{}
	pipeline, recordStore := newTestPipeline(t, unavailableClassifier{}, notifier)

	record, err := pipeline.Analyze(context.Background(), ContentEvent{
		SourceID:         "jp.naver.line.android",
		Text:             "urgent guaranteed profit send me money don't tell anyone",
		CounterpartyName: "Anna",
		LocationMismatch: true,
		TrustScore:       10,
	})

	require.NoError(t, err)
	assert.Equal(t, 100, record.Score)
	assert.Equal(t, models.RiskLevelCritical, record.RiskLevel)
	assert.Equal(t, ai.FallbackExplanation, record.Reasoning)
	assert.Equal(t, ai.FallbackQuestions(), record.FollowUpQuestions)
	assert.NotEmpty(t, record.EvidenceText)
	assert.NotEqual(t, "", record.ID.String())

	records := recordStore.all()
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)

	notifications := notifier.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, "CRITICAL: Scam Detected!", notifications[0].Title)
	assert.Equal(t, "Anna", notifications[0].CounterpartyName)
	assert.Equal(t, "LINE", notifications[0].AppLabel)
}

func TestAnalyzeWithClassifierVerdict(t *testing.T) {
	classifier := &stubClassifier{
		classification: &models.ScamClassification{IsScam: true, Confidence: 95, Tactics: []string{"Romance manipulation"}},
		explanation:    &models.RiskExplanation{Explanation: "They are rushing you.", Questions: []string{"Why now?"}},
	}
	pipeline, recordStore := newTestPipeline(t, classifier, nil)

	record, err := pipeline.Analyze(context.Background(), ContentEvent{
		SourceID:   "com.whatsapp",
		Text:       "urgent guaranteed profit please act today",
		TrustScore: 80,
	})

	require.NoError(t, err)
	// medium chat tier (score 5) + confident scam verdict: 30 + 30
	assert.Equal(t, 60, record.Score)
	assert.Equal(t, models.RiskLevelHigh, record.RiskLevel)
	assert.Equal(t, []string{"Romance manipulation"}, record.MatchedPatterns)
	assert.Equal(t, "They are rushing you.", record.Reasoning)
	assert.Equal(t, []string{"Why now?"}, record.FollowUpQuestions)
	assert.Len(t, recordStore.all(), 1)
}

func TestWorkerDrainsTriggerQueue(t *testing.T) {
	notifier := &fakeNotifier{}
	pipeline, recordStore := newTestPipeline(t, unavailableClassifier{}, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pipeline.Run(ctx)

	pipeline.Process(ContentEvent{
		SourceID:   "com.whatsapp",
		Text:       "urgent guaranteed profit please act today",
		TrustScore: 50,
	})

	assert.Eventually(t, func() bool {
		return len(recordStore.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAppLabelFor(t *testing.T) {
	assert.Equal(t, "LINE", appLabelFor("jp.naver.line.android"))
	assert.Equal(t, "WhatsApp", appLabelFor("com.whatsapp"))
	assert.Equal(t, "com.example.unknown", appLabelFor("com.example.unknown"))
}
