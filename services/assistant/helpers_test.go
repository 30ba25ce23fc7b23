package assistant

import (
	"context"
	"sync"

	"waly/models"
	"waly/services/intelligence"
)

// recordingBus captures published events in order.
type recordingBus struct {
	mu     sync.Mutex
	events []models.ActionEvent
}

func (b *recordingBus) Publish(event models.ActionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) kinds() []models.ActionEventKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.ActionEventKind, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Kind)
	}
	return out
}

func (b *recordingBus) ofKind(kind models.ActionEventKind) []models.ActionEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.ActionEvent
	for _, e := range b.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// stubClient answers every completion with a fixed reply or error.
type stubClient struct {
	mu    sync.Mutex
	reply string
	err   error
	panic bool
	calls []intelligence.CompletionRequest
}

func (c *stubClient) Name() string { return "stub" }

func (c *stubClient) Complete(_ context.Context, req intelligence.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	c.mu.Unlock()
	if c.panic {
		panic("boom")
	}
	return c.reply, c.err
}

func (c *stubClient) lastRequest() intelligence.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[len(c.calls)-1]
}

// staticProvider serves canned ESG data.
type staticProvider struct {
	records    []models.ESGRecord
	emissions  []models.CarbonEmission
	benchmarks []models.Benchmark
	frameworks []models.ComplianceFramework
	err        error
	calls      int
}

func (p *staticProvider) GetAllESGData(context.Context, string) ([]models.ESGRecord, error) {
	p.calls++
	return p.records, p.err
}

func (p *staticProvider) GetCarbonEmissions(context.Context, string) ([]models.CarbonEmission, error) {
	p.calls++
	return p.emissions, p.err
}

func (p *staticProvider) CalculateCarbonFootprint(emissions []models.CarbonEmission) models.CarbonFootprint {
	var fp models.CarbonFootprint
	for _, e := range emissions {
		fp.TotalTonnes += e.TonnesCO2e
	}
	fp.EntryCount = len(emissions)
	return fp
}

func (p *staticProvider) GetComplianceFrameworks(context.Context) ([]models.ComplianceFramework, error) {
	p.calls++
	return p.frameworks, p.err
}

func (p *staticProvider) FetchBenchmarks(context.Context) ([]models.Benchmark, error) {
	p.calls++
	return p.benchmarks, p.err
}

// blockingClient holds every completion until released or the context ends.
type blockingClient struct {
	started chan struct{}
	release chan struct{}
	reply   string
}

func newBlockingClient(reply string) *blockingClient {
	return &blockingClient{started: make(chan struct{}, 8), release: make(chan struct{}), reply: reply}
}

func (c *blockingClient) Name() string { return "blocking" }

func (c *blockingClient) Complete(ctx context.Context, _ intelligence.CompletionRequest) (string, error) {
	c.started <- struct{}{}
	select {
	case <-c.release:
		return c.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
