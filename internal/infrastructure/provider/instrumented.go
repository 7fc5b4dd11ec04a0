package provider

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var providerTracer = otel.Tracer("fantasy-league-history/internal/infrastructure/provider")

// Instrumented records latency and outcome of every fetch.
type Instrumented struct {
	next    usecase.LeagueDataProvider
	source  string
	metrics *metrics.Manager
}

func NewInstrumented(next usecase.LeagueDataProvider, source string, m *metrics.Manager) *Instrumented {
	return &Instrumented{next: next, source: source, metrics: m}
}

func (i *Instrumented) FetchLeagueMetadata(ctx context.Context, leagueKey string) (usecase.LeagueMetadata, error) {
	ctx, span := startFetchSpan(ctx, "provider.FetchLeagueMetadata", i.source, leagueKey, 0)
	defer span.End()

	start := time.Now()
	meta, err := i.next.FetchLeagueMetadata(ctx, leagueKey)
	i.metrics.ObserveFetch(i.source, rawdata.EntityLeague, err, time.Since(start))
	recordSpanError(span, err)
	return meta, err
}

func (i *Instrumented) FetchWeekScoreboard(ctx context.Context, leagueKey string, week int) ([]byte, error) {
	ctx, span := startFetchSpan(ctx, "provider.FetchWeekScoreboard", i.source, leagueKey, week)
	defer span.End()

	start := time.Now()
	raw, err := i.next.FetchWeekScoreboard(ctx, leagueKey, week)
	i.metrics.ObserveFetch(i.source, rawdata.EntityScoreboard, err, time.Since(start))
	recordSpanError(span, err)
	return raw, err
}

func startFetchSpan(ctx context.Context, name, source, leagueKey string, week int) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	attrs := []attribute.KeyValue{
		attribute.String("provider.source", source),
		attribute.String("league.key", leagueKey),
	}
	if week > 0 {
		attrs = append(attrs, attribute.Int("league.week", week))
	}
	return providerTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
