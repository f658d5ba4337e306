/*
Package tracing provides lightweight request tracing.

Each HTTP request gets a span. Trace context is taken from the X-Trace-ID and
X-Span-ID request headers when a caller (the FloodSight web UI, a proxy)
supplies them, and written back on the response so clients can correlate
their logs with ours.

# Usage

	tracer := tracing.New("floodsight-api", logger.Logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

Completed spans are buffered (1000) and logged asynchronously through zap;
successful spans at debug level, failed ones at error level.
*/
package tracing
