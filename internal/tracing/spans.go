package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	AttrUserID    = "enduser.id"
	AttrOrgID     = "zitadel.org.id"
	AttrProjectID = "zitadel.project.id"
	AttrResults   = "zitadel.results"
)

const (
	SpanCurrentUser  = "directory.current_user"
	SpanSearchUsers  = "directory.search_users"
	SpanFindByEmail  = "directory.find_user_by_email"
	SpanProjectRoles = "directory.project_roles"
	SpanHealthCheck  = "directory.health_check"
)

// StartSpan starts a span, or returns the context's span when tracer is nil.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// End records err, if any, sets the status and ends the span.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func UserAttr(id string) attribute.KeyValue {
	return attribute.String(AttrUserID, id)
}

func ProjectAttr(id string) attribute.KeyValue {
	return attribute.String(AttrProjectID, id)
}

func ResultsAttr(n int) attribute.KeyValue {
	return attribute.Int(AttrResults, n)
}
