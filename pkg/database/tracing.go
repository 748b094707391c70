package database

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	tracerName  = "github.com/d60-Lab/photoshare/pkg/database"
	spanInstKey = "photoshare:span"
)

// RegisterTracing 为每条 create/query/update/delete/row/raw 语句开一个 span
func RegisterTracing(db *gorm.DB) error {
	return registerTracing(db, otel.GetTracerProvider())
}

func registerTracing(db *gorm.DB, tp trace.TracerProvider) error {
	tracer := tp.Tracer(tracerName)
	cb := db.Callback()

	type hook struct {
		op     string
		before func(string) error
		after  func(string) error
	}
	hooks := []hook{
		{"create", func(n string) error { return cb.Create().Before("gorm:create").Register(n, startSpan(tracer, "create")) },
			func(n string) error { return cb.Create().After("gorm:create").Register(n, endSpan) }},
		{"query", func(n string) error { return cb.Query().Before("gorm:query").Register(n, startSpan(tracer, "query")) },
			func(n string) error { return cb.Query().After("gorm:query").Register(n, endSpan) }},
		{"update", func(n string) error { return cb.Update().Before("gorm:update").Register(n, startSpan(tracer, "update")) },
			func(n string) error { return cb.Update().After("gorm:update").Register(n, endSpan) }},
		{"delete", func(n string) error { return cb.Delete().Before("gorm:delete").Register(n, startSpan(tracer, "delete")) },
			func(n string) error { return cb.Delete().After("gorm:delete").Register(n, endSpan) }},
		{"row", func(n string) error { return cb.Row().Before("gorm:row").Register(n, startSpan(tracer, "row")) },
			func(n string) error { return cb.Row().After("gorm:row").Register(n, endSpan) }},
		{"raw", func(n string) error { return cb.Raw().Before("gorm:raw").Register(n, startSpan(tracer, "raw")) },
			func(n string) error { return cb.Raw().After("gorm:raw").Register(n, endSpan) }},
	}
	for _, h := range hooks {
		if err := h.before("tracing:before_" + h.op); err != nil {
			return fmt.Errorf("register tracing %s: %w", h.op, err)
		}
		if err := h.after("tracing:after_" + h.op); err != nil {
			return fmt.Errorf("register tracing %s: %w", h.op, err)
		}
	}
	return nil
}

func startSpan(tracer trace.Tracer, op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		_, span := tracer.Start(ctx, "gorm."+op,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attribute.String("db.system", db.Dialector.Name())),
		)
		db.InstanceSet(spanInstKey, span)
	}
}

func endSpan(db *gorm.DB) {
	v, ok := db.InstanceGet(spanInstKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	span.SetAttributes(
		attribute.String("db.sql.table", db.Statement.Table),
		attribute.Int64("db.rows_affected", db.RowsAffected),
	)
	if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
