package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/config"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"gorm.io/datatypes"
)

// Recorder records "entity touched" events. Implementations are
// fire-and-forget: Record never returns an error and must not fail the
// calling operation.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID uuid.UUID, action string, actorID *uuid.UUID, details interface{})
	Close() error
}

type recorder struct {
	repo   repository.AuditRepository
	writer *kafka.Writer
}

// NewRecorder creates an audit recorder backed by the audit_logs table.
// When Kafka is enabled the same events are also published to the audit
// topic for downstream consumers.
func NewRecorder(repo repository.AuditRepository, cfg config.KafkaConfig) Recorder {
	var writer *kafka.Writer
	if cfg.Enabled {
		writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		}
	}
	return &recorder{repo: repo, writer: writer}
}

func (r *recorder) Record(ctx context.Context, entityType string, entityID uuid.UUID, action string, actorID *uuid.UUID, details interface{}) {
	var payload datatypes.JSON
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			log.Warn().Err(err).
				Str("entity_type", entityType).
				Str("action", action).
				Msg("audit: failed to marshal details")
		} else {
			payload = datatypes.JSON(data)
		}
	}

	row := &entity.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		Details:    payload,
	}

	if err := r.repo.Create(ctx, row); err != nil {
		log.Warn().Err(err).
			Str("entity_type", entityType).
			Str("entity_id", entityID.String()).
			Str("action", action).
			Msg("audit: failed to persist event")
	}

	if r.writer != nil {
		r.publish(ctx, row)
	}
}

func (r *recorder) publish(ctx context.Context, row *entity.AuditLog) {
	value, err := json.Marshal(row)
	if err != nil {
		log.Warn().Err(err).Msg("audit: failed to marshal event for publishing")
		return
	}

	msg := kafka.Message{
		Key:   []byte(row.EntityType + ":" + row.EntityID.String()),
		Value: value,
		Time:  time.Now(),
	}

	if err := r.writer.WriteMessages(ctx, msg); err != nil {
		log.Warn().Err(err).
			Str("topic", r.writer.Topic).
			Msg("audit: failed to publish event")
	}
}

func (r *recorder) Close() error {
	if r.writer != nil {
		return r.writer.Close()
	}
	return nil
}

type nopRecorder struct{}

// NewNopRecorder returns a recorder that drops every event.
func NewNopRecorder() Recorder { return nopRecorder{} }

func (nopRecorder) Record(context.Context, string, uuid.UUID, string, *uuid.UUID, interface{}) {}
func (nopRecorder) Close() error                                                              { return nil }
