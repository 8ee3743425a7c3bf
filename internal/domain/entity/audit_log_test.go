package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewAuditLog(t *testing.T) {
	entityID := uuid.New()
	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oldVal := StatusValue("pending")
	newVal := StatusValue("processing")

	log := NewAuditLog(entityID, EntityTypeTransaction, ActionStatusUpdate, &oldVal, &newVal, "ops@example.com", timestamp)

	assert.Equal(t, entityID, log.EntityID)
	assert.Equal(t, EntityTypeTransaction, log.EntityType)
	assert.Equal(t, ActionStatusUpdate, log.Action)
	assert.Equal(t, "ops@example.com", log.Actor)
	assert.Equal(t, timestamp, log.Timestamp)
	assert.True(t, log.OldVal.Equal(oldVal))
	assert.True(t, log.NewVal.Equal(newVal))
}

func TestNewAuditLogDefaultsActor(t *testing.T) {
	log := NewAuditLog(uuid.New(), EntityTypeTransaction, ActionCreated, nil, nil, "", time.Now())
	assert.Equal(t, ActorSystem, log.Actor)
}

func TestNewAuditLogCreationShape(t *testing.T) {
	snapshot := ObjectValue(map[string]Value{"status": StringValue("pending")})
	log := NewAuditLog(uuid.New(), EntityTypeTransaction, ActionCreated, nil, &snapshot, ActorSystem, time.Now())

	assert.Nil(t, log.OldVal)
	assert.NotNil(t, log.NewVal)
}
