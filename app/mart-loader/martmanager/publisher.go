package martmanager

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/martcast/martcast/business/data/mart"
	"github.com/martcast/martcast/foundation/database"
	"github.com/nats-io/nats.go"
)

// batchPublisher sends a resolved mart.Batch to its destinations
type batchPublisher interface {
	publish(batch *mart.Batch) error
}

// martBatchPublisher records batches to the database and sends them over NATS
type martBatchPublisher struct {
	log              *log.Logger
	db               *sqlx.DB
	natsConnection   *nats.Conn
	subject          string
	recordToDatabase bool
	publishOverNats  bool
}

// makeMartBatchPublisher creates martBatchPublisher
func makeMartBatchPublisher(log *log.Logger,
	db *sqlx.DB,
	natsConnection *nats.Conn,
	conf Conf) *martBatchPublisher {
	return &martBatchPublisher{
		log:              log,
		db:               db,
		natsConnection:   natsConnection,
		subject:          conf.Subject,
		recordToDatabase: conf.RecordToDatabase,
		publishOverNats:  conf.PublishOverNats && natsConnection != nil,
	}
}

// publish records the batch inside a single transaction and then sends it over NATS according to
// recordToDatabase and publishOverNats. Nothing is sent when recording fails.
func (m *martBatchPublisher) publish(batch *mart.Batch) error {
	if m.recordToDatabase {
		err := m.record(batch)
		if err != nil {
			return err
		}
	}
	if m.publishOverNats {
		return m.sendOverNats(batch)
	}
	return nil
}

func (m *martBatchPublisher) record(batch *mart.Batch) error {
	err := database.Transact(m.log, m.db, func(tx *sqlx.Tx) error {
		return mart.UpsertMarts(tx, batch.Marts)
	})
	if err != nil {
		return fmt.Errorf("failed to record batch %s with %d marts, error: %w", batch.RunId, len(batch.Marts), err)
	}
	m.log.Printf("Recorded %d marts in batch %s", len(batch.Marts), batch.RunId)
	return nil
}

func (m *martBatchPublisher) sendOverNats(batch *mart.Batch) error {
	jsonData, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch %s, error: %w", batch.RunId, err)
	}
	err = m.natsConnection.Publish(m.subject, jsonData)
	if err != nil {
		return fmt.Errorf("failed to send batch %s on %s, error: %w", batch.RunId, m.subject, err)
	}
	m.log.Printf("Sent batch %s on %s", batch.RunId, m.subject)
	return nil
}
