// Package stream carries approved transactions from the hot path to the cold path.
package stream

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"fraudguard/internal/models"
	"fraudguard/internal/validation"

	"github.com/segmentio/kafka-go"
)

// Record is one stream entry as seen by the cold path. Data is the base64
// encoding of the transaction's JSON document.
type Record struct {
	PartitionKey   string `json:"partitionKey"`
	SequenceNumber string `json:"sequenceNumber"`
	Data           string `json:"data"`
}

// EncodeRecord builds the record the publisher writes for tx.
func EncodeRecord(tx *models.Transaction) (Record, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return Record{}, fmt.Errorf("encode transaction: %w", err)
	}
	return Record{
		PartitionKey: tx.NameOrig,
		Data:         base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// Decode reverses EncodeRecord and re-validates the document.
func (r Record) Decode() (*models.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		return nil, fmt.Errorf("record %s: invalid base64: %w", r.SequenceNumber, err)
	}
	tx, err := validation.ParseTransaction(raw)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.SequenceNumber, err)
	}
	return tx, nil
}

// FromMessage adapts a Kafka message. The sequence number is "partition-offset".
func FromMessage(msg kafka.Message) Record {
	return Record{
		PartitionKey:   string(msg.Key),
		SequenceNumber: strconv.Itoa(msg.Partition) + "-" + strconv.FormatInt(msg.Offset, 10),
		Data:           string(msg.Value),
	}
}
