package jsonl

import (
	"errors"
	"fmt"
	"time"

	"github.com/bnema/cashier-cli/internal/domain"
)

// record is one history line. Retained is not stored: everything written
// was retained.
type record struct {
	Version       int          `json:"v"`
	ID            string       `json:"id"`
	Timestamp     string       `json:"ts"`
	Completed     bool         `json:"completed"`
	Counterparty  string       `json:"counterparty"`
	GilGiven      uint32       `json:"gil_given"`
	GilReceived   uint32       `json:"gil_received"`
	ItemsGiven    []itemRecord `json:"items_given"`
	ItemsReceived []itemRecord `json:"items_received"`
}

type itemRecord struct {
	ItemID      uint32 `json:"item_id"`
	IconID      uint32 `json:"icon_id,omitempty"`
	Name        string `json:"name"`
	Quantity    uint32 `json:"qty"`
	HighQuality bool   `json:"hq,omitempty"`
}

func toRecord(entry domain.HistoryEntry) record {
	return record{
		Version:       recordVersion,
		ID:            entry.ID,
		Timestamp:     entry.Timestamp.Format(timestampLayout),
		Completed:     entry.Completed,
		Counterparty:  entry.Counterparty,
		GilGiven:      entry.GilGiven,
		GilReceived:   entry.GilReceived,
		ItemsGiven:    toItemRecords(entry.ItemsGiven),
		ItemsReceived: toItemRecords(entry.ItemsReceived),
	}
}

func fromRecord(rec record) (domain.HistoryEntry, error) {
	if rec.ID == "" {
		return domain.HistoryEntry{}, errors.New("history record has no id")
	}

	ts, err := time.Parse(timestampLayout, rec.Timestamp)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("parse history timestamp: %w", err)
	}

	return domain.HistoryEntry{
		ID:            rec.ID,
		Timestamp:     ts,
		Completed:     rec.Completed,
		Counterparty:  rec.Counterparty,
		GilGiven:      rec.GilGiven,
		GilReceived:   rec.GilReceived,
		ItemsGiven:    fromItemRecords(rec.ItemsGiven),
		ItemsReceived: fromItemRecords(rec.ItemsReceived),
		Retained:      true,
	}, nil
}

func toItemRecords(items []domain.ItemRecord) []itemRecord {
	out := make([]itemRecord, 0, len(items))
	for _, item := range items {
		out = append(out, itemRecord{
			ItemID:      item.ItemID,
			IconID:      item.IconID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			HighQuality: item.HighQuality,
		})
	}
	return out
}

func fromItemRecords(items []itemRecord) []domain.ItemRecord {
	out := make([]domain.ItemRecord, 0, len(items))
	for _, item := range items {
		out = append(out, domain.ItemRecord{
			ItemID:      item.ItemID,
			IconID:      item.IconID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			HighQuality: item.HighQuality,
		})
	}
	return out
}
