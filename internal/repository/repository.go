package repository

import (
	"context"
	"strings"

	"theatre-forms/internal/models"
)

// Delimiter separates fields in a serialized record. It is not escaped inside
// field values.
const Delimiter = " | "

// RecordLog is an append-only store of accepted submissions. Implementations
// must make each Append land as one intact record even with concurrent callers.
type RecordLog interface {
	Append(ctx context.Context, record models.Record) error
}

// SubscriberRepository stores newsletter addresses with case-insensitive identity.
type SubscriberRepository interface {
	Exists(ctx context.Context, email string) (bool, error)
	// InsertIfAbsent stores the address or returns models.ErrAlreadySubscribed.
	InsertIfAbsent(ctx context.Context, email string) error
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// FormatLine serializes a record as a single newline-terminated line.
func FormatLine(record models.Record) string {
	fields := record.LogFields()
	flat := make([]string, len(fields))
	for i, f := range fields {
		flat[i] = lineBreaks.Replace(f)
	}
	return strings.Join(flat, Delimiter) + "\n"
}
