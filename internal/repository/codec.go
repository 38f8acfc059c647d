package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

// Флаги хранятся односимвольными кодами, наружу отдаём bool.
const (
	flagYes      = "Y"
	flagNo       = "N"
	flagActive   = "A"
	flagInactive = "I"

	uniqueViolation = "23505"
)

func encodeYN(v bool) string {
	if v {
		return flagYes
	}
	return flagNo
}

func decodeYN(s string) bool {
	return s == flagYes
}

func encodeActive(v bool) string {
	if v {
		return flagActive
	}
	return flagInactive
}

func decodeActive(s string) bool {
	return s == flagActive
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

func nullableInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func nullableString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
