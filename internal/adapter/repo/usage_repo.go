package repo

import (
	"context"
	"fmt"
	"time"

	"studymate/internal/infra"
	"studymate/internal/learning"
	"studymate/internal/sqlinline"
)

// UsageCounterPG counts persisted records backing each daily quota.
type UsageCounterPG struct {
	sql infra.SQLExecutor
}

func NewUsageCounter(sql infra.SQLExecutor) *UsageCounterPG {
	return &UsageCounterPG{sql: sql}
}

var usageQueries = map[learning.QuotaKind]string{
	learning.QuotaNotes: sqlinline.QCountNotesSince,
	learning.QuotaChat:  sqlinline.QCountChatsSince,
	learning.QuotaTutor: sqlinline.QCountTutorMessagesSince,
}

func (c *UsageCounterPG) CountSince(ctx context.Context, userID string, kind learning.QuotaKind, since time.Time) (int, error) {
	q, ok := usageQueries[kind]
	if !ok {
		return 0, fmt.Errorf("no usage query for %q", kind)
	}
	var n int
	if err := c.sql.QueryRow(ctx, q, userID, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ learning.UsageCounter = (*UsageCounterPG)(nil)
