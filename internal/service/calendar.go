package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/edulink-id/tutor-api/internal/models"
)

// GenerateSessions materialises a contract's weekly recurrence pattern into
// concrete session rows. Dates are walked from startDate to endDate
// inclusive; a session is emitted for every date whose weekday bit is set
// in mask, carrying the contract's fixed time window and online flag, until
// targetCount sessions exist. When the range runs out first the result is
// short; callers persist whatever was produced.
//
// A non-positive targetCount or an empty mask yields an empty slice. The
// function is pure apart from ID generation and never touches storage.
func GenerateSessions(contractID string, startDate, endDate time.Time, mask models.WeekdayMask, startTime, endTime string, isOnline bool, targetCount int) []models.Session {
	if targetCount <= 0 || mask.IsZero() {
		return []models.Session{}
	}

	sessions := make([]models.Session, 0, targetCount)
	start := truncateToDay(startDate)
	end := truncateToDay(endDate)
	for day := start; !day.After(end) && len(sessions) < targetCount; day = day.AddDate(0, 0, 1) {
		if !mask.Contains(day.Weekday()) {
			continue
		}
		sessions = append(sessions, models.Session{
			ID:         uuid.NewString(),
			ContractID: contractID,
			Date:       day,
			StartTime:  startTime,
			EndTime:    endTime,
			IsOnline:   isOnline,
			Status:     models.SessionStatusScheduled,
		})
	}
	return sessions
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
