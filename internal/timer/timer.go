package timer

import (
	"fmt"
	"time"
)

// Snapshot - мгновенное состояние обратного отсчета задачи.
// Ничего не хранится: все поля каждый раз выводятся заново из "сейчас".
type Snapshot struct {
	Remaining time.Duration
	Expired   bool
	Formatted string // "минуты:секунды", секунды с ведущим нулем
	Progress  float64
}

// Calculate считает остаток отведенного времени (в минутах) от момента создания.
// Чистая функция от трех аргументов, детерминирована по now.
func Calculate(allottedMinutes int, createdAt, now time.Time) Snapshot {
	total := time.Duration(allottedMinutes) * time.Minute
	remaining := total - now.Sub(createdAt)
	if remaining < 0 {
		remaining = 0
	}

	progress := 100.0
	if total > 0 {
		progress = float64(total-remaining) / float64(total) * 100
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return Snapshot{
		Remaining: remaining,
		Expired:   remaining == 0,
		Formatted: format(remaining),
		Progress:  progress,
	}
}

func format(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%d:%02d", ms/60000, (ms%60000)/1000)
}
