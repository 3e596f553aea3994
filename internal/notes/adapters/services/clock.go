package services

import "time"

// SystemClock реализует services.Clock поверх системного времени.
type SystemClock struct{}

// Now возвращает текущее системное время.
func (SystemClock) Now() time.Time {
	return time.Now()
}
