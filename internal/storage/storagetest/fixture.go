package storagetest

import "time"

func timeFixture() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
}
