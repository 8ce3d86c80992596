package utils

import (
	"log"
	"time"
)

func TimeNowIST() time.Time {
	return time.Now().In(ISTLocation())
}

func ISTLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}
