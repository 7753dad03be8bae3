package mapwise

import (
	"log"
	"time"
)

// LogRequest logs an API request being made.
func LogRequest(method, url string, params map[string]interface{}) {
	if len(params) > 0 {
		log.Printf("[mapwise] %s %s params=%v", method, url, params)
	} else {
		log.Printf("[mapwise] %s %s", method, url)
	}
}

// LogResponse logs an API response received.
func LogResponse(statusCode int, duration time.Duration, resultCount int) {
	log.Printf("[mapwise] response status=%d duration=%dms results=%d",
		statusCode, duration.Milliseconds(), resultCount)
}

// LogError logs an error from an API operation.
func LogError(operation string, err error) {
	log.Printf("[mapwise] %s error: %v", operation, err)
}
