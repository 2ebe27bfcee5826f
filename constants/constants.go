package constants

import "os"

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

// Defaults a transport falls back to when it reports no bar/beat info,
// same as an unconfigured timebase master (4/4 at 120 bpm).
const (
	DefaultBeatsPerBar    = 4
	DefaultBeatsPerMinute = 120.0
	DefaultFrameRate      = 48000
	DefaultBufferSize     = 1024
)

// SessionsTable is the DynamoDB table session reports go to.
const SessionsTable = "beatframe-sessions"
