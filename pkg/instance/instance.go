package instance

import "os"

// GetID identifies this worker process in logs. FLASHNACKS_WORKER_ID
// wins when set; otherwise the hostname serves, which is the pod name
// under kubernetes.
func GetID() string {
	if id := os.Getenv("FLASHNACKS_WORKER_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "flashnacks-worker-0"
}
