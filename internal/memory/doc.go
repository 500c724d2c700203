// Package memory configures the Go soft memory limit for containerized
// deployments.
//
// Call ConfigureFromEnv early in startup, before the server accepts
// requests. In Kubernetes, expose the container limit with the Downward API:
//
//	env:
//	  - name: MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
//
// The default ratio is lower than a pure Go service would use because
// ffmpeg runs in the same container and needs its own headroom.
package memory
