// Package task provides the asynchronous brochure generation pipeline: an
// in-memory registry tracking every submitted task's progress, the
// multi-stage generation task itself, and a worker-pool runner that executes
// tasks off the request path.
package task
