// Package store defines the persistence interfaces used by the service
// layer and the generation pipeline, together with the common error
// vocabulary shared by all store implementations.
package store
