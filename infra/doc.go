// Package infra contains technical adapters such as result sink exporters
// and the structured logger implementation. These packages should depend
// only on the interfaces defined in the core packages.
package infra
