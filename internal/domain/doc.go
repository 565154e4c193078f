// Package domain contains the core domain model for co2fit.
//
// The domain is storage- and engine-agnostic: it does not depend on YAML parsing,
// gonum, or the filesystem. Infra/adapters map into/from these types.
package domain
