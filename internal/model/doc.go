// Package model defines the quadratic CO2 trend model
//
//	y ~ Normal(a*(x-x0) + b + c*(x-x0)^2, noise)
//
// with independent normal priors on a, b and c. It provides the prior and
// posterior log densities consumed by the sampler and the exact Gaussian
// posterior of this linear-Gaussian model, used to shape the sampler's
// proposal and as a cross-check of the sampled summaries.
package model
