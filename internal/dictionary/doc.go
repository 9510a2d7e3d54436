// Package dictionary defines the lookup port used to resolve selections and
// the adapters that implement it: the Youdao open API, an HTTP translation
// proxy and a circuit breaker wrapper.
package dictionary
