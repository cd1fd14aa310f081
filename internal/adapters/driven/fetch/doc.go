// Package fetch downloads externally hosted model documents.
//
// HTTPFetcher implements driven.ModelFetcher. Requests are throttled with a
// token bucket and back off when a host answers 429. GitHub blob pages
// (https://github.com/<owner>/<repo>/blob/<ref>/<path>) are read through the
// contents API, authenticated when a token is configured. file:// uris are
// read from the local filesystem instead.
package fetch
