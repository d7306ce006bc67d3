// Package service contains the application use cases around the shared
// vocabulary catalog and per-user preferences. Review scheduling lives in
// the review subpackage.
//
// Services receive store interfaces through constructor injection and apply
// transactional boundaries when an operation spans several stores. Expected
// failures are reported as sentinel errors; unexpected ones are wrapped in
// *ServiceError so the API layer can tell them apart with errors.Is/errors.As.
package service
