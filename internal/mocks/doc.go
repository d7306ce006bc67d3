// Package mocks provides test doubles for the store interfaces and services,
// shared by service and API tests.
package mocks
