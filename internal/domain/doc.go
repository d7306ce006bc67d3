// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// Vocabulary content (Item) and a learner's progress on it (ReviewState) are
// separate entities: the catalog is shared, progress is keyed by user and item.
package domain
