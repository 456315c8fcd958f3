// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// entity with ToDomain and FromDomain.
//
// Files:
// - base.go: shared columns (id, timestamps, soft delete)
// - partner.go: customers and leads
// - catalog.go: products and variants
// - trade.go: orders and order items
// - scheduling.go: appointments
// - identity.go: users
package models
