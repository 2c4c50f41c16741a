// Package services implements the driving ports: indexing runs,
// embedding backfill, hybrid search and settings management. Services
// hold the business rules and talk to the platform, the store and the
// embedding provider only through driven ports.
package services
