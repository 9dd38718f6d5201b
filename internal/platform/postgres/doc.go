// Package postgres implements the store interfaces against PostgreSQL.
package postgres
