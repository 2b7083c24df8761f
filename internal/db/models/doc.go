// Package models contains the gorm database model definitions of the
// access-control core: roles, role permissions, per-user grants, users and
// OAuth applications with their access tokens.
package models
