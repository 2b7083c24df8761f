// Package main provides the entry point of the tourmarket access-control
// service. It serves role and permission management, password and one-time
// code logins and bearer token issuance through a JSON API built on Fiber,
// with gorm for persistence and redis for one-time codes.
package main
