// Package otp issues and verifies short lived one-time codes.
//
// A code is derived with TOTP from a fresh random secret, stored under a
// caller chosen key with a TTL and delivered by SMS. Verification is a
// single compare-and-delete in the store: a matching code is consumed, a
// wrong guess leaves the code usable and a missing code reports Expired.
// Deleting the code after a number of wrong guesses is opt-in.
package otp
