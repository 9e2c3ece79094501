// Package auth holds the credential and token primitives of the server:
// Hasher derives and checks PBKDF2 password hashes, Issuer signs HS256
// bearer tokens and Validator checks them on the way back in.
package auth
