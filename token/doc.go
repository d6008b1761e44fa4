// Package token decodes AMS access tokens without verifying their
// signature. The client never holds signing keys; it only needs the
// payload for display and authorization, so every decode here is an
// unverified parse and every failure is treated as "no usable token."
package token
