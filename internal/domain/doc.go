// Package domain holds the core types of the blood-donation service:
// blood types, donors, hospitals, blood requests, users, and the repository
// ports the adapters implement. It has no transport or storage dependencies.
package domain
