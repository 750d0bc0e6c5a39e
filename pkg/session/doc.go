/*
Package session implements session management and persistence orchestration.

The Manager serializes work on one user's session (a double-clicked button
must see the already-advanced step) while leaving different users fully
independent. An optional distributed locker extends that guarantee across
replicas sharing a Redis store.
*/
package session
