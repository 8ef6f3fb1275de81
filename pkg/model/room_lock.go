package model

import "time"

// RoomLock is an advisory lock serializing booking admission for one room on
// one calendar day. Its _id doubles as the lock key, so a duplicate-key
// insert failure is the "already held" signal.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
