package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin is a separate entity kind from Customer. The two realms share no
// supertype and their tokens are never interchangeable.
type Admin struct {
	ID       primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Password string             `json:"-" bson:"password"`
}
