package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Stock       int                `json:"stock" bson:"stock"`
	CreatedAt   time.Time          `json:"createdAt,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}
